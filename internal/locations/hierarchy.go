package locations

import "toolmove/pkg/models"

// buildHierarchy nests stations under lines and lines under departments.
// Rows whose parent is missing are dropped.
func buildHierarchy(departments []models.Department, lines []models.Line, stations []models.Station) []models.Department {
	stationsByLine := make(map[string][]models.Station)
	for _, station := range stations {
		stationsByLine[station.LineID] = append(stationsByLine[station.LineID], station)
	}

	linesByDepartment := make(map[string][]models.Line)
	for _, line := range lines {
		line.Stations = stationsByLine[line.ID]
		if line.Stations == nil {
			line.Stations = []models.Station{}
		}
		linesByDepartment[line.DepartmentID] = append(linesByDepartment[line.DepartmentID], line)
	}

	result := make([]models.Department, 0, len(departments))
	for _, department := range departments {
		department.Lines = linesByDepartment[department.ID]
		if department.Lines == nil {
			department.Lines = []models.Line{}
		}
		result = append(result, department)
	}

	return result
}
