package activity

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrValidation = errors.New("invalid activity query")

type SortKey string

const (
	SortByDate        SortKey = "date"
	SortByDepartment  SortKey = "department"
	SortByType        SortKey = "type"
	SortByLine        SortKey = "line"
	SortByDescription SortKey = "description"
)

const allValues = "all"

type Query struct {
	Type       string `form:"type"`
	Department string `form:"department"`
	Line       string `form:"line"`
	Sort       string `form:"sort"`
	Order      string `form:"order"`
}

// Refinement is the validated form of Query. Empty name filters match everything.
type Refinement struct {
	Type       ItemType
	Department string
	Line       string
	Sort       SortKey
	Descending bool
}

func ParseQuery(q Query) (Refinement, error) {
	r := Refinement{Sort: SortByDate, Descending: true}

	switch q.Type {
	case "", allValues:
	case string(ToolMoveItem), string(WeldTouchupItem):
		r.Type = ItemType(q.Type)
	default:
		return r, fmt.Errorf("%w: unknown type %q", ErrValidation, q.Type)
	}

	switch SortKey(q.Sort) {
	case "":
	case SortByDate, SortByDepartment, SortByType, SortByLine, SortByDescription:
		r.Sort = SortKey(q.Sort)
	default:
		return r, fmt.Errorf("%w: unknown sort key %q", ErrValidation, q.Sort)
	}

	switch q.Order {
	case "", "desc":
	case "asc":
		r.Descending = false
	default:
		return r, fmt.Errorf("%w: order must be asc or desc", ErrValidation)
	}

	if q.Department != allValues {
		r.Department = q.Department
	}
	if q.Line != allValues {
		r.Line = q.Line
	}

	return r, nil
}

// Apply filters items and returns them stably sorted. The input slice is not modified.
func (r Refinement) Apply(items []Item) []Item {
	refined := make([]Item, 0, len(items))
	for _, item := range items {
		if r.matches(item) {
			refined = append(refined, item)
		}
	}

	slices.SortStableFunc(refined, r.compare)
	return refined
}

func (r Refinement) matches(item Item) bool {
	if r.Type != "" && item.Type != r.Type {
		return false
	}
	if r.Department != "" && !equalName(item.DepartmentName, r.Department) {
		return false
	}
	if r.Line != "" && !equalName(item.LineName, r.Line) {
		return false
	}
	return true
}

func equalName(name *string, want string) bool {
	return name != nil && *name == want
}

// compare orders missing values after present ones regardless of direction.
func (r Refinement) compare(a, b Item) int {
	switch r.Sort {
	case SortByDepartment:
		return compareNullable(a.DepartmentName, b.DepartmentName, r.Descending)
	case SortByLine:
		return compareNullable(a.LineName, b.LineName, r.Descending)
	case SortByType:
		return direct(strings.Compare(string(a.Type), string(b.Type)), r.Descending)
	case SortByDescription:
		return direct(compareFold(a.Description, b.Description), r.Descending)
	default:
		return direct(a.Date.Compare(b.Date), r.Descending)
	}
}

func compareNullable(a, b *string, descending bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return direct(compareFold(*a, *b), descending)
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func direct(c int, descending bool) int {
	if descending {
		return -c
	}
	return c
}
