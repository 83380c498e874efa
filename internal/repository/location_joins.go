package repository

import "github.com/doug-martin/goqu/v9"

// LocationNameColumns selects the resolved department, line and station names
// joined by WithLocationNames.
func LocationNameColumns() []interface{} {
	return []interface{}{
		goqu.I("d.name").As("department_name"),
		goqu.I("l.name").As("line_name"),
		goqu.I("s.name").As("station_name"),
	}
}

// WithLocationNames left joins the location tables onto the record aliased as alias.
// A dangling id yields NULL names instead of dropping the row.
func WithLocationNames(ds *goqu.SelectDataset, alias string) *goqu.SelectDataset {
	return ds.
		LeftJoin(goqu.T("departments").As("d"), goqu.On(goqu.I("d.id").Eq(goqu.I(alias+".department_id")))).
		LeftJoin(goqu.T("lines").As("l"), goqu.On(goqu.I("l.id").Eq(goqu.I(alias+".line_id")))).
		LeftJoin(goqu.T("stations").As("s"), goqu.On(goqu.I("s.id").Eq(goqu.I(alias+".station_id"))))
}
