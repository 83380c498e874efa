package repository

import "github.com/doug-martin/goqu/v9"

// QueryBuilder collects equality filters keyed by logical field names.
type QueryBuilder interface {
	AddCondition(key string, value interface{})
	BuildConditions(aliases map[string]string) goqu.Ex
}
