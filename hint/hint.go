/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package hint

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/xelabs/go-mysqlstack/sqlparser/depends/sqltypes"
)

// ErrHintValueMissing is returned when a HINT strategy finds no value for its table.
var ErrHintValueMissing = errors.New("hint.value.missing")

// Values holds the request scoped hint values, keyed by logical table name.
// The router only reads it.
type Values struct {
	databaseValues map[string][]sqltypes.Value
	tableValues    map[string][]sqltypes.Value
}

// NewValues creates the empty values.
func NewValues() *Values {
	return &Values{
		databaseValues: make(map[string][]sqltypes.Value),
		tableValues:    make(map[string][]sqltypes.Value),
	}
}

// AddDatabaseValue appends a database sharding value of the table.
func (v *Values) AddDatabaseValue(table string, value sqltypes.Value) *Values {
	key := strings.ToLower(table)
	v.databaseValues[key] = append(v.databaseValues[key], value)
	return v
}

// AddTableValue appends a table sharding value of the table.
func (v *Values) AddTableValue(table string, value sqltypes.Value) *Values {
	key := strings.ToLower(table)
	v.tableValues[key] = append(v.tableValues[key], value)
	return v
}

// DatabaseValues returns the database sharding values of the table.
func (v *Values) DatabaseValues(table string) ([]sqltypes.Value, error) {
	return lookup(v, table, func(v *Values) map[string][]sqltypes.Value { return v.databaseValues })
}

// TableValues returns the table sharding values of the table.
func (v *Values) TableValues(table string) ([]sqltypes.Value, error) {
	return lookup(v, table, func(v *Values) map[string][]sqltypes.Value { return v.tableValues })
}

func lookup(v *Values, table string, pick func(*Values) map[string][]sqltypes.Value) ([]sqltypes.Value, error) {
	if v != nil {
		if vals := pick(v)[strings.ToLower(table)]; len(vals) > 0 {
			return vals, nil
		}
	}
	return nil, errors.Wrapf(ErrHintValueMissing, "table[%s]", table)
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying the values.
func NewContext(ctx context.Context, v *Values) context.Context {
	return context.WithValue(ctx, contextKey{}, v)
}

// FromContext returns the values carried by ctx, nil if none.
func FromContext(ctx context.Context) *Values {
	v, _ := ctx.Value(contextKey{}).(*Values)
	return v
}
