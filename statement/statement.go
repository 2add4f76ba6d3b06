/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package statement

import (
	"github.com/shardroute/shardroute/xbase"

	"github.com/xelabs/go-mysqlstack/sqlparser"
	"github.com/xelabs/go-mysqlstack/sqlparser/depends/sqltypes"
)

// Category of a statement.
type Category int

const (
	// DML data manipulation: select, insert, update, delete.
	DML Category = iota
	// DDL data definition.
	DDL
	// DAL data administration: show, use, set, explain.
	DAL
	// DCL data control: grant, revoke.
	DCL
	// TCL transaction control: begin, commit, rollback.
	TCL
)

var categoryNames = map[Category]string{
	DML: "DML",
	DDL: "DDL",
	DAL: "DAL",
	DCL: "DCL",
	TCL: "TCL",
}

func (c Category) String() string {
	return categoryNames[c]
}

// Kind is the statement kind inside its category.
type Kind string

// Statement kinds.
const (
	KindSelect   Kind = "select"
	KindInsert   Kind = "insert"
	KindReplace  Kind = "replace"
	KindUpdate   Kind = "update"
	KindDelete   Kind = "delete"
	KindDDL      Kind = "ddl"
	KindShow     Kind = "show"
	KindUse      Kind = "use"
	KindSet      Kind = "set"
	KindExplain  Kind = "explain"
	KindChecksum Kind = "checksum"
	KindKill     Kind = "kill"
	KindTxn      Kind = "transaction"
	KindGrant    Kind = "grant"
	KindRevoke   Kind = "revoke"
)

// Table is a table reference.
type Table struct {
	Name     string
	Alias    string
	Database string
}

// Scope is one query block: the tables of its FROM clause and its WHERE expression.
type Scope struct {
	Tables []Table
	Where  sqlparser.Expr
	// Subquery is true for every block but the outermost.
	Subquery bool
}

// Column is a resolved column reference.
type Column struct {
	Table  string
	Column string
}

// JoinCondition is a 'a.x = b.y' equality between columns of two different tables.
type JoinCondition struct {
	Left  Column
	Right Column
}

// Insert holds the insert specific parts.
type Insert struct {
	Table   string
	Columns []string
	// Rows is nil for INSERT ... SELECT.
	Rows []sqlparser.ValTuple
	// Select is the source of INSERT ... SELECT.
	Select bool
}

// Statement is the bound statement context consumed by the router.
// It is read only once bound.
type Statement struct {
	Category Category
	Kind     Kind
	Node     sqlparser.Statement
	Database string
	Params   []sqltypes.Value

	// Tables are the distinct logical tables, in appearance order.
	Tables []string
	// Scopes[0] is the outermost query block.
	Scopes []*Scope
	Joins  []JoinCondition
	Insert *Insert

	// HasSubquery is true if any nested query block exists.
	HasSubquery bool
	// SubqueryTables are the distinct tables referenced inside subqueries.
	SubqueryTables []string

	// ShowType is the sqlparser show type, such as 'tables'.
	ShowType string
	// Wildcard is true for DCL on '*' or 'db.*'.
	Wildcard bool
}

// IsSelect returns true for SELECT and UNION statements.
func (s *Statement) IsSelect() bool {
	return s.Kind == KindSelect
}

// IsDatabaseListing returns true for 'SHOW DATABASES'.
func (s *Statement) IsDatabaseListing() bool {
	return s.Kind == KindShow && s.ShowType == sqlparser.ShowDatabasesStr
}

func (s *Statement) addTable(name string) {
	if !xbase.ContainsString(s.Tables, name) {
		s.Tables = append(s.Tables, name)
	}
}

func (s *Statement) addSubqueryTable(name string) {
	if !xbase.ContainsString(s.SubqueryTables, name) {
		s.SubqueryTables = append(s.SubqueryTables, name)
	}
}
