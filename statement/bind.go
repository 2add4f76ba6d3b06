/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package statement

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/xelabs/go-mysqlstack/sqlparser"
	"github.com/xelabs/go-mysqlstack/sqlparser/depends/sqltypes"
)

// GRANT/REVOKE are not understood by the parser.
var dclPattern = regexp.MustCompile(`(?is)^\s*(grant|revoke)\s+.*?\s+on\s+(?:table\s+)?(\S+)\s+(?:to|from)\s+`)

// Parse parses the query and binds it.
func Parse(database string, query string, params []sqltypes.Value) (*Statement, error) {
	if m := dclPattern.FindStringSubmatch(query); m != nil {
		kind := KindGrant
		if strings.EqualFold(m[1], "revoke") {
			kind = KindRevoke
		}
		return NewDCL(kind, database, strings.Trim(m[2], "`")), nil
	}
	node, err := sqlparser.Parse(query)
	if err != nil {
		return nil, err
	}
	return Bind(database, node, params)
}

// ParseParams converts the textual parameters, integers become INT64 and everything else VARCHAR.
func ParseParams(args []string) []sqltypes.Value {
	params := make([]sqltypes.Value, 0, len(args))
	for _, arg := range args {
		if v, err := sqltypes.NewIntegral(arg); err == nil {
			params = append(params, v)
			continue
		}
		params = append(params, sqltypes.NewVarChar(arg))
	}
	return params
}

// NewDCL creates a DCL statement on the privilege object, such as 't1', 'db.t1', 'db.*' or '*.*'.
func NewDCL(kind Kind, database string, object string) *Statement {
	stmt := &Statement{Category: DCL, Kind: kind, Database: database}
	name := object
	if idx := strings.LastIndex(object, "."); idx >= 0 {
		stmt.Database = strings.Trim(object[:idx], "`")
		name = object[idx+1:]
	}
	name = strings.Trim(name, "`")
	if name == "*" || name == "" {
		stmt.Wildcard = true
	} else {
		stmt.Tables = []string{name}
	}
	return stmt
}

// Bind builds the statement context of the parsed node.
// Params resolve the '?' placeholders, which the parser names ':v1', ':v2', ...
func Bind(database string, node sqlparser.Statement, params []sqltypes.Value) (*Statement, error) {
	stmt := &Statement{Node: node, Database: database, Params: params}
	b := &binder{stmt: stmt}

	switch node := node.(type) {
	case *sqlparser.Select, *sqlparser.Union, *sqlparser.ParenSelect:
		stmt.Category, stmt.Kind = DML, KindSelect
		b.selectStatement(node.(sqlparser.SelectStatement), false)
	case *sqlparser.Insert:
		stmt.Category, stmt.Kind = DML, KindInsert
		if node.Action == sqlparser.ReplaceStr {
			stmt.Kind = KindReplace
		}
		b.insert(node)
	case *sqlparser.Update:
		stmt.Category, stmt.Kind = DML, KindUpdate
		scope := b.newScope(false)
		b.addTable(scope, node.Table, "")
		if node.Where != nil {
			scope.Where = node.Where.Expr
		}
		b.joins(scope, scope.Where)
		b.subqueries(node.Exprs, node.Where)
	case *sqlparser.Delete:
		stmt.Category, stmt.Kind = DML, KindDelete
		scope := b.newScope(false)
		b.tableExprs(scope, node.TableRefs)
		if node.Where != nil {
			scope.Where = node.Where.Expr
		}
		b.joins(scope, scope.Where)
		b.subqueries(node.Where)
	case *sqlparser.DDL:
		stmt.Category, stmt.Kind = DDL, KindDDL
		if !node.Table.IsEmpty() {
			b.addTable(b.newScope(false), node.Table, "")
		}
		if !node.Database.IsEmpty() {
			stmt.Database = node.Database.String()
		}
	case *sqlparser.Show:
		stmt.Category, stmt.Kind = DAL, KindShow
		stmt.ShowType = node.Type
		if !node.Table.IsEmpty() {
			b.addTable(b.newScope(false), node.Table, "")
		}
	case *sqlparser.Checksum:
		stmt.Category, stmt.Kind = DAL, KindChecksum
		b.addTable(b.newScope(false), node.Table, "")
	case *sqlparser.Use:
		stmt.Category, stmt.Kind = DAL, KindUse
		stmt.Database = node.DBName.String()
	case *sqlparser.Set:
		stmt.Category, stmt.Kind = DAL, KindSet
	case *sqlparser.Explain:
		stmt.Category, stmt.Kind = DAL, KindExplain
	case *sqlparser.Kill:
		stmt.Category, stmt.Kind = DAL, KindKill
	case *sqlparser.Transaction:
		stmt.Category, stmt.Kind = TCL, KindTxn
	default:
		return nil, errors.Errorf("statement.unsupported[%T]", node)
	}
	return stmt, nil
}

type binder struct {
	stmt *Statement
}

func (b *binder) newScope(subquery bool) *Scope {
	scope := &Scope{Subquery: subquery}
	b.stmt.Scopes = append(b.stmt.Scopes, scope)
	if subquery {
		b.stmt.HasSubquery = true
	}
	return scope
}

func (b *binder) addTable(scope *Scope, name sqlparser.TableName, alias string) {
	table := name.Name.String()
	if table == "" || strings.EqualFold(table, "dual") {
		return
	}
	t := Table{Name: table, Alias: alias, Database: b.stmt.Database}
	if !name.Qualifier.IsEmpty() {
		t.Database = name.Qualifier.String()
	}
	scope.Tables = append(scope.Tables, t)
	b.stmt.addTable(table)
	if scope.Subquery {
		b.stmt.addSubqueryTable(table)
	}
}

func (b *binder) selectStatement(node sqlparser.SelectStatement, subquery bool) {
	switch node := node.(type) {
	case *sqlparser.Select:
		scope := b.newScope(subquery)
		b.tableExprs(scope, node.From)
		if node.Where != nil {
			scope.Where = node.Where.Expr
		}
		b.joins(scope, scope.Where)
		b.subqueries(node.SelectExprs, node.Where, node.Having)
	case *sqlparser.Union:
		b.selectStatement(node.Left, subquery)
		b.selectStatement(node.Right, subquery)
	case *sqlparser.ParenSelect:
		b.selectStatement(node.Select, subquery)
	}
}

func (b *binder) insert(node *sqlparser.Insert) {
	scope := b.newScope(false)
	b.addTable(scope, node.Table, "")
	ins := &Insert{Table: node.Table.Name.String()}
	for _, col := range node.Columns {
		ins.Columns = append(ins.Columns, col.Lowered())
	}
	switch rows := node.Rows.(type) {
	case sqlparser.Values:
		ins.Rows = rows
		b.subqueries(rows)
	case sqlparser.SelectStatement:
		ins.Select = true
		b.selectStatement(rows, true)
	}
	b.stmt.Insert = ins
}

func (b *binder) tableExprs(scope *Scope, exprs sqlparser.TableExprs) {
	for _, expr := range exprs {
		b.tableExpr(scope, expr)
	}
}

func (b *binder) tableExpr(scope *Scope, expr sqlparser.TableExpr) {
	switch expr := expr.(type) {
	case *sqlparser.AliasedTableExpr:
		switch t := expr.Expr.(type) {
		case sqlparser.TableName:
			b.addTable(scope, t, expr.As.String())
		case *sqlparser.Subquery:
			b.selectStatement(t.Select, true)
		}
	case *sqlparser.JoinTableExpr:
		b.tableExpr(scope, expr.LeftExpr)
		b.tableExpr(scope, expr.RightExpr)
		if expr.On != nil {
			b.joins(scope, expr.On)
			b.subqueries(expr.On)
		}
	case *sqlparser.ParenTableExpr:
		b.tableExprs(scope, expr.Exprs)
	}
}

// subqueries binds every subquery found in the nodes as a nested scope.
func (b *binder) subqueries(nodes ...sqlparser.SQLNode) {
	for _, node := range nodes {
		if node == nil {
			continue
		}
		if where, ok := node.(*sqlparser.Where); ok && where == nil {
			continue
		}
		_ = sqlparser.Walk(func(node sqlparser.SQLNode) (kontinue bool, err error) {
			if sub, ok := node.(*sqlparser.Subquery); ok {
				b.selectStatement(sub.Select, true)
				return false, nil
			}
			return true, nil
		}, node)
	}
}

// joins collects the column equalities between two tables of the scope.
func (b *binder) joins(scope *Scope, expr sqlparser.Expr) {
	for _, filter := range splitAndExpression(nil, expr) {
		cmp, ok := skipParenthesis(filter).(*sqlparser.ComparisonExpr)
		if !ok || cmp.Operator != sqlparser.EqualStr {
			continue
		}
		lc, lok := cmp.Left.(*sqlparser.ColName)
		rc, rok := cmp.Right.(*sqlparser.ColName)
		if !lok || !rok {
			continue
		}
		left, right := scope.Resolve(lc), scope.Resolve(rc)
		if left.Table == "" || right.Table == "" || strings.EqualFold(left.Table, right.Table) {
			continue
		}
		b.stmt.Joins = append(b.stmt.Joins, JoinCondition{Left: left, Right: right})
	}
}

// Resolve maps a column to its table in the scope.
// An unqualified column resolves only when the scope has a single table.
func (s *Scope) Resolve(col *sqlparser.ColName) Column {
	c := Column{Column: col.Name.Lowered()}
	qualifier := col.Qualifier.Name.String()
	if qualifier == "" {
		if len(s.Tables) == 1 {
			c.Table = s.Tables[0].Name
		}
		return c
	}
	for _, t := range s.Tables {
		if (t.Alias != "" && t.Alias == qualifier) || (t.Alias == "" && strings.EqualFold(t.Name, qualifier)) {
			c.Table = t.Name
			return c
		}
	}
	return c
}
