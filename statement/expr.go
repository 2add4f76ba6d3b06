/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package statement

import (
	"github.com/xelabs/go-mysqlstack/sqlparser"
)

// SplitAnd breaks up the Expr into AND-separated conditions.
func SplitAnd(node sqlparser.Expr) []sqlparser.Expr {
	return splitAndExpression(nil, node)
}

// splitAndExpression breaks up the Expr into AND-separated conditions
// and appends them to filters.
func splitAndExpression(filters []sqlparser.Expr, node sqlparser.Expr) []sqlparser.Expr {
	if node == nil {
		return filters
	}
	switch node := node.(type) {
	case *sqlparser.AndExpr:
		filters = splitAndExpression(filters, node.Left)
		return splitAndExpression(filters, node.Right)
	case *sqlparser.ParenExpr:
		if node, ok := node.Expr.(*sqlparser.AndExpr); ok {
			return splitAndExpression(filters, node)
		}
	}
	return append(filters, node)
}

// SkipParenthesis returns the innermost unparenthesized expression.
func SkipParenthesis(node sqlparser.Expr) sqlparser.Expr {
	return skipParenthesis(node)
}

func skipParenthesis(node sqlparser.Expr) sqlparser.Expr {
	if node, ok := node.(*sqlparser.ParenExpr); ok {
		return skipParenthesis(node.Expr)
	}
	return node
}
