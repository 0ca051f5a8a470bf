package chonk

import (
	"strconv"
	"strings"
)

// PrintExpr renders an expression as a parenthesized prefix form, for
// example `(+ 1 (group (* 2 3)))`.
func PrintExpr(expr Expression) string {
	var b strings.Builder
	writeExpr(&b, expr)
	return b.String()
}

// PrintProgram renders one statement per line. Block bodies are indented by
// two spaces per level.
func PrintProgram(statements []Statement) string {
	var b strings.Builder
	for _, stmt := range statements {
		writeStmt(&b, stmt, 0)
	}
	return b.String()
}

func writeExpr(b *strings.Builder, expr Expression) {
	switch e := expr.(type) {
	case *BinaryExpr:
		parenthesize(b, e.Operator.Lexeme, e.Left, e.Right)
	case *LogicalExpr:
		parenthesize(b, e.Operator.Lexeme, e.Left, e.Right)
	case *UnaryExpr:
		parenthesize(b, e.Operator.Lexeme, e.Right)
	case *GroupingExpr:
		parenthesize(b, "group", e.Inner)
	case *ConstantExpr:
		if s, ok := e.Value.(StringLiteral); ok {
			b.WriteString(strconv.Quote(string(s)))
			return
		}
		b.WriteString(e.Value.String())
	case *VariableExpr:
		b.WriteString(e.Name.Lexeme)
	case *AssignExpr:
		parenthesize(b, "= "+e.Name.Lexeme, e.Value)
	case *AugAssignExpr:
		parenthesize(b, e.Operator.Lexeme+" "+e.Name.Lexeme, e.Value)
	case *PrefixExpr:
		b.WriteString("(" + e.Operator.Lexeme + " " + e.Name.Lexeme + ")")
	case *CallExpr:
		b.WriteString("(call ")
		writeExpr(b, e.Callee)
		for _, arg := range e.Args {
			b.WriteByte(' ')
			writeExpr(b, arg)
		}
		b.WriteByte(')')
	default:
		b.WriteString("(?)")
	}
}

func parenthesize(b *strings.Builder, name string, exprs ...Expression) {
	b.WriteByte('(')
	b.WriteString(name)
	for _, expr := range exprs {
		b.WriteByte(' ')
		writeExpr(b, expr)
	}
	b.WriteByte(')')
}

func writeStmt(b *strings.Builder, stmt Statement, depth int) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)

	switch s := stmt.(type) {
	case *ExprStmt:
		b.WriteString("(expr ")
		writeExpr(b, s.Expr)
		b.WriteString(")\n")
	case *EchoStmt:
		b.WriteString("(echo ")
		writeExpr(b, s.Value)
		b.WriteString(")\n")
	case *ReturnStmt:
		if s.Value == nil {
			b.WriteString("(return)\n")
			return
		}
		b.WriteString("(return ")
		writeExpr(b, s.Value)
		b.WriteString(")\n")
	case *DeleteStmt:
		b.WriteString("(del")
		for _, target := range s.Targets {
			b.WriteString(" " + target.Lexeme)
		}
		b.WriteString(")\n")
	case *BreakStmt:
		b.WriteString("(break)\n")
	case *ContinueStmt:
		b.WriteString("(continue)\n")
	case *FunctionStmt:
		params := make([]string, len(s.Params))
		for i, param := range s.Params {
			params[i] = param.Lexeme
		}
		b.WriteString("(func " + s.Name.Lexeme + " (" + strings.Join(params, " ") + ")\n")
		writeBody(b, s.Body, depth)
	case *WhileStmt:
		b.WriteString("(while ")
		writeExpr(b, s.Condition)
		b.WriteString("\n")
		writeBody(b, s.Body, depth)
	case *IfStmt:
		b.WriteString("(if ")
		writeExpr(b, s.Condition)
		b.WriteString("\n")
		if s.Alternate == nil {
			writeBody(b, s.Consequent, depth)
			return
		}
		for _, inner := range s.Consequent {
			writeStmt(b, inner, depth+1)
		}
		b.WriteString(indent + "else\n")
		writeBody(b, s.Alternate, depth)
	default:
		b.WriteString("(?)\n")
	}
}

func writeBody(b *strings.Builder, body []Statement, depth int) {
	for _, stmt := range body {
		writeStmt(b, stmt, depth+1)
	}
	b.WriteString(strings.Repeat("  ", depth) + ")\n")
}
