package generator

import (
	"jsadvpl/pkg/parser"
)

// rewriteMethod turns receiver.method(args) calls with an ADVPL function
// equivalent into function form, moving the receiver into the arguments.
func (g *Generator) rewriteMethod(method string, recv parser.Expression, args []parser.Expression) (string, bool) {
	switch method {
	case "push":
		if len(args) == 1 {
			return "aAdd(" + g.expr(recv) + ", " + g.expr(args[0]) + ")", true
		}
	case "toUpperCase":
		return g.unaryFunction("Upper", recv, args)
	case "toLowerCase":
		return g.unaryFunction("Lower", recv, args)
	case "trim":
		return g.unaryFunction("AllTrim", recv, args)
	case "toString":
		return g.unaryFunction("cValToChar", recv, args)
	case "substring":
		// JavaScript takes [start, end) with 0-based indexes; SubStr takes a
		// 1-based start and a count.
		switch len(args) {
		case 1:
			return "SubStr(" + g.expr(recv) + ", " + g.offset(args[0], 1) + ")", true
		case 2:
			return "SubStr(" + g.expr(recv) + ", " + g.offset(args[0], 1) + ", " + g.span(args[0], args[1]) + ")", true
		}
	case "indexOf":
		if len(args) == 1 {
			return "(At(" + g.expr(args[0]) + ", " + g.expr(recv) + ") - 1)", true
		}
	}
	return "", false
}

func (g *Generator) unaryFunction(name string, recv parser.Expression, args []parser.Expression) (string, bool) {
	if len(args) != 0 {
		return "", false
	}
	return name + "(" + g.expr(recv) + ")", true
}

// span renders end - start, folding integer literals.
func (g *Generator) span(start, end parser.Expression) string {
	if s, ok := intLiteral(start); ok {
		if _, ok := intLiteral(end); ok {
			return g.offset(end, -s)
		}
	}
	return "(" + g.expr(end) + ") - (" + g.expr(start) + ")"
}

// rewriteFunction maps global JavaScript conversion functions.
func (g *Generator) rewriteFunction(name string, args []parser.Expression) (string, bool) {
	if len(args) != 1 {
		return "", false
	}
	switch name {
	case "parseInt":
		return "Int(Val(" + g.expr(args[0]) + "))", true
	case "parseFloat", "Number":
		return "Val(" + g.expr(args[0]) + ")", true
	case "String":
		return "cValToChar(" + g.expr(args[0]) + ")", true
	}
	return "", false
}
