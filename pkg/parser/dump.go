package parser

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"jsadvpl/pkg/lexer"
)

// DumpASTEnabled makes DumpAST print to stderr.
var DumpASTEnabled = false

var tokenType = reflect.TypeOf(lexer.Token{})

// DumpAST prints program to stderr when DumpASTEnabled is set.
func DumpAST(program *Program, label string) {
	if !DumpASTEnabled || program == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "=== AST (%s) ===\n", label)
	Dump(os.Stderr, program)
	fmt.Fprintln(os.Stderr, "=== END AST ===")
}

// Dump writes an indented tree of node to w, one node or field per line.
func Dump(w io.Writer, node Node) {
	dumpValue(w, reflect.ValueOf(node), "", 0)
}

func dumpValue(w io.Writer, v reflect.Value, label string, depth int) {
	indent := strings.Repeat("  ", depth)
	if label != "" {
		label += ": "
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return
		}
		dumpValue(w, v.Elem(), strings.TrimSuffix(label, ": "), depth)
		return

	case reflect.Slice:
		if v.Len() == 0 {
			return
		}
		fmt.Fprintf(w, "%s%s\n", indent, strings.TrimSuffix(label, ": "))
		for i := 0; i < v.Len(); i++ {
			dumpValue(w, v.Index(i), "", depth+1)
		}
		return

	case reflect.Struct:
		head := v.Type().Name()
		if v.CanAddr() {
			if n, ok := v.Addr().Interface().(Node); ok {
				tok := n.GetToken()
				head = fmt.Sprintf("%s @%d:%d", n.Kind(), tok.Line, tok.Column)
			}
		}
		fmt.Fprintf(w, "%s%s%s\n", indent, label, head)
		for i := 0; i < v.NumField(); i++ {
			field := v.Type().Field(i)
			if field.Type == tokenType || !field.IsExported() {
				continue
			}
			dumpValue(w, v.Field(i), field.Name, depth+1)
		}
		return

	case reflect.String:
		fmt.Fprintf(w, "%s%s%q\n", indent, label, v.String())
	case reflect.Bool:
		if v.Bool() {
			fmt.Fprintf(w, "%s%strue\n", indent, label)
		}
	default:
		fmt.Fprintf(w, "%s%s%v\n", indent, label, v.Interface())
	}
}
