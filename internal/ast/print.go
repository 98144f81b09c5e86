package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cwbudde/exprjit/internal/arena"
)

// Dump writes an indented, human-readable tree structure for ref to w, in
// the shape of the teacher CLI's dumpASTNode (cmd/dwscript/cmd/parse.go),
// generalized from DWScript's statement/expression node set to this
// package's five expression kinds.
func (t *Tree) Dump(w io.Writer, ref arena.Ref) {
	t.dump(w, ref, 0)
}

func (t *Tree) dump(w io.Writer, ref arena.Ref, indent int) {
	pad := strings.Repeat("  ", indent)
	if ref == NoRef {
		fmt.Fprintf(w, "%s<nil>\n", pad)
		return
	}
	n := t.Get(ref)
	switch n.Kind {
	case KindError:
		fmt.Fprintf(w, "%sError\n", pad)
	case KindNumber:
		fmt.Fprintf(w, "%sNumber: %s\n", pad, strconv.FormatFloat(n.Num, 'g', -1, 64))
	case KindVariable:
		fmt.Fprintf(w, "%sVariable: x\n", pad)
	case KindUnary:
		fmt.Fprintf(w, "%sUnary (%s)\n", pad, n.UnOp)
		t.dump(w, n.Left, indent+1)
	case KindBinary:
		fmt.Fprintf(w, "%sBinary (%s)\n", pad, n.BinOp)
		t.dump(w, n.Left, indent+1)
		t.dump(w, n.Right, indent+1)
	case KindFunction:
		fmt.Fprintf(w, "%sFunction: %s\n", pad, n.FuncName)
		t.dump(w, n.Left, indent+1)
	default:
		fmt.Fprintf(w, "%s%T: %v\n", pad, n.Kind, n)
	}
}

// SExpr renders ref as a compact parenthesized prefix form, e.g.
// "(+ a (* b c))" for "a+b*c" — the format spec §8's precedence test
// table is written in.
func (t *Tree) SExpr(ref arena.Ref) string {
	var sb strings.Builder
	t.writeSExpr(&sb, ref)
	return sb.String()
}

func (t *Tree) writeSExpr(sb *strings.Builder, ref arena.Ref) {
	if ref == NoRef {
		sb.WriteString("nil")
		return
	}
	n := t.Get(ref)
	switch n.Kind {
	case KindError:
		sb.WriteString("error")
	case KindNumber:
		sb.WriteString(strconv.FormatFloat(n.Num, 'g', -1, 64))
	case KindVariable:
		sb.WriteString("x")
	case KindUnary:
		sb.WriteByte('(')
		sb.WriteString(n.UnOp.String())
		sb.WriteByte(' ')
		t.writeSExpr(sb, n.Left)
		sb.WriteByte(')')
	case KindBinary:
		sb.WriteByte('(')
		sb.WriteString(n.BinOp.String())
		sb.WriteByte(' ')
		t.writeSExpr(sb, n.Left)
		sb.WriteByte(' ')
		t.writeSExpr(sb, n.Right)
		sb.WriteByte(')')
	case KindFunction:
		sb.WriteByte('(')
		sb.WriteString(n.FuncName)
		sb.WriteByte(' ')
		t.writeSExpr(sb, n.Left)
		sb.WriteByte(')')
	}
}
