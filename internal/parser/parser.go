// Package parser implements the Pratt / precedence-climbing parser that
// turns a token vector into an arena-allocated expression tree (spec
// §4.3).
//
// The prefix/infix dispatch shape follows the classic Pratt pattern
// demonstrated by blizzy78-copper's parser/parser.go and
// conneroisu-gix's pkg/parser/precedence.go (a token-type-keyed
// precedence map feeding a single climbing loop) rather than the
// teacher's per-construct recursive-descent functions, because this
// grammar has exactly five binary operators on a linear ladder and no
// statement forms — the climbing-loop shape is the more direct fit.
package parser

import (
	"strconv"

	"github.com/cwbudde/exprjit/internal/arena"
	"github.com/cwbudde/exprjit/internal/ast"
	"github.com/cwbudde/exprjit/internal/token"
)

// Precedence levels. The numeric order deliberately does NOT match the
// ladder's prose order for Div and Mult: spec §4.3 states "/ sits
// strictly above * " on the ladder and requires "a / b * c parses as
// a / (b * c)" — which only falls out of the standard climbing
// algorithm below if Div compares as lower-binding than Mult. This is
// documented as an explicit, source-inherited quirk in spec §9 ("Parser's
// / > * precedence is unusual; retained as-is per source"); DESIGN.md
// records the reasoning for this numeric assignment.
const (
	precMin = iota
	precTerm  // + -
	precDiv   // /
	precMult  // *
	precPower // ^
)

var binaryPrecedence = map[token.Type]int{
	token.Plus:  precTerm,
	token.Minus: precTerm,
	token.Slash: precDiv,
	token.Star:  precMult,
	token.Caret: precPower,
}

var binaryOp = map[token.Type]ast.BinaryOp{
	token.Plus:  ast.Add,
	token.Minus: ast.Sub,
	token.Star:  ast.Mul,
	token.Slash: ast.Div,
	token.Caret: ast.Pow,
}

// unaryOperandPrecedence is the minimum precedence used to parse a unary
// +/- operand: high enough that '*' and '/' stop the operand early
// (unary binds tighter than them), low enough that '^' is still absorbed
// ("-a^b" parses as "-(a^b)", spec §8's seed test case).
const unaryOperandPrecedence = precMult

// Parser consumes a fully-lexed token vector (spec §4.2's "bulk mode")
// and builds a Tree.
type Parser struct {
	tokens []token.Token
	pos    int
	tree   *ast.Tree
}

// New creates a Parser over tokens, which must end in an EOF token (as
// produced by lexer.LexAll).
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, tree: ast.NewTree()}
}

// Parse runs the parser to completion and returns the resulting Tree.
// The Tree's Errored flag is set iff any Error node was produced,
// regardless of where in the tree (spec §8).
func (p *Parser) Parse() *ast.Tree {
	p.tree.Root = p.parseExpr(precMin)
	return p.tree
}

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) advance() token.Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

// parseExpr is the unified precedence-climbing loop: parse one prefix
// form, then keep absorbing infix operators whose precedence is
// strictly greater than minPrec, recursing with the operator's own
// precedence as the new floor (standard left-associative climbing).
func (p *Parser) parseExpr(minPrec int) arena.Ref {
	left := p.parsePrefix()

	for {
		opTok := p.cur()
		prec, isOp := binaryPrecedence[opTok.Kind]
		if !isOp || prec <= minPrec {
			return left
		}
		p.advance()
		right := p.parseExpr(prec)
		left = p.tree.NewBinary(binaryOp[opTok.Kind], left, right)
	}
}

// parsePrefix parses one prefix expression and then folds in any
// implicit-multiplication continuations (spec §4.3's juxtaposition
// rule), returning a single node ref usable as an operand anywhere a
// "prefix" is expected.
func (p *Parser) parsePrefix() arena.Ref {
	node := p.parsePrefixForm()

	if p.startsImplicitMultiplicand() {
		rhs := p.parseExpr(precMult)
		node = p.tree.NewBinary(ast.Mul, node, rhs)
	}

	return node
}

// startsImplicitMultiplicand reports whether the current token can begin
// a juxtaposed factor: Number, Ident, or '('.
func (p *Parser) startsImplicitMultiplicand() bool {
	switch p.cur().Kind {
	case token.Number, token.Ident, token.LParen:
		return true
	default:
		return false
	}
}

func (p *Parser) parsePrefixForm() arena.Ref {
	tok := p.cur()
	switch tok.Kind {
	case token.Number:
		p.advance()
		return p.parseNumberLiteral(tok.Lexeme)

	case token.Ident:
		p.advance()
		return p.parseIdent(tok.Lexeme)

	case token.LParen:
		p.advance()
		inner := p.parseExpr(precMin)
		if p.cur().Kind == token.RParen {
			p.advance()
		}
		// A missing ')' is tolerated silently here (spec §4.3/§9): the
		// next unexpected token typically surfaces as its own Error
		// later.
		return inner

	case token.Plus:
		p.advance()
		operand := p.parseExpr(unaryOperandPrecedence)
		return p.tree.NewUnary(ast.Positive, operand)

	case token.Minus:
		p.advance()
		operand := p.parseExpr(unaryOperandPrecedence)
		return p.tree.NewUnary(ast.Negative, operand)

	default:
		p.advance()
		return p.tree.Error()
	}
}

func (p *Parser) parseNumberLiteral(lexeme string) arena.Ref {
	v, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		// ParseFloat already accepts a trailing '.' ("5." parses as 5), so
		// for a digit-led lexeme this is reached only when the value is out
		// of float64 range; the retry without the dot then fails as well
		// and the literal becomes an Error node.
		v, err = strconv.ParseFloat(trimTrailingDot(lexeme), 64)
		if err != nil {
			return p.tree.Error()
		}
	}
	return p.tree.NewNumber(v)
}

func trimTrailingDot(s string) string {
	if len(s) > 0 && s[len(s)-1] == '.' {
		return s[:len(s)-1]
	}
	return s
}

func (p *Parser) parseIdent(name string) arena.Ref {
	switch name {
	case "x":
		return p.tree.NewVariable()
	case "e":
		return p.tree.NewNumber(constE)
	case "pi":
		return p.tree.NewNumber(constPi)
	}

	if IsBuiltinFunction(name) {
		return p.parseFunctionCall(name)
	}

	// Unknown identifier.
	return p.tree.Error()
}

func (p *Parser) parseFunctionCall(name string) arena.Ref {
	if p.cur().Kind != token.LParen {
		return p.tree.Error()
	}
	p.advance() // consume '('
	arg := p.parseExpr(precMin)
	if p.cur().Kind == token.RParen {
		p.advance()
	}
	return p.tree.NewFunction(name, arg)
}

// Tree returns the Tree under construction; valid to call at any point,
// but only complete after Parse returns.
func (p *Parser) Tree() *ast.Tree {
	return p.tree
}
