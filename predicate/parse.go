package predicate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var ErrSyntax = errors.New("predicate: syntax error")

var whereLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Float", Pattern: `-?\d+\.\d+`},
	{Name: "Int", Pattern: `-?\d+`},
	{Name: "Op", Pattern: `==|!=|<=|>=|<|>`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[()]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var whereParser = participle.MustBuild[orExpr](
	participle.Lexer(whereLexer),
	participle.Unquote("String"),
	participle.Elide("Whitespace"),
	participle.CaseInsensitive("Ident"),
)

type orExpr struct {
	Terms []*andExpr `parser:"@@ ( 'or' @@ )*"`
}

type andExpr struct {
	Terms []*unaryExpr `parser:"@@ ( 'and' @@ )*"`
}

type unaryExpr struct {
	Not   *unaryExpr      `parser:"  'not' @@"`
	Group *orExpr         `parser:"| '(' @@ ')'"`
	Cmp   *comparisonExpr `parser:"| @@"`
}

type comparisonExpr struct {
	Field string      `parser:"@Ident"`
	Op    string      `parser:"@Op"`
	Value literalExpr `parser:"@@"`
}

type literalExpr struct {
	String *string  `parser:"  @String"`
	Float  *float64 `parser:"| @Float"`
	Int    *int64   `parser:"| @Int"`
	Bool   *string  `parser:"| @( 'true' | 'false' )"`
}

// Parse reads expressions like
//
//	age > 25 and (name == "bob" or not active == true)
//
// Literals are integers, floats, double-quoted strings, true and false.
// Keywords are case-insensitive. An empty expression matches everything.
func Parse(expr string) (Predicate, error) {
	if strings.TrimSpace(expr) == "" {
		return All(), nil
	}

	ast, err := whereParser.ParseString("", expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	return ast.predicate()
}

func (e *orExpr) predicate() (Predicate, error) {
	terms := make([]Predicate, 0, len(e.Terms))
	for _, t := range e.Terms {
		p, err := t.predicate()
		if err != nil {
			return nil, err
		}
		terms = append(terms, p)
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return Or(terms...), nil
}

func (e *andExpr) predicate() (Predicate, error) {
	terms := make([]Predicate, 0, len(e.Terms))
	for _, t := range e.Terms {
		p, err := t.predicate()
		if err != nil {
			return nil, err
		}
		terms = append(terms, p)
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return And(terms...), nil
}

func (e *unaryExpr) predicate() (Predicate, error) {
	switch {
	case e.Not != nil:
		inner, err := e.Not.predicate()
		if err != nil {
			return nil, err
		}
		return Not(inner), nil
	case e.Group != nil:
		return e.Group.predicate()
	}

	pred, err := Compare(e.Cmp.Field, Op(e.Cmp.Op), e.Cmp.Value.value())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	return pred, nil
}

func (l literalExpr) value() any {
	switch {
	case l.String != nil:
		return *l.String
	case l.Float != nil:
		return *l.Float
	case l.Int != nil:
		return *l.Int
	}
	return strings.EqualFold(*l.Bool, "true")
}
