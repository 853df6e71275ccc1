// Package predicate provides the filter values a session evaluates during a fetch.
//
// Predicates are immutable and free of side effects. A record's fields are
// resolved through the struct tag of the codec the record is stored with
// (`bson:"age"`), falling back to a case-insensitive match on the Go field name.
package predicate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownField = errors.New("predicate: unknown field")
	ErrIncomparable = errors.New("predicate: incomparable values")
	ErrUnknownOp    = errors.New("predicate: unknown operator")
	ErrRecordType   = errors.New("predicate: unexpected record type")
)

type Predicate interface {
	// Match reports whether record satisfies the predicate. tag names the
	// struct tag key used to resolve field names.
	Match(record any, tag string) (bool, error)
	String() string
}

type Op string

const (
	Eq Op = "=="
	Ne Op = "!="
	Gt Op = ">"
	Ge Op = ">="
	Lt Op = "<"
	Le Op = "<="
)

func (op Op) valid() bool {
	switch op {
	case Eq, Ne, Gt, Ge, Lt, Le:
		return true
	}
	return false
}

// FieldRef names a record field, comparisons are built from it.
type FieldRef string

func Field(name string) FieldRef { return FieldRef(name) }

func (f FieldRef) Eq(value any) Predicate { return comparison{string(f), Eq, value} }
func (f FieldRef) Ne(value any) Predicate { return comparison{string(f), Ne, value} }
func (f FieldRef) Gt(value any) Predicate { return comparison{string(f), Gt, value} }
func (f FieldRef) Ge(value any) Predicate { return comparison{string(f), Ge, value} }
func (f FieldRef) Lt(value any) Predicate { return comparison{string(f), Lt, value} }
func (f FieldRef) Le(value any) Predicate { return comparison{string(f), Le, value} }

// Compare builds a comparison from an operator known only at runtime.
func Compare(field string, op Op, value any) (Predicate, error) {
	if !op.valid() {
		return nil, fmt.Errorf("%w %q", ErrUnknownOp, op)
	}
	return comparison{field, op, value}, nil
}

type comparison struct {
	field string
	op    Op
	value any
}

func (c comparison) Match(record any, tag string) (bool, error) {
	field, ok := fieldValue(record, tag, c.field)
	if !ok {
		return false, fmt.Errorf("%w %q", ErrUnknownField, c.field)
	}

	res, ordered, err := compare(field, c.value)
	if err != nil {
		return false, fmt.Errorf("field %q: %w", c.field, err)
	}

	switch c.op {
	case Eq:
		return res == 0, nil
	case Ne:
		return res != 0, nil
	}

	if !ordered {
		return false, fmt.Errorf("field %q: %w: %s is not defined for %T", c.field, ErrIncomparable, c.op, c.value)
	}

	switch c.op {
	case Gt:
		return res > 0, nil
	case Ge:
		return res >= 0, nil
	case Lt:
		return res < 0, nil
	case Le:
		return res <= 0, nil
	}
	return false, fmt.Errorf("%w %q", ErrUnknownOp, c.op)
}

func (c comparison) String() string {
	if s, ok := c.value.(string); ok {
		return fmt.Sprintf("%s %s %q", c.field, c.op, s)
	}
	return fmt.Sprintf("%s %s %v", c.field, c.op, c.value)
}

type all struct{}

// All matches every record.
func All() Predicate { return all{} }

func (all) Match(any, string) (bool, error) { return true, nil }
func (all) String() string                  { return "true" }

type and []Predicate

// And matches when every operand matches. And() matches everything.
func And(ps ...Predicate) Predicate { return and(ps) }

func (a and) Match(record any, tag string) (bool, error) {
	for _, p := range a {
		ok, err := p.Match(record, tag)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (a and) String() string { return join(a, " and ", "true") }

type or []Predicate

// Or matches when any operand matches. Or() matches nothing.
func Or(ps ...Predicate) Predicate { return or(ps) }

func (o or) Match(record any, tag string) (bool, error) {
	for _, p := range o {
		ok, err := p.Match(record, tag)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

func (o or) String() string { return join(o, " or ", "false") }

type not struct{ p Predicate }

func Not(p Predicate) Predicate { return not{p} }

func (n not) Match(record any, tag string) (bool, error) {
	ok, err := n.p.Match(record, tag)
	return !ok && err == nil, err
}

func (n not) String() string { return "not (" + n.p.String() + ")" }

type fn[R any] struct {
	name string
	f    func(R) bool
}

// Func wraps a Go function. It fails on records that are not an R.
func Func[R any](name string, f func(R) bool) Predicate {
	return fn[R]{name, f}
}

func (p fn[R]) Match(record any, _ string) (bool, error) {
	r, ok := record.(R)
	if !ok {
		return false, fmt.Errorf("%w: %s wants %T, got %T", ErrRecordType, p.name, *new(R), record)
	}
	return p.f(r), nil
}

func (p fn[R]) String() string { return p.name + "(...)" }

func join(ps []Predicate, sep, empty string) string {
	if len(ps) == 0 {
		return empty
	}
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = "(" + p.String() + ")"
	}
	return strings.Join(parts, sep)
}
