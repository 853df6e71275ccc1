package engine

import (
	"dbhelper/bvalue"
	"dbhelper/codec"
	"dbhelper/key"
	"fmt"
	"reflect"
	"slices"
)

// Record is anything a session can track: a pointer to a struct that names
// its entity and carries its identity.
type Record interface {
	// EntityName must not depend on the receiver's fields, it is called on
	// zero values.
	EntityName() string
	RecordID() bvalue.Value
}

type entity struct {
	name   string
	typ    reflect.Type
	tag    string
	encode func(Record) ([]byte, error)
	decode func([]byte) (Record, error)
}

// Model is the set of entities an engine knows how to store.
type Model struct {
	byName map[string]*entity
	byType map[reflect.Type]*entity
}

func NewModel() *Model {
	return &Model{
		byName: make(map[string]*entity),
		byType: make(map[reflect.Type]*entity),
	}
}

// Register adds the record type R, stored with the given codec.
func Register[R Record](m *Model, c codec.Codec[R]) error {
	typ := reflect.TypeOf((*R)(nil)).Elem()
	if typ.Kind() != reflect.Pointer || typ.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: got %s", ErrNotPointer, typ)
	}

	sample := reflect.New(typ.Elem()).Interface().(R)
	name := sample.EntityName()
	if err := key.ValidateEntity(name); err != nil {
		return fmt.Errorf("register %s: %w", typ, err)
	}
	if _, ok := m.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateEntity, name)
	}
	if _, ok := m.byType[typ]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEntity, typ)
	}
	if _, err := c.Encode(sample); err != nil {
		return fmt.Errorf("cannot register %q since the record type is not serializable: %w", name, err)
	}

	ent := &entity{
		name: name,
		typ:  typ,
		tag:  c.Tag(),
		encode: func(r Record) ([]byte, error) {
			return c.Encode(r.(R))
		},
		decode: func(b []byte) (Record, error) {
			r, err := c.Decode(b)
			if err != nil {
				return nil, err
			}
			return r, nil
		},
	}
	m.byName[name] = ent
	m.byType[typ] = ent
	return nil
}

// EntityOf returns the entity name R was registered under.
func EntityOf[R Record](m *Model) (string, error) {
	typ := reflect.TypeOf((*R)(nil)).Elem()
	ent, ok := m.byType[typ]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownEntity, typ)
	}
	return ent.name, nil
}

// Entities lists registered entity names in order.
func (m *Model) Entities() []string {
	names := make([]string, 0, len(m.byName))
	for name := range m.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (m *Model) entity(name string) (*entity, error) {
	ent, ok := m.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, name)
	}
	return ent, nil
}

func (m *Model) entityOf(r Record) (*entity, error) {
	if isNil(r) {
		return nil, ErrNilRecord
	}
	ent, ok := m.byType[reflect.TypeOf(r)]
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnknownEntity, r)
	}
	return ent, nil
}

func isNil(r Record) bool {
	if r == nil {
		return true
	}
	v := reflect.ValueOf(r)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
