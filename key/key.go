package key

import (
	bval "dbhelper/bvalue"
	"errors"
	"strings"
)

const (
	sep = "_"

	TypeRecord = "rec"
)

var (
	ErrInvalidKey    = errors.New("key: provided string is not a valid key")
	ErrInvalidEntity = errors.New("key: entity name must be non-empty and must not contain '" + sep + "'")
	ErrEmptyID       = errors.New("key: record id is empty")
)

// Key for accessing committed records in storage.
// Key layout pattern:
// {key type}_{entity}_{id},
// Example:
// rec_person_0b8e3f0c-5e0a-4b7e-9c4e-1d5f2a9e7c11.
// The id is the tail of the key and may itself contain separators.
type Key struct {
	// type of value stored ('rec')
	Type string
	// entity (namespace) name
	Entity string
	// record identity
	ID bval.Value
}

func (k Key) String() string {
	return k.Type + sep + k.Entity + sep + k.ID.String()
}

// Record builds the key a record of the given entity is stored under.
func Record(entity string, id bval.Value) (Key, error) {
	if err := ValidateEntity(entity); err != nil {
		return Key{}, err
	}
	if id.IsEmpty() {
		return Key{}, ErrEmptyID
	}

	return Key{Type: TypeRecord, Entity: entity, ID: id}, nil
}

// Prefix for ranging over every record of an entity.
func Prefix(entity string) string {
	return TypeRecord + sep + entity + sep
}

func ValidateEntity(entity string) error {
	if entity == "" || strings.Contains(entity, sep) {
		return ErrInvalidEntity
	}
	return nil
}

func FromString(s string) (Key, error) {
	tokens := strings.SplitN(s, sep, 3)
	if len(tokens) != 3 || tokens[0] != TypeRecord || tokens[1] == "" || tokens[2] == "" {
		return Key{}, ErrInvalidKey
	}

	return Key{Type: tokens[0], Entity: tokens[1], ID: bval.FromString(tokens[2])}, nil
}
