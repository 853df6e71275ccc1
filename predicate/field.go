package predicate

import (
	"cmp"
	"reflect"
	"strings"
)

// fieldValue finds the struct field tagged `tag:"name"`, or the field whose Go
// name equals name ignoring case. Pointers to structs are followed.
func fieldValue(v any, tag, name string) (reflect.Value, bool) {
	sval := reflect.Indirect(reflect.ValueOf(v))
	if sval.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}

	stype := sval.Type()
	for i := 0; i < stype.NumField(); i++ {
		f := stype.Field(i)
		if !f.IsExported() || tag == "" {
			continue
		}
		val, ok := f.Tag.Lookup(tag)
		if tagName, _, _ := strings.Cut(val, ","); ok && tagName == name {
			return sval.Field(i), true
		}
	}

	for i := 0; i < stype.NumField(); i++ {
		f := stype.Field(i)
		if f.IsExported() && strings.EqualFold(f.Name, name) {
			return sval.Field(i), true
		}
	}

	return reflect.Value{}, false
}

// compare orders a record field against a literal. ordered is false for
// kinds that only support equality.
func compare(field reflect.Value, value any) (res int, ordered bool, err error) {
	for field.Kind() == reflect.Pointer {
		if field.IsNil() {
			return 0, false, ErrIncomparable
		}
		field = field.Elem()
	}
	lit := reflect.ValueOf(value)

	switch {
	case isInt(field) && isInt(lit):
		return cmp.Compare(field.Int(), lit.Int()), true, nil
	case isUint(field) && isUint(lit):
		return cmp.Compare(field.Uint(), lit.Uint()), true, nil
	case isNumber(field) && isNumber(lit):
		return cmp.Compare(toFloat(field), toFloat(lit)), true, nil
	case field.Kind() == reflect.String && lit.Kind() == reflect.String:
		return strings.Compare(field.String(), lit.String()), true, nil
	case field.Kind() == reflect.Bool && lit.Kind() == reflect.Bool:
		if field.Bool() == lit.Bool() {
			return 0, false, nil
		}
		return 1, false, nil
	}

	return 0, false, ErrIncomparable
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isNumber(v reflect.Value) bool {
	return isInt(v) || isUint(v) || v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

func toFloat(v reflect.Value) float64 {
	switch {
	case isInt(v):
		return float64(v.Int())
	case isUint(v):
		return float64(v.Uint())
	}
	return v.Float()
}
