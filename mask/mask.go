// Package mask flattens structs into ordered field maps with sensitive
// values redacted, so command inputs and configs can be logged safely.
package mask

import (
	"fmt"
	"reflect"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const tagName = "mask"

// Fields is the flattened view produced by Redact. Nested struct fields are
// joined with dots, e.g. "postgres.password".
type Fields = orderedmap.OrderedMap[string, any]

// Redact walks v and returns its exported fields in declaration order.
// Fields tagged `mask:"true"` are replaced with a placeholder naming their
// kind unless they hold the zero value. Names come from the json tag, then
// the yaml tag, then the Go field name; "-" drops the field.
func Redact(v any) *Fields {
	if v == nil {
		return nil
	}
	out := orderedmap.New[string, any]()
	walk(out, reflect.ValueOf(v), "")
	return out
}

func walk(out *Fields, val reflect.Value, prefix string) {
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			out.Set(prefix, nil)
			return
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		out.Set(prefix, val.Interface())
		return
	}

	typ := val.Type()
	for i := range val.NumField() {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}

		name, skip := fieldName(sf)
		if skip {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}

		field := val.Field(i)
		switch {
		case strings.EqualFold(sf.Tag.Get(tagName), "true"):
			out.Set(name, redacted(field))
		case isStruct(field):
			walk(out, field, name)
		default:
			out.Set(name, field.Interface())
		}
	}
}

func isStruct(val reflect.Value) bool {
	if val.Kind() == reflect.Pointer {
		return !val.IsNil() && val.Elem().Kind() == reflect.Struct
	}
	return val.Kind() == reflect.Struct
}

func redacted(val reflect.Value) any {
	switch val.Kind() { //nolint:exhaustive // remaining kinds cannot be nil
	case reflect.Pointer:
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	case reflect.Slice, reflect.Map:
		if val.IsNil() {
			return nil
		}
	}

	if val.IsZero() {
		return val.Interface()
	}

	return fmt.Sprintf("***masked-%s***", kindLabel(val.Kind()))
}

func kindLabel(k reflect.Kind) string {
	switch k { //nolint:exhaustive // default keeps the reflect name
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "int"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "uint"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.Slice, reflect.Array:
		return "slice"
	default:
		return k.String()
	}
}

func fieldName(sf reflect.StructField) (string, bool) {
	for _, key := range []string{"json", "yaml"} {
		tag, ok := sf.Tag.Lookup(key)
		if !ok {
			continue
		}
		if tag == "-" {
			return "", true
		}
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			return name, false
		}
	}
	return sf.Name, false
}
