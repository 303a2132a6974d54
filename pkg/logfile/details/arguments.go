package details

import (
	"fmt"
	"reflect"
	"strings"
)

// NamedValue is one argument with an optional name.
type NamedValue struct {
	Name  string
	Value any
}

// Arguments is a list of positional or named values.
type Arguments struct {
	Values []NamedValue
}

// NewArguments wraps unnamed values.
func NewArguments(values ...any) *Arguments {
	nv := make([]NamedValue, len(values))
	for i, v := range values {
		nv[i] = NamedValue{Value: v}
	}
	return &Arguments{Values: nv}
}

// String renders the arguments as {name="value",null,...}.
func (a *Arguments) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, v := range a.Values {
		if i > 0 {
			sb.WriteByte(',')
		}
		if v.Name != "" {
			sb.WriteString(v.Name)
			sb.WriteByte('=')
		}
		if isNil(v.Value) {
			sb.WriteString("null")
			continue
		}
		sb.WriteByte('"')
		sb.WriteString(stringify(v.Value))
		sb.WriteByte('"')
	}
	sb.WriteByte('}')
	return sb.String()
}

// Props returns the exported fields of a struct (or pointer to struct) as
// named values. With stringify set, non-string values are converted to
// strings immediately instead of keeping the original value.
func Props(obj any, stringifyValues bool) []NamedValue {
	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	rt := rv.Type()
	out := make([]NamedValue, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		val := rv.Field(i).Interface()
		if stringifyValues && !isNil(val) {
			if _, ok := val.(string); !ok {
				val = stringify(val)
			}
		}
		out = append(out, NamedValue{Name: f.Name, Value: val})
	}
	return out
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

var _ fmt.Stringer = (*Arguments)(nil)
