package details

import (
	"fmt"
	"strings"
)

// Message is a text detail with optional arguments captured as strings.
type Message struct {
	Text string

	// Args are the stringified arguments. A nil entry is a nil argument.
	Args []*string
}

// NewMessage captures args as strings.
func NewMessage(text string, args ...any) *Message {
	return &Message{Text: text, Args: Stringify(args)}
}

// String formats Text with Args. If the format does not fit the arguments,
// the text is followed by the quoted argument list.
func (m *Message) String() string {
	if len(m.Args) == 0 {
		return m.Text
	}

	vals := make([]any, len(m.Args))
	for i, a := range m.Args {
		if a == nil {
			vals[i] = nil
			continue
		}
		vals[i] = *a
	}

	out := fmt.Sprintf(m.Text, vals...)
	if !strings.Contains(out, "%!") {
		return out
	}

	quoted := make([]string, len(m.Args))
	for i, a := range m.Args {
		v := "null"
		if a != nil {
			v = *a
		}
		quoted[i] = `"` + v + `"`
	}
	return m.Text + " {" + strings.Join(quoted, ", ") + "}"
}

// Stringify converts values to optional strings. A nil slice stays nil.
// Values whose String method panics are replaced by their type name.
func Stringify(args []any) []*string {
	if args == nil {
		return nil
	}
	out := make([]*string, len(args))
	for i, a := range args {
		if a == nil {
			continue
		}
		s := stringify(a)
		out[i] = &s
	}
	return out
}

// stringify calls String or Error directly so a panic surfaces here instead
// of being printed into the result by fmt.
func stringify(v any) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("%T", v)
		}
	}()
	switch x := v.(type) {
	case string:
		return x
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}
