package eventid

import (
	"strconv"
	"strings"
)

// Identifier is the resolved identity of one event occurrence.
// The chain slices may be shared with the catalog cache and must not be
// modified.
type Identifier struct {
	// Member is the catalog value the identifier was resolved for.
	Member any

	// ProductID is nil when no product identifier applies.
	ProductID *string

	TextChain   []string
	NumberChain []int

	// ParameterNames are the member's declared parameter names, if any.
	ParameterNames []string

	// StringArguments are the event arguments. Nil means no arguments were
	// given; a nil entry is a nil argument.
	StringArguments []*string
}

// String renders the identifier, e.g.
//
//	acme/Storage.Disk.DiskFull (acme/1.2.1) {device="/dev/sda", "extra"}
//
// Arguments are labeled positionally with parameter names. Excess names are
// ignored and excess arguments stay unlabeled. Argument text is written
// between double quotes without escaping.
func (id *Identifier) String() string {
	var sb strings.Builder

	prefix := ""
	if id.ProductID != nil {
		prefix = *id.ProductID + "/"
	}

	if len(id.TextChain) > 0 {
		sb.WriteString(prefix)
		sb.WriteString(strings.Join(id.TextChain, "."))
	}

	if len(id.NumberChain) > 0 {
		nums := make([]string, len(id.NumberChain))
		for i, n := range id.NumberChain {
			nums[i] = strconv.Itoa(n)
		}
		if sb.Len() > 0 {
			sb.WriteString(" (")
			sb.WriteString(prefix)
			sb.WriteString(strings.Join(nums, "."))
			sb.WriteByte(')')
		} else {
			sb.WriteString(prefix)
			sb.WriteString(strings.Join(nums, "."))
		}
	}

	if id.StringArguments != nil {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('{')
		for i, arg := range id.StringArguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			if i < len(id.ParameterNames) && id.ParameterNames[i] != "" {
				sb.WriteString(id.ParameterNames[i])
				sb.WriteByte('=')
			}
			if arg == nil {
				sb.WriteString("null")
				continue
			}
			sb.WriteByte('"')
			sb.WriteString(*arg)
			sb.WriteByte('"')
		}
		sb.WriteByte('}')
	}

	return sb.String()
}
