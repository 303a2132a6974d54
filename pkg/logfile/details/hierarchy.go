package details

import "strings"

// Hierarchy lists the names of the cloned logfiles an event passed through,
// outermost first.
type Hierarchy struct {
	Names []string
}

// NewHierarchy copies names so later clones cannot alter the detail.
func NewHierarchy(names []string) *Hierarchy {
	return &Hierarchy{Names: append([]string(nil), names...)}
}

func (h *Hierarchy) String() string {
	return strings.Join(h.Names, ".")
}
