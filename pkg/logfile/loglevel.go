package logfile

// Loglevel constrains the loglevel types a Logfile can be instantiated with.
type Loglevel interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32
}

// LoglevelRange is an inclusive range of loglevels.
type LoglevelRange[L Loglevel] struct {
	From L
	To   L
}

// NewLoglevelRange returns the range between a and b in either order.
func NewLoglevelRange[L Loglevel](a, b L) LoglevelRange[L] {
	if b < a {
		a, b = b, a
	}
	return LoglevelRange[L]{From: a, To: b}
}

// Covers reports whether level lies within r.
func (r LoglevelRange[L]) Covers(level L) bool {
	return level >= r.From && level <= r.To
}

func coveredByAny[L Loglevel](ranges []LoglevelRange[L], level L) bool {
	for _, r := range ranges {
		if r.Covers(level) {
			return true
		}
	}
	return false
}
