package details

// Error attaches an error value to an event.
type Error struct {
	Err error
}

func (e *Error) String() string {
	if e.Err == nil {
		return "null"
	}
	return e.Err.Error()
}
