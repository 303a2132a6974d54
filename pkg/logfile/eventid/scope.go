package eventid

// Scope is one nesting level of an event catalog tree.
// Scopes are immutable after construction.
type Scope struct {
	name    string
	parent  *Scope
	levelID *int
	product *string
}

// ScopeOption configures a Scope.
type ScopeOption func(*Scope)

// WithLevelID numbers the scope. Only numbered scopes appear in identifier
// chains.
func WithLevelID(id int) ScopeOption {
	return func(s *Scope) {
		s.levelID = &id
	}
}

// WithProductID sets the product identifier for the scope and its nested
// scopes. An empty id clears an inherited product identifier.
func WithProductID(id string) ScopeOption {
	return func(s *Scope) {
		s.product = &id
	}
}

// NewScope creates an outermost scope.
func NewScope(name string, opts ...ScopeOption) *Scope {
	return newScope(nil, name, opts)
}

// Nest creates a scope enclosed by s.
func (s *Scope) Nest(name string, opts ...ScopeOption) *Scope {
	return newScope(s, name, opts)
}

func newScope(parent *Scope, name string, opts []ScopeOption) *Scope {
	s := &Scope{name: name, parent: parent}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the scope name.
func (s *Scope) Name() string { return s.name }

// Parent returns the enclosing scope, or nil for an outermost scope.
func (s *Scope) Parent() *Scope { return s.parent }

// LevelID returns the level identifier, if declared.
func (s *Scope) LevelID() (int, bool) {
	if s.levelID == nil {
		return 0, false
	}
	return *s.levelID, true
}

// ProductID returns the declared product identifier, if any. A declared
// empty string is reported with ok set.
func (s *Scope) ProductID() (string, bool) {
	if s.product == nil {
		return "", false
	}
	return *s.product, true
}

// memoized reports whether resolution results for s are cached.
func (s *Scope) memoized() bool {
	return s.levelID != nil || s.product != nil
}
