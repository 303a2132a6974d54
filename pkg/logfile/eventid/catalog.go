package eventid

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/randalmurphal/logfile/pkg/logfile/details"
)

var (
	// ErrUnknownMember is returned when a member was never declared.
	ErrUnknownMember = errors.New("eventid: member not declared")

	// ErrMemberType is returned when a member does not belong to the catalog.
	ErrMemberType = errors.New("eventid: member type does not match catalog")

	// ErrNilScope is returned by catalogs created without a scope.
	ErrNilScope = errors.New("eventid: catalog scope is nil")
)

// Member constrains catalog types to integer-backed enumerations.
type Member interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32
}

// MemberOption configures a member declaration.
type MemberOption func(*declaration)

// WithParameters names the member's positional arguments.
func WithParameters(names ...string) MemberOption {
	return func(d *declaration) {
		d.params = append([]string(nil), names...)
	}
}

type declaration struct {
	name   string
	params []string
}

// chain is a resolved scope chain. Entries are immutable once cached.
type chain struct {
	productID   *string
	textChain   []string
	numberChain []int
}

type resolved struct {
	chain
	params []string
}

// Catalog resolves the members of one event enumeration type.
type Catalog[T Member] struct {
	scope *Scope

	declMu sync.RWMutex
	decls  map[T]declaration

	mu      sync.RWMutex
	scopes  map[*Scope]*chain
	members map[T]*resolved

	scopeBuilds atomic.Int64
}

// NewCatalog creates a catalog whose members are declared directly in scope.
func NewCatalog[T Member](scope *Scope) *Catalog[T] {
	return &Catalog[T]{
		scope:   scope,
		decls:   make(map[T]declaration),
		scopes:  make(map[*Scope]*chain),
		members: make(map[T]*resolved),
	}
}

// Declare registers a member. An empty name falls back to the member's
// String method when T implements fmt.Stringer. Declaring a member again
// replaces the earlier declaration unless the member was already resolved.
func (c *Catalog[T]) Declare(member T, name string, opts ...MemberOption) *Catalog[T] {
	d := declaration{name: name}
	if d.name == "" {
		if s, ok := any(member).(fmt.Stringer); ok {
			d.name = s.String()
		}
	}
	for _, opt := range opts {
		opt(&d)
	}

	c.declMu.Lock()
	defer c.declMu.Unlock()
	c.decls[member] = d
	return c
}

// Scope returns the scope the catalog's members are declared in.
func (c *Catalog[T]) Scope() *Scope {
	return c.scope
}

// MemberType returns the catalog's member type.
func (c *Catalog[T]) MemberType() reflect.Type {
	return reflect.TypeFor[T]()
}

// Resolve returns the identifier of member without arguments.
func (c *Catalog[T]) Resolve(member T) (*Identifier, error) {
	r, err := c.lookup(member)
	if err != nil {
		return nil, err
	}
	return r.identifier(member, nil), nil
}

// New resolves member and attaches args. Arguments are converted to strings
// immediately. Calling New without arguments leaves StringArguments nil.
func (c *Catalog[T]) New(member T, args ...any) (*Identifier, error) {
	r, err := c.lookup(member)
	if err != nil {
		return nil, err
	}
	return r.identifier(member, details.Stringify(args)), nil
}

// Identify implements Resolver.
func (c *Catalog[T]) Identify(member any, args ...any) (*Identifier, error) {
	m, ok := member.(T)
	if !ok {
		return nil, fmt.Errorf("%w: got %T, want %s", ErrMemberType, member, c.MemberType())
	}
	return c.New(m, args...)
}

func (r *resolved) identifier(member any, args []*string) *Identifier {
	return &Identifier{
		Member:          member,
		ProductID:       r.productID,
		TextChain:       r.textChain,
		NumberChain:     r.numberChain,
		ParameterNames:  r.params,
		StringArguments: args,
	}
}

// lookup returns the cached resolution of member, resolving it on first use.
func (c *Catalog[T]) lookup(member T) (*resolved, error) {
	c.mu.RLock()
	r, ok := c.members[member]
	c.mu.RUnlock()
	if ok {
		return r, nil
	}

	if c.scope == nil {
		return nil, ErrNilScope
	}

	c.declMu.RLock()
	d, ok := c.decls[member]
	c.declMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownMember, int64(member))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have won the race.
	if r, ok := c.members[member]; ok {
		return r, nil
	}

	parent := c.resolveScope(c.scope)
	number := int(member)

	r = &resolved{params: d.params}
	if parent != nil {
		r.productID = parent.productID
		r.textChain = extend(parent.textChain, d.name)
		r.numberChain = extend(parent.numberChain, number)
	} else {
		r.textChain = []string{d.name}
		r.numberChain = []int{number}
	}

	c.members[member] = r
	return r, nil
}

// resolveScope returns the chain as of s, inclusive of all enclosing scopes.
// Scopes declaring neither a level nor a product identifier are not cached
// and resolve to their nearest cached ancestor. The caller holds c.mu.
func (c *Catalog[T]) resolveScope(s *Scope) *chain {
	if s == nil {
		return nil
	}
	if ch, ok := c.scopes[s]; ok {
		return ch
	}

	parent := c.resolveScope(s.parent)
	if !s.memoized() {
		return parent
	}

	c.scopeBuilds.Add(1)

	ch := &chain{}
	if parent != nil {
		ch.productID = parent.productID
		ch.textChain = parent.textChain
		ch.numberChain = parent.numberChain
	}
	if s.product != nil {
		if *s.product == "" {
			ch.productID = nil
		} else {
			p := *s.product
			ch.productID = &p
		}
	}
	if s.levelID != nil {
		ch.textChain = extend(ch.textChain, s.name)
		ch.numberChain = extend(ch.numberChain, *s.levelID)
	}

	c.scopes[s] = ch
	return ch
}

// extend returns a new slice holding base followed by v. base is never
// modified, so cached chains can be shared safely.
func extend[E any](base []E, v E) []E {
	out := make([]E, len(base), len(base)+1)
	copy(out, base)
	return append(out, v)
}
