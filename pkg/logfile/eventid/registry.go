package eventid

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	// ErrUnknownCatalog is returned when no catalog is registered for a
	// member's type.
	ErrUnknownCatalog = errors.New("eventid: no catalog registered for member type")

	// ErrDuplicateCatalog is returned when a different catalog is already
	// registered for the same member type.
	ErrDuplicateCatalog = errors.New("eventid: catalog already registered for member type")

	// ErrNilMember is returned when identifying a nil member.
	ErrNilMember = errors.New("eventid: member is nil")
)

// Resolver identifies untyped members. *Catalog[T] implements Resolver.
type Resolver interface {
	// MemberType returns the Go type of the members handled.
	MemberType() reflect.Type

	// Identify resolves member and attaches args.
	Identify(member any, args ...any) (*Identifier, error)
}

// Registry maps member types to their catalogs.
// It uses sync.RWMutex for read-heavy lookups.
type Registry struct {
	mu       sync.RWMutex
	catalogs map[reflect.Type]Resolver
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		catalogs: make(map[reflect.Type]Resolver),
	}
}

// Register adds a catalog. Registering the same catalog twice is a no-op.
func (r *Registry) Register(res Resolver) error {
	if res == nil {
		return errors.New("eventid: register nil catalog")
	}
	t := res.MemberType()

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.catalogs[t]; ok && existing != res {
		return fmt.Errorf("%w: %s", ErrDuplicateCatalog, t)
	}
	r.catalogs[t] = res
	return nil
}

// Lookup returns the catalog registered for t.
func (r *Registry) Lookup(t reflect.Type) (Resolver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.catalogs[t]
	return res, ok
}

// Identify resolves member through the catalog registered for its type.
func (r *Registry) Identify(member any, args ...any) (*Identifier, error) {
	if member == nil {
		return nil, ErrNilMember
	}
	t := reflect.TypeOf(member)
	res, ok := r.Lookup(t)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCatalog, t)
	}
	return res.Identify(member, args...)
}

// Len returns the number of registered catalogs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.catalogs)
}

// DefaultRegistry is the process-wide catalog registry.
var DefaultRegistry = NewRegistry()

// Register adds a catalog to the default registry.
func Register(res Resolver) error {
	return DefaultRegistry.Register(res)
}

// MustRegister adds a catalog to the default registry, panicking on error.
func MustRegister(res Resolver) {
	if err := DefaultRegistry.Register(res); err != nil {
		panic(fmt.Sprintf("failed to register event catalog: %v", err))
	}
}
