package eventid

// ScopeBuilds reports how many scope chains the catalog has constructed.
func (c *Catalog[T]) ScopeBuilds() int64 {
	return c.scopeBuilds.Load()
}
