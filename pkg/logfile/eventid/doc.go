/*
Package eventid resolves typed log events to stable, hierarchical identifiers.

# Overview

An event catalog is a Go integer type whose constants name the events an
application can emit. Each catalog sits inside a tree of scopes. Scopes may
carry a level identifier (a small number tagging that nesting level) and a
product identifier (a string inherited by nested scopes). Resolving a member
walks the scope tree from the outermost scope inward and yields a chain of
names and numbers plus the member itself:

	var (
	    storage = eventid.NewScope("Storage", eventid.WithLevelID(1), eventid.WithProductID("acme"))
	    disk    = storage.Nest("Disk", eventid.WithLevelID(2))
	)

	type DiskEvent int

	const (
	    DiskFull DiskEvent = 1
	    DiskSlow DiskEvent = 2
	)

	var DiskEvents = eventid.NewCatalog[DiskEvent](disk).
	    Declare(DiskFull, "DiskFull", eventid.WithParameters("device", "usage")).
	    Declare(DiskSlow, "DiskSlow")

	id, _ := DiskEvents.New(DiskFull, "/dev/sda", "98%")
	fmt.Println(id) // acme/Storage.Disk.DiskFull (acme/1.2.1) {device="/dev/sda", usage="98%"}

# Resolution Rules

  - Only scopes with a level identifier contribute a name/number pair.
    Scopes without one are skipped, their ancestors are still consulted.
  - A scope's effective product identifier is its own when declared, an
    empty string clearing it, otherwise the nearest ancestor's.
  - Parameter names come from the member declaration only. The last
    declaration of a member wins.

# Caching

Every catalog keeps two caches: resolved scope chains keyed by scope, and
resolved members keyed by value. Both are filled at most once per key.
Lookups of resolved keys take a shared read lock only; a miss takes the
exclusive lock and re-checks before inserting. Cached chains are shared
between identifiers and must be treated as read-only.

# Registry

Registry maps member types to catalogs so code holding an untyped member
(for example a log event decorator) can find its catalog. DefaultRegistry
is used when no explicit registry is configured.
*/
package eventid
