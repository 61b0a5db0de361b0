package asset

// Module is the collaborator contract for dependency-bearing units inside
// a bundle. Implementations supply a dotted-path name (packages carry an
// explicit ".__init__" marker segment), the names they depend on, and
// generated script and stylesheet text. JS and CSS are invoked lazily by
// the owning bundle; result caching is the implementation's concern.
//
// A Module also satisfies resolve.Item, so module lists can be handed to
// the resolver directly.
type Module interface {
	// Name returns the dotted-path module name (e.g. "pkg.sub.mod").
	Name() string
	// Deps returns the dotted-path names this module depends on.
	Deps() []string
	// JS returns the module's generated script text.
	JS() (string, error)
	// CSS returns the module's generated stylesheet text.
	CSS() (string, error)
}
