package httpmux

// ResourceSet is a set of path prefixes matched by the same
// longest-registered-prefix rule as Table, used by the authenticator to
// decide which resources require auth ("restrict") and which are exempt
// even under a restricted ancestor ("permit").
type ResourceSet struct {
	table *Table
}

// NewResourceSet constructs an empty ResourceSet.
func NewResourceSet() *ResourceSet {
	return &ResourceSet{table: New()}
}

// Add marks prefix (and everything nested under it, unless a more
// specific entry overrides) as a member of the set.
func (rs *ResourceSet) Add(prefix string) {
	rs.table.Register(prefix, true)
}

// Remove drops prefix from the set.
func (rs *ResourceSet) Remove(prefix string) {
	rs.table.Unregister(prefix)
}

// Contains reports whether path falls under the longest registered
// prefix in the set.
func (rs *ResourceSet) Contains(path string) bool {
	_, _, ok := rs.table.Lookup(path)
	return ok
}
