//go:build !windows

package platform

// refreshPath is a no-op outside Windows; PATH changes are inherited from
// the environment directly.
func refreshPath() {}
