//go:build windows

package platform

import (
	"os"

	"golang.org/x/sys/windows/registry"
)

// refreshPath reloads PATH from the registry so executables installed after
// process start become visible to LookPath without a restart.
func refreshPath() {
	system, err := readRegistryPath(registry.LOCAL_MACHINE, `SYSTEM\CurrentControlSet\Control\Session Manager\Environment`)
	if err != nil {
		return
	}
	user, err := readRegistryPath(registry.CURRENT_USER, `Environment`)
	if err != nil {
		return
	}
	_ = os.Setenv("PATH", system+string(os.PathListSeparator)+user)
}

func readRegistryPath(root registry.Key, path string) (string, error) {
	key, err := registry.OpenKey(root, path, registry.QUERY_VALUE)
	if err != nil {
		return "", err
	}
	defer key.Close()

	value, _, err := key.GetStringValue("PATH")
	return value, err
}
