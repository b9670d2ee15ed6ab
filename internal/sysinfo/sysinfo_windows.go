//go:build windows

package sysinfo

import (
	"syscall"

	"golang.org/x/sys/windows/registry"
)

// winFlusher opens and closes each of the given key paths under
// HKEY_LOCAL_MACHINE (e.g. "SYSTEM"), returning the first error. It does
// not call RegFlushKey, so no dirty hive data is forced to disk; with an
// empty key list it does nothing.
type winFlusher struct{}

// NewRegistryFlusher returns the Windows RegistryFlusher.
func NewRegistryFlusher() RegistryFlusher { return winFlusher{} }

func (winFlusher) FlushKeys(keys []string) error {
	for _, path := range keys {
		k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE)
		if err != nil {
			return err
		}
		err = k.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// PreloadTrust loads wintrust.dll up front so the first Authenticode
// signature check against a matched PE doesn't pay the DLL load cost
// mid-collection.
func PreloadTrust() error {
	_, err := syscall.LoadLibrary("wintrust.dll")
	return err
}
