//go:build !windows

package sysinfo

// noopFlusher is the RegistryFlusher used on every platform but
// Windows, where there is no registry to flush.
type noopFlusher struct{}

// NewRegistryFlusher returns the platform's RegistryFlusher: a no-op
// everywhere but Windows.
func NewRegistryFlusher() RegistryFlusher { return noopFlusher{} }

func (noopFlusher) FlushKeys(keys []string) error { return nil }

// PreloadTrust is a no-op off Windows: there is no WinTrust provider to
// warm up.
func PreloadTrust() error { return nil }
