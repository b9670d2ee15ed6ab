// Package sysinfo supplies the small set of host-identity and
// Windows-registry operations the original tool performs around a run:
// reading the computer name for the CSV's ComputerName column, a
// RegistryFlusher hook run before collection (the Windows implementation
// opens the given keys but does not flush their hives), and
// preloading the trust provider so Authenticode checks on matched PEs
// don't stall the first time they're needed. Everything here is a
// no-op off Windows; build-tagged files supply the real Windows
// behavior. Grounded on the original's GetComputerNameHelper,
// RegFlushKeys and LoadWinTrust/PreloadTrust (spec.md §10).
package sysinfo

import "os"

// ComputerName returns the local host name, falling back to "[unknown]"
// if the lookup fails — the CSV report's ComputerName column always
// gets a value.
func ComputerName() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "[unknown]"
	}
	return name
}

// RegistryFlusher flushes any registry hives the file finder is about
// to read $DATA streams out of, so a live system's in-memory-only
// changes are visible on disk before the NTFS reader opens the volume.
type RegistryFlusher interface {
	FlushKeys(keys []string) error
}
