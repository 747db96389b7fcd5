//go:build test

package audio

// PlayVol is a stub used during tests to avoid initializing audio devices.
func PlayVol(id string, vol float64) {}

// Resume is a no-op in tests.
func Resume() {}
