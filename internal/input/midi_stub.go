//go:build !midi_native

package input

import "errors"

// OpenMIDI requires the native driver. The default build falls back to
// the terminal provider.
func OpenMIDI(deviceName string) (Provider, error) {
	return nil, errors.New("built without native MIDI support (rebuild with -tags midi_native)")
}
