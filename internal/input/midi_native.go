//go:build midi_native

package input

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"gitlab.com/gomidi/midi"
	"gitlab.com/gomidi/rtmididrv"
)

// midiProvider tracks note-on/note-off messages from a hardware port
// into a held-pitch map. Velocity-zero note-on counts as note-off.
type midiProvider struct {
	drv *rtmididrv.Driver
	in  midi.In

	mu   sync.Mutex
	held map[uint8]Key

	once sync.Once
}

// OpenMIDI opens the named input port, preferring an exact name match
// and falling back to a substring match.
func OpenMIDI(deviceName string) (Provider, error) {
	drv, err := rtmididrv.New()
	if nil != err {
		return nil, fmt.Errorf("unable to open MIDI driver: %w", err)
	}
	ins, err := drv.Ins()
	if nil != err {
		_ = drv.Close()
		return nil, fmt.Errorf("unable to list MIDI inputs: %w", err)
	}
	var in midi.In
	for _, p := range ins {
		if p.String() == deviceName {
			in = p
			break
		}
	}
	if nil == in {
		for _, p := range ins {
			if strings.Contains(p.String(), deviceName) {
				in = p
				break
			}
		}
	}
	if nil == in {
		_ = drv.Close()
		return nil, fmt.Errorf("MIDI input %q not found", deviceName)
	}
	if err := in.Open(); nil != err {
		_ = drv.Close()
		return nil, fmt.Errorf("unable to open MIDI input: %w", err)
	}

	p := &midiProvider{drv: drv, in: in, held: map[uint8]Key{}}
	if err := in.SetListener(p.listen); nil != err {
		_ = in.Close()
		_ = drv.Close()
		return nil, fmt.Errorf("unable to listen on MIDI input: %w", err)
	}
	return p, nil
}

func (p *midiProvider) listen(bt []byte, _ int64) {
	if len(bt) < 3 {
		return
	}
	status := bt[0]
	if status >= 0xF0 {
		// realtime and system common carry no note state
		return
	}
	pitch := bt[1] & 0x7F
	vel := bt[2] & 0x7F

	p.mu.Lock()
	defer p.mu.Unlock()
	switch status >> 4 {
	case 0x9: // NoteOn, vel 0 means NoteOff
		if vel == 0 {
			delete(p.held, pitch)
			return
		}
		p.held[pitch] = Key{Velocity: vel, At: time.Now()}
	case 0x8: // NoteOff
		delete(p.held, pitch)
	}
}

func (p *midiProvider) Held() map[uint8]Key {
	p.mu.Lock()
	defer p.mu.Unlock()
	held := make(map[uint8]Key, len(p.held))
	for pitch, k := range p.held {
		held[pitch] = k
	}
	return held
}

func (p *midiProvider) Close() error {
	var err error
	p.once.Do(func() {
		err = p.in.Close()
		if derr := p.drv.Close(); nil == err {
			err = derr
		}
	})
	return err
}
