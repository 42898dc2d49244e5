package main

import (
	"fmt"
	"slices"
	"sync"

	evdev "github.com/holoplot/go-evdev"
)

// KeyEvent carries a key code and value (1=press, 0=release, 2=repeat)
// read from a physical keyboard.
type KeyEvent struct {
	Code  evdev.EvCode
	Value int32
}

const (
	keyValueRelease int32 = 0
	keyValuePress   int32 = 1
	keyValueRepeat  int32 = 2
)

// FindKeyboards enumerates /dev/input/ devices and returns those that
// report both KEY_A and KEY_ENTER, skipping devices whose name is in
// exclude (our own virtual keyboard).
func FindKeyboards(exclude ...string) ([]*evdev.InputDevice, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	var kbds []*evdev.InputDevice
	for _, p := range paths {
		if slices.Contains(exclude, p.Name) {
			continue
		}
		dev, err := evdev.Open(p.Path)
		if err != nil {
			dbg("open %s: %v", p.Path, err)
			continue
		}

		codes := dev.CapableEvents(evdev.EV_KEY)
		if slices.Contains(codes, evdev.KEY_A) && slices.Contains(codes, evdev.KEY_ENTER) {
			kbds = append(kbds, dev)
		} else {
			dev.Close()
		}
	}

	return kbds, nil
}

// MonitorKeyboard forwards key events from dev to ch until the device is
// closed or fails.
func MonitorKeyboard(dev *evdev.InputDevice, ch chan<- KeyEvent, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		ev, err := dev.ReadOne()
		if err != nil {
			return
		}
		if ev.Type == evdev.EV_KEY {
			ch <- KeyEvent{Code: ev.Code, Value: ev.Value}
		}
	}
}
