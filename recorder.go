package main

import (
	evdev "github.com/holoplot/go-evdev"
)

// Recorder turns physical key events into keyboard script calls. A press
// immediately followed by the release of the same key is recorded as one
// type call; anything else becomes separate press and release calls.
type Recorder struct {
	kb      KeyboardObject
	stopKey evdev.EvCode
	report  Reporter
	pending string
	held    map[evdev.EvCode]bool
	unknown map[evdev.EvCode]bool
}

// NewRecorder records into kb, usually a KeyboardCodeGenerator. Pressing
// stopKey ends the recording and is not recorded; KeyUndefined disables it.
func NewRecorder(kb KeyboardObject, stopKey evdev.EvCode, report Reporter) *Recorder {
	return &Recorder{
		kb:      kb,
		stopKey: stopKey,
		report:  report,
		held:    make(map[evdev.EvCode]bool),
		unknown: make(map[evdev.EvCode]bool),
	}
}

// HandleEvent processes a single key event and reports whether the stop
// key was pressed.
func (r *Recorder) HandleEvent(ev KeyEvent) (stop bool) {
	if ev.Value == keyValueRepeat {
		return false
	}
	if r.stopKey != KeyUndefined && ev.Code == r.stopKey {
		return ev.Value == keyValuePress
	}

	name, ok := KeyName(ev.Code)
	if !ok {
		if !r.unknown[ev.Code] {
			r.unknown[ev.Code] = true
			r.report.Report("Unnamed key code %d ignored while recording", ev.Code)
		}
		return false
	}

	switch ev.Value {
	case keyValuePress:
		if r.held[ev.Code] {
			return false
		}
		r.held[ev.Code] = true
		r.Flush()
		r.pending = name
		dbg("pending press %s", name)
	case keyValueRelease:
		if !r.held[ev.Code] {
			return false
		}
		delete(r.held, ev.Code)
		if r.pending == name {
			r.pending = ""
			r.check("type", name, r.kb.Type(name))
			return false
		}
		r.Flush()
		r.check("release", name, r.kb.Release(name))
	}
	return false
}

// Flush records a press that is still waiting for its release.
func (r *Recorder) Flush() {
	if r.pending == "" {
		return
	}
	r.check("press", r.pending, r.kb.Press(r.pending))
	r.pending = ""
}

func (r *Recorder) check(method, key string, err error) {
	if err != nil {
		r.report.Report("record %s '%s': %v", method, key, err)
		return
	}
	dbg("record %s %s", method, key)
}
