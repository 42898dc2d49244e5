package main

import (
	"fmt"
	"io"

	"github.com/bendahl/uinput"
	evdev "github.com/holoplot/go-evdev"
)

// Robot injects key events into the host input system.
type Robot interface {
	KeyPress(code evdev.EvCode) error
	KeyRelease(code evdev.EvCode) error
}

// uinputRobot injects events through a uinput virtual keyboard.
type uinputRobot struct {
	vkbd uinput.Keyboard
}

// newUinputRobot creates the virtual keyboard device. Callers must Close it.
func newUinputRobot(path, name string) (*uinputRobot, error) {
	vkbd, err := uinput.CreateKeyboard(path, []byte(name))
	if err != nil {
		return nil, fmt.Errorf("create virtual keyboard: %w", err)
	}
	return &uinputRobot{vkbd: vkbd}, nil
}

func (r *uinputRobot) KeyPress(code evdev.EvCode) error {
	return r.vkbd.KeyDown(int(code))
}

func (r *uinputRobot) KeyRelease(code evdev.EvCode) error {
	return r.vkbd.KeyUp(int(code))
}

func (r *uinputRobot) Close() error {
	return r.vkbd.Close()
}

// logRobot prints key events instead of injecting them.
type logRobot struct {
	out io.Writer
}

func (r *logRobot) KeyPress(code evdev.EvCode) error {
	_, err := fmt.Fprintf(r.out, "press   %s\n", keyLabel(code))
	return err
}

func (r *logRobot) KeyRelease(code evdev.EvCode) error {
	_, err := fmt.Fprintf(r.out, "release %s\n", keyLabel(code))
	return err
}

func keyLabel(code evdev.EvCode) string {
	if name, ok := KeyName(code); ok {
		return name
	}
	return fmt.Sprintf("code=%d", code)
}
