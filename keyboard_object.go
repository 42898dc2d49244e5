package main

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"time"
)

// Timing defaults restored by the reset operations.
const (
	defaultPressDelay   = 10
	defaultReleaseDelay = 10
	defaultMultiplier   = 1.0
	defaultMinDelay     = 5

	// maxDelay caps a single wait in milliseconds.
	maxDelay = math.MaxInt32

	minSpeed = 0.1
	// speedUnbounded is reported by Speed when the multiplier is zero.
	speedUnbounded = 999999999
)

// ErrStopped is returned once the keyboard's context has been cancelled.
var ErrStopped = errors.New("keyboard stopped")

// KeyboardObject is the script-facing keyboard. Delays are milliseconds.
type KeyboardObject interface {
	Press(keys string) error
	Release(keys string) error
	Type(keys string) error
	Perform(keys, action string) error
	TypeText(layout, text string) error

	PressDelay() int
	ReleaseDelay() int
	Multiplier() float64
	MinDelay() int
	MultipliedPressDelay() int
	MultipliedReleaseDelay() int
	Speed() float64

	SetPressDelay(delay int)
	SetReleaseDelay(delay int)
	SetDelays(delay int)
	SetMultiplier(multiplier float64)
	SetSpeed(speed float64)
	SetMinDelay(delay int)

	ResetDelays()
	ResetMultiplier()
	ResetSpeed()
}

// ScriptKeyboard executes keyboard operations through a Robot. One mutex
// guards the timing state and is held for whole operations, sleeps
// included, so operations on one keyboard never interleave.
type ScriptKeyboard struct {
	mu sync.Mutex

	pressDelay   int
	releaseDelay int
	multiplier   float64
	minDelay     int

	layout string

	ctx    context.Context
	robot  Robot
	report Reporter
	typers TyperFactory
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewScriptKeyboard returns a keyboard with default timing. Cancelling ctx
// stops any operation that is waiting on a delay.
func NewScriptKeyboard(ctx context.Context, robot Robot, report Reporter) *ScriptKeyboard {
	return &ScriptKeyboard{
		pressDelay:   defaultPressDelay,
		releaseDelay: defaultReleaseDelay,
		multiplier:   defaultMultiplier,
		minDelay:     defaultMinDelay,
		layout:       "US",
		ctx:          ctx,
		robot:        robot,
		report:       report,
		typers:       NewTyper,
		sleep:        sleepContext,
	}
}

func (k *ScriptKeyboard) PressDelay() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.pressDelay
}

func (k *ScriptKeyboard) ReleaseDelay() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.releaseDelay
}

func (k *ScriptKeyboard) Multiplier() float64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.multiplier
}

func (k *ScriptKeyboard) MinDelay() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.minDelay
}

func (k *ScriptKeyboard) MultipliedPressDelay() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.multipliedLocked(k.pressDelay)
}

func (k *ScriptKeyboard) MultipliedReleaseDelay() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.multipliedLocked(k.releaseDelay)
}

func (k *ScriptKeyboard) Speed() float64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.multiplier == 0 {
		return speedUnbounded
	}
	return roundTo1(1 / k.multiplier)
}

func (k *ScriptKeyboard) SetPressDelay(delay int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.pressDelay = max(delay, 0)
}

func (k *ScriptKeyboard) SetReleaseDelay(delay int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.releaseDelay = max(delay, 0)
}

func (k *ScriptKeyboard) SetDelays(delay int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.pressDelay = max(delay, 0)
	k.releaseDelay = max(delay, 0)
}

func (k *ScriptKeyboard) SetMultiplier(multiplier float64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.setMultiplierLocked(multiplier)
}

func (k *ScriptKeyboard) SetSpeed(speed float64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if speed < minSpeed {
		speed = minSpeed
	}
	k.setMultiplierLocked(1 / roundTo1(speed))
}

// SetMinDelay stores delay as given. Unlike the other setters it does not
// clamp negative values.
func (k *ScriptKeyboard) SetMinDelay(delay int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.minDelay = delay
}

// SetDefaultLayout sets the layout TypeText uses when none is given.
func (k *ScriptKeyboard) SetDefaultLayout(layout string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.layout = layout
}

func (k *ScriptKeyboard) ResetDelays() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.pressDelay = defaultPressDelay
	k.releaseDelay = defaultReleaseDelay
}

func (k *ScriptKeyboard) ResetMultiplier() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.multiplier = defaultMultiplier
}

func (k *ScriptKeyboard) ResetSpeed() {
	k.ResetMultiplier()
}

// Press presses each distinct key in keys, in first-seen order.
func (k *ScriptKeyboard) Press(keys string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.pressLocked(keys)
}

// Release releases each distinct key in keys, in first-seen order.
func (k *ScriptKeyboard) Release(keys string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.releaseLocked(keys)
}

// Type presses and releases every key in keys, duplicates included.
func (k *ScriptKeyboard) Type(keys string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.typeLocked(keys)
}

// Perform dispatches keys to press, release or type by action tag.
func (k *ScriptKeyboard) Perform(keys, action string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	switch action {
	case "PRESS":
		return k.pressLocked(keys)
	case "RELEASE":
		return k.releaseLocked(keys)
	case "TYPE":
		// TYPE falls into the undefined-action report after typing.
		if err := k.typeLocked(keys); err != nil {
			return err
		}
		fallthrough
	default:
		k.report.Report("Undefined key actions '%s' in perform method", action)
	}
	return nil
}

// TypeText types literal text using the typer for layout, or the
// keyboard's default layout when layout is empty. Typer failures are
// reported, not returned; only a stop request is returned.
func (k *ScriptKeyboard) TypeText(layout, text string) error {
	if strings.TrimSpace(layout) == "" {
		k.mu.Lock()
		layout = k.layout
		k.mu.Unlock()
	}
	typer, err := k.typers(k, layout)
	if err != nil {
		k.report.Report("%v", err)
		return nil
	}
	if err := typer.Type(text); err != nil {
		if errors.Is(err, ErrStopped) {
			return err
		}
		k.report.Report("%v", err)
	}
	return nil
}

func (k *ScriptKeyboard) pressLocked(keys string) error {
	for _, key := range uniqueKeys(keys) {
		if k.ctx.Err() != nil {
			return ErrStopped
		}
		code := ResolveKey(key)
		if code == KeyUndefined {
			k.report.Report("Undefined key '%s' in sequence '%s' in press method", key, keys)
			continue
		}
		if err := k.robot.KeyPress(code); err != nil {
			k.report.Report("press '%s': %v", key, err)
		}
		if err := k.delayLocked(k.multipliedLocked(k.pressDelay)); err != nil {
			return err
		}
	}
	return nil
}

func (k *ScriptKeyboard) releaseLocked(keys string) error {
	for _, key := range uniqueKeys(keys) {
		if k.ctx.Err() != nil {
			return ErrStopped
		}
		code := ResolveKey(key)
		if code == KeyUndefined {
			k.report.Report("Undefined key '%s' in release method", key)
			continue
		}
		if err := k.robot.KeyRelease(code); err != nil {
			k.report.Report("release '%s': %v", key, err)
		}
		if err := k.delayLocked(k.multipliedLocked(k.releaseDelay)); err != nil {
			return err
		}
	}
	return nil
}

func (k *ScriptKeyboard) typeLocked(keys string) error {
	for _, key := range strings.Fields(keys) {
		if k.ctx.Err() != nil {
			return ErrStopped
		}
		code := ResolveKey(key)
		if code == KeyUndefined {
			k.report.Report("Undefined key '%s' in type method", key)
			continue
		}
		if err := k.robot.KeyPress(code); err != nil {
			k.report.Report("press '%s': %v", key, err)
		}
		if err := k.delayLocked(k.multipliedLocked(k.pressDelay)); err != nil {
			return err
		}
		if err := k.robot.KeyRelease(code); err != nil {
			k.report.Report("release '%s': %v", key, err)
		}
		if err := k.delayLocked(k.multipliedLocked(k.releaseDelay)); err != nil {
			return err
		}
	}
	return nil
}

func (k *ScriptKeyboard) setMultiplierLocked(multiplier float64) {
	k.multiplier = max(multiplier, 0)
}

// multipliedLocked scales delay by the multiplier, saturating at
// maxDelay.
func (k *ScriptKeyboard) multipliedLocked(delay int) int {
	scaled := math.Round(float64(delay) * k.multiplier)
	if math.IsNaN(scaled) || scaled < 0 {
		scaled = 0
	}
	if scaled > maxDelay {
		scaled = maxDelay
	}
	return max(k.minDelay, int(scaled))
}

func (k *ScriptKeyboard) delayLocked(ms int) error {
	ms = min(ms, maxDelay)
	if err := k.sleep(k.ctx, time.Duration(ms)*time.Millisecond); err != nil {
		return ErrStopped
	}
	return nil
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// uniqueKeys splits keys on whitespace and drops repeated names, keeping
// the first occurrence of each.
func uniqueKeys(keys string) []string {
	fields := strings.Fields(keys)
	seen := make(map[string]struct{}, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
