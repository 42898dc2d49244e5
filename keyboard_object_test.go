package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	evdev "github.com/holoplot/go-evdev"
)

type robotEvent struct {
	press bool
	code  evdev.EvCode
}

func pressed(code evdev.EvCode) robotEvent  { return robotEvent{press: true, code: code} }
func released(code evdev.EvCode) robotEvent { return robotEvent{code: code} }

type fakeRobot struct {
	mu     sync.Mutex
	events []robotEvent
	err    error
}

func (r *fakeRobot) KeyPress(code evdev.EvCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, pressed(code))
	return r.err
}

func (r *fakeRobot) KeyRelease(code evdev.EvCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, released(code))
	return r.err
}

func (r *fakeRobot) Events() []robotEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]robotEvent(nil), r.events...)
}

type captureReporter struct {
	mu    sync.Mutex
	lines []string
}

func (r *captureReporter) Report(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *captureReporter) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

type testKeyboard struct {
	*ScriptKeyboard
	robot  *fakeRobot
	report *captureReporter
	sleeps []time.Duration
}

// newTestKeyboard returns a keyboard whose delays are recorded instead of
// slept.
func newTestKeyboard(t *testing.T) *testKeyboard {
	t.Helper()
	tk := &testKeyboard{robot: &fakeRobot{}, report: &captureReporter{}}
	tk.ScriptKeyboard = NewScriptKeyboard(context.Background(), tk.robot, tk.report)
	tk.sleep = func(ctx context.Context, d time.Duration) error {
		tk.sleeps = append(tk.sleeps, d)
		return ctx.Err()
	}
	return tk
}

func TestScriptKeyboardDefaults(t *testing.T) {
	kb := newTestKeyboard(t)
	if kb.PressDelay() != 10 || kb.ReleaseDelay() != 10 {
		t.Fatalf("unexpected delays: press=%d release=%d", kb.PressDelay(), kb.ReleaseDelay())
	}
	if kb.Multiplier() != 1 {
		t.Fatalf("unexpected multiplier: %v", kb.Multiplier())
	}
	if kb.MinDelay() != 5 {
		t.Fatalf("unexpected min delay: %d", kb.MinDelay())
	}
	if kb.Speed() != 1 {
		t.Fatalf("unexpected speed: %v", kb.Speed())
	}
}

func TestSetDelaysClampNegative(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: 0, want: 0},
		{in: 1, want: 1},
		{in: 250, want: 250},
		{in: -1, want: 0},
		{in: -500, want: 0},
	}
	for _, tt := range tests {
		kb := newTestKeyboard(t)
		kb.SetPressDelay(tt.in)
		if got := kb.PressDelay(); got != tt.want {
			t.Errorf("SetPressDelay(%d): got %d want %d", tt.in, got, tt.want)
		}
		kb.SetReleaseDelay(tt.in)
		if got := kb.ReleaseDelay(); got != tt.want {
			t.Errorf("SetReleaseDelay(%d): got %d want %d", tt.in, got, tt.want)
		}
		kb.ResetDelays()
		kb.SetDelays(tt.in)
		if kb.PressDelay() != tt.want || kb.ReleaseDelay() != tt.want {
			t.Errorf("SetDelays(%d): got press=%d release=%d want %d", tt.in, kb.PressDelay(), kb.ReleaseDelay(), tt.want)
		}
	}
}

func TestMultipliedDelays(t *testing.T) {
	tests := []struct {
		multiplier float64
		want       int
	}{
		{multiplier: 1, want: 10},
		{multiplier: 2.5, want: 25},
		{multiplier: 1.25, want: 13},
		{multiplier: 0.75, want: 8},
		{multiplier: 0.2, want: 5},
		{multiplier: 0, want: 5},
		{multiplier: -3, want: 5},
	}
	for _, tt := range tests {
		kb := newTestKeyboard(t)
		kb.SetMultiplier(tt.multiplier)
		if got := kb.MultipliedPressDelay(); got != tt.want {
			t.Errorf("multiplier %v: press delay %d want %d", tt.multiplier, got, tt.want)
		}
		if got := kb.MultipliedReleaseDelay(); got != tt.want {
			t.Errorf("multiplier %v: release delay %d want %d", tt.multiplier, got, tt.want)
		}
	}
}

func TestSetMultiplierClampsNegative(t *testing.T) {
	kb := newTestKeyboard(t)
	kb.SetMultiplier(-0.5)
	if got := kb.Multiplier(); got != 0 {
		t.Fatalf("expected multiplier 0, got %v", got)
	}
}

func TestSpeed(t *testing.T) {
	kb := newTestKeyboard(t)

	kb.SetSpeed(2)
	if kb.Multiplier() != 0.5 || kb.Speed() != 2 {
		t.Fatalf("speed 2: multiplier=%v speed=%v", kb.Multiplier(), kb.Speed())
	}

	kb.SetSpeed(3)
	if kb.Speed() != 3 {
		t.Fatalf("speed 3: got %v", kb.Speed())
	}

	kb.SetSpeed(1.26)
	if kb.Speed() != 1.3 {
		t.Fatalf("speed 1.26 should round to 1.3, got %v", kb.Speed())
	}

	kb.SetSpeed(0.1)
	floor := kb.Multiplier()
	kb.SetSpeed(0.05)
	if kb.Multiplier() != floor {
		t.Fatalf("speed 0.05 should behave as 0.1: got multiplier %v want %v", kb.Multiplier(), floor)
	}
	kb.SetSpeed(-4)
	if kb.Multiplier() != floor || kb.Speed() != 0.1 {
		t.Fatalf("negative speed should clamp to 0.1: multiplier=%v speed=%v", kb.Multiplier(), kb.Speed())
	}

	kb.SetMultiplier(0)
	if got := kb.Speed(); got != speedUnbounded {
		t.Fatalf("expected unbounded speed sentinel, got %v", got)
	}

	kb.ResetSpeed()
	if kb.Multiplier() != 1 {
		t.Fatalf("ResetSpeed: multiplier %v", kb.Multiplier())
	}
	kb.SetMultiplier(4)
	kb.ResetMultiplier()
	if kb.Multiplier() != 1 {
		t.Fatalf("ResetMultiplier: multiplier %v", kb.Multiplier())
	}
}

func TestSetMinDelayKeepsNegative(t *testing.T) {
	kb := newTestKeyboard(t)
	kb.SetMinDelay(-3)
	if got := kb.MinDelay(); got != -3 {
		t.Fatalf("expected -3, got %d", got)
	}
	kb.SetPressDelay(0)
	if got := kb.MultipliedPressDelay(); got != 0 {
		t.Fatalf("expected multiplied delay 0, got %d", got)
	}
}

func TestResetDelaysRestoresDefaults(t *testing.T) {
	kb := newTestKeyboard(t)
	kb.SetPressDelay(70)
	kb.SetReleaseDelay(-2)
	kb.SetDelays(33)
	kb.SetPressDelay(1)
	kb.ResetDelays()
	if kb.PressDelay() != 10 || kb.ReleaseDelay() != 10 {
		t.Fatalf("unexpected delays after reset: press=%d release=%d", kb.PressDelay(), kb.ReleaseDelay())
	}
}

func TestPressCollapsesDuplicates(t *testing.T) {
	kb := newTestKeyboard(t)
	kb.SetPressDelay(20)
	if err := kb.Press("A A B"); err != nil {
		t.Fatalf("Press: %v", err)
	}
	want := []robotEvent{pressed(evdev.KEY_A), pressed(evdev.KEY_B)}
	if got := kb.robot.Events(); !slices.Equal(got, want) {
		t.Fatalf("unexpected events: got=%v want=%v", got, want)
	}
	wantSleeps := []time.Duration{20 * time.Millisecond, 20 * time.Millisecond}
	if !slices.Equal(kb.sleeps, wantSleeps) {
		t.Fatalf("unexpected sleeps: got=%v want=%v", kb.sleeps, wantSleeps)
	}
	if lines := kb.report.Lines(); len(lines) != 0 {
		t.Fatalf("unexpected diagnostics: %v", lines)
	}
}

func TestReleaseCollapsesDuplicates(t *testing.T) {
	kb := newTestKeyboard(t)
	kb.SetReleaseDelay(0)
	if err := kb.Release("CTRL  SHIFT CTRL"); err != nil {
		t.Fatalf("Release: %v", err)
	}
	want := []robotEvent{released(evdev.KEY_LEFTCTRL), released(evdev.KEY_LEFTSHIFT)}
	if got := kb.robot.Events(); !slices.Equal(got, want) {
		t.Fatalf("unexpected events: got=%v want=%v", got, want)
	}
	wantSleeps := []time.Duration{5 * time.Millisecond, 5 * time.Millisecond}
	if !slices.Equal(kb.sleeps, wantSleeps) {
		t.Fatalf("release delay should be floored at min delay: got=%v", kb.sleeps)
	}
}

func TestTypeKeepsDuplicates(t *testing.T) {
	kb := newTestKeyboard(t)
	kb.SetPressDelay(30)
	kb.SetReleaseDelay(40)
	if err := kb.Type("A A"); err != nil {
		t.Fatalf("Type: %v", err)
	}
	want := []robotEvent{
		pressed(evdev.KEY_A), released(evdev.KEY_A),
		pressed(evdev.KEY_A), released(evdev.KEY_A),
	}
	if got := kb.robot.Events(); !slices.Equal(got, want) {
		t.Fatalf("unexpected events: got=%v want=%v", got, want)
	}
	wantSleeps := []time.Duration{30 * time.Millisecond, 40 * time.Millisecond, 30 * time.Millisecond, 40 * time.Millisecond}
	if !slices.Equal(kb.sleeps, wantSleeps) {
		t.Fatalf("unexpected sleeps: got=%v want=%v", kb.sleeps, wantSleeps)
	}
}

func TestUndefinedKeysAreReportedAndSkipped(t *testing.T) {
	kb := newTestKeyboard(t)
	if err := kb.Press("A ZZZNOTAKEY B"); err != nil {
		t.Fatalf("Press: %v", err)
	}
	want := []robotEvent{pressed(evdev.KEY_A), pressed(evdev.KEY_B)}
	if got := kb.robot.Events(); !slices.Equal(got, want) {
		t.Fatalf("unexpected events: got=%v want=%v", got, want)
	}
	lines := kb.report.Lines()
	if len(lines) != 1 || !strings.Contains(lines[0], "ZZZNOTAKEY") {
		t.Fatalf("expected one diagnostic naming the key, got %v", lines)
	}

	if err := kb.Release("NOPE"); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := kb.Type("NOPE A"); err != nil {
		t.Fatalf("Type: %v", err)
	}
	if got := len(kb.report.Lines()); got != 3 {
		t.Fatalf("expected 3 diagnostics, got %d: %v", got, kb.report.Lines())
	}
}

func TestEmptyKeysIsNoop(t *testing.T) {
	kb := newTestKeyboard(t)
	for _, keys := range []string{"", "   "} {
		if err := kb.Press(keys); err != nil {
			t.Fatalf("Press(%q): %v", keys, err)
		}
		if err := kb.Type(keys); err != nil {
			t.Fatalf("Type(%q): %v", keys, err)
		}
	}
	if len(kb.robot.Events()) != 0 || len(kb.report.Lines()) != 0 {
		t.Fatalf("expected no events or diagnostics, got %v %v", kb.robot.Events(), kb.report.Lines())
	}
}

func TestPerform(t *testing.T) {
	tests := []struct {
		action      string
		want        []robotEvent
		diagnostics int
	}{
		{action: "PRESS", want: []robotEvent{pressed(evdev.KEY_A)}},
		{action: "RELEASE", want: []robotEvent{released(evdev.KEY_A)}},
		{action: "TYPE", want: []robotEvent{pressed(evdev.KEY_A), released(evdev.KEY_A)}, diagnostics: 1},
		{action: "press", diagnostics: 1},
		{action: "CLICK", diagnostics: 1},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			kb := newTestKeyboard(t)
			if err := kb.Perform("A", tt.action); err != nil {
				t.Fatalf("Perform: %v", err)
			}
			if got := kb.robot.Events(); !slices.Equal(got, tt.want) {
				t.Fatalf("unexpected events: got=%v want=%v", got, tt.want)
			}
			lines := kb.report.Lines()
			if len(lines) != tt.diagnostics {
				t.Fatalf("expected %d diagnostics, got %v", tt.diagnostics, lines)
			}
			if tt.diagnostics > 0 && !strings.Contains(lines[0], tt.action) {
				t.Fatalf("diagnostic should name the action: %q", lines[0])
			}
		})
	}
}

func TestRobotErrorsAreReported(t *testing.T) {
	kb := newTestKeyboard(t)
	kb.robot.err = errors.New("device gone")
	if err := kb.Type("A B"); err != nil {
		t.Fatalf("Type: %v", err)
	}
	if got := len(kb.robot.Events()); got != 4 {
		t.Fatalf("sequence should continue after robot errors, got %d events", got)
	}
	if got := len(kb.report.Lines()); got != 4 {
		t.Fatalf("expected one diagnostic per failed event, got %v", kb.report.Lines())
	}
}

func TestStopDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	robot := &fakeRobot{}
	kb := NewScriptKeyboard(ctx, robot, &captureReporter{})
	kb.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	if err := kb.Press("A B"); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	want := []robotEvent{pressed(evdev.KEY_A)}
	if got := robot.Events(); !slices.Equal(got, want) {
		t.Fatalf("unexpected events: got=%v want=%v", got, want)
	}

	if err := kb.Type("C"); !errors.Is(err, ErrStopped) {
		t.Fatalf("later operations should stop too, got %v", err)
	}
	if err := kb.Perform("C", "TYPE"); !errors.Is(err, ErrStopped) {
		t.Fatalf("Perform after stop: got %v", err)
	}
	if got := len(robot.Events()); got != 1 {
		t.Fatalf("no events expected after stop, got %v", robot.Events())
	}
}

func TestSleepContext(t *testing.T) {
	if err := sleepContext(context.Background(), 0); err != nil {
		t.Fatalf("zero sleep: %v", err)
	}
	if err := sleepContext(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("short sleep: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("cancelled sleep did not return promptly")
	}
}

func TestOperationsAreSerialized(t *testing.T) {
	robot := &fakeRobot{}
	kb := NewScriptKeyboard(context.Background(), robot, &captureReporter{})
	entered := make(chan struct{})
	release := make(chan struct{})
	kb.sleep = func(ctx context.Context, d time.Duration) error {
		entered <- struct{}{}
		<-release
		return nil
	}

	pressDone := make(chan error, 1)
	go func() { pressDone <- kb.Press("A") }()
	<-entered

	setDone := make(chan struct{})
	go func() {
		kb.SetPressDelay(50)
		close(setDone)
	}()

	select {
	case <-setDone:
		t.Fatal("setter ran while a press was waiting on its delay")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	if err := <-pressDone; err != nil {
		t.Fatalf("Press: %v", err)
	}
	select {
	case <-setDone:
	case <-time.After(time.Second):
		t.Fatal("setter never ran")
	}
	if kb.PressDelay() != 50 {
		t.Fatalf("expected press delay 50, got %d", kb.PressDelay())
	}
}

func TestUniqueKeys(t *testing.T) {
	got := uniqueKeys(" B A\tB  C A ")
	want := []string{"B", "A", "C"}
	if !slices.Equal(got, want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
}

func TestLargeDelaysSaturate(t *testing.T) {
	maxWait := time.Duration(math.MaxInt32) * time.Millisecond
	tests := []struct {
		name       string
		delay      int
		multiplier float64
		minDelay   int
	}{
		{name: "huge delay", delay: math.MaxInt, multiplier: 4, minDelay: 5},
		{name: "delay times one", delay: 10_000_000_000_000, multiplier: 1, minDelay: 5},
		{name: "huge multiplier", delay: 10, multiplier: math.MaxFloat64, minDelay: 5},
		{name: "huge min delay", delay: 10, multiplier: 1, minDelay: math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := newTestKeyboard(t)
			kb.SetPressDelay(tt.delay)
			kb.SetMultiplier(tt.multiplier)
			kb.SetMinDelay(tt.minDelay)
			if tt.minDelay < math.MaxInt32 {
				if got := kb.MultipliedPressDelay(); got != math.MaxInt32 {
					t.Fatalf("multiplied delay %d want %d", got, math.MaxInt32)
				}
			}
			if err := kb.Press("A"); err != nil {
				t.Fatalf("Press: %v", err)
			}
			if len(kb.sleeps) != 1 || kb.sleeps[0] != maxWait {
				t.Fatalf("sleeps %v want [%v]", kb.sleeps, maxWait)
			}
		})
	}
}

func TestMultipliedDelayKeepsSmallValues(t *testing.T) {
	kb := newTestKeyboard(t)
	kb.SetPressDelay(math.MaxInt32 / 2)
	kb.SetMultiplier(2)
	if got := kb.MultipliedPressDelay(); got != math.MaxInt32-1 {
		t.Fatalf("multiplied delay %d", got)
	}
}
