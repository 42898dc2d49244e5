package main

import (
	"errors"
	"fmt"
)

type argKind int

const (
	argString argKind = iota
	argInt
	argFloat
)

func (k argKind) String() string {
	switch k {
	case argString:
		return "string"
	case argInt:
		return "integer"
	default:
		return "number"
	}
}

// scriptMethod binds a script method name to a Go call.
type scriptMethod struct {
	params []argKind
	invoke func(args []any) (any, error)
}

func noResult(err error) (any, error) { return nil, err }

func keyboardMethods(kb KeyboardObject) map[string]scriptMethod {
	str := []argKind{argString}
	num := []argKind{argInt}
	flt := []argKind{argFloat}
	return map[string]scriptMethod{
		"press":   {str, func(a []any) (any, error) { return noResult(kb.Press(a[0].(string))) }},
		"release": {str, func(a []any) (any, error) { return noResult(kb.Release(a[0].(string))) }},
		"type":    {str, func(a []any) (any, error) { return noResult(kb.Type(a[0].(string))) }},
		"perform": {[]argKind{argString, argString}, func(a []any) (any, error) {
			return noResult(kb.Perform(a[0].(string), a[1].(string)))
		}},
		"typeText": {[]argKind{argString, argString}, func(a []any) (any, error) {
			return noResult(kb.TypeText(a[0].(string), a[1].(string)))
		}},

		"getPressDelay":             {nil, func([]any) (any, error) { return kb.PressDelay(), nil }},
		"getReleaseDelay":           {nil, func([]any) (any, error) { return kb.ReleaseDelay(), nil }},
		"getMultiplier":             {nil, func([]any) (any, error) { return kb.Multiplier(), nil }},
		"getMinDelay":               {nil, func([]any) (any, error) { return kb.MinDelay(), nil }},
		"getMultipliedPressDelay":   {nil, func([]any) (any, error) { return kb.MultipliedPressDelay(), nil }},
		"getMultipliedReleaseDelay": {nil, func([]any) (any, error) { return kb.MultipliedReleaseDelay(), nil }},
		"getSpeed":                  {nil, func([]any) (any, error) { return kb.Speed(), nil }},

		"setPressDelay":   {num, func(a []any) (any, error) { kb.SetPressDelay(a[0].(int)); return nil, nil }},
		"setReleaseDelay": {num, func(a []any) (any, error) { kb.SetReleaseDelay(a[0].(int)); return nil, nil }},
		"setDelays":       {num, func(a []any) (any, error) { kb.SetDelays(a[0].(int)); return nil, nil }},
		"setMinDelay":     {num, func(a []any) (any, error) { kb.SetMinDelay(a[0].(int)); return nil, nil }},
		"setMultiplier":   {flt, func(a []any) (any, error) { kb.SetMultiplier(a[0].(float64)); return nil, nil }},
		"setSpeed":        {flt, func(a []any) (any, error) { kb.SetSpeed(a[0].(float64)); return nil, nil }},

		"resetDelays":     {nil, func([]any) (any, error) { kb.ResetDelays(); return nil, nil }},
		"resetMultiplier": {nil, func([]any) (any, error) { kb.ResetMultiplier(); return nil, nil }},
		"resetSpeed":      {nil, func([]any) (any, error) { kb.ResetSpeed(); return nil, nil }},
	}
}

func clipboardMethods(cb ClipboardObject) map[string]scriptMethod {
	return map[string]scriptMethod{
		"get": {nil, func([]any) (any, error) {
			if s, ok := cb.Get(); ok {
				return s, nil
			}
			return nil, nil
		}},
		"set": {[]argKind{argString}, func(a []any) (any, error) { cb.Set(a[0].(string)); return nil, nil }},
	}
}

// Session runs parsed scripts against one set of script objects.
type Session struct {
	Keyboard  KeyboardObject
	Clipboard ClipboardObject
	Report    Reporter
	// AfterCall, when set, runs after every executed call.
	AfterCall func(Call)

	objects map[string]map[string]scriptMethod
}

// Run parses and executes src. Syntax errors and bad calls are reported
// and skipped; the only error returned is a stop request.
func (s *Session) Run(src string) error {
	calls, errs := ParseScript(src)
	for _, err := range errs {
		s.Report.Report("%v", err)
	}
	for _, c := range calls {
		if err := s.Exec(c); err != nil {
			return err
		}
	}
	return nil
}

// Exec runs a single call.
func (s *Session) Exec(c Call) error {
	if s.objects == nil {
		s.objects = make(map[string]map[string]scriptMethod)
		if s.Keyboard != nil {
			s.objects["keyboard"] = keyboardMethods(s.Keyboard)
		}
		if s.Clipboard != nil {
			s.objects["clipboard"] = clipboardMethods(s.Clipboard)
		}
	}

	methods, ok := s.objects[c.Object]
	if !ok {
		s.Report.Report("line %d: undefined object '%s'", c.Line, c.Object)
		return nil
	}
	m, ok := methods[c.Method]
	if !ok {
		s.Report.Report("line %d: undefined method '%s.%s'", c.Line, c.Object, c.Method)
		return nil
	}
	args, err := coerceArgs(m.params, c.Args)
	if err != nil {
		s.Report.Report("line %d: %s.%s: %v", c.Line, c.Object, c.Method, err)
		return nil
	}

	result, err := m.invoke(args)
	if s.AfterCall != nil {
		s.AfterCall(c)
	}
	if err != nil {
		if errors.Is(err, ErrStopped) {
			return err
		}
		s.Report.Report("line %d: %s: %v", c.Line, c, err)
		return nil
	}
	if result != nil {
		dbg("line %d: %s = %v", c.Line, c, result)
	}
	return nil
}

func coerceArgs(params []argKind, args []any) ([]any, error) {
	if len(args) != len(params) {
		return nil, fmt.Errorf("expects %d argument(s), got %d", len(params), len(args))
	}
	out := make([]any, len(args))
	for i, kind := range params {
		v, ok := coerce(kind, args[i])
		if !ok {
			return nil, fmt.Errorf("argument %d: expected %s, got %v", i+1, kind, args[i])
		}
		out[i] = v
	}
	return out, nil
}

func coerce(kind argKind, v any) (any, bool) {
	switch kind {
	case argString:
		s, ok := v.(string)
		return s, ok
	case argInt:
		switch n := v.(type) {
		case int:
			return n, true
		case float64:
			if n == float64(int(n)) {
				return int(n), true
			}
		}
	case argFloat:
		switch n := v.(type) {
		case int:
			return float64(n), true
		case float64:
			return n, true
		}
	}
	return nil, false
}
