package main

import (
	"fmt"
	"strings"
)

// Typer turns literal text into key strokes on a keyboard.
type Typer interface {
	Type(text string) error
}

// TyperFactory selects a Typer for a keyboard layout.
type TyperFactory func(kb KeyboardObject, layout string) (Typer, error)

type keyStroke struct {
	key   string
	shift bool
}

// layoutStrokes maps layout identifiers to rune tables.
var layoutStrokes = map[string]map[rune]keyStroke{
	"US": usStrokes(),
}

var layoutAliases = map[string]string{
	"EN":    "US",
	"EN_US": "US",
	"EN-US": "US",
}

func usStrokes() map[rune]keyStroke {
	m := make(map[rune]keyStroke, 2*len(KeyCharMap))
	for key, kc := range KeyCharMap {
		for _, r := range kc.Normal {
			m[r] = keyStroke{key: key}
		}
		for _, r := range kc.Shifted {
			if _, ok := m[r]; !ok {
				m[r] = keyStroke{key: key, shift: true}
			}
		}
	}
	return m
}

// NewTyper returns the typer registered for layout.
func NewTyper(kb KeyboardObject, layout string) (Typer, error) {
	id := strings.ToUpper(strings.TrimSpace(layout))
	if alias, ok := layoutAliases[id]; ok {
		id = alias
	}
	strokes, ok := layoutStrokes[id]
	if !ok {
		return nil, fmt.Errorf("unsupported keyboard layout %q", layout)
	}
	return &layoutTyper{kb: kb, layout: id, strokes: strokes}, nil
}

type layoutTyper struct {
	kb      KeyboardObject
	layout  string
	strokes map[rune]keyStroke
}

// Type checks every rune before sending anything so unsupported text is
// never half typed.
func (t *layoutTyper) Type(text string) error {
	seq := make([]keyStroke, 0, len(text))
	for _, r := range text {
		s, ok := t.strokes[r]
		if !ok {
			return fmt.Errorf("layout %s cannot type %q", t.layout, r)
		}
		seq = append(seq, s)
	}
	for _, s := range seq {
		if err := t.stroke(s); err != nil {
			return err
		}
	}
	return nil
}

func (t *layoutTyper) stroke(s keyStroke) error {
	if !s.shift {
		return t.kb.Type(s.key)
	}
	if err := t.kb.Press("SHIFT"); err != nil {
		return err
	}
	if err := t.kb.Type(s.key); err != nil {
		return err
	}
	return t.kb.Release("SHIFT")
}
