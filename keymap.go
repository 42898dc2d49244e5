package main

import (
	"sort"
	"strings"

	evdev "github.com/holoplot/go-evdev"
)

// KeyUndefined is returned by ResolveKey for names that map to no key.
const KeyUndefined evdev.EvCode = evdev.KEY_RESERVED

// keyNames maps canonical script key names to Linux input key codes.
// Every code appears once so the table can be inverted for the recorder.
var keyNames = map[string]evdev.EvCode{
	"A": evdev.KEY_A, "B": evdev.KEY_B, "C": evdev.KEY_C, "D": evdev.KEY_D,
	"E": evdev.KEY_E, "F": evdev.KEY_F, "G": evdev.KEY_G, "H": evdev.KEY_H,
	"I": evdev.KEY_I, "J": evdev.KEY_J, "K": evdev.KEY_K, "L": evdev.KEY_L,
	"M": evdev.KEY_M, "N": evdev.KEY_N, "O": evdev.KEY_O, "P": evdev.KEY_P,
	"Q": evdev.KEY_Q, "R": evdev.KEY_R, "S": evdev.KEY_S, "T": evdev.KEY_T,
	"U": evdev.KEY_U, "V": evdev.KEY_V, "W": evdev.KEY_W, "X": evdev.KEY_X,
	"Y": evdev.KEY_Y, "Z": evdev.KEY_Z,

	"0": evdev.KEY_0, "1": evdev.KEY_1, "2": evdev.KEY_2, "3": evdev.KEY_3,
	"4": evdev.KEY_4, "5": evdev.KEY_5, "6": evdev.KEY_6, "7": evdev.KEY_7,
	"8": evdev.KEY_8, "9": evdev.KEY_9,

	"F1": evdev.KEY_F1, "F2": evdev.KEY_F2, "F3": evdev.KEY_F3, "F4": evdev.KEY_F4,
	"F5": evdev.KEY_F5, "F6": evdev.KEY_F6, "F7": evdev.KEY_F7, "F8": evdev.KEY_F8,
	"F9": evdev.KEY_F9, "F10": evdev.KEY_F10, "F11": evdev.KEY_F11, "F12": evdev.KEY_F12,
	"F13": evdev.KEY_F13, "F14": evdev.KEY_F14, "F15": evdev.KEY_F15, "F16": evdev.KEY_F16,
	"F17": evdev.KEY_F17, "F18": evdev.KEY_F18, "F19": evdev.KEY_F19, "F20": evdev.KEY_F20,
	"F21": evdev.KEY_F21, "F22": evdev.KEY_F22, "F23": evdev.KEY_F23, "F24": evdev.KEY_F24,

	"CTRL":         evdev.KEY_LEFTCTRL,
	"RIGHT_CTRL":   evdev.KEY_RIGHTCTRL,
	"SHIFT":        evdev.KEY_LEFTSHIFT,
	"RIGHT_SHIFT":  evdev.KEY_RIGHTSHIFT,
	"ALT":          evdev.KEY_LEFTALT,
	"ALT_GRAPH":    evdev.KEY_RIGHTALT,
	"META":         evdev.KEY_LEFTMETA,
	"RIGHT_META":   evdev.KEY_RIGHTMETA,
	"CONTEXT_MENU": evdev.KEY_COMPOSE,

	"ENTER":       evdev.KEY_ENTER,
	"ESCAPE":      evdev.KEY_ESC,
	"TAB":         evdev.KEY_TAB,
	"SPACE":       evdev.KEY_SPACE,
	"BACK_SPACE":  evdev.KEY_BACKSPACE,
	"DELETE":      evdev.KEY_DELETE,
	"INSERT":      evdev.KEY_INSERT,
	"HOME":        evdev.KEY_HOME,
	"END":         evdev.KEY_END,
	"PAGE_UP":     evdev.KEY_PAGEUP,
	"PAGE_DOWN":   evdev.KEY_PAGEDOWN,
	"UP":          evdev.KEY_UP,
	"DOWN":        evdev.KEY_DOWN,
	"LEFT":        evdev.KEY_LEFT,
	"RIGHT":       evdev.KEY_RIGHT,
	"CAPS_LOCK":   evdev.KEY_CAPSLOCK,
	"NUM_LOCK":    evdev.KEY_NUMLOCK,
	"SCROLL_LOCK": evdev.KEY_SCROLLLOCK,
	"PRINTSCREEN": evdev.KEY_SYSRQ,
	"PAUSE":       evdev.KEY_PAUSE,

	"MINUS":         evdev.KEY_MINUS,
	"EQUALS":        evdev.KEY_EQUAL,
	"OPEN_BRACKET":  evdev.KEY_LEFTBRACE,
	"CLOSE_BRACKET": evdev.KEY_RIGHTBRACE,
	"SEMICOLON":     evdev.KEY_SEMICOLON,
	"QUOTE":         evdev.KEY_APOSTROPHE,
	"BACK_QUOTE":    evdev.KEY_GRAVE,
	"BACK_SLASH":    evdev.KEY_BACKSLASH,
	"COMMA":         evdev.KEY_COMMA,
	"PERIOD":        evdev.KEY_DOT,
	"SLASH":         evdev.KEY_SLASH,

	"NUMPAD0": evdev.KEY_KP0, "NUMPAD1": evdev.KEY_KP1, "NUMPAD2": evdev.KEY_KP2,
	"NUMPAD3": evdev.KEY_KP3, "NUMPAD4": evdev.KEY_KP4, "NUMPAD5": evdev.KEY_KP5,
	"NUMPAD6": evdev.KEY_KP6, "NUMPAD7": evdev.KEY_KP7, "NUMPAD8": evdev.KEY_KP8,
	"NUMPAD9": evdev.KEY_KP9,

	"ADD":          evdev.KEY_KPPLUS,
	"SUBTRACT":     evdev.KEY_KPMINUS,
	"MULTIPLY":     evdev.KEY_KPASTERISK,
	"DIVIDE":       evdev.KEY_KPSLASH,
	"DECIMAL":      evdev.KEY_KPDOT,
	"NUMPAD_ENTER": evdev.KEY_KPENTER,
}

// keyAliases maps alternative spellings onto canonical names.
var keyAliases = map[string]string{
	"CONTROL":    "CTRL",
	"LEFT_CTRL":  "CTRL",
	"LEFT_SHIFT": "SHIFT",
	"LEFT_ALT":   "ALT",
	"RIGHT_ALT":  "ALT_GRAPH",
	"ALTGR":      "ALT_GRAPH",
	"WIN":        "META",
	"WINDOWS":    "META",
	"SUPER":      "META",
	"CMD":        "META",
	"LEFT_META":  "META",
	"MENU":       "CONTEXT_MENU",
	"ESC":        "ESCAPE",
	"RETURN":     "ENTER",
	"BACKSPACE":  "BACK_SPACE",
	"DEL":        "DELETE",
	"INS":        "INSERT",
	"PGUP":       "PAGE_UP",
	"PGDN":       "PAGE_DOWN",
	"CAPSLOCK":   "CAPS_LOCK",
	"NUMLOCK":    "NUM_LOCK",
	"PRINT":      "PRINTSCREEN",
	"EQUAL":      "EQUALS",
	"DOT":        "PERIOD",
	"GRAVE":      "BACK_QUOTE",
	"BACKSLASH":  "BACK_SLASH",
	"APOSTROPHE": "QUOTE",
}

// keyCodeNames is the inverse of keyNames.
var keyCodeNames = func() map[evdev.EvCode]string {
	m := make(map[evdev.EvCode]string, len(keyNames))
	for name, code := range keyNames {
		m[code] = name
	}
	return m
}()

// ResolveKey returns the key code for a script key name, or KeyUndefined.
// Names are matched case-insensitively.
func ResolveKey(name string) evdev.EvCode {
	n := strings.ToUpper(strings.TrimSpace(name))
	if canonical, ok := keyAliases[n]; ok {
		n = canonical
	}
	if code, ok := keyNames[n]; ok {
		return code
	}
	return KeyUndefined
}

// KeyName returns the canonical script name for a key code.
func KeyName(code evdev.EvCode) (string, bool) {
	name, ok := keyCodeNames[code]
	return name, ok
}

// KnownKeyNames lists canonical key names in sorted order.
func KnownKeyNames() []string {
	names := make([]string, 0, len(keyNames))
	for name := range keyNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KeyChar maps a key to its normal and shifted characters.
type KeyChar struct {
	Normal  string
	Shifted string
}

// KeyCharMap maps script key names to the characters they produce on a
// US keyboard layout.
var KeyCharMap = map[string]KeyChar{
	"A": {"a", "A"}, "B": {"b", "B"}, "C": {"c", "C"}, "D": {"d", "D"},
	"E": {"e", "E"}, "F": {"f", "F"}, "G": {"g", "G"}, "H": {"h", "H"},
	"I": {"i", "I"}, "J": {"j", "J"}, "K": {"k", "K"}, "L": {"l", "L"},
	"M": {"m", "M"}, "N": {"n", "N"}, "O": {"o", "O"}, "P": {"p", "P"},
	"Q": {"q", "Q"}, "R": {"r", "R"}, "S": {"s", "S"}, "T": {"t", "T"},
	"U": {"u", "U"}, "V": {"v", "V"}, "W": {"w", "W"}, "X": {"x", "X"},
	"Y": {"y", "Y"}, "Z": {"z", "Z"},

	"1": {"1", "!"}, "2": {"2", "@"}, "3": {"3", "#"}, "4": {"4", "$"},
	"5": {"5", "%"}, "6": {"6", "^"}, "7": {"7", "&"}, "8": {"8", "*"},
	"9": {"9", "("}, "0": {"0", ")"},

	"MINUS":         {"-", "_"},
	"EQUALS":        {"=", "+"},
	"OPEN_BRACKET":  {"[", "{"},
	"CLOSE_BRACKET": {"]", "}"},
	"SEMICOLON":     {";", ":"},
	"QUOTE":      {"'", "\""},
	"BACK_QUOTE": {"`", "~"},
	"BACK_SLASH": {"\\", "|"},
	"COMMA":      {",", "<"},
	"PERIOD":     {".", ">"},
	"SLASH":      {"/", "?"},
	"SPACE":      {" ", " "},
	"ENTER":      {"\n", "\n"},
	"TAB":        {"\t", "\t"},
}
