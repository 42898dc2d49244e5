package main

// ClipboardObject is the script-facing clipboard.
type ClipboardObject interface {
	// Get returns the clipboard text; ok is false when there is none.
	Get() (text string, ok bool)
	Set(text string)
}

// ClipboardCodeGenerator records clipboard calls as script source.
type ClipboardCodeGenerator struct {
	*CodeGenerator
}

func NewClipboardCodeGenerator(lineSize int) *ClipboardCodeGenerator {
	return &ClipboardCodeGenerator{CodeGenerator: newCodeGenerator("clipboard", lineSize)}
}

// Get records the call. No clipboard is read while recording, so it
// always reports no value.
func (g *ClipboardCodeGenerator) Get() (string, bool) {
	g.InvokeWithDefaults("get")
	return "", false
}

func (g *ClipboardCodeGenerator) Set(text string) {
	g.BuildCall("set", text)
}
