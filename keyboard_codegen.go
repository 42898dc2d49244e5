package main

// KeyboardCodeGenerator mirrors KeyboardObject, recording each call as
// keyboard script source instead of sending key events. Getters record the
// call and return zero values.
type KeyboardCodeGenerator struct {
	*CodeGenerator
}

func NewKeyboardCodeGenerator(lineSize int) *KeyboardCodeGenerator {
	return &KeyboardCodeGenerator{CodeGenerator: newCodeGenerator("keyboard", lineSize)}
}

func (g *KeyboardCodeGenerator) Press(keys string) error {
	g.BuildCall("press", keys)
	return nil
}

func (g *KeyboardCodeGenerator) Release(keys string) error {
	g.BuildCall("release", keys)
	return nil
}

func (g *KeyboardCodeGenerator) Type(keys string) error {
	g.BuildCall("type", keys)
	return nil
}

func (g *KeyboardCodeGenerator) Perform(keys, action string) error {
	g.BuildCall("perform", keys, action)
	return nil
}

func (g *KeyboardCodeGenerator) TypeText(layout, text string) error {
	g.BuildCall("typeText", layout, text)
	return nil
}

func (g *KeyboardCodeGenerator) PressDelay() int {
	g.InvokeWithDefaults("getPressDelay")
	return 0
}

func (g *KeyboardCodeGenerator) ReleaseDelay() int {
	g.InvokeWithDefaults("getReleaseDelay")
	return 0
}

func (g *KeyboardCodeGenerator) Multiplier() float64 {
	g.InvokeWithDefaults("getMultiplier")
	return 0
}

func (g *KeyboardCodeGenerator) MinDelay() int {
	g.InvokeWithDefaults("getMinDelay")
	return 0
}

func (g *KeyboardCodeGenerator) MultipliedPressDelay() int {
	g.InvokeWithDefaults("getMultipliedPressDelay")
	return 0
}

func (g *KeyboardCodeGenerator) MultipliedReleaseDelay() int {
	g.InvokeWithDefaults("getMultipliedReleaseDelay")
	return 0
}

func (g *KeyboardCodeGenerator) Speed() float64 {
	g.InvokeWithDefaults("getSpeed")
	return 0
}

func (g *KeyboardCodeGenerator) SetPressDelay(delay int)   { g.BuildCall("setPressDelay", delay) }
func (g *KeyboardCodeGenerator) SetReleaseDelay(delay int) { g.BuildCall("setReleaseDelay", delay) }
func (g *KeyboardCodeGenerator) SetDelays(delay int)       { g.BuildCall("setDelays", delay) }
func (g *KeyboardCodeGenerator) SetMinDelay(delay int)     { g.BuildCall("setMinDelay", delay) }

func (g *KeyboardCodeGenerator) SetMultiplier(multiplier float64) {
	g.BuildCall("setMultiplier", multiplier)
}

func (g *KeyboardCodeGenerator) SetSpeed(speed float64) {
	g.BuildCall("setSpeed", speed)
}

func (g *KeyboardCodeGenerator) ResetDelays()     { g.InvokeWithDefaults("resetDelays") }
func (g *KeyboardCodeGenerator) ResetMultiplier() { g.InvokeWithDefaults("resetMultiplier") }
func (g *KeyboardCodeGenerator) ResetSpeed()      { g.InvokeWithDefaults("resetSpeed") }
