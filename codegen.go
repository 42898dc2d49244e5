package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const defaultLineSize = 80

// objectMethods lists the script methods of every object kind a
// generator can mirror.
var objectMethods = map[string][]string{
	"keyboard": {
		"getMinDelay",
		"getMultipliedPressDelay",
		"getMultipliedReleaseDelay",
		"getMultiplier",
		"getPressDelay",
		"getReleaseDelay",
		"getSpeed",
		"perform",
		"press",
		"release",
		"resetDelays",
		"resetMultiplier",
		"resetSpeed",
		"setDelays",
		"setMinDelay",
		"setMultiplier",
		"setPressDelay",
		"setReleaseDelay",
		"setSpeed",
		"type",
		"typeText",
	},
	"clipboard": {
		"get",
		"set",
	},
}

// CodeGenerator records method calls on a script object as source text.
type CodeGenerator struct {
	objectName string
	lineSize   int
	buf        strings.Builder
}

func newCodeGenerator(objectName string, lineSize int) *CodeGenerator {
	return &CodeGenerator{objectName: objectName, lineSize: lineSize}
}

// BuildCall appends object.method(params...); to the generated code.
// Calls longer than the line size are wrapped by splitting their longest
// string parameter into concatenated literals.
func (g *CodeGenerator) BuildCall(method string, params ...any) {
	g.buf.WriteString(formatCall(g.objectName, method, g.lineSize, params...))
}

// InvokeWithDefaults appends a call to method with no arguments.
func (g *CodeGenerator) InvokeWithDefaults(method string) {
	g.BuildCall(method)
}

func (g *CodeGenerator) GeneratedCode() string { return g.buf.String() }

func (g *CodeGenerator) LineSize() int { return g.lineSize }

// SetLineSize changes the wrap width for later calls. Zero or less
// disables wrapping.
func (g *CodeGenerator) SetLineSize(n int) { g.lineSize = n }

func (g *CodeGenerator) ObjectName() string { return g.objectName }

// MethodNames returns the methods of the mirrored object.
func (g *CodeGenerator) MethodNames() []string {
	return append([]string(nil), objectMethods[g.objectName]...)
}

// Reset clears the generated code.
func (g *CodeGenerator) Reset() { g.buf.Reset() }

func formatCall(object, method string, lineSize int, params ...any) string {
	args := make([]string, len(params))
	for i, p := range params {
		args[i] = formatParam(p)
	}
	call := object + "." + method + "(" + strings.Join(args, ",") + ");"
	if lineSize <= 0 || utf8.RuneCountInString(call) <= lineSize {
		return call + "\n"
	}
	i, ok := longestString(params)
	if !ok {
		return call + "\n"
	}
	head := object + "." + method + "("
	if i > 0 {
		head += strings.Join(args[:i], ",") + ","
	}
	head += "'"
	tail := "'"
	if i < len(args)-1 {
		tail += "," + strings.Join(args[i+1:], ",")
	}
	tail += ");"
	return wrapLiteral(head, escapeString(params[i].(string)), tail, lineSize)
}

// longestString returns the index of the string parameter with the
// longest escaped literal. Ties go to the later parameter.
func longestString(params []any) (int, bool) {
	best, bestLen := -1, -1
	for i, p := range params {
		s, ok := p.(string)
		if !ok {
			continue
		}
		if n := utf8.RuneCountInString(escapeString(s)); n >= bestLen {
			best, bestLen = i, n
		}
	}
	return best, best >= 0
}

// wrapLiteral lays out head+lit+tail over lines of at most size runes,
// breaking only between escape units of lit with a '+ newline ' boundary.
// The first line and the last line may overrun when head, tail or a single
// unit is already too long.
func wrapLiteral(head, lit, tail string, size int) string {
	units := literalUnits(lit)
	tailLen := utf8.RuneCountInString(tail)

	var b strings.Builder
	line := head
	lineLen := utf8.RuneCountInString(head)
	i := 0
	for {
		restLen := 0
		for _, u := range units[i:] {
			restLen += utf8.RuneCountInString(u)
		}
		if lineLen+restLen+tailLen <= size || i == len(units) {
			b.WriteString(line)
			b.WriteString(strings.Join(units[i:], ""))
			b.WriteString(tail)
			b.WriteString("\n")
			return b.String()
		}

		n, l := 0, lineLen
		for i+n < len(units) {
			ul := utf8.RuneCountInString(units[i+n])
			if l+ul+2 > size {
				break
			}
			l += ul
			n++
		}
		if remaining := len(units) - i; n >= remaining {
			n = remaining - 1
		}
		if n < 1 {
			n = 1
		}

		b.WriteString(line)
		b.WriteString(strings.Join(units[i:i+n], ""))
		b.WriteString("'+\n")
		i += n
		line = "'"
		lineLen = 1
	}
}

// literalUnits splits an escaped literal into runes, keeping each
// backslash escape together.
func literalUnits(lit string) []string {
	units := make([]string, 0, len(lit))
	for i := 0; i < len(lit); {
		if lit[i] == '\\' && i+1 < len(lit) {
			_, size := utf8.DecodeRuneInString(lit[i+1:])
			units = append(units, lit[i:i+1+size])
			i += 1 + size
			continue
		}
		_, size := utf8.DecodeRuneInString(lit[i:])
		units = append(units, lit[i:i+size])
		i += size
	}
	return units
}

func formatParam(p any) string {
	switch v := p.(type) {
	case nil:
		return "null"
	case string:
		return "'" + escapeString(v) + "'"
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}

var scriptEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func escapeString(s string) string {
	return scriptEscaper.Replace(s)
}
