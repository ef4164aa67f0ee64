package cgen

import (
	"fmt"
	"strings"

	"github.com/roach88/cjsongen/internal/node"
)

type lineKind int

const (
	lineBegin lineKind = iota
	linePush
	lineClose
	lineCloseAndBegin
	lineLabel
)

type outLine struct {
	kind lineKind
	text string
}

// Output accumulates lines of C and indents them by block depth.
type Output struct {
	width int
	lines []outLine
}

// NewOutput returns an Output indenting by width spaces per level.
func NewOutput(width int) *Output {
	if width <= 0 {
		width = DefaultIndentWidth
	}
	return &Output{width: width}
}

// Begin writes line and opens a block.
func (o *Output) Begin(line string) { o.lines = append(o.lines, outLine{lineBegin, line}) }

// Beginf is Begin with formatting.
func (o *Output) Beginf(format string, args ...any) { o.Begin(fmt.Sprintf(format, args...)) }

// Push writes line at the current depth.
func (o *Output) Push(line string) { o.lines = append(o.lines, outLine{linePush, line}) }

// Pushf is Push with formatting.
func (o *Output) Pushf(format string, args ...any) { o.Push(fmt.Sprintf(format, args...)) }

// Close closes a block and writes line at the outer depth.
func (o *Output) Close(line string) { o.lines = append(o.lines, outLine{lineClose, line}) }

// CloseAndBegin closes a block, writes line, and opens a new block, as in
// "} else {".
func (o *Output) CloseAndBegin(line string) {
	o.lines = append(o.lines, outLine{lineCloseAndBegin, line})
}

// CloseAndBeginf is CloseAndBegin with formatting.
func (o *Output) CloseAndBeginf(format string, args ...any) {
	o.CloseAndBegin(fmt.Sprintf(format, args...))
}

// Label writes a goto label one level out from the current depth.
func (o *Output) Label(name string) { o.lines = append(o.lines, outLine{lineLabel, name + ":"}) }

// Blank writes an empty line.
func (o *Output) Blank() { o.Push("") }

// String renders the accumulated lines. Unbalanced blocks are a generator
// bug and panic with *node.Fault.
func (o *Output) String() string {
	var b strings.Builder
	level := 0
	write := func(text string) {
		if level < 0 {
			panic(&node.Fault{Op: "Output", Message: "close() without begin()"})
		}
		if text != "" {
			b.WriteString(strings.Repeat(" ", level*o.width))
			b.WriteString(text)
		}
		b.WriteByte('\n')
	}
	for _, l := range o.lines {
		switch l.kind {
		case lineBegin:
			write(l.text)
			level++
		case linePush:
			write(l.text)
		case lineClose:
			level--
			write(l.text)
		case lineCloseAndBegin:
			level--
			write(l.text)
			level++
		case lineLabel:
			level--
			write(l.text)
			level++
		}
	}
	if level != 0 {
		panic(&node.Fault{Op: "Output", Message: fmt.Sprintf("%d block(s) left open", level)})
	}
	return b.String()
}
