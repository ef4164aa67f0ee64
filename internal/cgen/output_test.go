package cgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cjsongen/internal/node"
)

func TestOutput_IndentsBlocks(t *testing.T) {
	out := NewOutput(4)
	out.Begin("void f(void) {")
	out.Begin("if (x) {")
	out.Push("y();")
	out.CloseAndBegin("} else {")
	out.Push("z();")
	out.Close("}")
	out.Blank()
	out.Label("drop")
	out.Push("return;")
	out.Close("}")

	want := "void f(void) {\n" +
		"    if (x) {\n" +
		"        y();\n" +
		"    } else {\n" +
		"        z();\n" +
		"    }\n" +
		"\n" +
		"drop:\n" +
		"    return;\n" +
		"}\n"
	assert.Equal(t, want, out.String())
}

func TestOutput_Width(t *testing.T) {
	out := NewOutput(2)
	out.Begin("{")
	out.Pushf("int %s = %d;", "x", 1)
	out.Close("}")
	assert.Equal(t, "{\n  int x = 1;\n}\n", out.String())
}

func TestOutput_UnbalancedPanics(t *testing.T) {
	open := NewOutput(4)
	open.Begin("{")

	var fault *node.Fault
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			fault = r.(*node.Fault)
		}()
		_ = open.String()
	}()
	assert.Contains(t, fault.Error(), "left open")

	closed := NewOutput(4)
	closed.Close("}")
	assert.Panics(t, func() { _ = closed.String() })
}
