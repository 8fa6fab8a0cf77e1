package slicer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterType_FullBodyReplacesForwardDeclaration(t *testing.T) {
	r := NewTypeRegistry()
	r.RegisterType("Node", "struct Node;", "fwd.h")
	r.RegisterType("Node", "struct Node { int value; };", "node.h")

	def, ok := r.GetType("Node")
	assert.True(t, ok)
	assert.Equal(t, "struct Node { int value; };", def)
}

func TestRegisterType_ForwardDeclarationDoesNotReplaceBody(t *testing.T) {
	r := NewTypeRegistry()
	r.RegisterType("Node", "struct Node { int value; };", "node.h")
	r.RegisterType("Node", "struct Node;", "fwd.h")

	def, ok := r.GetType("Node")
	assert.True(t, ok)
	assert.Equal(t, "struct Node { int value; };", def)
}

func TestRegisterType_LongerBodyWinsAmongTwoBodies(t *testing.T) {
	r := NewTypeRegistry()
	r.RegisterType("Point", "struct Point { int x; };", "a.h")
	r.RegisterType("Point", "struct Point { int x; int y; };", "b.h")

	def, _ := r.GetType("Point")
	assert.Equal(t, "struct Point { int x; int y; };", def)
}

func TestRegisterMacro_FirstOccurrenceWins(t *testing.T) {
	r := NewTypeRegistry()
	r.RegisterMacro("MAX", "#define MAX 100")
	r.RegisterMacro("MAX", "#define MAX 200")

	def, ok := r.GetMacro("MAX")
	assert.True(t, ok)
	assert.Equal(t, "#define MAX 100", def)
}

func TestRegisterInclude_AccumulatesPerFile(t *testing.T) {
	r := NewTypeRegistry()
	r.RegisterInclude("main.c", `"util.h"`)
	r.RegisterInclude("main.c", `<stdio.h>`)

	assert.Equal(t, []string{`"util.h"`, `<stdio.h>`}, r.Includes("main.c"))
}

func TestGetType_UnknownReturnsFalse(t *testing.T) {
	r := NewTypeRegistry()
	_, ok := r.GetType("Nope")
	assert.False(t, ok)
}
