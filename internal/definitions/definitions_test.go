package definitions

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leekwars/leekc/internal/parser"
	"github.com/leekwars/leekc/internal/source"
)

const script = `class B {}
class C extends B {
	private integer hp = 10
	constructor(integer h) { this.hp = h }
	static m(a, b) {
		return a
	}
}
global g = 1;
var a = 1;
function f(x) {
	var inner = 2;

}
for (var i = 0; i < 3; i++) {
	var j = i;
}
var after = 3;
`

func collect(t *testing.T, cursor Cursor) *Result {
	t.Helper()
	unit := source.NewUnit("main", "ai/main.leek", script, 4)
	res, compiled, err := Collect(context.Background(), unit, cursor, parser.Options{})
	require.NoError(t, err)
	require.True(t, compiled.Success, "%v", compiled.Diagnostics)
	return res
}

func names(vars []*Variable) []string {
	var out []string
	for _, v := range vars {
		out = append(out, v.Name)
	}
	return out
}

func TestTopLevelDefinitions(t *testing.T) {
	res := collect(t, Cursor{Line: 13, Column: 2})

	require.Len(t, res.Classes, 2)
	c := res.Class("C")
	require.NotNil(t, c)
	assert.Equal(t, "B", c.Parent)
	assert.Equal(t, 2, c.Line)
	assert.Equal(t, "main.leek", c.FileName)
	assert.Equal(t, "ai", c.FolderName)

	hp := c.Field("hp")
	require.NotNil(t, hp)
	assert.Equal(t, "integer", hp.Type)
	assert.Equal(t, "private", hp.Level)

	require.Len(t, c.Constructors, 1)
	assert.Equal(t, []Argument{{Name: "h", Type: "integer"}}, c.Constructors[0].Arguments)
	m := c.Method("m")
	require.NotNil(t, m)
	assert.True(t, m.Static)
	assert.Len(t, m.Arguments, 2)

	f := res.Function("f")
	require.NotNil(t, f)
	assert.Equal(t, []Argument{{Name: "x", Type: "any"}}, f.Arguments)
	assert.Equal(t, []string{"g"}, names(res.Globals))
}

func TestVariablesAtCursor(t *testing.T) {
	tests := []struct {
		name   string
		cursor Cursor
		want   []string
	}{
		{"inside function", Cursor{Line: 13, Column: 2}, []string{"a", "x", "inner"}},
		{"inside static method", Cursor{Line: 6, Column: 3}, []string{"a", "b", "this"}},
		{"after loop", Cursor{Line: 18, Column: 20}, []string{"a", "after"}},
		{"inside loop", Cursor{Line: 16, Column: 12}, []string{"a", "i", "j"}},
		{"before everything", Cursor{Line: 1, Column: 1}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := collect(t, tt.cursor)
			assert.Equal(t, tt.want, names(res.Variables))
		})
	}
}

func TestThisType(t *testing.T) {
	res := collect(t, Cursor{Line: 6, Column: 3})
	this := res.Variable("this")
	require.NotNil(t, this)
	assert.Equal(t, "C", this.Type)
}

func TestOtherFileHidesVariables(t *testing.T) {
	res := collect(t, Cursor{File: "ai/other.leek", Line: 13, Column: 2})
	assert.Empty(t, res.Variables)
	assert.Len(t, res.Classes, 2)
	assert.NotNil(t, res.Function("f"))
}

func TestCursorFromUTF16(t *testing.T) {
	unit := source.NewUnit("main", "ai/main.leek", "var π = 1;\nvar b = 2;\n", 4)
	c := CursorFromUTF16(unit.File, 1, 3)
	assert.Equal(t, Cursor{File: "ai/main.leek", Line: 2, Column: 4}, c)
}

func TestFatalErrorReported(t *testing.T) {
	unit := source.NewUnit("main", "main.leek", "var a = 1;\nif (a) {", 4)
	res, compiled, err := Collect(context.Background(), unit, Cursor{Line: 2, Column: 1}, parser.Options{})
	require.NoError(t, err)
	assert.False(t, compiled.Success)
	assert.NotEmpty(t, res.Error)
	assert.Equal(t, []string{"a"}, names(res.Variables))
}

func TestResultJSON(t *testing.T) {
	res := collect(t, Cursor{Line: 13, Column: 2})
	data, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"classes", "functions", "globals", "variables"} {
		assert.Contains(t, decoded, key)
	}
	assert.NotContains(t, decoded, "error")
	assert.Contains(t, string(data), `"parentName":"B"`)
	assert.Contains(t, string(data), `"isStatic":true`)
}
