package tool

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/coragent/coor-agent/coorerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool(name string) Tool {
	schema := json.RawMessage(`{
		"type": "object",
		"properties": {"text": {"type": "string"}},
		"required": ["text"]
	}`)
	return NewFunc(Info{Name: name, Description: "echoes text", InputSchema: schema},
		func(ctx context.Context, args map[string]any) (Result, error) {
			return Result{Success: true, ToolName: name, Content: args["text"].(string)}, nil
		})
}

func TestRegistry_RegisterAndValidate(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoTool("echo")))

	err := reg.Validate("echo", map[string]any{"text": "hi"})
	assert.NoError(t, err)

	err = reg.Validate("echo", map[string]any{})
	require.Error(t, err)
	assert.Equal(t, coorerr.ToolError, coorerr.KindOf(err))
}

func TestRegistry_DuplicateNameRejected(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoTool("echo")))

	err := reg.Register(echoTool("echo"))
	require.Error(t, err)
	assert.Equal(t, coorerr.AlreadyExists, coorerr.KindOf(err))
}

func TestRegistry_ValidateUnknownTool(t *testing.T) {
	reg := NewRegistry()
	err := reg.Validate("nope", nil)
	require.Error(t, err)
	assert.Equal(t, coorerr.ToolError, coorerr.KindOf(err))
}

func TestRegistry_MalformedSchemaRejected(t *testing.T) {
	reg := NewRegistry()
	bad := NewFunc(Info{Name: "bad", InputSchema: json.RawMessage(`{not json`)}, nil)
	err := reg.Register(bad)
	require.Error(t, err)
	assert.Equal(t, coorerr.ValidationError, coorerr.KindOf(err))
}

func TestRegistry_ListIsSortedByName(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoTool("zeta")))
	require.NoError(t, reg.Register(echoTool("alpha")))

	infos := reg.List()
	require.Len(t, infos, 2)
	assert.Equal(t, "alpha", infos[0].Name)
	assert.Equal(t, "zeta", infos[1].Name)
}
