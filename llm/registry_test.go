package llm_test

import (
	"testing"

	"github.com/coragent/coor-agent/coorerr"
	"github.com/coragent/coor-agent/llm"
	"github.com/coragent/coor-agent/llm/llmtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ResolveFallsBackToBasic(t *testing.T) {
	reg := llm.NewRegistry()
	basic := llmtest.NewStub(llm.Response{Content: "ok"})
	require.NoError(t, reg.RegisterGateway("basic", basic))

	gw, err := reg.Resolve("code")
	require.NoError(t, err)
	assert.Same(t, llm.Gateway(basic), gw)
}

func TestRegistry_ResolvePrefersExactMatch(t *testing.T) {
	reg := llm.NewRegistry()
	basic := llmtest.NewStub(llm.Response{Content: "basic"})
	reasoning := llmtest.NewStub(llm.Response{Content: "reasoning"})
	require.NoError(t, reg.RegisterGateway("basic", basic))
	require.NoError(t, reg.RegisterGateway("reasoning", reasoning))

	gw, err := reg.Resolve("reasoning")
	require.NoError(t, err)
	assert.Same(t, llm.Gateway(reasoning), gw)
}

func TestRegistry_ResolveUnknownWithNoBasic(t *testing.T) {
	reg := llm.NewRegistry()
	_, err := reg.Resolve("vision")
	require.Error(t, err)
	assert.Equal(t, coorerr.NotFound, coorerr.KindOf(err))
}

func TestRegistry_RegisterGatewayRejectsDuplicate(t *testing.T) {
	reg := llm.NewRegistry()
	require.NoError(t, reg.RegisterGateway("basic", llmtest.NewStub(llm.Response{})))
	err := reg.RegisterGateway("basic", llmtest.NewStub(llm.Response{}))
	require.Error(t, err)
	assert.Equal(t, coorerr.AlreadyExists, coorerr.KindOf(err))
}
