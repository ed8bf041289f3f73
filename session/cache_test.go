package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coragent/coor-agent/llm"
)

func TestCache_RollingWindow(t *testing.T) {
	c := NewCache(1)
	for i := 0; i < 5; i++ {
		c.Append("u1", Message{Role: llm.RoleUser, Content: string(rune('a' + i))})
	}

	recent := c.Recent("u1")
	require := assert.New(t)
	require.Len(recent, 2, "one turn is a user/assistant message pair")
	require.Equal("d", recent[0].Content)
	require.Equal("e", recent[1].Content)
}

func TestCache_DefaultSizeIsThreeTurns(t *testing.T) {
	c := NewCache(0)
	assert.Equal(t, 3, c.maxTurns)
}

func TestCache_PerUserIsolation(t *testing.T) {
	c := NewCache(3)
	c.Append("u1", Message{Content: "hi"})
	assert.Empty(t, c.Recent("u2"))
	assert.Len(t, c.Recent("u1"), 1)
}

func TestCache_Clear(t *testing.T) {
	c := NewCache(3)
	c.Append("u1", Message{Content: "hi"})
	c.Clear("u1")
	assert.Empty(t, c.Recent("u1"))
}
