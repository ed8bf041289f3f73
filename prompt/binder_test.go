package prompt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coragent/coor-agent/coorerr"
	"github.com/coragent/coor-agent/llm"
	"github.com/coragent/coor-agent/session"
)

func TestBinder_BindSubstitutesKnownPlaceholders(t *testing.T) {
	b := NewBinder()
	state := session.State{
		TeamMembersDescription: "researcher, coder",
		Messages:               []session.Message{{Role: llm.RoleUser, Content: "hello"}},
	}
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)

	msgs, err := b.Bind("Time is <<CURRENT_TIME>>. Team: <<TEAM_MEMBERS_DESCRIPTION>>.", state, now)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "2026-07-31T12:00:00Z")
	assert.Contains(t, msgs[0].Content, "researcher, coder")
	assert.Equal(t, "hello", msgs[1].Content)
}

func TestBinder_RejectsUnknownPlaceholder(t *testing.T) {
	b := NewBinder()
	_, err := b.Bind("Hello <<NOT_A_REAL_VAR>>", session.State{}, time.Now())
	require.Error(t, err)
	assert.Equal(t, coorerr.ValidationError, coorerr.KindOf(err))
}

func TestBinder_BoolAndSliceFields(t *testing.T) {
	b := NewBinder()
	state := session.State{
		DeepThinkingMode: true,
		TeamMembers:      []string{"researcher", "coder"},
	}

	msgs, err := b.Bind("<<DEEP_THINKING_MODE>> <<TEAM_MEMBERS>>", state, time.Now())
	require.NoError(t, err)
	assert.Contains(t, msgs[0].Content, "true")
	assert.Contains(t, msgs[0].Content, "researcher, coder")
}
