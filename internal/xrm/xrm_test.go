package xrm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteral(t *testing.T) {
	assert.Equal(t, "'Sales'", Literal("Sales"))
	assert.Equal(t, `"O'Brien"`, Literal("O'Brien"))
	assert.Equal(t, `concat('say "hi" to ', "'", 'em', "'")`, Literal(`say "hi" to 'em'`))
}

func TestID(t *testing.T) {
	assert.Equal(t, "//*[@id='areaSwitcherContainer']", ID("areaSwitcherContainer").XPath)
}

func TestBy_Within(t *testing.T) {
	child := XPath(".//button[@data-id='ok']").Within("(//div[@role='dialog'])[1]")
	assert.Equal(t, "(//div[@role='dialog'])[1]//button[@data-id='ok']", child.XPath)
}

func TestParseAssignTo(t *testing.T) {
	for in, want := range map[string]AssignTo{"me": AssignToMe, "User": AssignToUser, "TEAM": AssignToTeam} {
		got, err := ParseAssignTo(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseAssignTo("queue")
	assert.EqualError(t, err, "'queue' is not a valid assignee type")
	assert.Equal(t, "team", AssignToTeam.String())
}

func TestNotFoundf(t *testing.T) {
	err := NotFoundf("No group with the name '%s' exists", "Customers")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.EqualError(t, err, "not found: No group with the name 'Customers' exists")
}
