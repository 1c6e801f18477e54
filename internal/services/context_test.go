package services

import (
	"strings"
	"testing"

	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildContextEmptyHistory(t *testing.T) {
	assert.Equal(t, "", BuildContext(nil, 3))
	assert.Equal(t, "", BuildContext([]models.Turn{}, 3))
}

func TestBuildContextNonPositiveExchanges(t *testing.T) {
	history := []models.Turn{models.NewTurn(models.RoleUser, "hello")}
	assert.Equal(t, "", BuildContext(history, 0))
	assert.Equal(t, "", BuildContext(history, -1))
}

func TestBuildContextLabelsAndOrder(t *testing.T) {
	history := []models.Turn{
		models.NewTurn(models.RoleUser, "what is the vacation policy?"),
		models.NewTurn(models.RoleAgent, "You get 25 days."),
	}

	digest := BuildContext(history, 3)
	assert.Equal(t, "User: what is the vacation policy?\nAgent: You get 25 days.", digest)
}

func TestBuildContextWindowing(t *testing.T) {
	var history []models.Turn
	for i := 0; i < 10; i++ {
		history = append(history,
			models.NewTurn(models.RoleUser, "question"),
			models.NewTurn(models.RoleAgent, "answer"),
		)
	}

	digest := BuildContext(history, 3)

	// 3 exchanges = 6 turns = 6 lines
	lines := strings.Split(digest, "\n")
	assert.Len(t, lines, 6)
}

func TestBuildContextTruncatesAgentTurns(t *testing.T) {
	long := strings.Repeat("é", 250)
	history := []models.Turn{
		models.NewTurn(models.RoleUser, "q"),
		models.NewTurn(models.RoleAgent, long),
	}

	digest := BuildContext(history, 3)

	lines := strings.Split(digest, "\n")
	require.Len(t, lines, 2)

	agentLine := strings.TrimPrefix(lines[1], "Agent: ")
	require.True(t, strings.HasSuffix(agentLine, "..."))

	// Exactly 200 runes survive before the ellipsis, counted in runes so a
	// multi-byte character is never split
	kept := strings.TrimSuffix(agentLine, "...")
	assert.Equal(t, 200, len([]rune(kept)))
}

func TestBuildContextUserTurnsKeptVerbatim(t *testing.T) {
	long := strings.Repeat("x", 250)
	history := []models.Turn{models.NewTurn(models.RoleUser, long)}

	digest := BuildContext(history, 3)
	assert.Equal(t, "User: "+long, digest)
}

func TestBuildContextShortAgentTurnNotTruncated(t *testing.T) {
	history := []models.Turn{
		models.NewTurn(models.RoleUser, "q"),
		models.NewTurn(models.RoleAgent, "short answer"),
	}

	digest := BuildContext(history, 3)
	assert.NotContains(t, digest, "...")
	assert.Contains(t, digest, "Agent: short answer")
}
