package services

import (
	"fmt"
	"strings"

	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/models"
)

// DefaultContextExchanges bounds how many recent user/agent exchanges make
// it into the conversation digest.
const DefaultContextExchanges = 3

// Agent replies get clipped in the digest so one long answer can't crowd out
// the rest of the conversation.
const agentTurnBudget = 200

// BuildContext windows the most recent turns into a bounded textual digest
// for prompt injection: up to maxExchanges user/agent pairs, user turns
// verbatim, agent turns truncated to agentTurnBudget characters with an
// ellipsis marker. Empty history yields an empty string; callers omit the
// context section entirely rather than rendering a blank header.
func BuildContext(history []models.Turn, maxExchanges int) string {
	if len(history) == 0 || maxExchanges <= 0 {
		return ""
	}

	start := len(history) - maxExchanges*2
	if start < 0 {
		start = 0
	}

	var b strings.Builder
	for _, turn := range history[start:] {
		message := turn.Message
		if turn.Role == models.RoleAgent {
			if runes := []rune(message); len(runes) > agentTurnBudget {
				message = string(runes[:agentTurnBudget]) + "..."
			}
		}
		fmt.Fprintf(&b, "%s: %s\n", roleLabel(turn.Role), message)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func roleLabel(role models.Role) string {
	if role == models.RoleAgent {
		return "Agent"
	}
	return "User"
}
