package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/middleware"
	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/models"

	"go.opentelemetry.io/otel/attribute"
)

// The closed label set the classifier is asked to pick from. Parsing matches
// these tokens by substring, so the model doesn't have to answer with the
// label alone.
const (
	labelShowCalendar    = "SHOW_CALENDAR"
	labelCreateEmail     = "CREATE_EMAIL"
	labelKnowledgeSearch = "KNOWLEDGE_SEARCH"
)

// IntentRouter classifies a user message into one of the closed set of
// actions. The LLM call is the only non-deterministic part; everything after
// it is pure parsing.
type IntentRouter struct {
	gen Generator
}

func NewIntentRouter(gen Generator) *IntentRouter {
	return &IntentRouter{gen: gen}
}

// Classify routes the message using the recent-conversation digest for
// disambiguation of follow-ups ("what about next week?"). Ambiguous or
// malformed classifier output falls back to knowledge search - routing never
// fails an interaction.
func (r *IntentRouter) Classify(ctx context.Context, message, contextDigest string) models.Intent {
	ctx, span := middleware.StartSpan(ctx, "Router.Classify")
	defer span.End()

	prompt := buildClassifyPrompt(message, contextDigest)
	response := r.gen.Generate(ctx, prompt)
	intent := ParseIntent(response)

	span.SetAttributes(attribute.String("intent", intent.String()))
	return intent
}

// ParseIntent maps free-text classifier output onto the label set by
// substring match, calendar before email, defaulting to knowledge search.
// Pure function.
func ParseIntent(response string) models.Intent {
	upper := strings.ToUpper(response)
	switch {
	case strings.Contains(upper, labelShowCalendar):
		return models.IntentShowCalendar
	case strings.Contains(upper, labelCreateEmail):
		return models.IntentCreateEmail
	default:
		return models.IntentKnowledgeSearch
	}
}

func buildClassifyPrompt(message, contextDigest string) string {
	var b strings.Builder
	b.WriteString(`You are an intent classifier for a company assistant.
Classify the user's message into exactly one of these labels:

SHOW_CALENDAR - the user wants to see upcoming meetings or calendar events
CREATE_EMAIL - the user wants to write, draft or send an email
KNOWLEDGE_SEARCH - anything else: questions about company documents, policies, or general requests

`)
	if contextDigest != "" {
		fmt.Fprintf(&b, "Recent conversation:\n%s\n\n", contextDigest)
	}
	fmt.Fprintf(&b, "User message: %s\n\nRespond with only the label.\nLabel:", message)
	return b.String()
}
