package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/middleware"
	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/models"

	"go.opentelemetry.io/otel/attribute"
)

// EmptyKnowledgeBase is injected into the answer prompt when retrieval has
// nothing to offer, so the model tells the user instead of hallucinating.
const EmptyKnowledgeBase = "Knowledge base is empty. Please add some documents first."

// AgentServiceImpl is the conversational entry point. Every message flows
// through intent routing and then one of three paths: calendar lookup,
// email drafting, or retrieval-augmented answering.
type AgentServiceImpl struct {
	router       *IntentRouter
	timeWindow   *TimeWindowExtractor
	calendarOrch *CalendarOrchestrator
	draftOrch    *DraftOrchestrator
	retriever    Retriever
	gen          Generator
	maxExchanges int
}

func NewAgentService(
	router *IntentRouter,
	timeWindow *TimeWindowExtractor,
	calendarOrch *CalendarOrchestrator,
	draftOrch *DraftOrchestrator,
	retriever Retriever,
	gen Generator,
	maxExchanges int,
) *AgentServiceImpl {
	if maxExchanges <= 0 {
		maxExchanges = DefaultContextExchanges
	}
	return &AgentServiceImpl{
		router:       router,
		timeWindow:   timeWindow,
		calendarOrch: calendarOrch,
		draftOrch:    draftOrch,
		retriever:    retriever,
		gen:          gen,
		maxExchanges: maxExchanges,
	}
}

// Chat handles one user message against the given conversation history.
// It always returns something to show the user; orchestrator errors become
// apologies rather than failures.
func (s *AgentServiceImpl) Chat(ctx context.Context, message string, history []models.Turn) string {
	ctx, span := middleware.StartSpan(ctx, "Agent.Chat")
	defer span.End()

	digest := BuildContext(history, s.maxExchanges)
	intent := s.router.Classify(ctx, message, digest)
	span.SetAttributes(attribute.String("intent", intent.String()))

	switch intent {
	case models.IntentShowCalendar:
		days := s.timeWindow.ExtractDays(ctx, message)
		answer, err := s.calendarOrch.Upcoming(ctx, days)
		if err != nil {
			log.Printf("❌ Calendar lookup failed: %v", err)
			return "Sorry, I couldn't fetch your calendar right now. Please try again."
		}
		return answer

	case models.IntentCreateEmail:
		answer, err := s.draftOrch.Compose(ctx, message)
		if err != nil {
			log.Printf("❌ Email drafting failed: %v", err)
			return "Sorry, I couldn't create that draft right now. Please try again."
		}
		return answer

	default:
		return s.answerFromKnowledge(ctx, message, digest)
	}
}

func (s *AgentServiceImpl) answerFromKnowledge(ctx context.Context, message, digest string) string {
	knowledge := EmptyKnowledgeBase
	results, err := s.retriever.Retrieve(ctx, message, DefaultTopK)
	if err != nil {
		log.Printf("⚠️  Retrieval unavailable, answering without context: %v", err)
	} else {
		knowledge = FormatForContext(results)
	}

	var b strings.Builder
	b.WriteString(`You are a helpful company assistant. Answer the user's question using the knowledge base information below. If the information doesn't contain the answer, say so honestly.

`)
	fmt.Fprintf(&b, "Knowledge base:\n%s\n\n", knowledge)
	if digest != "" {
		fmt.Fprintf(&b, "Recent conversation:\n%s\n\n", digest)
	}
	fmt.Fprintf(&b, "User question: %s\n\nAnswer:", message)

	return s.gen.Generate(ctx, b.String())
}
