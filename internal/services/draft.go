package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/middleware"
)

const (
	emailNotConfigured  = "Email access is not configured. Set up Google credentials to enable email drafting."
	defaultDraftSubject = "Draft from your assistant"
	draftContextTopK    = 2
)

// DraftOrchestrator composes an email with the LLM, grounding it in the
// knowledge base when relevant material exists, and saves it as a Gmail
// draft. Nothing is ever sent.
type DraftOrchestrator struct {
	email     EmailClient
	retriever Retriever
	gen       Generator
}

func NewDraftOrchestrator(email EmailClient, retriever Retriever, gen Generator) *DraftOrchestrator {
	return &DraftOrchestrator{email: email, retriever: retriever, gen: gen}
}

// Compose drafts an email for the given request and stores it. The returned
// string is the user-facing confirmation.
func (o *DraftOrchestrator) Compose(ctx context.Context, request string) (string, error) {
	ctx, span := middleware.StartSpan(ctx, "Draft.Compose")
	defer span.End()

	if o.email == nil {
		return emailNotConfigured, nil
	}

	background := o.lookupBackground(ctx, request)
	response := o.gen.Generate(ctx, buildComposePrompt(request, background))

	subject, body := splitSubject(response)
	draftID, err := o.email.CreateDraft(ctx, subject, body)
	if err != nil {
		middleware.AddSpanError(ctx, err)
		return "", fmt.Errorf("creating draft: %w", err)
	}

	log.Printf("✅ Created email draft %s", draftID)
	return fmt.Sprintf("I've created a draft for you (id %s):\n\nSubject: %s\n\n%s", draftID, subject, body), nil
}

func (o *DraftOrchestrator) lookupBackground(ctx context.Context, request string) string {
	if o.retriever == nil {
		return ""
	}
	results, err := o.retriever.Retrieve(ctx, request, draftContextTopK)
	if err != nil {
		log.Printf("⚠️  Drafting without knowledge base context: %v", err)
		return ""
	}
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	for _, res := range results {
		fmt.Fprintf(&b, "%s: %s\n", res.Title, res.Content)
	}
	return b.String()
}

func buildComposePrompt(request, background string) string {
	var b strings.Builder
	b.WriteString(`Write a professional email based on this request.
Start with a line "Subject: ..." followed by the email body.
Do not invent recipient names or addresses that were not mentioned.

`)
	if background != "" {
		fmt.Fprintf(&b, "Background information:\n%s\n", background)
	}
	fmt.Fprintf(&b, "Request: %s\n\nEmail:", request)
	return b.String()
}

// splitSubject pulls the subject out of the first "Subject:" line of the
// model output. When the model skips the subject line entirely, the whole
// response becomes the body under a default subject.
func splitSubject(response string) (subject, body string) {
	lines := strings.Split(response, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(trimmed, "Subject:"); ok {
			subject = strings.TrimSpace(rest)
			body = strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
			if subject == "" {
				subject = defaultDraftSubject
			}
			return subject, body
		}
	}
	return defaultDraftSubject, strings.TrimSpace(response)
}
