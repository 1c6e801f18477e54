package google

import (
	"context"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailService creates drafts in the user's mailbox. Drafts are left
// without a recipient so the user addresses and sends them manually.
type GmailService struct {
	svc *gmailapi.Service
}

func NewGmailService(ctx context.Context, ts oauth2.TokenSource) (*GmailService, error) {
	svc, err := gmailapi.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("creating gmail service: %w", err)
	}
	return &GmailService{svc: svc}, nil
}

// CreateDraft stores a plain-text draft and returns its id.
func (g *GmailService) CreateDraft(ctx context.Context, subject, body string) (string, error) {
	raw := fmt.Sprintf("Subject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s", subject, body)

	draft := &gmailapi.Draft{
		Message: &gmailapi.Message{
			Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
		},
	}

	created, err := g.svc.Users.Drafts.Create("me", draft).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("creating draft: %w", err)
	}
	return created.Id, nil
}
