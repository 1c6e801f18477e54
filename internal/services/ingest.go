package services

import (
	"context"
	"fmt"
	"log"

	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/middleware"

	"go.opentelemetry.io/otel/attribute"
)

// Indexer is what ingestion needs from the index lifecycle: the ability to
// schedule a rebuild after new chunks land.
type Indexer interface {
	RequestRebuild()
}

// IngestServiceImpl turns raw document text into durable chunks and keeps the
// vector index in sync.
type IngestServiceImpl struct {
	repo      ChunkRepository
	indexer   Indexer
	chunkSize int
	overlap   int
}

func NewIngestService(repo ChunkRepository, indexer Indexer, chunkSize, overlap int) *IngestServiceImpl {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = DefaultChunkOverlap
	}
	return &IngestServiceImpl{
		repo:      repo,
		indexer:   indexer,
		chunkSize: chunkSize,
		overlap:   overlap,
	}
}

// AddDocument chunks the content, durably records every chunk, then schedules
// an index rebuild. Chunk writes are transactional in the repository, so a
// failure here means nothing was stored and no rebuild is scheduled. Returns
// the number of chunks created.
func (s *IngestServiceImpl) AddDocument(ctx context.Context, title, content, source string) (int, error) {
	ctx, span := middleware.StartSpan(ctx, "Ingest.AddDocument",
		attribute.String("document.title", title),
		attribute.String("document.source", source),
	)
	defer span.End()

	if source == "" {
		source = "manual"
	}

	chunks := ChunkText(content, s.chunkSize, s.overlap)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("document %q has no content to ingest", title)
	}

	if _, err := s.repo.CreateChunks(ctx, title, source, chunks); err != nil {
		middleware.AddSpanError(ctx, err)
		return 0, err
	}

	// Chunks are durable at this point; the rebuild picks them up. Readers
	// keep the previous snapshot until the swap happens.
	s.indexer.RequestRebuild()

	span.SetAttributes(attribute.Int("document.chunks", len(chunks)))
	log.Printf("✅ Added document: %s (%d chunks)", title, len(chunks))
	return len(chunks), nil
}

// SeedSampleDocuments loads a small set of company documents, handy for
// trying the agent on an empty knowledge base. Returns the number of
// documents added.
func (s *IngestServiceImpl) SeedSampleDocuments(ctx context.Context) (int, error) {
	for _, doc := range sampleDocuments {
		if _, err := s.AddDocument(ctx, doc.title, doc.content, doc.source); err != nil {
			return 0, fmt.Errorf("seed %q: %w", doc.title, err)
		}
	}
	return len(sampleDocuments), nil
}

var sampleDocuments = []struct {
	title   string
	source  string
	content string
}{
	{
		title:  "Employee Handbook - HR Policies",
		source: "HR Department",
		content: `Employee Handbook - Remote Work Policy

Our company supports flexible work arrangements to promote work-life balance.

Remote Work Guidelines:
- Employees may work remotely up to 3 days per week
- Core collaboration hours are 10 AM - 3 PM in company timezone
- All remote workers must have reliable internet connection
- Home office setup stipend of $500 available annually

Vacation Policy:
- All full-time employees receive 25 vacation days per year
- Vacation days accrue monthly at 2.08 days per month
- Maximum carryover is 5 days into the following year
- Vacation requests require 2 weeks advance notice for trips over 5 days

Benefits Package:
- Health insurance with 90% company coverage
- Dental and vision insurance included
- 401(k) with 4% company matching
- Professional development budget of $2,000 per year
- Flexible spending account (FSA) available`,
	},
	{
		title:  "Engineering Guidelines",
		source: "Engineering Team",
		content: `Engineering Guidelines - Technology Stack

Backend Technologies:
- Primary language: Python 3.9+
- Web framework: FastAPI for APIs, Django for web applications
- Database: PostgreSQL for production, SQLite for development
- Caching: Redis for session storage and caching
- Message queue: RabbitMQ for async processing

Frontend Technologies:
- Framework: React 18+ with TypeScript
- State management: Redux Toolkit
- Styling: Tailwind CSS
- Build tool: Vite

DevOps and Infrastructure:
- Cloud platform: AWS (EC2, S3, RDS)
- Containerization: Docker with Docker Compose
- CI/CD: GitHub Actions
- Monitoring: DataDog for application monitoring
- Version control: Git with GitHub

Security Requirements:
- All APIs must use JWT authentication
- Database connections must use SSL
- Environment variables for all secrets
- Regular security audits quarterly`,
	},
	{
		title:  "Sales Playbook",
		source: "Sales Team",
		content: `Sales Team Playbook - Lead Management

Lead Qualification Process:
1. Initial contact within 24 hours of lead submission
2. BANT qualification (Budget, Authority, Need, Timeline)
3. Discovery call to understand use case and requirements
4. Technical demo tailored to prospect's needs
5. Proposal and pricing discussion
6. Contract negotiation and closing

Pricing Structure:
- Starter Plan: $99/month for up to 10 users
- Professional Plan: $299/month for up to 50 users
- Enterprise Plan: Custom pricing for 50+ users
- Annual subscriptions receive 20% discount

Key Performance Metrics:
- Lead response time target: Under 4 hours
- Demo-to-close rate target: 25%
- Average sales cycle: 45 days
- Customer acquisition cost (CAC): $1,200

CRM Usage:
- All prospect interactions must be logged in Salesforce
- Lead scoring system: Hot (>80), Warm (50-80), Cold (<50)
- Weekly pipeline reviews every Tuesday at 2 PM`,
	},
}
