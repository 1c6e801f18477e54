package chat

import (
	"log"
	"sync"
	"time"

	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/models"

	"github.com/segmentio/ksuid"
)

const (
	// DefaultMaxTurns bounds per-session history so long conversations
	// don't grow memory without limit.
	DefaultMaxTurns = 50

	cleanupInterval = 30 * time.Second
	idleTimeout     = 30 * time.Minute
)

// Session holds one conversation's in-memory state. History lives only for
// the lifetime of the process.
type Session struct {
	ID           string
	History      []models.Turn
	LastActiveAt time.Time
}

// SessionManager tracks active chat sessions and evicts the ones that have
// gone idle.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	maxTurns int
	done     chan struct{}
	once     sync.Once
}

func NewSessionManager(maxTurns int) *SessionManager {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &SessionManager{
		sessions: make(map[string]*Session),
		maxTurns: maxTurns,
		done:     make(chan struct{}),
	}
}

// Start begins the idle-session cleanup loop.
func (sm *SessionManager) Start() {
	log.Println("🔄 Starting chat session manager...")
	go sm.cleanupLoop()
	log.Println("✓ Chat session manager started")
}

// Create registers a new session with a fresh ksuid.
func (sm *SessionManager) Create() *Session {
	session := &Session{
		ID:           ksuid.New().String(),
		LastActiveAt: time.Now(),
	}

	sm.mu.Lock()
	sm.sessions[session.ID] = session
	sm.mu.Unlock()

	log.Printf("  Chat session %s opened (total: %d)", session.ID, sm.Count())
	return session
}

// Get looks up a session by id.
func (sm *SessionManager) Get(id string) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	session, ok := sm.sessions[id]
	return session, ok
}

// Append records a turn on the session and trims history to the bound,
// dropping the oldest turns first.
func (sm *SessionManager) Append(id string, turn models.Turn) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, ok := sm.sessions[id]
	if !ok {
		return
	}

	session.History = append(session.History, turn)
	if len(session.History) > sm.maxTurns {
		session.History = session.History[len(session.History)-sm.maxTurns:]
	}
	session.LastActiveAt = time.Now()
}

// HistoryOf returns a copy of the session's history safe for concurrent use.
func (sm *SessionManager) HistoryOf(id string) []models.Turn {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, ok := sm.sessions[id]
	if !ok {
		return nil
	}

	history := make([]models.Turn, len(session.History))
	copy(history, session.History)
	return history
}

// Close removes a session.
func (sm *SessionManager) Close(id string) {
	sm.mu.Lock()
	delete(sm.sessions, id)
	sm.mu.Unlock()

	log.Printf("  Chat session %s closed (remaining: %d)", id, sm.Count())
}

// Count returns the number of active sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// Shutdown stops the cleanup loop. Safe to call more than once.
func (sm *SessionManager) Shutdown() {
	sm.once.Do(func() {
		close(sm.done)
	})
}

func (sm *SessionManager) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sm.done:
			log.Println("Chat session manager shutting down...")
			return
		case <-ticker.C:
			sm.evictIdle(time.Now())
		}
	}
}

func (sm *SessionManager) evictIdle(now time.Time) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for id, session := range sm.sessions {
		if now.Sub(session.LastActiveAt) > idleTimeout {
			delete(sm.sessions, id)
			log.Printf("  Evicted idle chat session %s", id)
		}
	}
}
