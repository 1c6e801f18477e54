package models

// Intent is the closed set of actions a user message can be routed to.
// Classification is best-effort (it comes from an LLM), so the zero value is
// the safe default: answering from the knowledge base.
type Intent int

const (
	IntentKnowledgeSearch Intent = iota
	IntentShowCalendar
	IntentCreateEmail
)

func (i Intent) String() string {
	switch i {
	case IntentShowCalendar:
		return "show_calendar"
	case IntentCreateEmail:
		return "create_email"
	default:
		return "knowledge_search"
	}
}
