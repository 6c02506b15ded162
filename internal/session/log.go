package session

import "github.com/anil29717/DeepDoc/internal/models"

// ConversationLog is the ordered transcript for the currently active
// context. It is append-only between context switches; a switch replaces it
// wholesale. Like ContextStore it holds no lock of its own.
type ConversationLog struct {
	messages []models.Message
}

// AppendUser appends the user's question the moment it is submitted, before
// the backend round trip. The append is optimistic and is never rolled back,
// even if the subsequent ask fails.
func (l *ConversationLog) AppendUser(text string) {
	l.messages = append(l.messages, models.Message{Role: models.RoleUser, Content: text})
}

// AppendAssistant appends an answer after a successful backend call.
func (l *ConversationLog) AppendAssistant(text string) {
	l.messages = append(l.messages, models.Message{Role: models.RoleAssistant, Content: text})
}

// ReplaceAll swaps in a freshly fetched transcript. Only the history flow
// calls this.
func (l *ConversationLog) ReplaceAll(msgs []models.Message) {
	l.messages = msgs
}

// Reset empties the log. Used when the active context becomes None.
func (l *ConversationLog) Reset() {
	l.messages = nil
}

// Messages returns a copy of the transcript.
func (l *ConversationLog) Messages() []models.Message {
	out := make([]models.Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of messages.
func (l *ConversationLog) Len() int { return len(l.messages) }
