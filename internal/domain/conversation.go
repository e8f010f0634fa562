package domain

import "time"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// ConversationTurn is one immutable line of chat history.
type ConversationTurn struct {
	ID        int64
	UserID    int64
	ArticleID *int64 // nil for general queries
	Role      Role
	Message   string
	Timestamp time.Time
}

// Exchange pairs a user question with the bot answer. Both turns share one
// timestamp and are persisted atomically; a question never appears without
// its answer.
type Exchange struct {
	UserID    int64
	ArticleID *int64
	Question  string
	Answer    string
	Timestamp time.Time
}

// Turns expands the exchange into its two log lines, user first.
func (e Exchange) Turns() [2]ConversationTurn {
	return [2]ConversationTurn{
		{UserID: e.UserID, ArticleID: e.ArticleID, Role: RoleUser, Message: e.Question, Timestamp: e.Timestamp},
		{UserID: e.UserID, ArticleID: e.ArticleID, Role: RoleBot, Message: e.Answer, Timestamp: e.Timestamp},
	}
}
