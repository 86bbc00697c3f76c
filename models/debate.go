package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Debate status values. Transitions are monotonic:
// running -> done or running -> error, nothing else.
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusError   = "error"
)

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// ModeDebate is the only mode currently generated.
const ModeDebate = "debate"

// Verdict is the judged outcome of a debate. Winner is "A", "B" or "draw".
type Verdict struct {
	Winner string `json:"winner" bson:"winner"`
	Reason string `json:"reason" bson:"reason"`
}

// Metrics aggregates generation cost over all model calls of one debate.
// Model is the provider:model label of the last successful call.
type Metrics struct {
	PromptChars int    `json:"promptChars" bson:"promptChars"`
	OutputChars int    `json:"outputChars" bson:"outputChars"`
	LatencyMs   int64  `json:"latencyMs" bson:"latencyMs"`
	Model       string `json:"model" bson:"model"`
}

// Debate is the persistent aggregate for one generated debate.
type Debate struct {
	ID             string    `json:"id" bson:"_id"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	CreatedBy      string    `json:"createdBy" bson:"createdBy"`
	Topic          string    `json:"topic" bson:"topic"`
	Mode           string    `json:"mode" bson:"mode"`
	PersonaA       string    `json:"personaA" bson:"personaA"`
	PersonaB       string    `json:"personaB" bson:"personaB"`
	Status         string    `json:"status" bson:"status"`
	Visibility     string    `json:"visibility" bson:"visibility"`
	Language       string    `json:"language" bson:"language"`
	Metrics        *Metrics  `json:"metrics,omitempty" bson:"metrics,omitempty"`
	Summary        string    `json:"summary,omitempty" bson:"summary,omitempty"`
	Verdict        *Verdict  `json:"verdict,omitempty" bson:"verdict,omitempty"`
	SourceLinks    []string  `json:"sourceLinks,omitempty" bson:"sourceLinks,omitempty"`
	SourceMentions []string  `json:"sourceMentions,omitempty" bson:"sourceMentions,omitempty"`
	SourceCount    int       `json:"sourceCount" bson:"sourceCount"`
	LikesCount     int       `json:"likesCount" bson:"likesCount"`
	Error          string    `json:"error,omitempty" bson:"error,omitempty"`
}

// Turn is one persona contribution within the fixed 6-turn script.
// Speaker parity is determined by Idx: even -> "A", odd -> "B".
type Turn struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DebateID  string             `json:"debateId" bson:"debateId"`
	Idx       int                `json:"idx" bson:"idx"`
	Speaker   string             `json:"speaker" bson:"speaker"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// UsageCounter tracks how many debates a user created on one UTC day.
// The document id is "<userId>/<YYYY-MM-DD>".
type UsageCounter struct {
	ID     string `json:"id" bson:"_id"`
	UserID string `json:"userId" bson:"userId"`
	Date   string `json:"date" bson:"date"`
	Count  int    `json:"count" bson:"count"`
}
