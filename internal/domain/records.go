// Package domain contains the persisted record types for the AI tools backend.
package domain

import (
	"time"
)

// Collection names in the document store.
const (
	CollectionChatMessages = "chatmessage"
	CollectionResearch     = "research"
	CollectionRoleplay     = "roleplay"
)

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Meta carries the fields shared by every persisted record. The store
// assigns the identifier and fills the timestamps only when they are absent,
// so caller-supplied values are never overwritten.
type Meta struct {
	ID        string    `json:"id,omitempty"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session returns the client-supplied session identifier.
func (m *Meta) Session() string {
	return m.SessionID
}

// Created returns the record creation time.
func (m *Meta) Created() time.Time {
	return m.CreatedAt
}

// StampTimes fills created_at and updated_at with now if they are unset.
func (m *Meta) StampTimes(now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}
}

// SetID records the store-assigned identifier.
func (m *Meta) SetID(id string) {
	m.ID = id
}

func newMeta(sessionID string) Meta {
	return Meta{SessionID: sessionID, CreatedAt: time.Now().UTC()}
}

// ChatMessage is a single persisted chat turn.
type ChatMessage struct {
	Meta
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewChatMessage builds a chat message stamped with the current time.
func NewChatMessage(sessionID, role, content string) *ChatMessage {
	return &ChatMessage{Meta: newMeta(sessionID), Role: role, Content: content}
}

// ResearchEntry records a research request and its parameters.
type ResearchEntry struct {
	Meta
	Topic      string         `json:"topic"`
	Parameters map[string]any `json:"parameters"`
}

// NewResearchEntry builds a research entry for a topic at the given depth.
func NewResearchEntry(sessionID, topic string, depth int) *ResearchEntry {
	return &ResearchEntry{
		Meta:       newMeta(sessionID),
		Topic:      topic,
		Parameters: map[string]any{"depth": depth},
	}
}

// RoleplayEntry records a roleplay exchange: the persona and the user
// message that triggered it.
type RoleplayEntry struct {
	Meta
	Persona      string `json:"persona"`
	Instructions string `json:"instructions,omitempty"`
}

// NewRoleplayEntry builds a roleplay entry stamped with the current time.
func NewRoleplayEntry(sessionID, persona, instructions string) *RoleplayEntry {
	return &RoleplayEntry{Meta: newMeta(sessionID), Persona: persona, Instructions: instructions}
}
