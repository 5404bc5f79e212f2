package tools

import (
	"context"

	"github.com/ashureev/ai-tools/internal/domain"
	"github.com/ashureev/ai-tools/internal/store"
)

// ChatHistory returns the most recent chat messages for a session.
func (s *Service) ChatHistory(ctx context.Context, sessionID string, limit int) ([]*domain.ChatMessage, error) {
	if sessionID == "" {
		return nil, &ValidationError{Field: "session_id"}
	}
	msgs, err := store.List[domain.ChatMessage](ctx, s.store, domain.CollectionChatMessages, sessionFilter(sessionID), s.limit(limit))
	if err != nil {
		return nil, &StorageError{Op: "list chat messages", Err: err}
	}
	return msgs, nil
}

// ResearchHistory returns the most recent research entries for a session.
func (s *Service) ResearchHistory(ctx context.Context, sessionID string, limit int) ([]*domain.ResearchEntry, error) {
	if sessionID == "" {
		return nil, &ValidationError{Field: "session_id"}
	}
	entries, err := store.List[domain.ResearchEntry](ctx, s.store, domain.CollectionResearch, sessionFilter(sessionID), s.limit(limit))
	if err != nil {
		return nil, &StorageError{Op: "list research entries", Err: err}
	}
	return entries, nil
}

// RoleplayHistory returns the most recent roleplay entries for a session.
func (s *Service) RoleplayHistory(ctx context.Context, sessionID string, limit int) ([]*domain.RoleplayEntry, error) {
	if sessionID == "" {
		return nil, &ValidationError{Field: "session_id"}
	}
	entries, err := store.List[domain.RoleplayEntry](ctx, s.store, domain.CollectionRoleplay, sessionFilter(sessionID), s.limit(limit))
	if err != nil {
		return nil, &StorageError{Op: "list roleplay entries", Err: err}
	}
	return entries, nil
}

func sessionFilter(sessionID string) map[string]any {
	return map[string]any{"session_id": sessionID}
}

func (s *Service) limit(requested int) int {
	if requested <= 0 || requested > s.cfg.ListLimit {
		return s.cfg.ListLimit
	}
	return requested
}
