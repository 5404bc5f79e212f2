// Package tools sequences the per-tool request pipelines: validate, persist
// the request, build the prompt, call the generation backend, persist the
// response, return the result. Persistence rules vary per tool: chat stores
// both turns, research and roleplay store the request side, the planner
// stores nothing.
package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/ashureev/ai-tools/internal/domain"
	"github.com/ashureev/ai-tools/internal/llm"
	"github.com/ashureev/ai-tools/internal/prompt"
	"github.com/ashureev/ai-tools/internal/store"
)

// DefaultResearchDepth is used when a research request omits depth.
const DefaultResearchDepth = 3

// Config holds the per-tool generation settings.
type Config struct {
	DefaultModel    string
	GenerateTimeout time.Duration // chat, planner, roleplay
	ResearchTimeout time.Duration // research needs a longer bound
	ListLimit       int
}

// Service orchestrates the four assistant tools over a shared document
// store and generation backend.
type Service struct {
	store store.DocumentStore
	llm   llm.Generator
	cfg   Config
}

// NewService creates a tool service. Zero config fields get defaults.
func NewService(ds store.DocumentStore, gen llm.Generator, cfg Config) *Service {
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = 120 * time.Second
	}
	if cfg.ResearchTimeout <= 0 {
		cfg.ResearchTimeout = 180 * time.Second
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = store.DefaultListLimit
	}
	return &Service{store: ds, llm: gen, cfg: cfg}
}

func (s *Service) model(override string) string {
	if override != "" {
		return override
	}
	return s.cfg.DefaultModel
}

// ChatInput is a conversational chat request.
type ChatInput struct {
	SessionID string
	Message   string
	Model     string
}

// ChatResult is the chat response payload.
type ChatResult struct {
	SessionID string    `json:"session_id"`
	Reply     string    `json:"reply"`
	CreatedAt time.Time `json:"created_at"`
}

// Chat persists the user turn, generates a reply, persists the assistant
// turn, and returns the reply. On gateway failure the user turn remains
// persisted and no assistant turn is written.
func (s *Service) Chat(ctx context.Context, in ChatInput) (*ChatResult, error) {
	if in.SessionID == "" {
		return nil, &ValidationError{Field: "session_id"}
	}
	if in.Message == "" {
		return nil, &ValidationError{Field: "message"}
	}

	userMsg := domain.NewChatMessage(in.SessionID, domain.RoleUser, in.Message)
	if _, err := store.Create(ctx, s.store, domain.CollectionChatMessages, userMsg); err != nil {
		return nil, &StorageError{Op: "persist user message", Err: err}
	}

	reply, err := s.llm.Generate(ctx, s.model(in.Model), prompt.Chat(in.Message), s.cfg.GenerateTimeout)
	if err != nil {
		return nil, err
	}

	asstMsg := domain.NewChatMessage(in.SessionID, domain.RoleAssistant, reply)
	stored, err := store.Create(ctx, s.store, domain.CollectionChatMessages, asstMsg)
	if err != nil {
		return nil, &StorageError{Op: "persist assistant message", Err: err}
	}

	return &ChatResult{SessionID: in.SessionID, Reply: reply, CreatedAt: stored.CreatedAt}, nil
}

// ResearchInput is a research-brief request.
type ResearchInput struct {
	SessionID string
	Topic     string
	Depth     int
	Model     string
}

// ResearchResult is the research response payload.
type ResearchResult struct {
	SessionID string `json:"session_id"`
	Result    string `json:"result"`
}

// Research persists the research intent, then generates a structured brief
// with the longer research timeout.
func (s *Service) Research(ctx context.Context, in ResearchInput) (*ResearchResult, error) {
	if in.SessionID == "" {
		return nil, &ValidationError{Field: "session_id"}
	}
	if in.Topic == "" {
		return nil, &ValidationError{Field: "topic"}
	}
	if in.Depth <= 0 {
		in.Depth = DefaultResearchDepth
	}

	entry := domain.NewResearchEntry(in.SessionID, in.Topic, in.Depth)
	if _, err := store.Create(ctx, s.store, domain.CollectionResearch, entry); err != nil {
		return nil, &StorageError{Op: "persist research entry", Err: err}
	}

	text, err := s.llm.Generate(ctx, s.model(in.Model), prompt.Research(in.Topic, in.Depth), s.cfg.ResearchTimeout)
	if err != nil {
		return nil, err
	}

	return &ResearchResult{SessionID: in.SessionID, Result: text}, nil
}

// PlanInput is a weekly-planner request.
type PlanInput struct {
	SessionID string
	Focus     string
	Model     string
}

// PlanResult is the planner response payload. Plan is the model's raw text,
// expected but not guaranteed to be the requested JSON shape.
type PlanResult struct {
	SessionID string `json:"session_id"`
	Plan      string `json:"plan"`
}

// Plan generates a weekly plan. Nothing is persisted for this tool; the raw
// generated text is passed through to the caller. The output is decoded into
// the structured plan shape only to flag off-format model output in the logs.
func (s *Service) Plan(ctx context.Context, in PlanInput) (*PlanResult, error) {
	if in.SessionID == "" {
		return nil, &ValidationError{Field: "session_id"}
	}

	text, err := s.llm.Generate(ctx, s.model(in.Model), prompt.Planner(in.Focus), s.cfg.GenerateTimeout)
	if err != nil {
		return nil, err
	}

	if _, err := domain.BuildPlan(in.SessionID, domain.NextWeekStart(time.Now()), text); err != nil {
		slog.Warn("planner output is not the requested JSON shape", "session_id", in.SessionID, "error", err)
	}

	return &PlanResult{SessionID: in.SessionID, Plan: text}, nil
}

// RoleplayInput is a persona roleplay request.
type RoleplayInput struct {
	SessionID string
	Persona   string
	Message   string
	Model     string
}

// RoleplayResult is the roleplay response payload.
type RoleplayResult struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// Roleplay generates an in-character reply, then records the exchange. The
// record is written after the gateway call, so a failed generation persists
// nothing for this tool.
func (s *Service) Roleplay(ctx context.Context, in RoleplayInput) (*RoleplayResult, error) {
	if in.SessionID == "" {
		return nil, &ValidationError{Field: "session_id"}
	}
	if in.Persona == "" {
		return nil, &ValidationError{Field: "persona"}
	}
	if in.Message == "" {
		return nil, &ValidationError{Field: "message"}
	}

	reply, err := s.llm.Generate(ctx, s.model(in.Model), prompt.Roleplay(in.Persona, in.Message), s.cfg.GenerateTimeout)
	if err != nil {
		return nil, err
	}

	entry := domain.NewRoleplayEntry(in.SessionID, in.Persona, in.Message)
	if _, err := store.Create(ctx, s.store, domain.CollectionRoleplay, entry); err != nil {
		return nil, &StorageError{Op: "persist roleplay entry", Err: err}
	}

	return &RoleplayResult{SessionID: in.SessionID, Reply: reply}, nil
}
