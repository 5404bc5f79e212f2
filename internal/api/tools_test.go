package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ashureev/ai-tools/internal/domain"
	"github.com/ashureev/ai-tools/internal/llm"
	"github.com/ashureev/ai-tools/internal/store"
	"github.com/ashureev/ai-tools/internal/tools"
	"github.com/go-chi/chi/v5"
)

// newTestServer wires a real document store and service against a fake
// generation backend whose responses the test controls.
func newTestServer(t *testing.T, backend http.HandlerFunc) (*httptest.Server, *store.SQLiteStore) {
	t.Helper()

	ollama := httptest.NewServer(backend)
	t.Cleanup(ollama.Close)

	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	svc := tools.NewService(repo, llm.NewClient(ollama.URL), tools.Config{
		DefaultModel:    "llama3.1:8b",
		GenerateTimeout: 5 * time.Second,
		ResearchTimeout: 5 * time.Second,
		ListLimit:       50,
	})

	r := chi.NewRouter()
	NewHandler(svc, repo).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, repo
}

func respondWith(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"response": text})
	}
}

func postJSON(t *testing.T, url string, body map[string]any) (*http.Response, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func TestChatEndpoint(t *testing.T) {
	srv, repo := newTestServer(t, respondWith("hello"))

	resp, body := postJSON(t, srv.URL+"/chat", map[string]any{"session_id": "s1", "message": "hi"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, body)
	}
	if body["session_id"] != "s1" || body["reply"] != "hello" {
		t.Errorf("unexpected body: %v", body)
	}
	if body["created_at"] == nil {
		t.Error("expected created_at in chat response")
	}

	msgs, err := store.List[domain.ChatMessage](context.Background(), repo, domain.CollectionChatMessages, map[string]any{"session_id": "s1"}, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected two stored chat messages, got %d", len(msgs))
	}
	// Most recent first: assistant, then user.
	if msgs[0].Role != domain.RoleAssistant || msgs[1].Role != domain.RoleUser {
		t.Errorf("unexpected roles: %s, %s", msgs[0].Role, msgs[1].Role)
	}
}

func TestResearchEndpoint(t *testing.T) {
	srv, repo := newTestServer(t, respondWith("1. bees are important"))

	resp, body := postJSON(t, srv.URL+"/research", map[string]any{"session_id": "s1", "topic": "bees", "depth": 2})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, body)
	}
	if body["session_id"] != "s1" || body["result"] != "1. bees are important" {
		t.Errorf("unexpected body: %v", body)
	}

	entries, err := store.List[domain.ResearchEntry](context.Background(), repo, domain.CollectionResearch, map[string]any{"session_id": "s1"}, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one research entry, got %d", len(entries))
	}
	// JSON numbers decode as float64.
	if depth, ok := entries[0].Parameters["depth"].(float64); !ok || depth != 2 {
		t.Errorf("expected parameters.depth == 2, got %v", entries[0].Parameters["depth"])
	}
}

func TestPlannerEndpoint(t *testing.T) {
	plan := `{"days":[{"day":"Monday","tasks":["a","b","c"]}]}`
	srv, repo := newTestServer(t, respondWith(plan))

	resp, body := postJSON(t, srv.URL+"/planner", map[string]any{"session_id": "s1", "focus": "exams"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, body)
	}
	if body["plan"] != plan {
		t.Errorf("expected raw plan text passthrough, got %v", body["plan"])
	}

	// The planner persists nothing.
	for _, collection := range []string{domain.CollectionChatMessages, domain.CollectionResearch, domain.CollectionRoleplay} {
		rows, err := repo.Query(context.Background(), collection, nil, 10)
		if err != nil {
			t.Fatalf("query %s: %v", collection, err)
		}
		if len(rows) != 0 {
			t.Errorf("expected no %s records, got %d", collection, len(rows))
		}
	}
}

func TestRoleplayEndpoint(t *testing.T) {
	srv, repo := newTestServer(t, respondWith("Arr!"))

	resp, body := postJSON(t, srv.URL+"/roleplay", map[string]any{"session_id": "s1", "persona": "pirate", "message": "hello"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.StatusCode, body)
	}
	if body["reply"] != "Arr!" {
		t.Errorf("unexpected body: %v", body)
	}

	entries, err := store.List[domain.RoleplayEntry](context.Background(), repo, domain.CollectionRoleplay, map[string]any{"session_id": "s1"}, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].Persona != "pirate" {
		t.Errorf("expected one persisted roleplay entry, got %+v", entries)
	}
}

func TestRoleplayEmptyReplyIsServerError(t *testing.T) {
	srv, repo := newTestServer(t, respondWith(""))

	resp, _ := postJSON(t, srv.URL+"/roleplay", map[string]any{"session_id": "s1", "persona": "pirate", "message": "hello"})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 for empty reply, got %d", resp.StatusCode)
	}

	rows, err := repo.Query(context.Background(), domain.CollectionRoleplay, nil, 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("empty reply must not persist a roleplay entry, got %d", len(rows))
	}
}

func TestChatUpstreamFailureKeepsUserMessage(t *testing.T) {
	srv, repo := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model exploded", http.StatusInternalServerError)
	})

	resp, body := postJSON(t, srv.URL+"/chat", map[string]any{"session_id": "s1", "message": "hi"})
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
	if detail, _ := body["error"].(string); detail == "" {
		t.Error("expected an error detail mentioning the failure")
	}

	msgs, err := store.List[domain.ChatMessage](context.Background(), repo, domain.CollectionChatMessages, nil, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Role != domain.RoleUser {
		t.Errorf("expected only the user message persisted, got %+v", msgs)
	}
}

func TestValidationIsBadRequest(t *testing.T) {
	srv, _ := newTestServer(t, respondWith("unused"))

	resp, body := postJSON(t, srv.URL+"/research", map[string]any{"session_id": "s1"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing topic, got %d", resp.StatusCode)
	}
	if body["error"] != "topic is required" {
		t.Errorf("unexpected error detail: %v", body["error"])
	}
}

func TestInvalidJSONBodyIsBadRequest(t *testing.T) {
	srv, _ := newTestServer(t, respondWith("unused"))

	resp, err := http.Post(srv.URL+"/chat", "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t, respondWith("unused"))

	resp, err := http.Get(srv.URL + "/health-check")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["database"] != true {
		t.Errorf("unexpected health body: %v", body)
	}
}

func TestChatHistoryEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, respondWith("hello"))

	if resp, _ := postJSON(t, srv.URL+"/chat", map[string]any{"session_id": "s1", "message": "hi"}); resp.StatusCode != http.StatusOK {
		t.Fatalf("chat setup failed: %d", resp.StatusCode)
	}

	resp, err := http.Get(srv.URL + "/chat/history?session_id=s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		SessionID string               `json:"session_id"`
		Messages  []domain.ChatMessage `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.SessionID != "s1" || len(body.Messages) != 2 {
		t.Errorf("unexpected history: %+v", body)
	}

	// Missing session_id is a validation error.
	resp2, err := http.Get(srv.URL + "/chat/history")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = resp2.Body.Close() }()
	if resp2.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 without session_id, got %d", resp2.StatusCode)
	}
}
