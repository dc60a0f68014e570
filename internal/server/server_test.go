package server

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"nexusai/internal/config"
	"nexusai/internal/persona"
	"nexusai/internal/planner"
	"nexusai/internal/queue"
	"nexusai/internal/respond"
	"nexusai/internal/store"
	"nexusai/internal/types"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	q := queue.New(s, config.QueueConfig{Workers: 1, QueueSize: 8, StepDelayMs: 1})
	q.Start(context.Background())
	t.Cleanup(q.Stop)

	sched := queue.NewScheduler(q)
	t.Cleanup(sched.Stop)

	srv := New(config.ServerConfig{Addr: "127.0.0.1:0", MaxConnections: 8, ReadTimeout: "5s", WriteTimeout: "5s"}, Deps{
		Generator: respond.NewGeneratorWithSource(rand.NewSource(1)),
		Personas:  persona.Default(),
		Engine:    persona.NewEngineWithSource(rand.NewSource(1)),
		Planner:   planner.New(10),
		Repo:      s,
		JobStore:  s,
		Queue:     q,
		Scheduler: sched,
		Clock:     func() time.Time { return testNow },
	})
	return srv, s
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandlePlan_EmptyInstruction(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/plan", map[string]string{"instruction": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var env map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, false, env["success"])
	require.Equal(t, "Instruction is required and must be a string", env["error"])
	require.NotContains(t, env, "plan")
	require.NotEmpty(t, env["timestamp"])
}

func TestHandlePlan_Success(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/plan", map[string]string{"instruction": "find laptops under 40000"})
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Success     bool       `json:"success"`
		Plan        types.Plan `json:"plan"`
		Instruction string     `json:"instruction"`
		Timestamp   string     `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.True(t, env.Success)
	require.Equal(t, "find laptops under 40000", env.Instruction)
	require.NotEmpty(t, env.Plan.Steps)
	require.Equal(t, types.ToolSearch, env.Plan.Steps[0].Tool)
	require.Equal(t, testNow.Format(time.RFC3339), env.Timestamp)
}

func TestHandlePlan_SanitizesInstruction(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/plan", map[string]string{
		"instruction": "email bob@example.com the list of laptops under 40000",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "bob@example.com")
	require.Contains(t, rec.Body.String(), "[EMAIL]")
}

func TestHandleClassify(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/classify", map[string]string{"query": "implement binary search in python"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Category string   `json:"category"`
		Modes    []string `json:"modes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "coding", resp.Category)
	require.Equal(t, []string{"coding", "study"}, resp.Modes)
}

func TestHandleRespond_DefaultsModeFromQuery(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/respond", map[string]string{"query": "best headphones under 2000"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, types.ModeQuick, resp.Mode)
	require.InDelta(t, 0.92, resp.Confidence, 0.0001)
}

func TestHandleCall_KeywordRuleIsDeterministic(t *testing.T) {
	srv, _ := newTestServer(t)

	body := map[string]string{"persona_id": "health-coach", "message": "how should I warm up before a workout?"}
	first := doJSON(t, srv, http.MethodPost, "/api/call", body)
	second := doJSON(t, srv, http.MethodPost, "/api/call", body)
	require.Equal(t, http.StatusOK, first.Code)
	require.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestHandleRunDemo_PersistsRecordings(t *testing.T) {
	srv, s := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/demo/fitness", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var recordings []types.Recording
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recordings))
	require.Len(t, recordings, 3)
	for _, r := range recordings {
		require.Equal(t, "health-coach", r.PersonaID)
		require.EqualValues(t, 240000, r.DurationMs)
	}

	stored, err := s.ListRecordings()
	require.NoError(t, err)
	require.Len(t, stored, 3)
}

func TestRecordingsEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	recording := types.Recording{
		ID:        "rec-1",
		Title:     "Test call",
		PersonaID: "nova",
		Transcript: []types.TranscriptEntry{
			{ID: "e1", OffsetMs: 0, Speaker: types.SpeakerUser, Text: "hello"},
		},
		CreatedAt:  testNow,
		DurationMs: 30000,
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/recordings", recording)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/recordings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []types.Recording
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)

	rec = doJSON(t, srv, http.MethodDelete, "/api/recordings/rec-1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/recordings", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Empty(t, listed)
}

func TestModelEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/api/models/pinned", map[string]string{"model": "nexus-pro"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/models/pinned", nil)
	var pinned map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pinned))
	require.Equal(t, "nexus-pro", pinned["model"])

	rec = doJSON(t, srv, http.MethodPost, "/api/models/downloaded", map[string]string{"model": "nexus-mini"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/models/downloaded", nil)
	var models []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &models))
	require.Equal(t, []string{"nexus-mini"}, models)
}

func TestJobEndpoints(t *testing.T) {
	srv, s := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/jobs", map[string]any{"instruction": "find laptops under 40000"})
	require.Equal(t, http.StatusAccepted, rec.Code)

	var job types.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	require.NotEmpty(t, job.ID)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		stored, err := s.GetJob(job.ID)
		require.NoError(t, err)
		if stored != nil && stored.Status == types.JobFinished {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/jobs/"+job.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got types.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, types.JobFinished, got.Status)
	require.Equal(t, 100, got.Progress)

	rec = doJSON(t, srv, http.MethodGet, "/api/jobs/"+job.ID+"/export?format=csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/csv")

	rec = doJSON(t, srv, http.MethodGet, "/api/jobs/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownExportFormat(t *testing.T) {
	srv, s := newTestServer(t)

	require.NoError(t, s.SaveJob(types.Job{
		ID:          "job-x",
		Instruction: "find laptops under 40000",
		Plan: types.Plan{Steps: []types.PlanStep{
			{StepID: 1, Tool: types.ToolSearch, Args: map[string]any{"query": "q"}, Reason: "search", Confidence: 0.9},
		}},
		Status:    types.JobFinished,
		CreatedAt: testNow,
	}))

	rec := doJSON(t, srv, http.MethodGet, "/api/jobs/job-x/export?format=pdf", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
