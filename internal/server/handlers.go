package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"nexusai/internal/classify"
	"nexusai/internal/demo"
	"nexusai/internal/export"
	"nexusai/internal/planner"
	"nexusai/internal/queue"
	"nexusai/internal/types"
)

// failureEnvelope is the error shape shared by all endpoints. The plan
// endpoint's consumers depend on this exact layout.
type failureEnvelope struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// planEnvelope is the success shape of the plan endpoint.
type planEnvelope struct {
	Success     bool       `json:"success"`
	Plan        types.Plan `json:"plan"`
	Instruction string     `json:"instruction"`
	Timestamp   string     `json:"timestamp"`
}

func (s *Server) timestamp() string {
	return s.clock().UTC().Format(time.RFC3339)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeFailure(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, failureEnvelope{Success: false, Error: msg, Timestamp: s.timestamp()})
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// =============================================================================
// HEALTH / PIPELINE
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "timestamp": s.timestamp()})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeFailure(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	category, modes := suggestModes(req.Query)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"query":    req.Query,
		"category": category,
		"modes":    modes,
	})
}

func (s *Server) handleRespond(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
		Mode  string `json:"mode"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeFailure(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	mode := types.ResponseMode(req.Mode)
	if req.Mode == "" {
		category := classify.Classify(req.Query)
		mode = classify.SuggestedModes(category)[0]
	}
	s.writeJSON(w, http.StatusOK, s.generator.Generate(req.Query, mode))
}

// =============================================================================
// PERSONAS / DEMO
// =============================================================================

func (s *Server) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.personas.All())
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PersonaID string `json:"persona_id"`
		Message   string `json:"message"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeFailure(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	p := s.personas.FindOrFirst(req.PersonaID)
	s.writeJSON(w, http.StatusOK, map[string]string{
		"persona_id": p.ID,
		"reply":      s.engine.Respond(p, req.Message),
	})
}

func (s *Server) handleDemoFields(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, demo.Fields())
}

// handleRunDemo materializes the field's scripts into recordings and
// persists them, mirroring what playing the demo in the UI would do.
func (s *Server) handleRunDemo(w http.ResponseWriter, r *http.Request) {
	field := r.PathValue("field")
	scripts := demo.ScriptsForField(field)
	recordings := demo.MaterializeBatch(scripts, demo.Clock(s.clock))

	for _, rec := range recordings {
		if err := s.repo.AppendRecording(rec); err != nil {
			s.writeFailure(w, http.StatusInternalServerError, "failed to store recording")
			return
		}
	}
	s.writeJSON(w, http.StatusOK, recordings)
}

// =============================================================================
// RECORDINGS / MODELS
// =============================================================================

func (s *Server) handleListRecordings(w http.ResponseWriter, r *http.Request) {
	recordings, err := s.repo.ListRecordings()
	if err != nil {
		s.writeFailure(w, http.StatusInternalServerError, "failed to list recordings")
		return
	}
	s.writeJSON(w, http.StatusOK, recordings)
}

func (s *Server) handleAppendRecording(w http.ResponseWriter, r *http.Request) {
	var rec types.Recording
	if err := decodeBody(r, &rec); err != nil {
		s.writeFailure(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if rec.ID == "" {
		s.writeFailure(w, http.StatusBadRequest, "recording id is required")
		return
	}
	if err := s.repo.AppendRecording(rec); err != nil {
		s.writeFailure(w, http.StatusConflict, "failed to append recording")
		return
	}
	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleDeleteRecording(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteRecording(r.PathValue("id")); err != nil {
		s.writeFailure(w, http.StatusInternalServerError, "failed to delete recording")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetPinnedModel(w http.ResponseWriter, r *http.Request) {
	name, err := s.repo.GetPinnedModel()
	if err != nil {
		s.writeFailure(w, http.StatusInternalServerError, "failed to read pinned model")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"model": name})
}

func (s *Server) handleSetPinnedModel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model string `json:"model"`
	}
	if err := decodeBody(r, &req); err != nil || req.Model == "" {
		s.writeFailure(w, http.StatusBadRequest, "model name is required")
		return
	}
	if err := s.repo.SetPinnedModel(req.Model); err != nil {
		s.writeFailure(w, http.StatusInternalServerError, "failed to pin model")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"model": req.Model})
}

func (s *Server) handleListDownloadedModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.repo.ListDownloadedModels()
	if err != nil {
		s.writeFailure(w, http.StatusInternalServerError, "failed to list models")
		return
	}
	s.writeJSON(w, http.StatusOK, models)
}

func (s *Server) handleAddDownloadedModel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model string `json:"model"`
	}
	if err := decodeBody(r, &req); err != nil || req.Model == "" {
		s.writeFailure(w, http.StatusBadRequest, "model name is required")
		return
	}
	if err := s.repo.AddDownloadedModel(req.Model); err != nil {
		s.writeFailure(w, http.StatusInternalServerError, "failed to record model")
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"model": req.Model})
}

// =============================================================================
// PLAN / JOBS
// =============================================================================

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Instruction string `json:"instruction"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeFailure(w, http.StatusBadRequest, planner.ErrInstructionRequired.Error())
		return
	}

	plan, cleaned, err := s.planner.Plan(req.Instruction)
	if err != nil {
		s.writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, planEnvelope{
		Success:     true,
		Plan:        plan,
		Instruction: cleaned,
		Timestamp:   s.timestamp(),
	})
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Instruction string `json:"instruction"`
		DelayMs     int    `json:"delay_ms"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeFailure(w, http.StatusBadRequest, planner.ErrInstructionRequired.Error())
		return
	}

	plan, cleaned, err := s.planner.Plan(req.Instruction)
	if err != nil {
		s.writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	var job types.Job
	if req.DelayMs > 0 {
		job, err = s.sched.EnqueueIn(time.Duration(req.DelayMs)*time.Millisecond, cleaned, plan)
	} else {
		job, err = s.queue.Enqueue(cleaned, plan)
	}
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, queue.ErrQueueFull) {
			status = http.StatusTooManyRequests
		}
		s.writeFailure(w, status, err.Error())
		return
	}
	s.writeJSON(w, http.StatusAccepted, job)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	jobs, err := s.jobs.ListRecentJobs(limit)
	if err != nil {
		s.writeFailure(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}
	s.writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobs.GetJob(r.PathValue("id"))
	if err != nil {
		s.writeFailure(w, http.StatusInternalServerError, "failed to read job")
		return
	}
	if job == nil {
		s.writeFailure(w, http.StatusNotFound, "job not found")
		return
	}
	s.writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if s.sched.CancelScheduled(id) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	ok, err := s.queue.Cancel(id)
	if err != nil {
		s.writeFailure(w, http.StatusInternalServerError, "failed to cancel job")
		return
	}
	if !ok {
		s.writeFailure(w, http.StatusConflict, "job is not cancellable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobs.GetJob(r.PathValue("id"))
	if err != nil {
		s.writeFailure(w, http.StatusInternalServerError, "failed to read job")
		return
	}
	if job == nil {
		s.writeFailure(w, http.StatusNotFound, "job not found")
		return
	}

	var data []byte
	var contentType string
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		data, err = export.JSON(*job)
		contentType = "application/json"
	case "csv":
		data, err = export.CSV(*job)
		contentType = "text/csv"
	case "script":
		data, err = export.Script(*job, s.clock())
		contentType = "text/x-shellscript"
	default:
		s.writeFailure(w, http.StatusBadRequest, "unknown export format: "+format)
		return
	}
	if err != nil {
		s.writeFailure(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
