package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/WessleyAI/garage-mvp/engine/assist"
	"github.com/WessleyAI/garage-mvp/engine/domain"
	"github.com/WessleyAI/garage-mvp/engine/registry"
	"github.com/WessleyAI/garage-mvp/engine/remind"
	"github.com/WessleyAI/garage-mvp/engine/tasks"
	"github.com/WessleyAI/garage-mvp/pkg/fn"
)

// server bundles the engine services behind the HTTP API.
type server struct {
	chat      *assist.Service
	vehicles  *registry.Registry
	tasks     *tasks.Store
	reminders *remind.Scheduler
	tier      domain.Tier
	logger    *slog.Logger
}

func newServer(chat *assist.Service, vehicles *registry.Registry, taskStore *tasks.Store, reminders *remind.Scheduler, tier domain.Tier, logger *slog.Logger) *server {
	return &server{
		chat:      chat,
		vehicles:  vehicles,
		tasks:     taskStore,
		reminders: reminders,
		tier:      tier,
		logger:    logger,
	}
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/chat", s.handleChat)

	mux.HandleFunc("GET /api/vehicles", s.handleListVehicles)
	mux.HandleFunc("POST /api/vehicles", s.handleAddVehicle)
	mux.HandleFunc("GET /api/vehicles/{id}", s.handleGetVehicle)
	mux.HandleFunc("PATCH /api/vehicles/{id}", s.handleUpdateVehicle)
	mux.HandleFunc("DELETE /api/vehicles/{id}", s.handleRemoveVehicle)
	mux.HandleFunc("POST /api/vehicles/{id}/select", s.handleSelectVehicle)

	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("GET /api/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("PATCH /api/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("POST /api/tasks/{id}/status", s.handleTaskStatus)
	mux.HandleFunc("POST /api/tasks/{id}/remind", s.handleArmReminder)
	mux.HandleFunc("DELETE /api/tasks/{id}/remind", s.handleCancelReminder)

	mux.HandleFunc("GET /api/calendar/{date}", s.handleCalendarDay)
	mux.HandleFunc("GET /api/overview", s.handleOverview)
	mux.HandleFunc("GET /api/templates", s.handleTemplates)
	mux.HandleFunc("POST /api/knowledge/search", s.handleKnowledgeSearch)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeErr maps domain errors onto HTTP statuses.
func writeErr(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Error(), "field": ve.Field})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, domain.ErrVehicleLimit):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ChatRequest is the JSON body for POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := domain.ValidateChatText(req.Message); err != nil {
		writeErr(w, err)
		return
	}
	reply := s.chat.Respond(r.Context(), req.Message, s.vehicles.Selected(), s.tier)
	writeJSON(w, http.StatusOK, reply)
}

// --- Vehicles ---

func (s *server) handleListVehicles(w http.ResponseWriter, _ *http.Request) {
	selected := ""
	if v := s.vehicles.Selected(); v != nil {
		selected = v.ID
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"vehicles": s.vehicles.List(),
		"selected": selected,
	})
}

func (s *server) handleAddVehicle(w http.ResponseWriter, r *http.Request) {
	var v domain.Vehicle
	if err := decode(r, &v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	added, err := s.vehicles.Add(r.Context(), v)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := s.vehicles.Get(r.PathValue("id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	var p registry.Patch
	if err := decode(r, &p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	v, err := s.vehicles.Update(r.Context(), r.PathValue("id"), p)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *server) handleRemoveVehicle(w http.ResponseWriter, r *http.Request) {
	if err := s.vehicles.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleSelectVehicle(w http.ResponseWriter, r *http.Request) {
	if err := s.vehicles.Select(r.PathValue("id")); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.vehicles.Selected())
}

// --- Tasks ---

func (s *server) handleListTasks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.tasks.List())
}

func (s *server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var d tasks.Draft
	if err := decode(r, &d); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	task, err := s.tasks.Create(d)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Get(r.PathValue("id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var p tasks.Patch
	if err := decode(r, &p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	task, err := s.tasks.Update(r.PathValue("id"), p)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.reminders.Cancel(id)
	s.tasks.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

// StatusRequest is the JSON body for POST /api/tasks/{id}/status.
type StatusRequest struct {
	Status domain.TaskStatus `json:"status"`
}

func (s *server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	task, err := s.tasks.SetStatus(r.PathValue("id"), req.Status)
	if err != nil {
		writeErr(w, err)
		return
	}
	if task.Status == domain.TaskCompleted {
		s.reminders.Cancel(task.ID)
	}
	writeJSON(w, http.StatusOK, task)
}

// ReminderResponse reports the outcome of a reminder scheduling call.
type ReminderResponse struct {
	Scheduled bool              `json:"scheduled"`
	Reason    remind.SkipReason `json:"reason,omitempty"`
}

func (s *server) handleArmReminder(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Get(r.PathValue("id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	res := s.reminders.ScheduleOneShot(task)
	writeJSON(w, http.StatusOK, ReminderResponse{Scheduled: res.Scheduled, Reason: res.Reason})
}

func (s *server) handleCancelReminder(w http.ResponseWriter, r *http.Request) {
	s.reminders.Cancel(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// --- Calendar and templates ---

// CalendarEntry pairs a task with its due annotation.
type CalendarEntry struct {
	Task domain.MaintenanceTask `json:"task"`
	Due  tasks.DueStatus        `json:"due"`
}

func (s *server) handleCalendarDay(w http.ResponseWriter, r *http.Request) {
	day, err := time.ParseInLocation("2006-01-02", r.PathValue("date"), time.Local)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
		return
	}
	now := time.Now()
	entries := fn.Map(tasks.OnDate(s.tasks.List(), day), func(t domain.MaintenanceTask) CalendarEntry {
		return CalendarEntry{Task: t, Due: tasks.Due(t, now)}
	})
	writeJSON(w, http.StatusOK, entries)
}

// Overview is the grouped schedule view.
type Overview struct {
	Active    []CalendarEntry          `json:"active"`
	Completed []domain.MaintenanceTask `json:"completed"`
}

func (s *server) handleOverview(w http.ResponseWriter, _ *http.Request) {
	now := time.Now()
	grouped := tasks.GroupByStatus(s.tasks.List())
	active := fn.Map(grouped.Active, func(t domain.MaintenanceTask) CalendarEntry {
		return CalendarEntry{Task: t, Due: tasks.Due(t, now)}
	})
	writeJSON(w, http.StatusOK, Overview{Active: active, Completed: grouped.Completed})
}

func (s *server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, tasks.Templates)
}

// SearchRequest is the JSON body for POST /api/knowledge/search.
type SearchRequest struct {
	Query string `json:"query"`
}

func (s *server) handleKnowledgeSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := domain.ValidateChatText(req.Query); err != nil {
		writeErr(w, err)
		return
	}
	results, err := s.chat.Search(r.Context(), req.Query)
	if err != nil {
		if errors.Is(err, assist.ErrKnowledgeDisabled) {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "knowledge base unavailable"})
			return
		}
		s.logger.Error("knowledge search failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, results)
}
