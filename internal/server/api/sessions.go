// Package api provides HTTP API handlers for the assessment station.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sreevidya/handrom/internal/landmark"
	"github.com/sreevidya/handrom/internal/rom"
	"github.com/sreevidya/handrom/internal/store"
)

// SessionHandler handles HTTP requests for assessment sessions. Active
// sessions live in memory until finalized; only finalized results reach the
// store.
type SessionHandler struct {
	store  *store.Store
	config rom.Config

	mu     sync.Mutex
	active map[string]*rom.Session
}

// NewSessionHandler creates a new SessionHandler with the given store and
// engine configuration.
func NewSessionHandler(s *store.Store, config rom.Config) *SessionHandler {
	return &SessionHandler{
		store:  s,
		config: config,
		active: make(map[string]*rom.Session),
	}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/sessions, /api/sessions/{id} and the
	// sub-resources frames, repetitions, finalize, result.
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id, sub, _ := strings.Cut(path, "/")
	switch sub {
	case "":
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, id)
		case http.MethodDelete:
			h.delete(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case "frames":
		h.requirePost(w, r, id, h.frames)
	case "repetitions":
		h.requirePost(w, r, id, h.repetitions)
	case "finalize":
		h.requirePost(w, r, id, h.finalize)
	case "result":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.result(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (h *SessionHandler) requirePost(w http.ResponseWriter, r *http.Request, id string, fn func(http.ResponseWriter, *http.Request, string)) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	fn(w, r, id)
}

// Request and response types

type createSessionRequest struct {
	Kind string `json:"kind"`
}

type sessionResponse struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	State       string `json:"state"`
	Hand        string `json:"hand"`
	FrameCount  int    `json:"frameCount"`
	Repetitions int    `json:"repetitions"`
	CreatedAt   string `json:"created_at,omitempty"`
	FinalizedAt string `json:"finalized_at,omitempty"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type ingestFramesRequest struct {
	Frames []landmark.Frame `json:"frames"`
}

type ingestFramesResponse struct {
	Processed int               `json:"processed"`
	Skipped   int               `json:"skipped"`
	Samples   []rom.AngleSample `json:"samples"`
}

type errorResponse struct {
	Error string `json:"error"`
}

const timeFormat = "2006-01-02T15:04:05Z07:00"

// toResponse converts a stored session row to a sessionResponse.
func toResponse(s *store.Session) sessionResponse {
	resp := sessionResponse{
		ID:          s.ID,
		Kind:        string(s.Kind),
		State:       string(rom.StateFinalized),
		Hand:        string(s.Hand),
		FrameCount:  s.FrameCount,
		Repetitions: s.Repetitions,
		CreatedAt:   s.CreatedAt.Format(timeFormat),
	}
	if s.FinalizedAt != nil {
		resp.FinalizedAt = s.FinalizedAt.Format(timeFormat)
	} else {
		resp.State = string(rom.StateUnlocked)
	}
	return resp
}

// liveResponse builds a sessionResponse from an in-memory session.
func liveResponse(id string, s *rom.Session) sessionResponse {
	return sessionResponse{
		ID:          id,
		Kind:        string(s.Kind()),
		State:       string(s.State()),
		Hand:        string(s.Hand()),
		FrameCount:  s.FrameCount(),
		Repetitions: s.Repetitions(),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// lookup returns the active session for an ID, if any.
func (h *SessionHandler) lookup(id string) *rom.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active[id]
}

// list handles GET /api/sessions and returns all stored sessions.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.Sessions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, toResponse(s))
	}

	writeJSON(w, http.StatusOK, response)
}

// create handles POST /api/sessions and opens a new assessment session.
func (h *SessionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	kind, err := rom.ParseAssessmentKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid assessment kind")
		return
	}

	id := uuid.New().String()
	if err := h.store.Sessions().Create(&store.Session{ID: id, Kind: kind}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	session := rom.NewSession(kind, h.config)
	h.mu.Lock()
	h.active[id] = session
	h.mu.Unlock()

	writeJSON(w, http.StatusCreated, liveResponse(id, session))
}

// get handles GET /api/sessions/{id}. Active sessions report live state,
// finalized ones come from the store.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	if session := h.lookup(id); session != nil {
		writeJSON(w, http.StatusOK, liveResponse(id, session))
		return
	}

	session, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(session))
}

// frames handles POST /api/sessions/{id}/frames and feeds a batch of
// landmark frames into the session.
func (h *SessionHandler) frames(w http.ResponseWriter, r *http.Request, id string) {
	session := h.lookup(id)
	if session == nil {
		writeError(w, http.StatusNotFound, "No active session")
		return
	}

	var req ingestFramesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Frames) == 0 {
		writeError(w, http.StatusBadRequest, "No frames")
		return
	}

	response := ingestFramesResponse{Samples: []rom.AngleSample{}}

	h.mu.Lock()
	for i := range req.Frames {
		samples, err := session.ProcessFrame(&req.Frames[i])
		if err != nil {
			if errors.Is(err, rom.ErrSessionFinalized) {
				h.mu.Unlock()
				writeError(w, http.StatusConflict, "Session already finalized")
				return
			}
			// Unusable frames still count toward the recording.
			response.Skipped++
			continue
		}
		response.Processed++
		response.Samples = append(response.Samples, samples...)
	}
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, response)
}

// repetitions handles POST /api/sessions/{id}/repetitions and marks a
// movement repetition boundary.
func (h *SessionHandler) repetitions(w http.ResponseWriter, r *http.Request, id string) {
	session := h.lookup(id)
	if session == nil {
		writeError(w, http.StatusNotFound, "No active session")
		return
	}

	h.mu.Lock()
	session.EndRepetition()
	reps := session.Repetitions()
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]int{"repetitions": reps})
}

// finalize handles POST /api/sessions/{id}/finalize. It seals the session,
// persists the result, and returns it. Sessions cut short still produce a
// result, flagged incomplete.
//
// The session stays in the registry until the save succeeds, so a failed
// write does not lose the finalized result: the client can retry the
// finalize once the store recovers.
func (h *SessionHandler) finalize(w http.ResponseWriter, r *http.Request, id string) {
	h.mu.Lock()
	session := h.active[id]
	if session == nil {
		h.mu.Unlock()
		writeError(w, http.StatusNotFound, "No active session")
		return
	}
	result := session.Finalize()
	h.mu.Unlock()

	if err := h.store.Results().Save(id, result); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save result")
		return
	}

	h.mu.Lock()
	delete(h.active, id)
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, result)
}

// result handles GET /api/sessions/{id}/result and returns the finalized
// measurement document.
func (h *SessionHandler) result(w http.ResponseWriter, r *http.Request, id string) {
	res, err := h.store.Results().GetBySessionID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Result not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get result")
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// delete handles DELETE /api/sessions/{id}. An active session is discarded
// without persisting; a stored session is removed together with its result.
func (h *SessionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	h.mu.Lock()
	_, wasActive := h.active[id]
	delete(h.active, id)
	h.mu.Unlock()

	err := h.store.Sessions().Delete(id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	if err != nil && !wasActive {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
