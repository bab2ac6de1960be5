package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/abx/internal/formatter"
	"github.com/desertthunder/abx/internal/models"
	"github.com/desertthunder/abx/internal/shared"
	"github.com/desertthunder/abx/internal/tasks"
	"github.com/go-chi/chi/v5"
)

// ContactsHandler serves the contact routes.
type ContactsHandler struct {
	engine *tasks.Engine
	logger *log.Logger
}

var _ Handler = (*ContactsHandler)(nil)

func NewContactsHandler(engine *tasks.Engine, logger *log.Logger) *ContactsHandler {
	return &ContactsHandler{engine: engine, logger: logger}
}

// Register mounts the contact routes under /contacts.
func (h *ContactsHandler) Register(r chi.Router) {
	r.Route("/contacts", func(r chi.Router) {
		r.Get("/", h.stream)
		r.Get("/count", h.count)
		r.Get("/me", h.me)
		r.Get("/{index}", h.get)
	})
}

// StreamLine is one line of the GET /contacts stream.
type StreamLine struct {
	Type     string              `json:"type"` // progress, done or error
	Job      string              `json:"job"`
	Percent  int                 `json:"percent,omitempty"`
	Step     int                 `json:"step,omitempty"`
	Total    int                 `json:"total,omitempty"`
	Contacts []formatter.Contact `json:"contacts,omitempty"`
	Error    string              `json:"error,omitempty"`
}

func (h *ContactsHandler) count(w http.ResponseWriter, r *http.Request) {
	n, err := h.engine.Count(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

func (h *ContactsHandler) me(w http.ResponseWriter, r *http.Request) {
	c, err := h.engine.Me(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, formatter.Present(c))
}

func (h *ContactsHandler) get(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, fmt.Errorf("%w: index %q is not an integer", shared.ErrInvalidArgument, raw))
		return
	}

	c, err := h.engine.Get(r.Context(), index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, formatter.Present(c))
}

// stream runs an enumeration job and relays its events as NDJSON. The job is tied to the request context, and its
// events are always drained even after the client goes away.
func (h *ContactsHandler) stream(w http.ResponseWriter, r *http.Request) {
	job := h.engine.Start(r.Context())
	logger := shared.WithLogger(h.logger, "job", job.ID())

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	var writeErr error
	send := func(line StreamLine) {
		if writeErr != nil {
			return
		}
		if writeErr = enc.Encode(line); writeErr != nil {
			logger.Warn("client write failed", "err", writeErr)
			job.Cancel()
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	for ev := range job.Events() {
		switch {
		case !ev.Terminal():
			send(StreamLine{
				Type:    "progress",
				Job:     job.ID(),
				Percent: ev.Progress.Percent,
				Step:    ev.Progress.Step,
				Total:   ev.Progress.Total,
			})
		case ev.Err != nil:
			send(StreamLine{Type: "error", Job: job.ID(), Error: ev.Err.Error()})
		default:
			send(doneLine(job.ID(), ev.Contacts))
		}
	}
}

func doneLine(id string, contacts []models.ContactRecord) StreamLine {
	presented := formatter.PresentAll(contacts)
	return StreamLine{Type: "done", Job: id, Total: len(presented), Contacts: presented}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps sentinel errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrOutOfRange), errors.Is(err, shared.ErrNoOwner):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrSourceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
