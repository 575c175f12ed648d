// Path: internal/delivery/rest/handlers.go
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"arena-scout/internal/domain"
	"arena-scout/internal/errs"
	"arena-scout/internal/events"
	"arena-scout/internal/export"
	"arena-scout/internal/search"
)

// dataService is what the handlers need from the core service. Keeping it
// an interface here keeps the delivery layer decoupled and mockable.
type dataService interface {
	Projects() []domain.Project
	Search(spec search.FilterSpec) []domain.Project
	Freshness() domain.Freshness
	LastError() error
}

// Handlers holds dependencies for the project API handlers.
type Handlers struct {
	service   dataService
	broker    *events.Broker
	logger    zerolog.Logger
	arenaBase string
}

// NewHandlers creates a new handler struct.
func NewHandlers(service dataService, broker *events.Broker, arenaBase string, logger zerolog.Logger) *Handlers {
	return &Handlers{
		service:   service,
		broker:    broker,
		logger:    logger.With().Str("component", "rest").Logger(),
		arenaBase: arenaBase,
	}
}

// GetProjects serves the full validated dataset. With no cached fallback,
// an upstream timeout maps to 504 and any other fetch failure to 500.
func (h *Handlers) GetProjects(w http.ResponseWriter, r *http.Request) {
	projects := h.service.Projects()
	if len(projects) == 0 {
		if err := h.service.LastError(); err != nil {
			if errors.Is(err, errs.ErrTimeout) {
				h.writeError(w, http.StatusGatewayTimeout, "upstream timeout")
				return
			}
			h.writeError(w, http.StatusInternalServerError, "project data unavailable")
			return
		}
		projects = []domain.Project{}
	}
	h.writeJSON(w, projects)
}

// SearchProjects runs the query-parameter filter spec against the engine.
func (h *Handlers) SearchProjects(w http.ResponseWriter, r *http.Request) {
	spec := search.SpecFromQuery(r.URL.Query())
	results := h.service.Search(spec)
	h.writeJSON(w, map[string]any{
		"total":    len(results),
		"projects": results,
	})
}

// Export streams the current filtered view in the requested format.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	spec := search.SpecFromQuery(r.URL.Query())
	results := h.service.Search(spec)

	var err error
	switch format := r.URL.Query().Get("format"); format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="arena-projects.csv"`)
		err = export.WriteCSV(w, results, h.arenaBase)
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="arena-projects.md"`)
		err = export.WriteMarkdown(w, results)
	case "json", "":
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="arena-projects.json"`)
		err = export.WriteJSON(w, results, h.arenaBase, time.Now())
	default:
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown export format %q", format))
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("export failed mid-stream")
	}
}

// Events streams dataset-refresh notifications as server-sent events so
// the dashboard can reload without polling.
func (h *Handlers) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ch, cancel := h.broker.Subscribe(events.TopicDatasetRefreshed)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case event, open := <-ch:
			if !open {
				return
			}
			fmt.Fprintf(w, "event: refresh\ndata: %v\n\n", event.Data)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

// Health reports liveness plus dataset freshness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	f := h.service.Freshness()
	h.writeJSON(w, map[string]any{
		"status":    "ok",
		"projects":  f.ProjectCount,
		"fetchedAt": f.FetchedAt,
	})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("error writing response")
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":  message,
		"status": "error",
	})
}
