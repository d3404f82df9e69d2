// Package httpapi exposes the sign-in core to operator terminals as a plain
// JSON API. Derived status and time displays are computed per request; they
// are never stored.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oakline/gatehouse/internal/dashboard"
	"github.com/oakline/gatehouse/internal/domain/preauth"
	"github.com/oakline/gatehouse/internal/domain/signin"
	"github.com/oakline/gatehouse/internal/guard"
	"github.com/oakline/gatehouse/internal/repository"
	"github.com/oakline/gatehouse/internal/snapshot"
)

// Server wires HTTP handlers over the sign-in services.
type Server struct {
	signins     *signin.Service
	snapshot    *snapshot.Store
	store       repository.SignInStore
	preauth     repository.PreAuthStore
	profile     *guard.Holder
	suggestions *suggestionFeed
	logger      *slog.Logger
}

// NewServer creates the API server. suggestDebounce is the keystroke window
// before a directory lookup fires; non-positive values fall back to 260ms.
// suggestLimit caps suggestion responses; non-positive values fall back to 6.
func NewServer(
	signins *signin.Service,
	snap *snapshot.Store,
	store repository.SignInStore,
	preauthStore repository.PreAuthStore,
	profile *guard.Holder,
	suggestDebounce time.Duration,
	suggestLimit int,
	logger *slog.Logger,
) *Server {
	if suggestDebounce <= 0 {
		suggestDebounce = 260 * time.Millisecond
	}
	if suggestLimit <= 0 {
		suggestLimit = 6
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		signins:     signins,
		snapshot:    snap,
		store:       store,
		preauth:     preauthStore,
		profile:     profile,
		suggestions: newSuggestionFeed(preauthStore, suggestDebounce, suggestLimit, logger),
		logger:      logger,
	}
}

// Close drops any pending suggestion lookup.
func (s *Server) Close() {
	s.suggestions.Close()
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(s.logger))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/sign-ins", s.handleList)
		r.Post("/sign-ins", s.handleCreate)
		r.Post("/sign-ins/{id}/approve", s.handleApprove)
		r.Post("/sign-ins/{id}/decline", s.handleDecline)
		r.Post("/sign-ins/{id}/sign-out", s.handleSignOut)
		r.Post("/sign-ins/{id}/comments", s.handleAddComment)
		r.Post("/sign-ins/{id}/comments/{commentID}/toggle-important", s.handleToggleImportant)
		r.Delete("/sign-ins/{id}", s.handleDeleteSignIn)
		r.Get("/history", s.handleHistory)
		r.Get("/suggestions", s.handleSuggestions)
		r.Post("/contractors", s.handleCreateContractor)
		r.Get("/guard-profile", s.handleGetProfile)
		r.Put("/guard-profile", s.handleSetProfile)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleList renders the dashboard view: snapshot → filter → day groups,
// with derived status computed at request time.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	spec, err := filterFromQuery(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	now := time.Now()
	rows := s.snapshot.List()
	filtered := dashboard.Apply(rows, spec, now)
	groups := dashboard.GroupByDay(filtered, now)

	writeJSON(w, http.StatusOK, listResponse{
		Total:   len(rows),
		Matched: len(filtered),
		Keys:    dashboard.AllKeys(rows),
		Groups:  toGroupDTOs(groups, now),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, errBadBody)
		return
	}

	rec, err := s.signins.Create(r.Context(), s.actor(r), req.toDomain())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryDTO(rec, time.Now()))
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}

	rec, err := s.signins.Approve(r.Context(), s.actor(r), chi.URLParam(r, "id"), req.Notes)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(rec, time.Now()))
}

func (s *Server) handleDecline(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}

	rec, err := s.signins.Decline(r.Context(), s.actor(r), chi.URLParam(r, "id"), req.Notes)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(rec, time.Now()))
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	var req signOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, errBadBody)
		return
	}

	rec, err := s.signins.SignOut(r.Context(), s.actor(r), chi.URLParam(r, "id"), signin.SignOutRequest{
		WorkStatus:            signin.WorkStatus(req.WorkStatus),
		WorkDetails:           req.WorkDetails,
		KeysReturned:          req.KeysReturned,
		KeysNotReturnedReason: req.KeysNotReturnedReason,
		Notes:                 req.Notes,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(rec, time.Now()))
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, errBadBody)
		return
	}

	rec, err := s.signins.AppendComment(r.Context(), s.actor(r), chi.URLParam(r, "id"), req.Text, req.Important)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(rec, time.Now()))
}

func (s *Server) handleToggleImportant(w http.ResponseWriter, r *http.Request) {
	rec, err := s.signins.ToggleImportant(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "commentID"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(rec, time.Now()))
}

// handleDeleteSignIn removes a record outright, the administrative cleanup
// path. Live dashboards drop the record through the delete change event.
func (s *Server) handleDeleteSignIn(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleHistory runs a direct store query, bypassing the capped snapshot.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, s.logger, errBadQuery)
			return
		}
		limit = parsed
	}

	rows, err := s.store.Query(r.Context(), repository.QueryOptions{
		Name:    r.URL.Query().Get("name"),
		Company: r.URL.Query().Get("company"),
		Limit:   limit,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	now := time.Now()
	out := make([]entryDTO, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toEntryDTO(rec, now))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleSuggestions serves directory lookups through the debounced feed. A
// request superseded mid-wait by a newer keystroke answers 204 once its
// context ends; the fresher request carries the result.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	matches, ok := s.suggestions.Lookup(r.Context(), r.URL.Query().Get("q"))
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if matches == nil {
		matches = []preauth.Contractor{}
	}
	writeJSON(w, http.StatusOK, matches)
}

// handleCreateContractor registers a pre-authorized profile in the directory
// so future visits surface it as a suggestion.
func (s *Server) handleCreateContractor(w http.ResponseWriter, r *http.Request) {
	var req contractorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, errBadBody)
		return
	}

	c, err := preauth.NewContractor(req.toDomain())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if err := s.preauth.Insert(r.Context(), c); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.profile.Current())
}

func (s *Server) handleSetProfile(w http.ResponseWriter, r *http.Request) {
	var p guard.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, s.logger, errBadBody)
		return
	}
	s.profile.Set(p)
	writeJSON(w, http.StatusOK, s.profile.Current())
}

// actor resolves the acting operator: the X-Guard-Name header wins, else the
// terminal's configured profile.
func (s *Server) actor(r *http.Request) signin.Actor {
	actor := s.profile.Actor()
	if name := r.Header.Get("X-Guard-Name"); name != "" {
		actor.Name = name
	}
	return actor
}
