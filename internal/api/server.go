package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/giftwish/giftwish/internal/claim"
	"github.com/giftwish/giftwish/internal/models"
	"github.com/giftwish/giftwish/internal/repository"
	"github.com/giftwish/giftwish/internal/service"
)

// Server provides the HTTP API over the collaborator contract. All
// wishlist reads are projected by viewing context, so the owner of a
// list never receives claimant identity over the wire.
type Server struct {
	svc    *service.Service
	logger *logrus.Logger
	mux    *http.ServeMux
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(svc *service.Service, logger *logrus.Logger) *Server {
	s := &Server{svc: svc, logger: logger, mux: http.NewServeMux()}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func (s *Server) routes() {
	// Profiles. The username lookup lives off the /api/profiles/ prefix
	// so it cannot conflict with the {id} wildcard routes.
	s.mux.HandleFunc("GET /api/profiles/{id}", s.handleGetProfile)
	s.mux.HandleFunc("PUT /api/profiles/{id}", s.handleUpdateProfile)
	s.mux.HandleFunc("GET /api/users/by-username/{username}", s.handleGetProfileByUsername)

	// Wishlist
	s.mux.HandleFunc("GET /api/profiles/{id}/wishlist", s.handleGetWishlist)
	s.mux.HandleFunc("POST /api/profiles/{id}/wishlist", s.handleAddItem)
	s.mux.HandleFunc("PUT /api/items/{id}", s.handleUpdateItem)
	s.mux.HandleFunc("DELETE /api/items/{id}", s.handleDeleteItem)

	// Claims
	s.mux.HandleFunc("PUT /api/items/{id}/claim", s.handleClaim)
	s.mux.HandleFunc("PUT /api/items/{id}/unclaim", s.handleUnclaim)

	// Sessions
	s.mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	s.mux.HandleFunc("GET /api/sessions/{token}", s.handleGetSession)
	s.mux.HandleFunc("DELETE /api/sessions/{token}", s.handleDeleteSession)

	// Operational
	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads the request body into dst and returns an error
// message on failure. The caller should return immediately when
// ok == false.
func (s *Server) decodeJSON(r *http.Request, dst any) (ok bool, errMsg string) {
	if r.Body == nil {
		return false, "request body is empty"
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return false, fmt.Sprintf("invalid JSON: %v", err)
	}
	return true, ""
}

// respondDomainError maps the domain error kinds onto HTTP statuses
func (s *Server) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrConflict):
		s.respondError(w, http.StatusConflict, "item already claimed")
	case errors.Is(err, claim.ErrForbidden):
		s.respondError(w, http.StatusForbidden, "not permitted")
	case errors.Is(err, claim.ErrInvalidTransition):
		s.respondError(w, http.StatusUnprocessableEntity, "invalid transition")
	default:
		s.logger.WithError(err).Error("request failed")
		s.respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// requireViewer reads the viewer query parameter identifying the
// requesting actor.
func (s *Server) requireViewer(w http.ResponseWriter, r *http.Request) (string, bool) {
	viewer := r.URL.Query().Get("viewer")
	if viewer == "" {
		s.respondError(w, http.StatusBadRequest, "viewer query parameter is required")
		return "", false
	}
	return viewer, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---------------------------------------------------------------------------
// Profiles
// ---------------------------------------------------------------------------

type updateProfileRequest struct {
	Name      string             `json:"name"`
	Username  string             `json:"username"`
	Birthday  string             `json:"birthday"`
	Avatar    string             `json:"avatar"`
	Sizes     []models.SizeEntry `json:"sizes"`
	Interests []string           `json:"interests"`
	Dislikes  []string           `json:"dislikes"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	profile, err := s.svc.Profiles.GetByID(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handleGetProfileByUsername(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	profile, err := s.svc.Friend(r.Context(), username)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateProfileRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	if req.Birthday != "" {
		if _, err := models.ParseBirthday(req.Birthday); err != nil {
			s.respondError(w, http.StatusBadRequest, "birthday must be YYYY-MM-DD")
			return
		}
	}

	profile, err := s.svc.Profiles.GetByID(r.Context(), id)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	profile.Name = strings.TrimSpace(req.Name)
	profile.Username = strings.TrimSpace(req.Username)
	profile.Birthday = req.Birthday
	profile.Avatar = req.Avatar
	profile.Sizes = req.Sizes
	profile.Interests = req.Interests
	profile.Dislikes = req.Dislikes

	updated, err := s.svc.Profiles.Update(r.Context(), profile)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

// ---------------------------------------------------------------------------
// Wishlist
// ---------------------------------------------------------------------------

type addItemRequest struct {
	Name       string `json:"name"`
	PriceRange string `json:"price_range"`
	Priority   string `json:"priority"`
	ImageURL   string `json:"image_url"`
	Link       string `json:"link"`
	Notes      string `json:"notes"`
}

func (s *Server) handleGetWishlist(w http.ResponseWriter, r *http.Request) {
	ownerID := r.PathValue("id")
	viewer, ok := s.requireViewer(w, r)
	if !ok {
		return
	}

	views, err := s.svc.WishlistFor(r.Context(), viewer, ownerID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	ownerID := r.PathValue("id")
	viewer, ok := s.requireViewer(w, r)
	if !ok {
		return
	}
	// Only the list owner adds to their own wishlist.
	if viewer != ownerID {
		s.respondDomainError(w, claim.ErrForbidden)
		return
	}

	var req addItemRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	priority := models.PriorityMedium
	if req.Priority != "" {
		priority = models.Priority(req.Priority)
		if !models.ValidPriority(priority) {
			s.respondError(w, http.StatusBadRequest, "priority must be Low, Medium or High")
			return
		}
	}

	item := &models.WishlistItem{
		OwnerID:    ownerID,
		Name:       strings.TrimSpace(req.Name),
		PriceRange: strings.TrimSpace(req.PriceRange),
		Priority:   priority,
		ImageURL:   req.ImageURL,
		Link:       req.Link,
		Notes:      req.Notes,
	}

	created, err := s.svc.Wishlist.CreateItem(r.Context(), item)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")
	viewer, ok := s.requireViewer(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	item, err := s.svc.Wishlist.GetItem(r.Context(), itemID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	if item.OwnerID != viewer {
		s.respondDomainError(w, claim.ErrForbidden)
		return
	}

	if strings.TrimSpace(req.Name) != "" {
		item.Name = strings.TrimSpace(req.Name)
	}
	if req.Priority != "" {
		priority := models.Priority(req.Priority)
		if !models.ValidPriority(priority) {
			s.respondError(w, http.StatusBadRequest, "priority must be Low, Medium or High")
			return
		}
		item.Priority = priority
	}
	item.PriceRange = strings.TrimSpace(req.PriceRange)
	item.ImageURL = req.ImageURL
	item.Link = req.Link
	item.Notes = req.Notes

	updated, err := s.svc.Wishlist.UpdateItem(r.Context(), item)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")
	viewer, ok := s.requireViewer(w, r)
	if !ok {
		return
	}

	if err := s.svc.Wishlist.DeleteItem(r.Context(), viewer, itemID); err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}

// ---------------------------------------------------------------------------
// Claims
// ---------------------------------------------------------------------------

type claimRequest struct {
	ClaimantID string `json:"claimant_id"`
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")

	var req claimRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}
	if req.ClaimantID == "" {
		s.respondError(w, http.StatusBadRequest, "claimant_id is required")
		return
	}

	if err := s.svc.ClaimItem(r.Context(), req.ClaimantID, itemID); err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": string(models.StatusClaimed)})
}

func (s *Server) handleUnclaim(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")

	var req claimRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}
	if req.ClaimantID == "" {
		s.respondError(w, http.StatusBadRequest, "claimant_id is required")
		return
	}

	if err := s.svc.UnclaimItem(r.Context(), req.ClaimantID, itemID); err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": string(models.StatusAvailable)})
}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

type createSessionRequest struct {
	ActorID  string `json:"actor_id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}
	if req.ActorID == "" {
		s.respondError(w, http.StatusBadRequest, "actor_id is required")
		return
	}

	// First session provisions the profile row.
	if _, err := s.svc.EnsureProfile(r.Context(), req.ActorID, req.Name, req.Username); err != nil {
		s.respondDomainError(w, err)
		return
	}

	session, err := s.svc.IssueSession(r.Context(), req.ActorID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.svc.ResolveSession(r.Context(), r.PathValue("token"))
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.RevokeSession(r.Context(), r.PathValue("token")); err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusNoContent, nil)
}
