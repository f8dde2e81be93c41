package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"service_review/internal/app"
	"service_review/internal/auth"
	"service_review/internal/domain"
)

const previewSize = 6

type Handlers struct {
	Catalog *app.CatalogService
	Reviews *app.ReviewService
	Tokens  *auth.TokenService
	AppEnv  string
}

func (s *Server) MountHandlers(h *Handlers) {
	guard := RequireAuth(h.Tokens)
	owner := RequireOwner(h.Tokens)

	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/services", h.listServices)
	s.mux.Get("/services/{id}", h.getService)
	s.mux.Post("/services", h.createService)
	s.mux.With(guard).Put("/services/{id}", h.updateService)
	s.mux.With(guard).Delete("/services/{id}", h.deleteService)

	s.mux.Get("/userReviewData", h.previewServices)
	s.mux.Get("/userReview", h.listReviews)
	s.mux.Get("/userReview/{id}", h.reviewsForService)
	s.mux.With(owner).Get("/userReviews/{email}", h.reviewsByOwner)
	s.mux.With(guard).Post("/userReview", h.createReview)
	s.mux.With(guard).Put("/userReview/{id}", h.updateReview)
	s.mux.With(guard).Delete("/userReview/{id}", h.deleteReview)

	s.mux.Post("/jwt", h.issueToken)
	s.mux.Get("/logout", h.logout)
}

// ---- response helpers ----

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeStoreErr(w http.ResponseWriter, op string, err error) {
	log.Error().Err(err).Str("op", op).Msg("store failure")
	writeMessage(w, http.StatusInternalServerError, "internal server error")
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func optParam(r *http.Request, name string) *string {
	if v := r.URL.Query().Get(name); v != "" {
		return &v
	}
	return nil
}

// ---- services ----

func (h *Handlers) listServices(w http.ResponseWriter, r *http.Request) {
	q := domain.ServicesQuery{
		Email:    optParam(r, "email"),
		Category: optParam(r, "search"),
		Title:    optParam(r, "titleSearch"),
	}
	out, err := h.Catalog.List(r.Context(), q)
	if err != nil {
		writeStoreErr(w, "list services", err)
		return
	}
	if out == nil {
		out = []domain.Service{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) previewServices(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.Preview(r.Context(), previewSize)
	if err != nil {
		writeStoreErr(w, "preview services", err)
		return
	}
	if out == nil {
		out = []domain.Service{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "id must be a number")
		return
	}
	sv, err := h.Catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "service not found")
			return
		}
		writeStoreErr(w, "get service", err)
		return
	}
	writeJSON(w, http.StatusOK, sv)
}

func (h *Handlers) createService(w http.ResponseWriter, r *http.Request) {
	var sv domain.Service
	if err := json.NewDecoder(r.Body).Decode(&sv); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	stored, err := h.Catalog.Create(r.Context(), sv)
	if err != nil {
		writeStoreErr(w, "create service", err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (h *Handlers) updateService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "id must be a number")
		return
	}
	var p domain.ServicePatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.Catalog.Update(r.Context(), id, p); err != nil {
		writeStoreErr(w, "update service", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handlers) deleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "id must be a number")
		return
	}
	if err := h.Catalog.Delete(r.Context(), id); err != nil {
		writeStoreErr(w, "delete service", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ---- reviews ----

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	out, err := h.Reviews.List(r.Context(), domain.ReviewsQuery{})
	if err != nil {
		writeStoreErr(w, "list reviews", err)
		return
	}
	if out == nil {
		out = []domain.Review{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) reviewsForService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "id must be a number")
		return
	}
	out, err := h.Reviews.List(r.Context(), domain.ReviewsQuery{ServiceID: &id})
	if err != nil {
		writeStoreErr(w, "list reviews by service", err)
		return
	}
	if out == nil {
		out = []domain.Review{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) reviewsByOwner(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	out, err := h.Reviews.List(r.Context(), domain.ReviewsQuery{Email: &email})
	if err != nil {
		writeStoreErr(w, "list reviews by owner", err)
		return
	}
	if out == nil {
		out = []domain.Review{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	var rv domain.Review
	if err := json.NewDecoder(r.Body).Decode(&rv); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if rv.ReviewID == 0 {
		writeMessage(w, http.StatusBadRequest, "reviewId is required")
		return
	}
	stored, err := h.Reviews.Create(r.Context(), rv)
	if err != nil {
		// The review exists even though the counter did not move; the body
		// must say so rather than hide behind a generic failure.
		if errors.Is(err, domain.ErrCounterNotApplied) {
			writeMessage(w, http.StatusInternalServerError,
				"review stored but service counter not updated")
			return
		}
		writeStoreErr(w, "create review", err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (h *Handlers) updateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "id must be a number")
		return
	}
	var p domain.ReviewPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.Reviews.Update(r.Context(), id, p); err != nil {
		writeStoreErr(w, "update review", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handlers) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "id must be a number")
		return
	}
	if err := h.Reviews.Delete(r.Context(), id); err != nil {
		writeStoreErr(w, "delete review", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ---- token issuance ----

func (h *Handlers) issueToken(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		writeMessage(w, http.StatusBadRequest, "email is required")
		return
	}
	token, err := h.Tokens.Issue(body.Email)
	if err != nil {
		log.Error().Err(err).Msg("token issue failed")
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}
	setAuthCookie(w, token, h.AppEnv)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w, h.AppEnv)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
