package rosterhandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pontaj/internal/domain/roster"
	"pontaj/internal/transport/http/api"
	"pontaj/internal/transport/http/middleware"
)

type Handler struct {
	Store *roster.Store
}

func NewHandler(store *roster.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/workplaces", h.handleListWorkplaces)
	r.Get("/employees", h.handleListEmployees)
	r.Post("/employees/by-ids", h.handleEmployeesByIDs)
}

func (h *Handler) handleListWorkplaces(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	workplaces, err := h.Store.ListWorkplaces(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "workplaces_failed", "failed to list workplaces", reqID)
		return
	}
	api.Success(w, workplaces, reqID)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	workplaceID := r.URL.Query().Get("workplaceId")
	if workplaceID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "workplaceId is required", reqID)
		return
	}
	employees, err := h.Store.ListByWorkplace(r.Context(), workplaceID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employees_failed", "failed to list employees", reqID)
		return
	}
	api.Success(w, employees, reqID)
}

func (h *Handler) handleEmployeesByIDs(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	employees, err := h.Store.ListByIDs(r.Context(), payload.IDs)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employees_failed", "failed to list employees", reqID)
		return
	}
	api.Success(w, employees, reqID)
}
