package leavehandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pontaj/internal/domain/auth"
	"pontaj/internal/domain/leave"
	"pontaj/internal/transport/http/api"
	"pontaj/internal/transport/http/middleware"
	"pontaj/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
}

func NewHandler(service *leave.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	// Anyone logged in can request a leave; deciding or removing one is a
	// manager action.
	managers := middleware.RequireRole(auth.RoleManager, auth.RoleAdmin)
	r.Route("/leaves", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.With(managers).Post("/{leaveID}/approve", h.handleApprove)
		r.With(managers).Post("/{leaveID}/reject", h.handleReject)
		r.With(managers).Delete("/{leaveID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	v := shared.NewValidator()
	workplaceID := r.URL.Query().Get("workplaceId")
	v.Required("workplaceId", workplaceID, "is required")
	from, _ := v.Date("from", r.URL.Query().Get("from"))
	to, _ := v.Date("to", r.URL.Query().Get("to"))
	v.DateOrder("from", from, "to", to)
	if v.Reject(w, reqID) {
		return
	}

	leaves, err := h.Service.ListByWorkplaceAndRange(r.Context(), workplaceID, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_list_failed", "failed to list leaves", reqID)
		return
	}
	api.Success(w, leaves, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload struct {
		EmployeeID string `json:"employeeId"`
		Type       string `json:"type"`
		StartDate  string `json:"startDate"`
		EndDate    string `json:"endDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "is required")
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if !leave.Type(payload.Type).Valid() {
		v.Add("type", "must be one of odihna, medical, fara_plata, eveniment")
	}
	if v.Reject(w, reqID) {
		return
	}

	created, err := h.Service.Create(r.Context(), payload.EmployeeID, leave.Type(payload.Type), start, end)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_create_failed", "failed to create leave request", reqID)
		return
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Approve)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Reject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) (*leave.Leave, error)) {
	reqID := middleware.GetRequestID(r.Context())
	decided, err := fn(r.Context(), chi.URLParam(r, "leaveID"))
	switch {
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "leave_not_found", "leave request not found", reqID)
	case errors.Is(err, leave.ErrAlreadyDecided):
		api.Fail(w, http.StatusConflict, "leave_already_decided", "leave request already decided", reqID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "leave_decide_failed", "failed to update leave request", reqID)
	default:
		api.Success(w, decided, reqID)
	}
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	err := h.Service.Delete(r.Context(), chi.URLParam(r, "leaveID"))
	if errors.Is(err, leave.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "leave_not_found", "leave request not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_delete_failed", "failed to delete leave request", reqID)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, reqID)
}
