package schedulehandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pontaj/internal/domain/schedule"
	"pontaj/internal/transport/http/api"
	"pontaj/internal/transport/http/middleware"
	"pontaj/internal/transport/http/shared"
)

type Handler struct {
	Store *schedule.Store
}

func NewHandler(store *schedule.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/schedule", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Put("/", h.handlePut)
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	workplaceID := r.URL.Query().Get("workplaceId")
	if workplaceID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "workplaceId is required", reqID)
		return
	}
	from, to, err := shared.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "month must be in YYYY-MM format", reqID)
		return
	}

	shifts, err := h.Store.ListByWorkplaceAndRange(r.Context(), workplaceID, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "schedule_list_failed", "failed to list planned shifts", reqID)
		return
	}
	api.Success(w, shifts, reqID)
}

type putPayload struct {
	WorkplaceID string `json:"workplaceId"`
	Month       string `json:"month"`
	Shifts      []struct {
		EmployeeID string `json:"employeeId"`
		Day        string `json:"day"`
		StartTime  string `json:"startTime"`
		EndTime    string `json:"endTime"`
	} `json:"shifts"`
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload putPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if payload.WorkplaceID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "workplaceId is required", reqID)
		return
	}
	from, to, err := shared.ParseMonth(payload.Month)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "month must be in YYYY-MM format", reqID)
		return
	}

	shifts := make([]schedule.Shift, 0, len(payload.Shifts))
	for _, sh := range payload.Shifts {
		day, err := shared.ParseDate(sh.Day)
		if err != nil || day.IsZero() {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "shift day must be a valid date", reqID)
			return
		}
		shifts = append(shifts, schedule.Shift{
			EmployeeID: sh.EmployeeID,
			Day:        day,
			StartTime:  sh.StartTime,
			EndTime:    sh.EndTime,
		})
	}

	if err := h.Store.ReplaceRange(r.Context(), payload.WorkplaceID, from, to, shifts); err != nil {
		api.Fail(w, http.StatusInternalServerError, "schedule_save_failed", "failed to save planned shifts", reqID)
		return
	}
	api.Success(w, map[string]int{"saved": len(shifts)}, reqID)
}
