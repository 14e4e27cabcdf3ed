package timesheethandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pontaj/internal/domain/timesheet"
	"pontaj/internal/transport/http/api"
	"pontaj/internal/transport/http/middleware"
	"pontaj/internal/transport/http/shared"
)

type Handler struct {
	Service *timesheet.Service
}

func NewHandler(service *timesheet.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/timesheet", func(r chi.Router) {
		r.Post("/", h.handleSave)
		r.Post("/batch", h.handleSaveBatch)
		r.Get("/", h.handleList)
		r.Get("/summary", h.handleSummary)
		r.Delete("/", h.handleDelete)
	})
}

type savePayload struct {
	EmployeeID  string `json:"employeeId"`
	WorkplaceID string `json:"workplaceId"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Status      string `json:"status"`
	LeaveType   string `json:"leaveType"`
	Force       bool   `json:"force"`
}

func (p savePayload) toRequest(v *shared.Validator) timesheet.SaveRequest {
	v.Required("employeeId", p.EmployeeID, "is required")
	v.Required("workplaceId", p.WorkplaceID, "is required")
	date, _ := v.Date("date", p.Date)
	status := timesheet.Status(p.Status)
	if !status.Valid() {
		v.Add("status", "must be one of necompletat, prezent, garda, concediu, liber, medical")
	}
	return timesheet.SaveRequest{
		EmployeeID:  p.EmployeeID,
		WorkplaceID: p.WorkplaceID,
		Date:        date,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		Status:      status,
		LeaveType:   p.LeaveType,
		Force:       p.Force,
	}
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload savePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	req := payload.toRequest(v)
	if v.Reject(w, reqID) {
		return
	}

	outcome, err := h.Service.Save(r.Context(), req)
	if err != nil {
		failSaveError(w, err, reqID)
		return
	}
	if outcome.State == timesheet.SaveConflicted {
		writeConflict(w, outcome.Conflict, reqID)
		return
	}
	api.Success(w, outcome.Entry, reqID)
}

func (h *Handler) handleSaveBatch(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payloads []savePayload
	if err := json.NewDecoder(r.Body).Decode(&payloads); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	// Structural problems surface as per-item errors inside the batch.
	reqs := make([]timesheet.SaveRequest, 0, len(payloads))
	for _, p := range payloads {
		reqs = append(reqs, p.toRequest(shared.NewValidator()))
	}

	results, err := h.Service.SaveBatch(r.Context(), reqs)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "timesheet_batch_failed", "failed to save timesheet batch", reqID)
		return
	}
	api.Success(w, results, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	workplaceID, from, to, ok := rangeParams(w, r, reqID)
	if !ok {
		return
	}

	entries, err := h.Service.ListRange(r.Context(), workplaceID, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "timesheet_list_failed", "failed to list entries", reqID)
		return
	}
	api.Success(w, entries, reqID)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	workplaceID, from, to, ok := rangeParams(w, r, reqID)
	if !ok {
		return
	}

	snapshot, err := h.Service.Summary(r.Context(), workplaceID, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "timesheet_summary_failed", "failed to build summary", reqID)
		return
	}
	api.Success(w, snapshot, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	v := shared.NewValidator()
	employeeID := r.URL.Query().Get("employeeId")
	v.Required("employeeId", employeeID, "is required")
	date, _ := v.Date("date", r.URL.Query().Get("date"))
	if v.Reject(w, reqID) {
		return
	}

	if err := h.Service.Delete(r.Context(), employeeID, date); err != nil {
		api.Fail(w, http.StatusInternalServerError, "timesheet_delete_failed", "failed to delete entry", reqID)
		return
	}
	// 200 whether or not an entry existed.
	api.Success(w, map[string]bool{"deleted": true}, reqID)
}

func rangeParams(w http.ResponseWriter, r *http.Request, reqID string) (string, time.Time, time.Time, bool) {
	v := shared.NewValidator()
	workplaceID := r.URL.Query().Get("workplaceId")
	v.Required("workplaceId", workplaceID, "is required")
	from, _ := v.Date("from", r.URL.Query().Get("from"))
	to, _ := v.Date("to", r.URL.Query().Get("to"))
	v.DateOrder("from", from, "to", to)
	if v.Reject(w, reqID) {
		return "", time.Time{}, time.Time{}, false
	}
	return workplaceID, from, to, true
}

func writeConflict(w http.ResponseWriter, conflict *timesheet.Conflict, reqID string) {
	messages := map[timesheet.ConflictCode]string{
		timesheet.ConflictLeaveApproved:        "employee has an approved leave covering this date",
		timesheet.ConflictOverlappingHours:     "hours overlap an entry at another workplace",
		timesheet.ConflictVisitorAlreadyPonted: "employee is already recorded as visitor elsewhere; remove that entry first",
		timesheet.ConflictPontajExists:         "an entry already exists for this employee, date and workplace",
	}
	api.FailWithDetails(w, http.StatusConflict, string(conflict.Code), messages[conflict.Code], conflict, reqID)
}

func failSaveError(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, timesheet.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found or inactive", reqID)
	case errors.Is(err, timesheet.ErrInvalidStatus), errors.Is(err, timesheet.ErrInvalidDate):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "timesheet_save_failed", "failed to save entry", reqID)
	}
}
