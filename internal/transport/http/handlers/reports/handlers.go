package reportshandler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pontaj/internal/domain/reports"
	"pontaj/internal/domain/roster"
	"pontaj/internal/domain/timesheet"
	"pontaj/internal/transport/http/api"
	"pontaj/internal/transport/http/middleware"
	"pontaj/internal/transport/http/shared"
)

type Handler struct {
	Timesheet *timesheet.Service
	Roster    *roster.Store
}

func NewHandler(ts *timesheet.Service, rosterStore *roster.Store) *Handler {
	return &Handler{Timesheet: ts, Roster: rosterStore}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/attendance.pdf", h.handleAttendancePDF)
}

func (h *Handler) handleAttendancePDF(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	workplaceID := r.URL.Query().Get("workplaceId")
	if workplaceID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "workplaceId is required", reqID)
		return
	}
	month := r.URL.Query().Get("month")
	from, to, err := shared.ParseMonth(month)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "month must be in YYYY-MM format", reqID)
		return
	}

	workplace, err := h.Roster.GetWorkplace(r.Context(), workplaceID)
	if errors.Is(err, roster.ErrWorkplaceNotFound) {
		api.Fail(w, http.StatusNotFound, "workplace_not_found", "workplace not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build report", reqID)
		return
	}

	snapshot, err := h.Timesheet.Summary(r.Context(), workplaceID, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build report", reqID)
		return
	}

	// The sheet lists the workplace's own staff plus the month's visitors.
	employees, err := h.Roster.ListByWorkplace(r.Context(), workplaceID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build report", reqID)
		return
	}
	employees = append(employees, snapshot.Visitors...)

	pdf, err := reports.AttendanceSheet(workplace.Name, snapshot, employees)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to render report", reqID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="pontaj-`+month+`.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	_, _ = w.Write(pdf)
}
