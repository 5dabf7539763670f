package worksheethandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"worksync/internal/domain/worksheet"
	"worksync/internal/transport/http/api"
	"worksync/internal/transport/http/middleware"
	"worksync/internal/transport/http/shared"
)

type Handler struct {
	Service *worksheet.Service
}

func NewHandler(service *worksheet.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/worksheets", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Patch("/{entryID}", h.handleUpdate)
		r.Delete("/{entryID}", h.handleDelete)
	})
}

type entryRequest struct {
	EmployeeEmail string  `json:"employeeEmail"`
	WorkDate      string  `json:"workDate"`
	Hours         float64 `json:"hours"`
	Task          string  `json:"task"`
	Notes         string  `json:"notes"`
}

type entryPatchRequest struct {
	WorkDate *string  `json:"workDate"`
	Hours    *float64 `json:"hours"`
	Task     *string  `json:"task"`
	Notes    *string  `json:"notes"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	email := r.URL.Query().Get("email")
	page := shared.ParsePagination(r, 100, 500)
	entries, err := h.Service.ListEntries(r.Context(), email, page.Limit, page.Offset)
	if err != nil {
		failWorksheet(w, err, requestID)
		return
	}
	if entries == nil {
		entries = []worksheet.Entry{}
	}
	api.Success(w, entries, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload entryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Email("employeeEmail", payload.EmployeeEmail)
	v.Required("workDate", payload.WorkDate, "work date is required")
	workDate, _ := v.Date("workDate", payload.WorkDate)
	if payload.Hours < 0 {
		v.Add("hours", "must not be negative")
	}
	if v.Reject(w, requestID) {
		return
	}

	entry, err := h.Service.CreateEntry(r.Context(), worksheet.Entry{
		EmployeeEmail: payload.EmployeeEmail,
		WorkDate:      workDate,
		Hours:         payload.Hours,
		Task:          payload.Task,
		Notes:         payload.Notes,
	})
	if err != nil {
		failWorksheet(w, err, requestID)
		return
	}
	api.Created(w, entry, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	entryID := chi.URLParam(r, "entryID")

	var payload entryPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	var patch worksheet.EntryPatch
	if payload.WorkDate != nil {
		parsed, err := shared.ParseDate(*payload.WorkDate)
		if err != nil || parsed.IsZero() {
			shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "workDate", Reason: "must be a valid date in YYYY-MM-DD format"}})
			return
		}
		patch.WorkDate = &parsed
	}
	patch.Hours = payload.Hours
	patch.Task = payload.Task
	patch.Notes = payload.Notes

	entry, err := h.Service.UpdateEntry(r.Context(), entryID, patch)
	if err != nil {
		failWorksheet(w, err, requestID)
		return
	}
	api.Success(w, entry, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	entryID := chi.URLParam(r, "entryID")

	if err := h.Service.DeleteEntry(r.Context(), entryID); err != nil {
		failWorksheet(w, err, requestID)
		return
	}
	api.Success(w, map[string]string{"id": entryID, "deletedAt": time.Now().UTC().Format(time.RFC3339)}, requestID)
}

func failWorksheet(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, worksheet.ErrEmailRequired),
		errors.Is(err, worksheet.ErrDateRequired),
		errors.Is(err, worksheet.ErrHoursInvalid):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
	case errors.Is(err, worksheet.ErrEntryNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "worksheet entry not found", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "operation failed", requestID)
	}
}
