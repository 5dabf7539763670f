package paymentshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"worksync/internal/auth"
	"worksync/internal/domain/audit"
	"worksync/internal/domain/settlement"
	"worksync/internal/domain/worksheet"
	"worksync/internal/transport/http/api"
	"worksync/internal/transport/http/middleware"
	"worksync/internal/transport/http/shared"
)

type Handler struct {
	Service *settlement.Service
	Audit   *audit.Service
}

func NewHandler(service *settlement.Service, auditService *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditService}
}

func (h *Handler) recordAudit(r *http.Request, actorID, action, paymentID string, details any) {
	if h.Audit == nil {
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	if err := h.Audit.Record(r.Context(), actorID, action, "payment", paymentID, requestID, details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payments", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/owed", h.handleOwed)
		r.Get("/unpaid", h.handleUnpaid)
		r.Get("/pending", h.handlePending)
		r.Get("/", h.handleList)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleHR, auth.RoleAdmin))
			r.Post("/", h.handleProcess)
			r.Patch("/{paymentID}/status", h.handleStatus)
		})

		r.Get("/{paymentID}/receipt", h.handleReceipt)
	})
}

type processRequest struct {
	EmployeeEmail string   `json:"employeeEmail"`
	Amount        float64  `json:"amount"`
	EntryIDs      []string `json:"entryIds"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleOwed(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	snapshot, err := h.Service.ComputeOwed(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		failSettlement(w, err, requestID)
		return
	}
	api.Success(w, snapshot, requestID)
}

func (h *Handler) handleUnpaid(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	entries, err := h.Service.ListUnpaidEntries(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		failSettlement(w, err, requestID)
		return
	}
	if entries == nil {
		entries = []worksheet.Entry{}
	}
	api.Success(w, entries, requestID)
}

func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	pending, err := h.Service.HasPendingPayment(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		failSettlement(w, err, requestID)
		return
	}
	api.Success(w, map[string]bool{"hasPendingPayment": pending}, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	records, err := h.Service.ListPayments(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		failSettlement(w, err, requestID)
		return
	}
	api.Success(w, records, requestID)
}

// handleProcess settles worksheet entries into a pending payment. The
// approver is always the authenticated caller, never payload data.
func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload processRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Email("employeeEmail", payload.EmployeeEmail)
	v.Positive("amount", payload.Amount, "must be greater than zero")
	if len(payload.EntryIDs) == 0 {
		v.Add("entryIds", "at least one worksheet entry is required")
	}
	if v.Reject(w, requestID) {
		return
	}

	record, err := h.Service.ProcessPayment(r.Context(), settlement.ProcessPaymentInput{
		EmployeeEmail: payload.EmployeeEmail,
		Amount:        payload.Amount,
		ApproverID:    user.UserID,
		EntryIDs:      payload.EntryIDs,
	})
	if err != nil {
		failSettlement(w, err, requestID)
		return
	}
	h.recordAudit(r, user.UserID, "payment.processed", record.ID, map[string]any{
		"employeeEmail": record.EmployeeEmail,
		"amount":        record.Amount,
		"entryCount":    len(record.Entries),
	})
	api.Created(w, record, requestID)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	paymentID := chi.URLParam(r, "paymentID")

	var payload statusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	record, err := h.Service.SetStatus(r.Context(), paymentID, payload.Status)
	if err != nil {
		failSettlement(w, err, requestID)
		return
	}
	if user, ok := middleware.GetUser(r.Context()); ok {
		h.recordAudit(r, user.UserID, "payment.status_changed", record.ID, map[string]string{"status": record.Status})
	}
	api.Success(w, record, requestID)
}

func (h *Handler) handleReceipt(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	paymentID := chi.URLParam(r, "paymentID")

	path, err := h.Service.ReceiptPDF(r.Context(), paymentID)
	if err != nil {
		failSettlement(w, err, requestID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, path)
}

func failSettlement(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, settlement.ErrEmployeeRequired),
		errors.Is(err, settlement.ErrApproverRequired),
		errors.Is(err, settlement.ErrAmountInvalid),
		errors.Is(err, settlement.ErrNoEntries),
		errors.Is(err, settlement.ErrInvalidStatus):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
	case errors.Is(err, settlement.ErrPaymentNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "payment not found", requestID)
	case errors.Is(err, settlement.ErrEntryConflict):
		api.Fail(w, http.StatusConflict, "entry_conflict", "one or more entries are no longer available for settlement", requestID)
	case errors.Is(err, settlement.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", "paid payments cannot be reverted", requestID)
	case errors.Is(err, settlement.ErrPaymentNotPaid):
		api.Fail(w, http.StatusConflict, "payment_not_paid", "receipt is only available for paid payments", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "operation failed", requestID)
	}
}
