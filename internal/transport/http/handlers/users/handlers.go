package usershandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"worksync/internal/auth"
	"worksync/internal/domain/audit"
	"worksync/internal/domain/directory"
	"worksync/internal/transport/http/api"
	"worksync/internal/transport/http/middleware"
)

type Handler struct {
	Service *directory.Service
	Audit   *audit.Service
}

func NewHandler(service *directory.Service, auditService *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditService}
}

func (h *Handler) recordAudit(r *http.Request, action, userID string) {
	if h.Audit == nil {
		return
	}
	actor, _ := middleware.GetUser(r.Context())
	requestID := middleware.GetRequestID(r.Context())
	if err := h.Audit.Record(r.Context(), actor.UserID, action, "user", userID, requestID, nil); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		// Status probe is open so a fired user sees why login fails.
		r.Get("/{userID}/status", h.handleStatus)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/{userID}", h.handleGet)
			r.Get("/{userID}/salary-history", h.handleSalaryHistory)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleHR, auth.RoleAdmin))
			r.Get("/", h.handleList)
			r.Post("/", h.handleCreate)
			r.Post("/{userID}/verify", h.handleVerify)
			r.Post("/{userID}/salary", h.handleSalary)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleAdmin))
			r.Post("/{userID}/promote", h.handlePromote)
			r.Post("/{userID}/fire", h.handleFire)
		})
	})
}

type verifyRequest struct {
	Verified bool `json:"verified"`
}

type salaryRequest struct {
	Salary float64 `json:"salary"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	users, err := h.Service.ListEmployees(r.Context())
	if err != nil {
		failDirectory(w, err, requestID)
		return
	}
	if users == nil {
		users = []directory.User{}
	}
	api.Success(w, users, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload directory.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	user, err := h.Service.Register(r.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, directory.ErrEmailRequired),
			errors.Is(err, directory.ErrNameRequired),
			errors.Is(err, directory.ErrWeakCredential),
			errors.Is(err, directory.ErrInvalidRole):
			api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
		default:
			failDirectory(w, err, requestID)
		}
		return
	}
	api.Created(w, user, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	user, err := h.Service.GetByUID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		failDirectory(w, err, requestID)
		return
	}
	api.Success(w, user, requestID)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	status, err := h.Service.CheckStatus(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		failDirectory(w, err, requestID)
		return
	}
	api.Success(w, map[string]string{"status": status}, requestID)
}

func (h *Handler) handlePromote(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	user, err := h.Service.PromoteToHR(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		failDirectory(w, err, requestID)
		return
	}
	h.recordAudit(r, "user.promoted", user.ID)
	api.Success(w, user, requestID)
}

func (h *Handler) handleFire(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	user, err := h.Service.GetByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		failDirectory(w, err, requestID)
		return
	}
	if err := h.Service.Fire(r.Context(), user.UID); err != nil {
		failDirectory(w, err, requestID)
		return
	}
	h.recordAudit(r, "user.fired", user.ID)
	api.Success(w, map[string]string{"id": user.ID, "status": directory.StatusFired}, requestID)
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if err := h.Service.ToggleVerification(r.Context(), chi.URLParam(r, "userID"), payload.Verified); err != nil {
		failDirectory(w, err, requestID)
		return
	}
	api.Success(w, map[string]bool{"verified": payload.Verified}, requestID)
}

func (h *Handler) handleSalary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload salaryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if err := h.Service.AdjustSalary(r.Context(), chi.URLParam(r, "userID"), payload.Salary); err != nil {
		failDirectory(w, err, requestID)
		return
	}
	api.Success(w, map[string]float64{"salary": payload.Salary}, requestID)
}

func (h *Handler) handleSalaryHistory(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	payouts, err := h.Service.SalaryHistory(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		failDirectory(w, err, requestID)
		return
	}
	if payouts == nil {
		payouts = []directory.SalaryPayout{}
	}
	api.Success(w, payouts, requestID)
}

func failDirectory(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, directory.ErrUserNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", requestID)
	case errors.Is(err, directory.ErrAlreadyHR):
		api.Fail(w, http.StatusConflict, "already_hr", "user already holds the hr role", requestID)
	case errors.Is(err, directory.ErrSalaryInvalid):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "operation failed", requestID)
	}
}
