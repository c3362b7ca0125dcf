// internal/handler/organization.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/parlohq/licenser/internal/domain"
	"github.com/parlohq/licenser/internal/model"
	"github.com/parlohq/licenser/internal/service"
)

type OrganizationHandler struct {
	poolService         *service.PoolService
	verificationService *service.VerificationService
}

func NewOrganizationHandler(poolService *service.PoolService, verificationService *service.VerificationService) *OrganizationHandler {
	return &OrganizationHandler{
		poolService:         poolService,
		verificationService: verificationService,
	}
}

func orgIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

type PoolResponse struct {
	BaseResponse
	Pool *model.Organization `json:"pool"`
}

func (h *OrganizationHandler) CreatePoolHandler(w http.ResponseWriter, r *http.Request) {
	var input service.CreatePoolInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	pool, err := h.poolService.CreatePool(r.Context(), input)
	if err != nil {
		slog.ErrorContext(r.Context(), "Pool creation error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, PoolResponse{
		BaseResponse: BaseResponse{Ok: true},
		Pool:         pool,
	})
}

func (h *OrganizationHandler) DisablePoolHandler(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid organization ID")
		return
	}

	if err := h.poolService.DisablePool(r.Context(), orgID); err != nil {
		slog.ErrorContext(r.Context(), "Pool disable error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, BaseResponse{Ok: true})
}

type PoolStatusResponse struct {
	BaseResponse
	Pool *service.PoolStatus `json:"pool"`
}

func (h *OrganizationHandler) PoolStatusHandler(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid organization ID")
		return
	}

	status, err := h.poolService.GetStatus(r.Context(), orgID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Pool status error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, PoolStatusResponse{
		BaseResponse: BaseResponse{Ok: true},
		Pool:         status,
	})
}

func (h *OrganizationHandler) CampaignPoolHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "Campaign code is required")
		return
	}

	status, err := h.poolService.GetStatusByCampaign(r.Context(), code)
	if err != nil {
		slog.ErrorContext(r.Context(), "Campaign pool lookup error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, PoolStatusResponse{
		BaseResponse: BaseResponse{Ok: true},
		Pool:         status,
	})
}

type VerificationsResponse struct {
	BaseResponse
	Attempts []*model.VerificationLog `json:"attempts"`
}

func (h *OrganizationHandler) RecentVerificationsHandler(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid organization ID")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	attempts, err := h.verificationService.Recent(r.Context(), orgID, limit)
	if err != nil {
		slog.ErrorContext(r.Context(), "Verification log error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, VerificationsResponse{
		BaseResponse: BaseResponse{Ok: true},
		Attempts:     attempts,
	})
}

type SetSeatsRequest struct {
	TotalSeats int `json:"total_seats"`
}

func (h *OrganizationHandler) SetSeatsHandler(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid organization ID")
		return
	}

	var req SetSeatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	status, err := h.poolService.SetTotalSeats(r.Context(), orgID, req.TotalSeats)
	if err != nil {
		slog.ErrorContext(r.Context(), "Seat resize error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found")
		case errors.Is(err, domain.ErrBelowUsedSeats):
			respondWithError(w, http.StatusConflict, "Total seats cannot be reduced below seats in use ("+strconv.Itoa(req.TotalSeats)+" requested)")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, PoolStatusResponse{
		BaseResponse: BaseResponse{Ok: true},
		Pool:         status,
	})
}

func (h *OrganizationHandler) ReconcileHandler(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid organization ID")
		return
	}

	status, err := h.poolService.Reconcile(r.Context(), orgID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Pool reconcile error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, PoolStatusResponse{
		BaseResponse: BaseResponse{Ok: true},
		Pool:         status,
	})
}

type DashboardResponse struct {
	BaseResponse
	Dashboard *service.DashboardSummary `json:"dashboard"`
}

func (h *OrganizationHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid organization ID")
		return
	}

	summary, err := h.poolService.Dashboard(r.Context(), orgID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, DashboardResponse{
		BaseResponse: BaseResponse{Ok: true},
		Dashboard:    summary,
	})
}

type ManagersResponse struct {
	BaseResponse
	Managers []model.LicenseManager `json:"managers"`
}

func (h *OrganizationHandler) ListManagersHandler(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid organization ID")
		return
	}

	managers, err := h.poolService.ListManagers(r.Context(), orgID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Manager list error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, ManagersResponse{
		BaseResponse: BaseResponse{Ok: true},
		Managers:     managers,
	})
}

type ManagerResponse struct {
	BaseResponse
	Manager *model.LicenseManager `json:"manager"`
}

func (h *OrganizationHandler) AddManagerHandler(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid organization ID")
		return
	}

	var input service.AddManagerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	manager, err := h.poolService.AddManager(r.Context(), orgID, input)
	if err != nil {
		slog.ErrorContext(r.Context(), "Manager add error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found")
		case errors.Is(err, domain.ErrManagerAlreadyExists):
			respondWithError(w, http.StatusConflict, "Manager already exists")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, ManagerResponse{
		BaseResponse: BaseResponse{Ok: true},
		Manager:      manager,
	})
}

func (h *OrganizationHandler) RemoveManagerHandler(w http.ResponseWriter, r *http.Request) {
	orgID, err := orgIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid organization ID")
		return
	}

	userEmail := chi.URLParam(r, "email")
	if userEmail == "" {
		respondWithError(w, http.StatusBadRequest, "Manager email is required")
		return
	}

	if err := h.poolService.RemoveManager(r.Context(), orgID, userEmail); err != nil {
		slog.ErrorContext(r.Context(), "Manager remove error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found")
		case errors.Is(err, domain.ErrManagerNotFound):
			respondWithError(w, http.StatusNotFound, "Manager not found")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, BaseResponse{Ok: true})
}
