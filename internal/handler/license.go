// internal/handler/license.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/parlohq/licenser/internal/domain"
	"github.com/parlohq/licenser/internal/model"
	"github.com/parlohq/licenser/internal/service"
)

type LicenseHandler struct {
	allocationService *service.AllocationService
	bulkService       *service.BulkValidationService
}

func NewLicenseHandler(allocationService *service.AllocationService, bulkService *service.BulkValidationService) *LicenseHandler {
	return &LicenseHandler{
		allocationService: allocationService,
		bulkService:       bulkService,
	}
}

type AllocateResponse struct {
	BaseResponse
	Allocation *model.Allocation `json:"allocation"`
}

func (h *LicenseHandler) AllocateHandler(w http.ResponseWriter, r *http.Request) {
	var input service.AllocateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	meta := service.RequestMeta{IPAddress: clientIP(r), UserAgent: r.UserAgent()}

	allocation, err := h.allocationService.Allocate(r.Context(), input, meta)
	if err != nil {
		slog.ErrorContext(r.Context(), "License allocation error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrMissingIdentity),
			errors.Is(err, domain.ErrInvalidPhoneFormat), errors.Is(err, domain.ErrInvalidEmailFormat):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrLookupFailed):
			respondWithError(w, http.StatusUnprocessableEntity, "Identity could not be verified")
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found")
		case errors.Is(err, domain.ErrDuplicateAllocation):
			respondWithError(w, http.StatusConflict, "Identity already holds an active allocation")
		case errors.Is(err, domain.ErrPoolExhausted):
			respondWithError(w, http.StatusConflict, "No available seats in license pool")
		case errors.Is(err, domain.ErrPoolInactive), errors.Is(err, domain.ErrPoolSuspended):
			respondWithError(w, http.StatusForbidden, "License pool is not active")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, AllocateResponse{
		BaseResponse: BaseResponse{Ok: true},
		Allocation:   allocation,
	})
}

func (h *LicenseHandler) DeallocateHandler(w http.ResponseWriter, r *http.Request) {
	allocationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid allocation ID")
		return
	}

	if err := h.allocationService.Deallocate(r.Context(), allocationID); err != nil {
		slog.ErrorContext(r.Context(), "License deallocation error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrAllocationNotFound):
			respondWithError(w, http.StatusNotFound, "Allocation not found")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, BaseResponse{Ok: true})
}

type ValidateBatchRequest struct {
	OrganizationID uuid.UUID        `json:"organization_id"`
	Rows           []service.RawRow `json:"rows"`
}

type ValidateBatchResponse struct {
	BaseResponse
	Report *service.ValidationReport `json:"report"`
}

func (h *LicenseHandler) ValidateBatchHandler(w http.ResponseWriter, r *http.Request) {
	var req ValidateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if req.OrganizationID == uuid.Nil || len(req.Rows) == 0 {
		respondWithError(w, http.StatusBadRequest, "organization_id and rows are required")
		return
	}

	meta := service.RequestMeta{IPAddress: clientIP(r), UserAgent: r.UserAgent()}

	report, err := h.bulkService.Validate(r.Context(), req.OrganizationID, req.Rows, meta)
	if err != nil {
		slog.ErrorContext(r.Context(), "Batch validation error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, ValidateBatchResponse{
		BaseResponse: BaseResponse{Ok: true},
		Report:       report,
	})
}

type CommitBatchRequest struct {
	OrganizationID uuid.UUID          `json:"organization_id"`
	Rows           []service.BatchRow `json:"rows"`
}

type CommitBatchResponse struct {
	BaseResponse
	Result *service.BatchResult `json:"result"`
}

func (h *LicenseHandler) CommitBatchHandler(w http.ResponseWriter, r *http.Request) {
	var req CommitBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if req.OrganizationID == uuid.Nil || len(req.Rows) == 0 {
		respondWithError(w, http.StatusBadRequest, "organization_id and rows are required")
		return
	}

	result, err := h.allocationService.AllocateBatch(r.Context(), req.OrganizationID, req.Rows)
	if err != nil {
		slog.ErrorContext(r.Context(), "Batch commit error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrOrganizationNotFound):
			respondWithError(w, http.StatusNotFound, "Organization not found")
		case errors.Is(err, domain.ErrInsufficientCapacity):
			respondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, domain.ErrPoolInactive):
			respondWithError(w, http.StatusForbidden, "License pool is not active")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, CommitBatchResponse{
		BaseResponse: BaseResponse{Ok: true},
		Result:       result,
	})
}
