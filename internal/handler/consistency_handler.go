package handler

import (
	"encoding/json"
	"net/http"

	"github.com/vercatryx/Triangle-order-managment-sub005/internal/models"
	"github.com/vercatryx/Triangle-order-managment-sub005/internal/service"
)

// ConsistencyHandler exposes the reconciliation operations: the two scans,
// the reassignment write path, and the meal-type auditor.
type ConsistencyHandler struct {
	discrepancies service.DiscrepancyService
	mismatches    service.MismatchService
	reassigner    service.ReassignService
	mealTypes     service.MealTypeService
}

func NewConsistencyHandler(
	discrepancies service.DiscrepancyService,
	mismatches service.MismatchService,
	reassigner service.ReassignService,
	mealTypes service.MealTypeService,
) *ConsistencyHandler {
	return &ConsistencyHandler{
		discrepancies: discrepancies,
		mismatches:    mismatches,
		reassigner:    reassigner,
		mealTypes:     mealTypes,
	}
}

func (h *ConsistencyHandler) ScanMismatches(w http.ResponseWriter, r *http.Request) {
	mismatches, err := h.mismatches.ScanMismatches(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	if mismatches == nil {
		mismatches = []models.VendorDayMismatch{}
	}
	respondWithJSON(w, http.StatusOK, mismatches)
}

func (h *ConsistencyHandler) ScanDiscrepancies(w http.ResponseWriter, r *http.Request) {
	discrepancies, err := h.discrepancies.ScanDiscrepancies(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	if discrepancies == nil {
		discrepancies = []models.Discrepancy{}
	}
	respondWithJSON(w, http.StatusOK, discrepancies)
}

func (h *ConsistencyHandler) Reassign(w http.ResponseWriter, r *http.Request) {
	var req models.ReassignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result, err := h.reassigner.Reassign(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *ConsistencyHandler) AutoFixSingleDay(w http.ResponseWriter, r *http.Request) {
	result, err := h.reassigner.AutoFixSingleDay(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *ConsistencyHandler) AuditMealTypes(w http.ResponseWriter, r *http.Request) {
	report, err := h.mealTypes.Report(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

func (h *ConsistencyHandler) CleanMealTypes(w http.ResponseWriter, r *http.Request) {
	var req models.MealTypeCleanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result, err := h.mealTypes.Clean(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
