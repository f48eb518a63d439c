package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/vercatryx/Triangle-order-managment-sub005/internal/handler"
	"github.com/vercatryx/Triangle-order-managment-sub005/internal/middleware"
)

func NewRouter(consistencyHandler *handler.ConsistencyHandler, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// Middleware chain
	chain := middleware.Logging(logger, mux)
	chain = middleware.Recovery(logger, chain)

	// Consistency routes
	mux.HandleFunc("GET /api/v1/consistency/mismatches", consistencyHandler.ScanMismatches)
	mux.HandleFunc("GET /api/v1/consistency/discrepancies", consistencyHandler.ScanDiscrepancies)
	mux.HandleFunc("POST /api/v1/consistency/reassign", consistencyHandler.Reassign)
	mux.HandleFunc("POST /api/v1/consistency/reassign/auto-fix", consistencyHandler.AutoFixSingleDay)
	mux.HandleFunc("GET /api/v1/consistency/meal-types/audit", consistencyHandler.AuditMealTypes)
	mux.HandleFunc("POST /api/v1/consistency/meal-types/clean", consistencyHandler.CleanMealTypes)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return chain
}
