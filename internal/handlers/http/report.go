package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tabwatch/tabwatch/internal/models"
)

// ReportReader exposes the last composed report.
type ReportReader interface {
	Get(ctx context.Context) (*models.Report, error)
}

// NewReportGetHandler serves the full report of the most recent analysis
// run as JSON. Returns 404 until the first run completes.
func NewReportGetHandler(reader ReportReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := reader.Get(r.Context())
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if report == nil {
			http.Error(w, "No report yet", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(report)
	}
}

// NewFlaggedGetHandler serves only the rows of the last report that have
// at least one flag set.
func NewFlaggedGetHandler(reader ReportReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := reader.Get(r.Context())
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if report == nil {
			http.Error(w, "No report yet", http.StatusNotFound)
			return
		}

		flagged := report.FlaggedRows()
		if flagged == nil {
			flagged = []models.ReportRow{}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(flagged)
	}
}
