package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"refund_status_service/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type handler struct {
	query       app.QueryService
	aggregation app.AggregationService
	logger      *logrus.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) getUserRefunds(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(chi.URLParam(r, "userID"))
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user id is required"})
		return
	}

	summaries, err := h.query.GetLatestRefundStatus(r.Context(), userID)
	if err != nil {
		// The only propagated failure is the filing directory being down.
		h.logger.WithError(err).WithField("user_id", userID).Error("Refund summary request failed.")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "filing directory unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *handler) getFilingStatuses(w http.ResponseWriter, r *http.Request) {
	filingID := strings.TrimSpace(chi.URLParam(r, "filingID"))
	if filingID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "filing id is required"})
		return
	}

	var (
		records any
		err     error
	)
	if r.URL.Query().Get("refresh") == "true" {
		records, err = h.aggregation.RefreshStatusesForFiling(r.Context(), filingID)
	} else {
		records, err = h.aggregation.GetStatusesForFiling(r.Context(), filingID)
	}
	if err != nil {
		h.logger.WithError(err).WithField("filing_id", filingID).Error("Filing status request failed.")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "status store unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
