package handlers

import (
	"net/http"
	"strings"

	"github.com/elevenxsolutions/elevenx-api/internal/infra/http/middleware"
	"github.com/elevenxsolutions/elevenx-api/internal/usecase"
)

// DispatchHandler is the endpoint the external scheduler hits to run one
// email-dispatch pass.
type DispatchHandler struct {
	DispatchUC *usecase.DispatchEmailsUseCase
	CronSecret string
}

func NewDispatchHandler(uc *usecase.DispatchEmailsUseCase, cronSecret string) *DispatchHandler {
	return &DispatchHandler{
		DispatchUC: uc,
		CronSecret: cronSecret,
	}
}

type dispatchResponse struct {
	Success   bool                  `json:"success"`
	Processed int                   `json:"processed"`
	Details   []usecase.LeadOutcome `json:"details"`
}

func (h *DispatchHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.CronSecret != "" {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token != h.CronSecret {
			writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid cron secret")
			return
		}
	}

	result, err := h.DispatchUC.Execute(r.Context())
	if err != nil {
		// The claim query failed before any lead was touched.
		writeErrorResponse(w, http.StatusInternalServerError, usecase.CodeStorage, err.Error())
		return
	}

	if len(result.Details) == 0 {
		writeJSON(w, http.StatusOK, map[string]string{"message": "no pending leads"})
		return
	}

	middleware.RecordLeadsProcessed(result.Processed)
	writeJSON(w, http.StatusOK, dispatchResponse{
		Success:   true,
		Processed: result.Processed,
		Details:   result.Details,
	})
}
