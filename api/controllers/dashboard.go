package controllers

import (
	"net/http"

	"github.com/veloxmotors/dealership-backend/api/responses"
	dashboardsvc "github.com/veloxmotors/dealership-backend/internal/dashboard"
	"github.com/veloxmotors/dealership-backend/pkg/logger"
)

// DashboardSummary returns the admin landing page counters.
func DashboardSummary(svc dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
