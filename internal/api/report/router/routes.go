// Package router mounts the report routes.
package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/oacc1974/Golmarcadmion/internal/api/auth/models"
	reporthdl "github.com/oacc1974/Golmarcadmion/internal/api/report/handler"
	reportsvc "github.com/oacc1974/Golmarcadmion/internal/api/report/service"
	apirouter "github.com/oacc1974/Golmarcadmion/internal/api/router"
)

// Register returns the RegisterFunc of /reports. Reports are open to admins, managers
// and auditors.
func Register(reports *reportsvc.ReportService) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		h := reporthdl.NewReportHandler(reports)
		readers := []fiber.Handler{r.Auth(models.RoleAdmin, models.RoleGerente, models.RoleAuditor)}

		apirouter.RegisterRouteWithMiddleware(v1, "/reports", fiber.MethodGet, "/sales-summary", readers, h.HandleSalesSummary)
		apirouter.RegisterRouteWithMiddleware(v1, "/reports", fiber.MethodGet, "/shift-summary", readers, h.HandleShiftSummary)
		apirouter.RegisterRouteWithMiddleware(v1, "/reports", fiber.MethodGet, "/dashboard", readers, h.HandleDashboard)
		apirouter.RegisterRouteWithMiddleware(v1, "/reports", fiber.MethodGet, "/sales-export", readers, h.HandleSalesExport)

		// older client paths
		apirouter.RegisterRouteWithMiddleware(v1, "/reports", fiber.MethodGet, "/sales", readers, h.HandleSalesSummary)
		apirouter.RegisterRouteWithMiddleware(v1, "/reports", fiber.MethodGet, "/shifts", readers, h.HandleShiftSummary)
		apirouter.RegisterRouteWithMiddleware(v1, "/shifts", fiber.MethodGet, "/reports/summary", readers, h.HandleShiftSummary)
		return nil
	}
}
