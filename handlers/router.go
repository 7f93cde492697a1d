package handlers

import (
	"worktime/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter wires all routes and middleware.
func NewRouter(logger *zap.Logger) *chi.Mux {
	employeeHandler := NewEmployeeHandler(logger)
	workdayHandler := NewWorkdayHandler(logger)
	payoutHandler := NewPayoutHandler(logger)
	exportHandler := NewExportHandler(logger)
	departmentHandler := NewDepartmentHandler(logger)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chimiddleware.Recoverer)

	router.Route("/employees", func(r chi.Router) {
		r.Get("/", employeeHandler.List)
		r.Post("/", employeeHandler.Create)

		r.Route("/{employeeID}", func(r chi.Router) {
			r.Use(middleware.EmployeeCtx)
			r.Get("/", employeeHandler.Get)
			r.Put("/settings", employeeHandler.UpdateSettings)
			r.Get("/plan", employeeHandler.GetPlan)
			r.Put("/plan", employeeHandler.UpdatePlan)

			r.Get("/workdays", workdayHandler.List)
			r.Post("/workdays", workdayHandler.Create)
			r.Post("/recalculate", workdayHandler.Recalculate)
			r.Get("/balance", workdayHandler.Balance)

			r.Get("/payouts", payoutHandler.List)
			r.Post("/payouts", payoutHandler.Create)
		})
	})

	router.Route("/workdays/{workdayID}", func(r chi.Router) {
		r.Put("/", workdayHandler.Update)
		r.Delete("/", workdayHandler.Delete)
	})

	router.Post("/payouts/{payoutID}/approve", payoutHandler.Approve)
	router.Post("/payouts/{payoutID}/reject", payoutHandler.Reject)

	router.Get("/departments", departmentHandler.List)
	router.Post("/departments", departmentHandler.Create)

	router.Get("/export/csv", exportHandler.ExportCSV)

	return router
}
