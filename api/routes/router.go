package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/veloxmotors/dealership-backend/api/controllers"
	custommw "github.com/veloxmotors/dealership-backend/api/middleware"
	"github.com/veloxmotors/dealership-backend/internal/categories"
	"github.com/veloxmotors/dealership-backend/internal/dashboard"
	"github.com/veloxmotors/dealership-backend/internal/leads"
	"github.com/veloxmotors/dealership-backend/internal/sales"
	"github.com/veloxmotors/dealership-backend/internal/stock"
	"github.com/veloxmotors/dealership-backend/internal/testimonials"
	"github.com/veloxmotors/dealership-backend/internal/users"
	"github.com/veloxmotors/dealership-backend/internal/vehicles"
	"github.com/veloxmotors/dealership-backend/pkg/config"
	"github.com/veloxmotors/dealership-backend/pkg/logger"
)

// Services bundles everything the router mounts.
type Services struct {
	Stock        stock.Service
	Vehicles     vehicles.Service
	Categories   categories.Service
	Users        users.Service
	Testimonials testimonials.Service
	Sales        sales.Service
	Leads        leads.Service
	Dashboard    dashboard.Service
}

// Dependencies are the infrastructure handles the router needs beyond the
// domain services.
type Dependencies struct {
	Logger   *logger.Logger
	Registry *prometheus.Registry

	// Readiness probes, keyed by dependency name.
	Pingers map[string]controllers.Pinger
}

// NewRouter assembles the full HTTP surface.
func NewRouter(cfg *config.Config, svcs Services, deps Dependencies) http.Handler {
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(custommw.Recoverer(logg))
	r.Use(custommw.RequestID(logg))
	r.Use(custommw.Logging(logg))
	r.Use(custommw.CORS(cfg.App.CORSOrigins))

	r.Get("/healthz", controllers.HealthLive())
	r.Get("/readyz", controllers.HealthReady(logg, deps.Pingers))
	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/stock", func(r chi.Router) {
			r.Get("/", controllers.ListStock(svcs.Stock, logg))
			r.Post("/", controllers.UpsertStock(svcs.Stock, logg))
			r.Post("/revalidate", controllers.RevalidateStock(svcs.Stock, logg))
			r.Route("/vehicle/{vehicleId}", func(r chi.Router) {
				r.Get("/", controllers.GetStockByVehicle(svcs.Stock, logg))
				r.Get("/availability", controllers.StockAvailability(svcs.Stock, logg))
				r.Post("/reduce", controllers.ReduceStock(svcs.Stock, logg))
				r.Post("/increase", controllers.IncreaseStock(svcs.Stock, logg))
			})
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", controllers.GetStock(svcs.Stock, logg))
				r.Put("/", controllers.UpdateStock(svcs.Stock, logg))
				r.Delete("/", controllers.DeleteStock(svcs.Stock, logg))
			})
		})

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", controllers.ListVehicles(svcs.Vehicles, logg))
			r.Post("/", controllers.CreateVehicle(svcs.Vehicles, logg))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", controllers.GetVehicle(svcs.Vehicles, logg))
				r.Put("/", controllers.UpdateVehicle(svcs.Vehicles, logg))
				r.Delete("/", controllers.DeleteVehicle(svcs.Vehicles, logg))
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(svcs.Categories, logg))
			r.Post("/", controllers.CreateCategory(svcs.Categories, logg))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", controllers.GetCategory(svcs.Categories, logg))
				r.Put("/", controllers.RenameCategory(svcs.Categories, logg))
				r.Delete("/", controllers.DeleteCategory(svcs.Categories, logg))
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.ListUsers(svcs.Users, logg))
			r.Post("/", controllers.CreateUser(svcs.Users, logg))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", controllers.GetUser(svcs.Users, logg))
				r.Put("/", controllers.UpdateUser(svcs.Users, logg))
				r.Delete("/", controllers.DeleteUser(svcs.Users, logg))
			})
		})

		r.Route("/testimonials", func(r chi.Router) {
			r.Get("/", controllers.ListTestimonials(svcs.Testimonials, logg))
			r.Post("/", controllers.SubmitTestimonial(svcs.Testimonials, logg))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", controllers.GetTestimonial(svcs.Testimonials, logg))
				r.Put("/approval", controllers.ApproveTestimonial(svcs.Testimonials, logg))
				r.Delete("/", controllers.DeleteTestimonial(svcs.Testimonials, logg))
			})
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.ListSales(svcs.Sales, logg))
			r.Post("/", controllers.CreateSale(svcs.Sales, logg))
			r.Get("/vehicle/{vehicleId}", controllers.ListVehicleSales(svcs.Sales, logg))
			r.Get("/{id}", controllers.GetSale(svcs.Sales, logg))
		})

		r.Route("/leads", func(r chi.Router) {
			r.Route("/appointments", func(r chi.Router) {
				r.Get("/", controllers.ListAppointments(svcs.Leads, logg))
				r.Post("/", controllers.ScheduleAppointment(svcs.Leads, logg))
				r.Put("/{id}/status", controllers.TransitionAppointment(svcs.Leads, logg))
			})
			r.Route("/interests", func(r chi.Router) {
				r.Get("/", controllers.ListInterestLeads(svcs.Leads, logg))
				r.Post("/", controllers.CreateInterestLead(svcs.Leads, logg))
			})
		})

		r.Get("/dashboard/summary", controllers.DashboardSummary(svcs.Dashboard, logg))
	})

	return r
}
