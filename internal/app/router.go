package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	audithttp "github.com/meridian-hms/meridian-hms/internal/audit/http"
	"github.com/meridian-hms/meridian-hms/internal/auth"
	"github.com/meridian-hms/meridian-hms/internal/billing"
	"github.com/meridian-hms/meridian-hms/internal/crm"
	"github.com/meridian-hms/meridian-hms/internal/hotel"
	"github.com/meridian-hms/meridian-hms/internal/laundry"
	"github.com/meridian-hms/meridian-hms/internal/marketing"
	"github.com/meridian-hms/meridian-hms/internal/observability"
	"github.com/meridian-hms/meridian-hms/internal/rbac"
	"github.com/meridian-hms/meridian-hms/internal/restaurant"
	"github.com/meridian-hms/meridian-hms/internal/reviews"
	"github.com/meridian-hms/meridian-hms/internal/roles"
	"github.com/meridian-hms/meridian-hms/internal/shared"
	"github.com/meridian-hms/meridian-hms/internal/staff"
	"github.com/meridian-hms/meridian-hms/internal/users"
	"github.com/meridian-hms/meridian-hms/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Auth           *auth.Service

	AuthHandler        *auth.Handler
	UsersHandler       *users.Handler
	RolesHandler       *roles.Handler
	PermissionsHandler *rbac.Handler
	AuditHandler       *audithttp.Handler
	HotelHandler       *hotel.Handler
	RestaurantHandler  *restaurant.Handler
	LaundryHandler     *laundry.Handler
	ReviewsHandler     *reviews.Handler
	MarketingHandler   *marketing.Handler
	StaffHandler       *staff.Handler
	BillingHandler     *billing.Handler
	CRMHandler         *crm.Handler
	JobHandler         *jobs.Handler

	RBACMiddleware rbac.Middleware
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with Meridian defaults. Every resource
// group is wrapped with the authorization gate for its resource type; only
// the auth endpoints, health check and metrics stay outside the gate.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Auth:           params.Auth,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	guard := params.RBACMiddleware.Guard
	mount := func(pattern string, resource rbac.Resource, fn func(chi.Router)) {
		r.Route(pattern, func(r chi.Router) {
			r.Use(guard(resource))
			fn(r)
		})
	}

	mount("/users", rbac.ResourceUser, params.UsersHandler.MountRoutes)
	mount("/roles", rbac.ResourceRole, params.RolesHandler.MountRoutes)
	mount("/permissions", rbac.ResourceGrant, params.PermissionsHandler.MountRoutes)
	mount("/audit", rbac.ResourceAuditLog, params.AuditHandler.MountRoutes)

	mount("/hotels", rbac.ResourceHotel, params.HotelHandler.MountHotels)
	mount("/room-categories", rbac.ResourceRoomCategory, params.HotelHandler.MountCategories)
	mount("/rooms", rbac.ResourceRoom, params.HotelHandler.MountRooms)
	mount("/bookings", rbac.ResourceBooking, params.HotelHandler.MountBookings)
	mount("/room-service-requests", rbac.ResourceRoomService, params.HotelHandler.MountServiceRequests)

	mount("/menu-categories", rbac.ResourceMenuCategory, params.RestaurantHandler.MountMenuCategories)
	mount("/menu-items", rbac.ResourceMenuItem, params.RestaurantHandler.MountMenuItems)
	mount("/tables", rbac.ResourceTable, params.RestaurantHandler.MountTables)
	mount("/reservations", rbac.ResourceReservation, params.RestaurantHandler.MountReservations)
	mount("/orders", rbac.ResourceOrder, params.RestaurantHandler.MountOrders)
	mount("/discount-rules", rbac.ResourceDiscountRule, params.RestaurantHandler.MountDiscountRules)

	mount("/laundry-services", rbac.ResourceLaundryService, params.LaundryHandler.MountServices)
	mount("/laundry-orders", rbac.ResourceLaundryOrder, params.LaundryHandler.MountOrders)
	mount("/reviews", rbac.ResourceReview, params.ReviewsHandler.Mount)
	mount("/campaigns", rbac.ResourceCampaign, params.MarketingHandler.MountCampaigns)
	mount("/promotions", rbac.ResourcePromotion, params.MarketingHandler.MountPromotions)

	mount("/staff", rbac.ResourceStaff, params.StaffHandler.MountStaff)
	mount("/attendance", rbac.ResourceAttendance, params.StaffHandler.MountAttendance)
	mount("/payrolls", rbac.ResourcePayroll, params.StaffHandler.MountPayrolls)

	r.Route("/invoices", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(guard(rbac.ResourceInvoice))
			params.BillingHandler.MountInvoices(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(guard(rbac.ResourcePayment))
			params.BillingHandler.MountPayments(r)
		})
	})
	mount("/customers", rbac.ResourceCustomer, params.CRMHandler.Mount)

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
