package v1

import (
	"html/template"
	"time"

	"github.com/emlak-portal/identity"
	"github.com/emlak-portal/middleware"
	"github.com/emlak-portal/models"
	"github.com/emlak-portal/services"
	"github.com/emlak-portal/validation"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services is everything the handlers call into
type Services struct {
	DB           *gorm.DB
	Auth         *services.AuthService
	Locations    *services.LocationService
	Taxonomy     *services.TaxonomyService
	Contracts    *services.LookupService[models.PropertyContract]
	Statuses     *services.LookupService[models.PropertyStatus]
	DeedStatuses *services.LookupService[models.PropertyDeedStatus]
	Properties   *services.PropertyService
	Projects     *services.ProjectService
	Tenancy      *services.TenancyService
	Leads        *services.LeadService
	Reviews      *services.ReviewService
	Dashboard    *services.DashboardService
}

// NewServices builds the service layer on one database handle.
func NewServices(db *gorm.DB, verifier identity.Verifier, notifier services.Notifier, log *zap.Logger) *Services {
	leads := services.NewLeadService(db, log)
	reviews := services.NewReviewService(db, log)
	return &Services{
		DB:           db,
		Auth:         services.NewAuthService(db, verifier, log),
		Locations:    services.NewLocationService(db, log),
		Taxonomy:     services.NewTaxonomyService(db, log),
		Contracts:    services.NewContractService(db),
		Statuses:     services.NewStatusService(db),
		DeedStatuses: services.NewDeedStatusService(db),
		Properties:   services.NewPropertyService(db, notifier, log),
		Projects:     services.NewProjectService(db, notifier, log),
		Tenancy:      services.NewTenancyService(db, log),
		Leads:        leads,
		Reviews:      reviews,
		Dashboard:    services.NewDashboardService(db, leads, reviews),
	}
}

// RouterOptions carries the settings the HTTP layer reads
type RouterOptions struct {
	CORSOrigins []string
	CookieName  string
	SignInURL   string
}

// NewRouter builds the engine with middleware, API routes and admin pages.
func NewRouter(s *Services, opts RouterOptions, log *zap.Logger) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.UseJSONNames(v)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log.Named("http")))
	router.Use(cors.New(corsConfig(opts.CORSOrigins)))
	router.Use(middleware.AuthMiddleware(s.Auth, opts.CookieName, log.Named("auth")))

	api := router.Group("/api")
	RegisterRoutes(api, s, log)
	RegisterPages(router, s, opts.SignInURL, log)
	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.RouterGroup, s *Services, log *zap.Logger) {
	// Health check endpoint
	NewHealthController(s.DB).RegisterRoutes(router)

	NewUserController().RegisterRoutes(router)
	NewLocationController(s.Locations, log).RegisterRoutes(router)
	NewTaxonomyController(s.Taxonomy, log).RegisterRoutes(router)
	NewLookupController("/contracts", s.Contracts, log).RegisterRoutes(router)
	NewLookupController("/property-statuses", s.Statuses, log).RegisterRoutes(router)
	NewLookupController("/deed-statuses", s.DeedStatuses, log).RegisterRoutes(router)
	NewPropertyController(s.Properties, log).RegisterRoutes(router)
	NewProjectController(s.Projects, log).RegisterRoutes(router)
	NewTenancyController(s.Tenancy, s.Reviews, log).RegisterRoutes(router)
	NewLeadController(s.Leads, log).RegisterRoutes(router)
	NewReviewController(s.Reviews, log).RegisterRoutes(router)
}

// RegisterPages serves the server-rendered admin pages.
func RegisterPages(router *gin.Engine, s *Services, signInURL string, log *zap.Logger) {
	router.SetHTMLTemplate(template.Must(template.New("").Funcs(pageFuncs).ParseFS(pageFS, "templates/*.html")))
	NewPageController(s.Dashboard, signInURL, log).RegisterRoutes(&router.RouterGroup)
}
