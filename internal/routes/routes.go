package routes

import (
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/config"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// Deps is everything the router needs besides the config.
type Deps struct {
	Auth     *services.AuthService
	Listings *services.ListingService
	Reviews  *services.ReviewService
	Sessions *session.Store
	Health   *handlers.HealthHandler
	// Storage for rate-limit counters. Nil keeps them in process.
	GlobalLimitStorage fiber.Storage
	AuthLimitStorage   fiber.Storage
	// UploadDir is served under /uploads when set.
	UploadDir string
}

// AppConfig is the fiber configuration Setup is meant to run under.
// Immutable must stay on: request strings are kept by the record store and
// by batched log records long after fasthttp reuses its buffers.
func AppConfig() fiber.Config {
	return fiber.Config{
		Immutable:    true,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	}
}

// Setup registers the gate chains for every route. Global middleware must
// all be registered before the first route, which is why it lives here.
func Setup(app *fiber.App, cfg *config.Config, d Deps) {
	app.Use(middleware.MethodOverride())
	app.Use(middleware.RateLimit(cfg.RateLimitMax, cfg.RateLimitWindow, d.GlobalLimitStorage,
		"Too many requests from this IP, please try again later."))
	app.Use(middleware.Sessions(d.Sessions))
	if cfg.JWTSecret != "" {
		app.Use(middleware.BearerToken(cfg.JWTSecret))
	}
	app.Use(middleware.LoadCurrentUser(d.Auth))

	authLimit := middleware.RateLimit(cfg.AuthRateLimitMax, cfg.RateLimitWindow, d.AuthLimitStorage,
		"Too many login attempts, please try again after 15 minutes")
	loggedIn := middleware.RequireAuthenticated()
	owner := middleware.RequireListingOwner(d.Listings)
	author := middleware.RequireReviewAuthor(d.Reviews)

	listings := handlers.NewListingHandler(d.Listings)
	reviews := handlers.NewReviewHandler(d.Reviews)
	users := handlers.NewUserHandler(d.Auth)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/listings")
	})
	app.All("/", handlers.MethodNotAllowed)

	// Listings. Static segments are registered before :id.
	app.Get("/listings", listings.Index)
	app.Post("/listings", loggedIn, middleware.ValidateListing(), listings.Create)
	app.All("/listings", handlers.MethodNotAllowed)

	app.Get("/listings/new", loggedIn, listings.New)
	app.All("/listings/new", handlers.MethodNotAllowed)

	app.Get("/listings/:id/edit", loggedIn, owner, listings.Edit)
	app.All("/listings/:id/edit", handlers.MethodNotAllowed)

	// Reviews
	app.Post("/listings/:id/reviews", loggedIn, middleware.ValidateReview(), reviews.Create)
	app.All("/listings/:id/reviews", handlers.MethodNotAllowed)

	app.Delete("/listings/:id/reviews/:reviewId", loggedIn, author, reviews.Delete)
	app.All("/listings/:id/reviews/:reviewId", handlers.MethodNotAllowed)

	app.Get("/listings/:id", listings.Show)
	app.Put("/listings/:id", loggedIn, owner, middleware.ValidateListing(), listings.Update)
	app.Delete("/listings/:id", loggedIn, owner, listings.Delete)
	app.All("/listings/:id", handlers.MethodNotAllowed)

	// Users
	app.Get("/signup", users.SignupForm)
	app.Post("/signup", authLimit, users.Signup)
	app.All("/signup", handlers.MethodNotAllowed)

	app.Get("/login", users.LoginForm)
	app.Post("/login", authLimit, users.Login)
	app.All("/login", handlers.MethodNotAllowed)

	app.Get("/logout", users.Logout)
	app.Post("/logout", users.Logout)
	app.All("/logout", handlers.MethodNotAllowed)

	app.Get("/check-username", users.CheckUsername)
	app.All("/check-username", handlers.MethodNotAllowed)
	app.Get("/check-email", users.CheckEmail)
	app.All("/check-email", handlers.MethodNotAllowed)

	if cfg.JWTSecret != "" {
		app.Post("/api/token", authLimit, users.Token)
		app.All("/api/token", handlers.MethodNotAllowed)
	}

	app.Get("/health", d.Health.Check)
	if d.UploadDir != "" {
		app.Static("/uploads", d.UploadDir)
	}

	app.Use(handlers.NotFound)
}
