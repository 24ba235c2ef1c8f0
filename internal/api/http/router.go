package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/videoshare/internal/api/http/handlers"
	"github.com/spec-kit/videoshare/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Toggle    *handlers.ToggleHandler
	Channels  *handlers.ChannelHandler
	Dashboard *handlers.DashboardHandler
	Guard     *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Guard.Require, cfg.Auth.Logout)
	authGroup.Post("/password/change", cfg.Guard.Require, cfg.Auth.ChangePassword)
	authGroup.Get("/me", cfg.Guard.Require, cfg.Auth.Me)

	app.Post("/toggle/:kind/:targetId", cfg.Guard.Require, cfg.Toggle.Toggle)
	app.Get("/likes/videos", cfg.Guard.Require, cfg.Toggle.LikedVideos)

	channels := app.Group("/channels")
	channels.Get("/:username/profile", cfg.Guard.Optional, cfg.Channels.Profile)
	channels.Get("/:channelId/subscribers", cfg.Channels.Subscribers)
	channels.Get("/:channelId/subscriber-count", cfg.Channels.SubscriberCount)

	subscriptions := app.Group("/subscriptions", cfg.Guard.Require)
	subscriptions.Get("/status/:channelId", cfg.Channels.SubscriptionStatus)
	subscriptions.Get("/channels", cfg.Channels.SubscribedChannels)

	app.Get("/dashboard/stats", cfg.Guard.Require, cfg.Dashboard.Stats)
}
