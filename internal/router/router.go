package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/madshoots/club-api/internal/handler"    // import the handlers that implement business logic
	"github.com/madshoots/club-api/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/madshoots/club-api/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring hit this to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /v1/auth; /v1/me is protected.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token: the presented one is consumed
	// and a new pair is returned.
	g.POST("/refresh", a.Refresh)
	// Logout revokes the presented refresh token; no JWT required.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterMember registers the member-facing endpoints.  Everything
// here requires a valid access token; both roles are accepted since the
// admin is also a member.
func RegisterMember(e *echo.Echo, s *handler.SessionHandler, p *handler.ProfileHandler, ct *handler.ContestHandler, pr *handler.ProposalHandler, chat *handler.ChatHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleMember, model.RoleAdmin))

	// Agenda and claims.
	g.GET("/sessions", s.ListActive)
	g.GET("/sessions/:id", s.Get)
	g.POST("/sessions/:id/claim", s.Claim)

	// The member's own record.
	g.PUT("/me/profile", p.Update)
	g.GET("/me/bookings", p.Bookings)
	g.GET("/broadcast", p.GetBroadcast)

	// Post-session contests.
	g.GET("/contests", ct.ListActive)
	g.POST("/contests/:id/entries", ct.SubmitEntry)
	g.POST("/contests/:id/entries/:entryID/vote", ct.Vote)

	// Theme proposals.
	g.GET("/proposals", pr.List)
	g.POST("/proposals", pr.Create)
	g.POST("/proposals/:id/vote", pr.Vote)

	// Assistant chat stream and stored history.
	g.POST("/chat", chat.Send)
	g.GET("/chat/history", chat.GetHistory)
}

// RegisterAdmin registers the admin panel endpoints under /v1/admin.
// Every route requires a valid access token carrying the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.POST("/sessions", a.CreateSession)
	g.GET("/sessions", a.ListSessions)
	g.GET("/sessions/:id/attendees", a.Attendees)

	g.POST("/codes", a.IssueCode)
	g.GET("/codes", a.ListCodes)
	g.DELETE("/codes/:code", a.RevokeCode)

	g.GET("/passwords", a.GetPasswords)
	g.PUT("/passwords/booking", a.SetBookingPassword)
	g.PUT("/passwords/reward", a.SetRewardPassword)

	g.PUT("/broadcast", a.PublishBroadcast)
	g.DELETE("/broadcast", a.ClearBroadcast)
}
