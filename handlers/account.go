package handlers

import (
	"esports-community-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAccountRoutes(api fiber.Router, accountService *services.AccountService, userCtx fiber.Handler) {
	// Public — signup happens before any token exists
	api.Post("/signup", accountService.Signup)

	// Secured. userCtx is attached per route, never as a catch-all on the
	// api prefix, so public routes registered elsewhere stay public.
	api.Get("/profile", userCtx, accountService.GetProfile)
	api.Get("/my-tournaments", userCtx, accountService.GetMyTournaments)
}
