package handlers

import (
	"esports-community-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTournamentRoutes(api fiber.Router, tournamentService *services.TournamentService, userCtx fiber.Handler) {
	// Public — tournament browsing needs no account
	api.Get("/tournaments", tournamentService.GetAllTournaments)
	api.Get("/tournament/:id/participants", tournamentService.GetParticipants)

	// Secured — registration is tied to the caller's identity
	api.Post("/register-tournament", userCtx, tournamentService.Register)
	api.Post("/unregister-tournament", userCtx, tournamentService.Unregister)
}
