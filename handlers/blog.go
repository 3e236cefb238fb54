package handlers

import (
	"esports-community-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupBlogRoutes(api fiber.Router, blogService *services.BlogService) {
	// Public — the blog is readable without an account
	api.Get("/blog-posts", blogService.ListPosts)
}
