// esports-community-system/services/media_service.go
package services

import (
	"log"
	"strings"

	"esports-community-system/utils"

	"github.com/gofiber/fiber/v2"
)

// MediaService handles admin image uploads (tournament posters, blog covers).
// Files land in Cloudflare R2 and only the CDN URL is stored on the record.
type MediaService struct{}

func NewMediaService() *MediaService {
	return &MediaService{}
}

// UploadImage accepts a multipart "image" file and returns its public URL.
func (s *MediaService) UploadImage(c *fiber.Ctx) error {
	if !utils.R2Enabled() {
		return c.Status(503).JSON(fiber.Map{"error": "Image uploads are not configured"})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "image file is required"})
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return c.Status(400).JSON(fiber.Map{"error": "Only image files are allowed"})
	}

	key := utils.ObjectKey("images", fileHeader.Filename)
	url, err := utils.UploadFileToR2(fileHeader, key)
	if err != nil {
		log.Printf("UploadImage: R2 upload failed for %s: %v", key, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to upload image"})
	}

	return c.JSON(fiber.Map{"success": true, "url": url})
}
