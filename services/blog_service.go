// esports-community-system/services/blog_service.go
package services

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"esports-community-system/models"
	"esports-community-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BlogService serves the community blog: public reads, admin writes.
type BlogService struct {
	DB *gorm.DB
}

func NewBlogService(db *gorm.DB) *BlogService {
	return &BlogService{DB: db}
}

// ListPosts returns all posts, newest first.
func (s *BlogService) ListPosts(c *fiber.Ctx) error {
	var posts []models.BlogPost
	if err := s.DB.Order("created_at DESC").Find(&posts).Error; err != nil {
		log.Printf("ERROR fetching blog posts: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch blog posts"})
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// CreatePost creates a blog post (admin). The display date defaults to today
// when the client omits it.
func (s *BlogService) CreatePost(c *fiber.Ctx) error {
	var post models.BlogPost
	if err := c.BodyParser(&post); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	if post.Title == "" || post.Content == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Title and content are required"})
	}

	now := time.Now().UTC()
	post.ID = utils.GenerateID()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Date == "" {
		post.Date = now.Format("January 2, 2006")
	}

	if err := s.DB.Create(&post).Error; err != nil {
		log.Printf("CreatePost: insert failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create blog post"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "post": post})
}

// UpdatePost merges the caller's fields over the stored post; id and
// createdAt stay immutable.
func (s *BlogService) UpdatePost(c *fiber.Ctx) error {
	postID := c.Params("id")

	var post models.BlogPost
	if err := s.DB.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Blog post not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update blog post"})
	}

	id, createdAt := post.ID, post.CreatedAt
	if err := json.Unmarshal(c.Body(), &post); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	post.ID = id
	post.CreatedAt = createdAt
	post.UpdatedAt = time.Now().UTC()

	if err := s.DB.Save(&post).Error; err != nil {
		log.Printf("UpdatePost: save failed for %s: %v", postID, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update blog post"})
	}

	return c.JSON(fiber.Map{"success": true, "post": post})
}

// DeletePost removes a blog post (admin).
func (s *BlogService) DeletePost(c *fiber.Ctx) error {
	postID := c.Params("id")

	result := s.DB.Delete(&models.BlogPost{}, "id = ?", postID)
	if result.Error != nil {
		log.Printf("DeletePost: delete failed for %s: %v", postID, result.Error)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete blog post"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "Blog post not found"})
	}

	return c.JSON(fiber.Map{"success": true})
}
