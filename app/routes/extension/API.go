package extension

import (
	"database/sql"
	"errors"
	"log"
	"strings"

	"edusphere-extension/app/models"
	"edusphere-extension/app/services"

	"github.com/gofiber/fiber/v2"
)

// resolveUser maps the mandatory email query parameter to a directory
// user. When the request cannot proceed it writes the error response and
// returns a nil user.
func (h *Handler) resolveUser(c *fiber.Ctx) (*models.User, error) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		return nil, c.Status(400).JSON(fiber.Map{"error": "Email parameter is required"})
	}

	user, err := h.Users.UserByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, c.Status(404).JSON(fiber.Map{"error": "User not found with email: " + email})
		}
		log.Printf("Error resolving user %s: %v", email, err)
		return nil, c.Status(500).JSON(fiber.Map{"error": "Internal server error: " + err.Error()})
	}
	return user, nil
}

// GetDashboardAPI handles GET /api/extension/dashboard
func (h *Handler) GetDashboardAPI(c *fiber.Ctx) error {
	user, err := h.resolveUser(c)
	if user == nil {
		return err
	}

	data, err := h.Service.Dashboard(c.UserContext(), user.ID, user.Role)
	if err != nil {
		log.Printf("Error getting dashboard data for user %s: %v", user.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error: " + err.Error()})
	}

	return c.JSON(data)
}

// GetTasksAPI handles GET /api/extension/tasks
func (h *Handler) GetTasksAPI(c *fiber.Ctx) error {
	user, err := h.resolveUser(c)
	if user == nil {
		return err
	}

	status := c.Query("status")
	priority := c.Query("priority")
	typ := c.Query("type")
	limit := c.QueryInt("limit", 20)

	tasks, err := h.Service.Tasks(c.UserContext(), user.ID, user.Role, status, priority, typ, limit)
	if err != nil {
		log.Printf("Error getting tasks for user %s: %v", user.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error: " + err.Error()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"tasks":   tasks,
		"count":   len(tasks),
	})
}

// GetAnnouncementsAPI handles GET /api/extension/announcements
func (h *Handler) GetAnnouncementsAPI(c *fiber.Ctx) error {
	user, err := h.resolveUser(c)
	if user == nil {
		return err
	}

	limit := c.QueryInt("limit", 10)

	announcements, err := h.Service.Announcements(c.UserContext(), user.ID, limit)
	if err != nil {
		log.Printf("Error getting announcements for user %s: %v", user.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error: " + err.Error()})
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"announcements": announcements,
		"count":         len(announcements),
	})
}

// GetStatsAPI handles GET /api/extension/stats
func (h *Handler) GetStatsAPI(c *fiber.Ctx) error {
	user, err := h.resolveUser(c)
	if user == nil {
		return err
	}

	stats, err := h.Service.UserStats(c.UserContext(), user.ID, user.Role)
	if err != nil {
		log.Printf("Error getting stats for user %s: %v", user.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error: " + err.Error()})
	}

	return c.JSON(stats)
}

// GetUrgentItemsAPI handles GET /api/extension/urgent
func (h *Handler) GetUrgentItemsAPI(c *fiber.Ctx) error {
	user, err := h.resolveUser(c)
	if user == nil {
		return err
	}

	urgentItems, err := h.Service.UrgentItems(c.UserContext(), user.ID, user.Role)
	if err != nil {
		log.Printf("Error getting urgent items for user %s: %v", user.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error: " + err.Error()})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"urgentItems": urgentItems,
		"count":       len(urgentItems),
	})
}

// GetMeetingDetailsAPI handles GET /api/extension/meeting/:id
func (h *Handler) GetMeetingDetailsAPI(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Email parameter is required"})
	}

	meetingID := strings.TrimSpace(c.Params("id"))
	if meetingID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Meeting ID is required"})
	}

	meeting, err := h.Service.MeetingDetails(c.UserContext(), meetingID, email)
	if err != nil {
		if errors.Is(err, services.ErrMeetingNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Meeting not found"})
		}
		log.Printf("Error getting meeting %s: %v", meetingID, err)
		return c.Status(500).JSON(fiber.Map{"error": "Internal server error: " + err.Error()})
	}

	return c.JSON(meeting)
}
