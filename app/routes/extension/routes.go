package extension

import (
	"context"

	"edusphere-extension/app/models"

	"github.com/gofiber/fiber/v2"
)

// ExtensionAPI is the aggregation surface the handlers depend on.
type ExtensionAPI interface {
	Dashboard(ctx context.Context, userID string, role models.Role) (*models.DashboardData, error)
	Tasks(ctx context.Context, userID string, role models.Role, status, priority, typ string, limit int) ([]models.Item, error)
	Announcements(ctx context.Context, userID string, limit int) ([]models.Item, error)
	UserStats(ctx context.Context, userID string, role models.Role) (*models.DashboardStats, error)
	UrgentItems(ctx context.Context, userID string, role models.Role) ([]models.Item, error)
	MeetingDetails(ctx context.Context, meetingID, email string) (models.RawRecord, error)
}

// UserDirectory resolves request emails to directory users.
type UserDirectory interface {
	UserByEmail(email string) (*models.User, error)
}

// Handler holds dependencies for the extension API handlers
type Handler struct {
	Service ExtensionAPI
	Users   UserDirectory
}

func SetupExtensionRoutes(app *fiber.App, h *Handler) {
	api := app.Group("/api/extension")

	api.Get("/dashboard", h.GetDashboardAPI)
	api.Get("/tasks", h.GetTasksAPI)
	api.Get("/announcements", h.GetAnnouncementsAPI)
	api.Get("/stats", h.GetStatsAPI)
	api.Get("/urgent", h.GetUrgentItemsAPI)
	api.Get("/meeting/:id", h.GetMeetingDetailsAPI)
}
