package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"edusphere-extension/app/models"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrUpstreamUnavailable reports that a required edusphere-service
	// fetch failed. The whole aggregation is aborted when this happens.
	ErrUpstreamUnavailable = errors.New("edusphere service unavailable")

	// ErrMeetingNotFound reports that a meeting id could not be resolved.
	ErrMeetingNotFound = errors.New("meeting not found")
)

// ItemSource fetches raw course-scoped records from the edusphere-service.
type ItemSource interface {
	FetchUserCourses(ctx context.Context, userID string, role models.Role) ([]models.RawRecord, error)
	FetchTasks(ctx context.Context, courseIDs []string) ([]models.RawRecord, error)
	FetchMeetings(ctx context.Context, courseIDs []string) ([]models.RawRecord, error)
	FetchAnnouncements(ctx context.Context, userID string) ([]models.RawRecord, error)
	FetchMeeting(ctx context.Context, meetingID, email string) (models.RawRecord, error)
}

// CourseAccessGateway answers whether a user may act on a course. It fails
// closed: any internal error reads as "no access".
type CourseAccessGateway interface {
	CanAccess(ctx context.Context, userID string, role models.Role, courseID string) bool
}

// CourseCatalog resolves course ids to display names, falling back to
// "Unknown Course" when resolution fails.
type CourseCatalog interface {
	CourseName(ctx context.Context, courseID string) string
}

// ExtensionService aggregates tasks, meetings and announcements into the
// extension dashboard. Every call is stateless and request-scoped.
type ExtensionService struct {
	source  ItemSource
	access  CourseAccessGateway
	catalog CourseCatalog

	// now supplies the processing date; injectable for tests.
	now func() time.Time
}

func NewExtensionService(source ItemSource, access CourseAccessGateway, catalog CourseCatalog) *ExtensionService {
	return &ExtensionService{
		source:  source,
		access:  access,
		catalog: catalog,
		now:     time.Now,
	}
}

// today returns the processing date truncated to a UTC calendar date, so
// day arithmetic is exact.
func (s *ExtensionService) today() time.Time {
	t := s.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func courseIDsOf(courses []models.RawRecord) []string {
	ids := make([]string, 0, len(courses))
	for _, course := range courses {
		if id, ok := course["id"].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Dashboard assembles the full dashboard for one user: fetch, filter,
// normalize, merge, sort, stats. A user with no courses short-circuits to
// an empty dashboard without any further fetches.
func (s *ExtensionService) Dashboard(ctx context.Context, userID string, role models.Role) (*models.DashboardData, error) {
	today := s.today()

	courses, err := s.source.FetchUserCourses(ctx, userID, role)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching user courses: %v", ErrUpstreamUnavailable, err)
	}

	courseIDs := courseIDsOf(courses)
	if len(courseIDs) == 0 {
		log.Printf("No course IDs found for user %s, returning empty dashboard", userID)
		return &models.DashboardData{
			Items: []models.Item{},
			Stats: &models.DashboardStats{},
		}, nil
	}

	// The three fetches are independent reads; fan them out and join
	// before any merging or sorting happens.
	var tasks, meetings, announcements []models.RawRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = s.source.FetchTasks(gctx, courseIDs)
		return err
	})
	g.Go(func() error {
		var err error
		meetings, err = s.source.FetchMeetings(gctx, courseIDs)
		return err
	})
	g.Go(func() error {
		var err error
		announcements, err = s.source.FetchAnnouncements(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	items := make([]models.Item, 0, len(tasks)+len(meetings)+len(announcements))
	dropped := 0

	for _, raw := range tasks {
		if !s.canSeeTask(ctx, raw, userID, role) {
			continue
		}
		item, ok := s.normalizeTask(ctx, raw, today)
		if !ok {
			dropped++
			continue
		}
		items = append(items, item)
	}

	for _, raw := range meetings {
		if !s.canSeeMeeting(ctx, raw, userID, role) {
			continue
		}
		item, ok := s.normalizeMeeting(ctx, raw, today)
		if !ok {
			dropped++
			continue
		}
		items = append(items, item)
	}

	// Announcements are already scoped to the user upstream; no
	// visibility filter applies.
	for _, raw := range announcements {
		item, ok := s.normalizeAnnouncement(ctx, raw, today)
		if !ok {
			dropped++
			continue
		}
		items = append(items, item)
	}

	sortItems(items)

	if dropped > 0 {
		log.Printf("Dashboard for user %s dropped %d unconvertible items", userID, dropped)
	}

	return &models.DashboardData{
		Items:   items,
		Stats:   CalculateStats(items, today),
		Dropped: dropped,
	}, nil
}

// Tasks returns the task list view. Task items are always included;
// meeting items join them unless the type filter excludes meetings. The
// status and priority filters are plain equality checks where "" or "all"
// match everything.
func (s *ExtensionService) Tasks(ctx context.Context, userID string, role models.Role, status, priority, typ string, limit int) ([]models.Item, error) {
	today := s.today()

	courses, err := s.source.FetchUserCourses(ctx, userID, role)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching user courses: %v", ErrUpstreamUnavailable, err)
	}

	courseIDs := courseIDsOf(courses)
	if len(courseIDs) == 0 {
		return []models.Item{}, nil
	}

	items := []models.Item{}

	tasks, err := s.source.FetchTasks(ctx, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching tasks: %v", ErrUpstreamUnavailable, err)
	}
	for _, raw := range tasks {
		if !s.canSeeTask(ctx, raw, userID, role) {
			continue
		}
		if item, ok := s.normalizeTask(ctx, raw, today); ok {
			items = append(items, item)
		}
	}

	if typ == "" || typ == "all" || typ == "meeting" {
		meetings, err := s.source.FetchMeetings(ctx, courseIDs)
		if err != nil {
			return nil, fmt.Errorf("%w: fetching meetings: %v", ErrUpstreamUnavailable, err)
		}
		for _, raw := range meetings {
			if !s.canSeeMeeting(ctx, raw, userID, role) {
				continue
			}
			if item, ok := s.normalizeMeeting(ctx, raw, today); ok {
				items = append(items, item)
			}
		}
	}

	filtered := items[:0]
	for _, item := range items {
		if !matchesFilter(item.Status, status) {
			continue
		}
		if !matchesFilter(item.Priority, priority) {
			continue
		}
		filtered = append(filtered, item)
	}

	sortItems(filtered)
	return truncate(filtered, limit), nil
}

// Announcements returns the newest announcements for a user, normalized
// and truncated; fetch order is preserved.
func (s *ExtensionService) Announcements(ctx context.Context, userID string, limit int) ([]models.Item, error) {
	today := s.today()

	raws, err := s.source.FetchAnnouncements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching announcements: %v", ErrUpstreamUnavailable, err)
	}

	items := []models.Item{}
	for _, raw := range raws {
		if item, ok := s.normalizeAnnouncement(ctx, raw, today); ok {
			items = append(items, item)
		}
	}
	return truncate(items, limit), nil
}

// UserStats runs the full dashboard pipeline and returns only the stats.
func (s *ExtensionService) UserStats(ctx context.Context, userID string, role models.Role) (*models.DashboardStats, error) {
	data, err := s.Dashboard(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	return data.Stats, nil
}

// UrgentItems returns the urgent slice of the dashboard, re-sorted purely
// by due date since every item shares the urgent tier.
func (s *ExtensionService) UrgentItems(ctx context.Context, userID string, role models.Role) ([]models.Item, error) {
	data, err := s.Dashboard(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	urgent := []models.Item{}
	for _, item := range data.Items {
		if item.Priority == models.PriorityUrgent {
			urgent = append(urgent, item)
		}
	}
	sortItemsByDueDate(urgent)
	return urgent, nil
}

// MeetingDetails passes a meeting lookup through to the edusphere-service.
func (s *ExtensionService) MeetingDetails(ctx context.Context, meetingID, email string) (models.RawRecord, error) {
	meeting, err := s.source.FetchMeeting(ctx, meetingID, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMeetingNotFound, err)
	}
	return meeting, nil
}

func matchesFilter(value, filter string) bool {
	return filter == "" || filter == "all" || filter == value
}

func truncate(items []models.Item, limit int) []models.Item {
	if limit < 0 {
		limit = 0
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
