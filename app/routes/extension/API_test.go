package extension

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"edusphere-extension/app/models"
	"edusphere-extension/app/services"

	"github.com/gofiber/fiber/v2"
)

type fakeService struct {
	dashboard     *models.DashboardData
	tasks         []models.Item
	announcements []models.Item
	stats         *models.DashboardStats
	urgent        []models.Item
	meeting       models.RawRecord
	err           error

	gotStatus   string
	gotPriority string
	gotType     string
	gotLimit    int
}

func (f *fakeService) Dashboard(ctx context.Context, userID string, role models.Role) (*models.DashboardData, error) {
	return f.dashboard, f.err
}

func (f *fakeService) Tasks(ctx context.Context, userID string, role models.Role, status, priority, typ string, limit int) ([]models.Item, error) {
	f.gotStatus, f.gotPriority, f.gotType, f.gotLimit = status, priority, typ, limit
	return f.tasks, f.err
}

func (f *fakeService) Announcements(ctx context.Context, userID string, limit int) ([]models.Item, error) {
	f.gotLimit = limit
	return f.announcements, f.err
}

func (f *fakeService) UserStats(ctx context.Context, userID string, role models.Role) (*models.DashboardStats, error) {
	return f.stats, f.err
}

func (f *fakeService) UrgentItems(ctx context.Context, userID string, role models.Role) ([]models.Item, error) {
	return f.urgent, f.err
}

func (f *fakeService) MeetingDetails(ctx context.Context, meetingID, email string) (models.RawRecord, error) {
	return f.meeting, f.err
}

type fakeDirectory struct {
	users map[string]*models.User
}

func (f *fakeDirectory) UserByEmail(email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func newTestApp(svc ExtensionAPI) *fiber.App {
	app := fiber.New()
	dir := &fakeDirectory{users: map[string]*models.User{
		"student@test.edu": {ID: "u1", Email: "student@test.edu", Role: models.RoleStudent},
	}}
	SetupExtensionRoutes(app, &Handler{Service: svc, Users: dir})
	return app
}

func doRequest(t *testing.T, app *fiber.App, path string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	var payload map[string]any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("parsing body %q: %v", body, err)
		}
	}
	return resp, payload
}

func TestMissingEmailReturns400(t *testing.T) {
	app := newTestApp(&fakeService{})

	for _, path := range []string{
		"/api/extension/dashboard",
		"/api/extension/tasks",
		"/api/extension/announcements",
		"/api/extension/stats",
		"/api/extension/urgent",
		"/api/extension/meeting/m1",
	} {
		resp, payload := doRequest(t, app, path)
		if resp.StatusCode != 400 {
			t.Errorf("%s: status = %d, want 400", path, resp.StatusCode)
		}
		if payload["error"] != "Email parameter is required" {
			t.Errorf("%s: unexpected error message %v", path, payload["error"])
		}
	}
}

func TestUnknownUserReturns404(t *testing.T) {
	app := newTestApp(&fakeService{})

	resp, payload := doRequest(t, app, "/api/extension/dashboard?email=nobody@test.edu")
	if resp.StatusCode != 404 {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if payload["error"] != "User not found with email: nobody@test.edu" {
		t.Errorf("unexpected error message %v", payload["error"])
	}
}

func TestDashboardReturnsData(t *testing.T) {
	svc := &fakeService{dashboard: &models.DashboardData{
		Items: []models.Item{{ID: "t1", Type: models.TypeTask, Name: "HW", Priority: models.PriorityUrgent}},
		Stats: &models.DashboardStats{TotalItems: 1, UrgentItems: 1, TasksCount: 1},
	}}
	app := newTestApp(svc)

	resp, payload := doRequest(t, app, "/api/extension/dashboard?email=student@test.edu")
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	items, ok := payload["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("unexpected items: %v", payload["items"])
	}
	stats, ok := payload["stats"].(map[string]any)
	if !ok || stats["totalItems"] != float64(1) {
		t.Errorf("unexpected stats: %v", payload["stats"])
	}
}

func TestDashboardUpstreamFailureReturns500(t *testing.T) {
	app := newTestApp(&fakeService{err: services.ErrUpstreamUnavailable})

	resp, payload := doRequest(t, app, "/api/extension/dashboard?email=student@test.edu")
	if resp.StatusCode != 500 {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	if payload["error"] == nil {
		t.Error("expected error message in body")
	}
}

func TestTasksEnvelopeAndQueryParams(t *testing.T) {
	svc := &fakeService{tasks: []models.Item{
		{ID: "t1", Type: models.TypeTask, Name: "HW"},
		{ID: "m1", Type: models.TypeMeeting, Name: "Standup"},
	}}
	app := newTestApp(svc)

	resp, payload := doRequest(t, app, "/api/extension/tasks?email=student@test.edu&status=pending&priority=urgent&type=task&limit=5")
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if payload["success"] != true {
		t.Errorf("success = %v, want true", payload["success"])
	}
	if payload["count"] != float64(2) {
		t.Errorf("count = %v, want 2", payload["count"])
	}
	if _, ok := payload["tasks"].([]any); !ok {
		t.Errorf("tasks missing from envelope: %v", payload)
	}
	if svc.gotStatus != "pending" || svc.gotPriority != "urgent" || svc.gotType != "task" || svc.gotLimit != 5 {
		t.Errorf("service got (%q, %q, %q, %d)", svc.gotStatus, svc.gotPriority, svc.gotType, svc.gotLimit)
	}
}

func TestTasksDefaultLimit(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(svc)

	doRequest(t, app, "/api/extension/tasks?email=student@test.edu")
	if svc.gotLimit != 20 {
		t.Errorf("default limit = %d, want 20", svc.gotLimit)
	}
}

func TestAnnouncementsEnvelope(t *testing.T) {
	svc := &fakeService{announcements: []models.Item{
		{ID: "a1", Type: models.TypeAnnouncement, Name: "Holiday"},
	}}
	app := newTestApp(svc)

	resp, payload := doRequest(t, app, "/api/extension/announcements?email=student@test.edu")
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if payload["success"] != true || payload["count"] != float64(1) {
		t.Errorf("unexpected envelope: %v", payload)
	}
	if _, ok := payload["announcements"].([]any); !ok {
		t.Errorf("announcements missing from envelope: %v", payload)
	}
	if svc.gotLimit != 10 {
		t.Errorf("default limit = %d, want 10", svc.gotLimit)
	}
}

func TestStatsReturnedBare(t *testing.T) {
	svc := &fakeService{stats: &models.DashboardStats{
		TotalItems:     4,
		CompletedItems: 2,
		CompletionRate: 50.0,
	}}
	app := newTestApp(svc)

	resp, payload := doRequest(t, app, "/api/extension/stats?email=student@test.edu")
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if payload["totalItems"] != float64(4) || payload["completionRate"] != float64(50.0) {
		t.Errorf("unexpected stats payload: %v", payload)
	}
	if _, wrapped := payload["success"]; wrapped {
		t.Error("stats should not be wrapped in an envelope")
	}
}

func TestUrgentItemsEnvelope(t *testing.T) {
	svc := &fakeService{urgent: []models.Item{
		{ID: "t1", Type: models.TypeTask, Priority: models.PriorityUrgent},
	}}
	app := newTestApp(svc)

	resp, payload := doRequest(t, app, "/api/extension/urgent?email=student@test.edu")
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if payload["success"] != true || payload["count"] != float64(1) {
		t.Errorf("unexpected envelope: %v", payload)
	}
	if _, ok := payload["urgentItems"].([]any); !ok {
		t.Errorf("urgentItems missing from envelope: %v", payload)
	}
}

func TestMeetingDetailsPassthrough(t *testing.T) {
	svc := &fakeService{meeting: models.RawRecord{"id": "m1", "title": "Standup"}}
	app := newTestApp(svc)

	resp, payload := doRequest(t, app, "/api/extension/meeting/m1?email=student@test.edu")
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if payload["id"] != "m1" || payload["title"] != "Standup" {
		t.Errorf("unexpected meeting payload: %v", payload)
	}
}

func TestMeetingDetailsNotFoundReturns404(t *testing.T) {
	app := newTestApp(&fakeService{err: services.ErrMeetingNotFound})

	resp, payload := doRequest(t, app, "/api/extension/meeting/m404?email=student@test.edu")
	if resp.StatusCode != 404 {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if payload["error"] != "Meeting not found" {
		t.Errorf("unexpected error message %v", payload["error"])
	}
}

func TestMeetingDetailsSkipsDirectoryLookup(t *testing.T) {
	// Meeting lookups forward the raw email to the upstream service, so an
	// email outside the directory must not short-circuit with a 404.
	svc := &fakeService{meeting: models.RawRecord{"id": "m1"}}
	app := newTestApp(svc)

	resp, _ := doRequest(t, app, "/api/extension/meeting/m1?email=guest@elsewhere.edu")
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestDirectoryErrorReturns500(t *testing.T) {
	app := fiber.New()
	dir := &failingDirectory{err: errors.New("connection refused")}
	SetupExtensionRoutes(app, &Handler{Service: &fakeService{}, Users: dir})

	resp, payload := doRequest(t, app, "/api/extension/tasks?email=student@test.edu")
	if resp.StatusCode != 500 {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	if payload["error"] == nil {
		t.Error("expected error message in body")
	}
}

type failingDirectory struct {
	err error
}

func (f *failingDirectory) UserByEmail(string) (*models.User, error) {
	return nil, f.err
}
