package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"edusphere-extension/app/models"
)

// UserFinder resolves directory users so service-to-service requests can
// carry a token minted for the requesting user.
type UserFinder interface {
	UserByID(userID string) (*models.User, error)
}

// TokenMinter signs a service-to-service bearer token for a user.
type TokenMinter func(user *models.User) (string, error)

// EduSphereClient talks to the edusphere-service REST API. It implements
// the services.ItemSource, services.CourseAccessGateway and
// services.CourseCatalog collaborator contracts.
type EduSphereClient struct {
	httpClient *http.Client
	baseURL    string
	users      UserFinder
	mintToken  TokenMinter
}

func New(baseURL string, users UserFinder, mintToken TokenMinter) *EduSphereClient {
	return &EduSphereClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		users:      users,
		mintToken:  mintToken,
	}
}

// authorize attaches a bearer token minted for userID. Token minting is
// best effort: on failure the request goes out unauthenticated.
func (c *EduSphereClient) authorize(req *http.Request, userID string) {
	if c.users == nil || c.mintToken == nil {
		return
	}
	user, err := c.users.UserByID(userID)
	if err != nil {
		log.Printf("Warning: could not resolve user %s for service token: %v", userID, err)
		return
	}
	token, err := c.mintToken(user)
	if err != nil {
		log.Printf("Warning: could not mint service token for user %s: %v", userID, err)
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

// getJSON performs an authenticated GET and decodes the JSON response into
// out. An empty userID sends the request unauthenticated.
func (c *EduSphereClient) getJSON(ctx context.Context, rawURL, userID string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		c.authorize(req, userID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("edusphere returned status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// FetchUserCourses returns the raw course records the user belongs to.
func (c *EduSphereClient) FetchUserCourses(ctx context.Context, userID string, role models.Role) ([]models.RawRecord, error) {
	q := url.Values{}
	q.Set("userId", userID)
	q.Set("userRole", string(role))

	var courses []models.RawRecord
	if err := c.getJSON(ctx, c.baseURL+"/courses/user-courses?"+q.Encode(), userID, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// FetchTasks returns raw task records for the given courses.
func (c *EduSphereClient) FetchTasks(ctx context.Context, courseIDs []string) ([]models.RawRecord, error) {
	if len(courseIDs) == 0 {
		return []models.RawRecord{}, nil
	}
	q := url.Values{}
	q.Set("courseIds", strings.Join(courseIDs, ","))

	var tasks []models.RawRecord
	if err := c.getJSON(ctx, c.baseURL+"/tasks/by-courses?"+q.Encode(), "", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// FetchMeetings returns raw meeting records for the given courses.
func (c *EduSphereClient) FetchMeetings(ctx context.Context, courseIDs []string) ([]models.RawRecord, error) {
	if len(courseIDs) == 0 {
		return []models.RawRecord{}, nil
	}
	q := url.Values{}
	q.Set("courseIds", strings.Join(courseIDs, ","))

	var meetings []models.RawRecord
	if err := c.getJSON(ctx, c.baseURL+"/meetings/by-courses?"+q.Encode(), "", &meetings); err != nil {
		return nil, err
	}
	return meetings, nil
}

// FetchAnnouncements returns the raw announcements scoped to one user.
func (c *EduSphereClient) FetchAnnouncements(ctx context.Context, userID string) ([]models.RawRecord, error) {
	var announcements []models.RawRecord
	if err := c.getJSON(ctx, c.baseURL+"/announcements/user/"+url.PathEscape(userID), userID, &announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}

// FetchMeeting returns one meeting record for the join flow.
func (c *EduSphereClient) FetchMeeting(ctx context.Context, meetingID, email string) (models.RawRecord, error) {
	q := url.Values{}
	q.Set("email", email)

	var meeting models.RawRecord
	if err := c.getJSON(ctx, c.baseURL+"/meetings/"+url.PathEscape(meetingID)+"?"+q.Encode(), "", &meeting); err != nil {
		return nil, err
	}
	return meeting, nil
}

// CanAccess asks the edusphere-service whether the user may act on the
// course. Any failure reads as "no access"; this method never errors.
func (c *EduSphereClient) CanAccess(ctx context.Context, userID string, role models.Role, courseID string) bool {
	q := url.Values{}
	q.Set("userId", userID)
	q.Set("userRole", string(role))
	q.Set("courseId", courseID)

	var allowed bool
	if err := c.getJSON(ctx, c.baseURL+"/courses/can-access?"+q.Encode(), userID, &allowed); err != nil {
		log.Printf("Error checking course access for user %s on course %s: %v", userID, courseID, err)
		return false
	}
	return allowed
}

// CourseName resolves a course id to its display name, falling back to
// "Unknown Course" on any failure.
func (c *EduSphereClient) CourseName(ctx context.Context, courseID string) string {
	var name string
	if err := c.getJSON(ctx, c.baseURL+"/courses/name/"+url.PathEscape(courseID), "", &name); err != nil {
		log.Printf("Error getting course name for %s: %v", courseID, err)
		return "Unknown Course"
	}
	return name
}
