package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"edusphere-extension/app/models"
)

const dateLayout = "2006-01-02"

// Layouts accepted for upstream timestamps. The edusphere-service emits
// ISO local date-times, with or without seconds and fractions.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

var plainDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var errWrongType = errors.New("unexpected field type")

// stringField reads an optional string field. A missing or nil value is the
// empty string; a value of any other type fails the whole record, matching
// the upstream contract where a mistyped field invalidates the record.
func stringField(raw models.RawRecord, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w for %q: %T", errWrongType, key, v)
	}
	return s, nil
}

// stringFieldOr reads an optional string field with a default for missing
// or empty values.
func stringFieldOr(raw models.RawRecord, key, def string) (string, error) {
	s, err := stringField(raw, key)
	if err != nil {
		return "", err
	}
	if s == "" {
		return def, nil
	}
	return s, nil
}

func boolField(raw models.RawRecord, key string) (bool, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w for %q: %T", errWrongType, key, v)
	}
	return b, nil
}

// intField reads an optional numeric field. Non-numeric values are treated
// as absent rather than failing the record.
func intField(raw models.RawRecord, key string) (int, bool) {
	switch n := raw[key].(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}

// stringListField reads an optional list-of-strings field, tolerating both
// []string and the []any produced by JSON decoding.
func stringListField(raw models.RawRecord, key string) ([]string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, e := range list {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%w for %q element: %T", errWrongType, key, e)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w for %q: %T", errWrongType, key, v)
	}
}

// toDateString reduces an upstream date value to a plain YYYY-MM-DD string.
// Timestamps keep only their date component; anything unparsable falls back
// to the processing date so every item carries a valid due date.
func toDateString(v any, today time.Time) string {
	fallback := today.Format(dateLayout)
	if v == nil {
		return fallback
	}

	s := fmt.Sprintf("%v", v)
	if strings.Contains(s, "T") {
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format(dateLayout)
			}
		}
		return fallback
	}
	if plainDatePattern.MatchString(s) {
		if t, err := time.Parse(dateLayout, s); err == nil {
			return t.Format(dateLayout)
		}
		return fallback
	}
	return fallback
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// normalizeTask converts a raw task record into a canonical Item. The
// second return value is false when the record cannot be converted.
func (s *ExtensionService) normalizeTask(ctx context.Context, raw models.RawRecord, today time.Time) (models.Item, bool) {
	item := models.Item{Type: models.TypeTask}

	var err error
	if item.ID, err = stringField(raw, "id"); err != nil {
		return models.Item{}, false
	}
	if item.Name, err = stringField(raw, "title"); err != nil {
		return models.Item{}, false
	}
	if item.Description, err = stringField(raw, "description"); err != nil {
		return models.Item{}, false
	}

	item.DueDate = toDateString(raw["dueDate"], today)

	courseID, err := stringField(raw, "courseId")
	if err != nil {
		return models.Item{}, false
	}
	item.Course = s.catalog.CourseName(ctx, courseID)

	status, err := stringFieldOr(raw, "status", "pending")
	if err != nil {
		return models.Item{}, false
	}
	item.Status = status

	dueDate, err := parseDate(item.DueDate)
	if err != nil {
		return models.Item{}, false
	}
	item.Priority = CalculatePriority(dueDate, status, today)

	if category, err := stringField(raw, "category"); err != nil {
		return models.Item{}, false
	} else if category != "" {
		item.Category = &category
	}
	if points, ok := intField(raw, "maxPoints"); ok {
		item.MaxPoints = &points
	}
	if fileURL, err := stringField(raw, "fileUrl"); err != nil {
		return models.Item{}, false
	} else if fileURL != "" {
		item.FileURL = &fileURL
	}
	if fileName, err := stringField(raw, "fileName"); err != nil {
		return models.Item{}, false
	} else if fileName != "" {
		item.FileName = &fileName
	}

	return item, true
}

// normalizeMeeting converts a raw meeting record into a canonical Item.
// The meeting date comes from "datetime", then "scheduledAt", then today.
func (s *ExtensionService) normalizeMeeting(ctx context.Context, raw models.RawRecord, today time.Time) (models.Item, bool) {
	item := models.Item{Type: models.TypeMeeting}

	var err error
	if item.ID, err = stringField(raw, "id"); err != nil {
		return models.Item{}, false
	}
	if item.Name, err = stringField(raw, "title"); err != nil {
		return models.Item{}, false
	}
	if item.Description, err = stringField(raw, "description"); err != nil {
		return models.Item{}, false
	}

	switch {
	case raw["datetime"] != nil:
		item.DueDate = toDateString(raw["datetime"], today)
	case raw["scheduledAt"] != nil:
		item.DueDate = toDateString(raw["scheduledAt"], today)
	default:
		item.DueDate = today.Format(dateLayout)
	}

	courseID, err := stringField(raw, "courseId")
	if err != nil {
		return models.Item{}, false
	}
	item.Course = s.catalog.CourseName(ctx, courseID)

	status, err := stringFieldOr(raw, "status", "pending")
	if err != nil {
		return models.Item{}, false
	}
	item.Status = status

	meetingDate, err := parseDate(item.DueDate)
	if err != nil {
		return models.Item{}, false
	}
	item.Priority = CalculatePriority(meetingDate, status, today)

	category := "meeting"
	item.Category = &category

	if meetingType, err := stringField(raw, "type"); err != nil {
		return models.Item{}, false
	} else if meetingType != "" {
		item.AnnouncementType = &meetingType
	}

	location, err := stringFieldOr(raw, "location", "Online Meeting")
	if err != nil {
		return models.Item{}, false
	}
	item.Location = &location

	isImportant := status == "active"
	item.IsImportant = &isImportant

	// The invitation link doubles as the item's file URL so the extension
	// can offer a join button.
	if link, err := stringField(raw, "invitationLink"); err != nil {
		return models.Item{}, false
	} else if link != "" {
		item.FileURL = &link
	}

	return item, true
}

// normalizeAnnouncement converts a raw announcement record. Announcements
// are the one type whose priority is copied from upstream instead of being
// computed from the due date.
func (s *ExtensionService) normalizeAnnouncement(ctx context.Context, raw models.RawRecord, today time.Time) (models.Item, bool) {
	item := models.Item{Type: models.TypeAnnouncement}

	var err error
	if item.ID, err = stringField(raw, "id"); err != nil {
		return models.Item{}, false
	}
	if item.Name, err = stringField(raw, "title"); err != nil {
		return models.Item{}, false
	}
	if item.Description, err = stringField(raw, "content"); err != nil {
		return models.Item{}, false
	}

	switch {
	case raw["scheduledDate"] != nil:
		item.DueDate = toDateString(raw["scheduledDate"], today)
	case raw["expiryDate"] != nil:
		item.DueDate = toDateString(raw["expiryDate"], today)
	default:
		item.DueDate = today.Format(dateLayout)
	}

	targetCourseID, err := stringField(raw, "targetCourseId")
	if err != nil {
		return models.Item{}, false
	}
	if targetCourseID != "" {
		item.Course = s.catalog.CourseName(ctx, targetCourseID)
	} else {
		item.Course = "General Announcement"
	}

	status, err := stringFieldOr(raw, "status", "pending")
	if err != nil {
		return models.Item{}, false
	}
	item.Status = status

	priority, err := stringFieldOr(raw, "priority", "safe")
	if err != nil {
		return models.Item{}, false
	}
	item.Priority = priority

	category := "announcement"
	item.Category = &category

	if audience, err := stringField(raw, "targetAudienceType"); err != nil {
		return models.Item{}, false
	} else if audience != "" {
		item.AnnouncementType = &audience
	}

	isImportant := priority == "high" || priority == "urgent" || status == "active"
	item.IsImportant = &isImportant

	return item, true
}
