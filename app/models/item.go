package models

// RawRecord is a loosely typed record as received from the
// edusphere-service. Field types are only trusted after explicit checks.
type RawRecord = map[string]any

// ItemType tags the origin of a dashboard item.
type ItemType string

const (
	TypeTask         ItemType = "task"
	TypeMeeting      ItemType = "meeting"
	TypeAnnouncement ItemType = "announcement"
)

// Priority tiers, ordered urgent < warning < safe.
const (
	PriorityUrgent  = "urgent"
	PriorityWarning = "warning"
	PrioritySafe    = "safe"
)

// Item is the canonical shape every task, meeting and announcement is
// normalized into. DueDate is always a plain YYYY-MM-DD date, never a
// timestamp. Optional type-specific fields are pointers so they are
// absent from the JSON output when they do not apply.
type Item struct {
	ID          string   `json:"id"`
	Type        ItemType `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	DueDate     string   `json:"dueDate"`
	Course      string   `json:"course"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`

	Category         *string `json:"category,omitempty"`
	MaxPoints        *int    `json:"maxPoints,omitempty"`
	FileURL          *string `json:"fileUrl,omitempty"`
	FileName         *string `json:"fileName,omitempty"`
	Location         *string `json:"location,omitempty"`
	IsImportant      *bool   `json:"isImportant,omitempty"`
	AnnouncementType *string `json:"announcementType,omitempty"`
}

// DashboardStats summarizes a final item list.
type DashboardStats struct {
	TotalItems         int     `json:"totalItems"`
	UrgentItems        int     `json:"urgentItems"`
	PendingItems       int     `json:"pendingItems"`
	CompletedItems     int     `json:"completedItems"`
	OverdueItems       int     `json:"overdueItems"`
	TasksCount         int     `json:"tasksCount"`
	MeetingsCount      int     `json:"meetingsCount"`
	AnnouncementsCount int     `json:"announcementsCount"`
	CompletionRate     float64 `json:"completionRate"`
	ThisWeekDue        int     `json:"thisWeekDue"`
	NextWeekDue        int     `json:"nextWeekDue"`
}

// DashboardData is the merged dashboard payload. Dropped counts records
// discarded during normalization; it is logged, not exposed.
type DashboardData struct {
	Items   []Item          `json:"items"`
	Stats   *DashboardStats `json:"stats"`
	Dropped int             `json:"-"`
}
