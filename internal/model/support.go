package model

import "time"

const (
	StatusOpen       = "open"
	StatusInProgress = "in-progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"

	AnonymousUserID = "anonymous"
)

var (
	TrackerStatuses  = []string{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}
	Priorities       = []string{"low", "medium", "high", "critical"}
	TicketCategories = []string{"technical", "billing", "feature-request", "bug", "other"}
)

type TicketComment struct {
	UserID    string    `json:"userId" bson:"userId"`
	UserName  string    `json:"userName" bson:"userName"`
	Message   string    `json:"message" bson:"message"`
	IsStaff   bool      `json:"isStaff" bson:"isStaff"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// SupportTicket is a customer support request
type SupportTicket struct {
	ID              string          `json:"id" bson:"_id"`
	TicketNumber    string          `json:"ticketNumber" bson:"ticketNumber"`
	UserID          string          `json:"userId" bson:"userId"`
	Name            string          `json:"name" bson:"name"`
	Email           string          `json:"email" bson:"email"`
	Subject         string          `json:"subject" bson:"subject"`
	Description     string          `json:"description" bson:"description"`
	Category        string          `json:"category" bson:"category"`
	Priority        string          `json:"priority" bson:"priority"`
	Status          string          `json:"status" bson:"status"`
	RobotIP         string          `json:"robotIP,omitempty" bson:"robotIP,omitempty"`
	Comments        []TicketComment `json:"comments" bson:"comments"`
	ResolutionNotes string          `json:"resolutionNotes,omitempty" bson:"resolutionNotes,omitempty"`
	ResolvedAt      *time.Time      `json:"resolvedAt,omitempty" bson:"resolvedAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updatedAt"`
}

type TicketFilter struct {
	UserID   string
	Status   string
	Priority string
	Category string
	Search   string
	Page     int
	Limit    int
}

func ValidTrackerStatus(status string) bool {
	return contains(TrackerStatuses, status)
}

func ValidPriority(priority string) bool {
	return contains(Priorities, priority)
}

func ValidTicketCategory(category string) bool {
	return contains(TicketCategories, category)
}
