package model

import "time"

const (
	VoteUp   = "upvote"
	VoteDown = "downvote"
)

var FeedbackCategories = []string{"bug", "feature", "improvement", "praise", "question", "other"}

type FeedbackReply struct {
	ID         string    `json:"id" bson:"id"`
	UserID     string    `json:"userId" bson:"userId"`
	UserName   string    `json:"userName" bson:"userName"`
	Message    string    `json:"message" bson:"message"`
	Likes      []string  `json:"likes" bson:"likes"`
	IsSolution bool      `json:"isSolution" bson:"isSolution"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

// Feedback is a community feedback item. A user id appears in at most one
// of Upvotes and Downvotes.
type Feedback struct {
	ID          string          `json:"id" bson:"_id"`
	UserID      string          `json:"userId" bson:"userId"`
	UserName    string          `json:"userName" bson:"userName"`
	UserEmail   string          `json:"userEmail" bson:"userEmail"`
	Title       string          `json:"title" bson:"title"`
	Message     string          `json:"message" bson:"message"`
	Category    string          `json:"category" bson:"category"`
	Priority    string          `json:"priority" bson:"priority"`
	Status      string          `json:"status" bson:"status"`
	Upvotes     []string        `json:"upvotes" bson:"upvotes"`
	Downvotes   []string        `json:"downvotes" bson:"downvotes"`
	Replies     []FeedbackReply `json:"replies" bson:"replies"`
	Tags        []string        `json:"tags" bson:"tags"`
	IsAnonymous bool            `json:"isAnonymous" bson:"isAnonymous"`
	CreatedAt   time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// Score is upvotes minus downvotes
func (f *Feedback) Score() int {
	return len(f.Upvotes) - len(f.Downvotes)
}

// Redacted returns a copy safe to show other users
func (f *Feedback) Redacted() *Feedback {
	if !f.IsAnonymous {
		return f
	}
	cp := *f
	cp.UserName = "Anonymous"
	cp.UserEmail = ""
	return &cp
}

type FeedbackFilter struct {
	UserID    string
	Category  string
	Status    string
	Search    string
	SortField string
	SortDesc  bool
	Page      int
	Limit     int
}

func ValidFeedbackCategory(category string) bool {
	return contains(FeedbackCategories, category)
}
