package model

import "time"

type Answer struct {
	ID         string    `json:"id" bson:"id"`
	UserID     string    `json:"userId" bson:"userId"`
	UserName   string    `json:"userName" bson:"userName"`
	Body       string    `json:"body" bson:"body"`
	Upvotes    []string  `json:"upvotes" bson:"upvotes"`
	IsAccepted bool      `json:"isAccepted" bson:"isAccepted"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

// Question is a community Q&A thread
type Question struct {
	ID         string    `json:"id" bson:"_id"`
	UserID     string    `json:"userId" bson:"userId"`
	UserName   string    `json:"userName" bson:"userName"`
	Title      string    `json:"title" bson:"title"`
	Body       string    `json:"body" bson:"body"`
	Tags       []string  `json:"tags" bson:"tags"`
	Views      int       `json:"views" bson:"views"`
	Answers    []Answer  `json:"answers" bson:"answers"`
	IsResolved bool      `json:"isResolved" bson:"isResolved"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

type QuestionFilter struct {
	Search   string
	Tag      string
	Resolved *bool
	Page     int
	Limit    int
}
