package util

import (
	"fmt"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerateOrderNumber returns ORD + YYMMDD + a 4-digit random suffix.
// Collisions are possible and are not retried.
func GenerateOrderNumber(now time.Time) string {
	return datedNumber("ORD", now)
}

// GenerateTicketNumber returns TKT + YYMMDD + a 4-digit random suffix
func GenerateTicketNumber(now time.Time) string {
	return datedNumber("TKT", now)
}

func datedNumber(prefix string, now time.Time) string {
	return fmt.Sprintf("%s%s%04d", prefix, now.Format("060102"), rand.Intn(10000))
}

// NewID returns a new 24-char hex identifier shared by every storage backend
func NewID() string {
	return primitive.NewObjectID().Hex()
}
