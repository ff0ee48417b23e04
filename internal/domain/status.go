package domain

import "time"

// StatusCheck is a health-check record written by clients. Records are never
// updated or deleted.
type StatusCheck struct {
	ID         string    `json:"id" bson:"id"`
	ClientName string    `json:"client_name" bson:"client_name"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}

type StatusCheckCreate struct {
	ClientName *string `json:"client_name"`
}
