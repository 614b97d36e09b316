package models

import "time"

// User represents a registered badge holder. Records are created by the
// registration endpoint and treated as read-only by the access-check path.
type User struct {
	ID        string    `bson:"_id,omitempty" json:"id,omitempty"`
	Tag       string    `bson:"tag" json:"tag"` // identifier read from the physical credential
	Name      string    `bson:"name" json:"name"`
	Matric    string    `bson:"matric,omitempty" json:"matric,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
