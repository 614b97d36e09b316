package models

import "time"

// AccessStatus is the outcome of an access check.
type AccessStatus string

const (
	AccessGranted AccessStatus = "granted"
	AccessDenied  AccessStatus = "denied"
)

// AccessLog is an append-only record of a single scan. Name and Matric are
// denormalized from the resolved User at decision time so the record stays
// valid even if the User is later edited or deleted. Timestamps are always
// stored in UTC so stored records sort without per-record zone handling.
type AccessLog struct {
	ID        string       `bson:"_id,omitempty" json:"id,omitempty"`
	Tag       string       `bson:"tag" json:"tag"`
	Name      string       `bson:"name" json:"name"`
	Matric    string       `bson:"matric,omitempty" json:"matric,omitempty"`
	Status    AccessStatus `bson:"status" json:"status"`
	Timestamp time.Time    `bson:"timestamp" json:"timestamp"`
}

// Granted reports whether the scan resolved to a known user.
func (l *AccessLog) Granted() bool {
	return l.Status == AccessGranted
}
