// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Urgency is the ordered priority level carried by an event.
type Urgency int

// Urgency levels, ordered from least to most pressing.
const (
	UrgencyLow Urgency = iota
	UrgencyMedium
	UrgencyHigh
	UrgencyCritical
)

// ParseUrgency maps a label to an Urgency. Unknown labels map to Low so a
// malformed catalog entry never breaks scoring.
func ParseUrgency(s string) Urgency {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "medium":
		return UrgencyMedium
	case "high":
		return UrgencyHigh
	case "critical":
		return UrgencyCritical
	default:
		return UrgencyLow
	}
}

// String returns the canonical label for the urgency level.
func (u Urgency) String() string {
	switch u {
	case UrgencyMedium:
		return "medium"
	case UrgencyHigh:
		return "high"
	case UrgencyCritical:
		return "critical"
	default:
		return "low"
	}
}

// MarshalText implements encoding.TextMarshaler so urgency serializes as its
// label in JSON payloads.
func (u Urgency) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *Urgency) UnmarshalText(b []byte) error {
	*u = ParseUrgency(string(b))
	return nil
}

// Volunteer is a read-only snapshot from the volunteer directory.
// Skills and Availability are deduplicated sets represented as slices.
type Volunteer struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Skills       []string `json:"skills"`
	Location     string   `json:"location"`
	Availability []string `json:"availability"`
}

// Event is a read-only snapshot from the event catalog.
// RequiredSkills may be empty; Date must be a valid timestamp.
type Event struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	RequiredSkills []string  `json:"requiredSkills"`
	Location       string    `json:"location"`
	Date           time.Time `json:"date"`
	Urgency        Urgency   `json:"urgency"`
}

// Assignment records that a volunteer was assigned to an event.
// At most one assignment exists per (VolunteerID, EventID) pair.
type Assignment struct {
	ID          string    `json:"id"`
	VolunteerID string    `json:"volunteerId"`
	EventID     string    `json:"eventId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NoticeType classifies a notice for display purposes.
type NoticeType string

// Notice types understood by clients.
const (
	NoticeInfo    NoticeType = "info"
	NoticeSuccess NoticeType = "success"
	NoticeWarn    NoticeType = "warn"
	NoticeError   NoticeType = "error"
)

// NormalizeNoticeType maps missing or unrecognized labels to info.
func NormalizeNoticeType(s string) NoticeType {
	switch NoticeType(strings.ToLower(strings.TrimSpace(s))) {
	case NoticeSuccess:
		return NoticeSuccess
	case NoticeWarn:
		return NoticeWarn
	case NoticeError:
		return NoticeError
	default:
		return NoticeInfo
	}
}

// Notice is a notification record addressed to a single volunteer.
// CreatedAt is monotonically increasing per volunteer within a store and is
// the ordering key for backlog replay.
type Notice struct {
	ID          string     `json:"id"`
	VolunteerID string     `json:"volunteerId"`
	Title       string     `json:"title"`
	Body        string     `json:"body,omitempty"`
	Type        NoticeType `json:"type"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ChannelPrefix prefixes every per-volunteer bus routing key.
const ChannelPrefix = "notice:"

// NoticeChannel returns the bus routing key for a volunteer's notices.
func NoticeChannel(volunteerID string) string {
	return ChannelPrefix + volunteerID
}
