package domain

import (
	"strings"
	"time"
)

// Mentor is a mentor profile.
type Mentor struct {
	ID              string              `json:"id"`
	UserID          string              `json:"user_id,omitempty"`
	Name            string              `json:"name"`
	Bio             string              `json:"bio"`
	Subjects        []string            `json:"subjects"`
	Expertise       []string            `json:"expertise"`
	ExperienceYears int                 `json:"experience_years"`
	Rating          float64             `json:"rating"`
	TotalSessions   int                 `json:"total_sessions"`
	HourlyRate      float64             `json:"hourly_rate"`
	Availability    map[string][]string `json:"availability,omitempty"`
	Achievements    []string            `json:"achievements,omitempty"`
	Education       []string            `json:"education,omitempty"`
	Languages       []string            `json:"languages,omitempty"`
	Location        string              `json:"location,omitempty"`
}

// Teaches reports whether the mentor covers subject (case-insensitive).
func (m *Mentor) Teaches(subject string) bool {
	for _, s := range m.Subjects {
		if strings.EqualFold(s, subject) {
			return true
		}
	}
	return false
}

// Availability lists bookable slots per day for a mentor.
type Availability struct {
	MentorID     string              `json:"mentor_id"`
	Availability map[string][]string `json:"availability"`
	HourlyRate   float64             `json:"hourly_rate"`
}

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is a scheduled mentor session.
type Booking struct {
	ID              string        `json:"id"`
	MentorID        string        `json:"mentor_id"`
	ScheduledAt     time.Time     `json:"scheduled_at"`
	DurationMinutes int           `json:"duration_minutes"`
	Status          BookingStatus `json:"status"`
	MeetingLink     string        `json:"meeting_link,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// NewBooking is the request body for booking a session.
type NewBooking struct {
	MentorID        string    `json:"mentor_id"`
	AssessmentID    string    `json:"assessment_id,omitempty"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
}
