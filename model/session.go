package model

import (
	"time"
)

// SessionStatus is the stored state of a reading session. The stored value
// is authoritative only for the terminal marks Completed and Cancelled;
// upcoming/current are derived from the date range at read time so the two
// can never drift apart.
type SessionStatus string

const (
	SessionUpcoming  SessionStatus = "upcoming"
	SessionCurrent   SessionStatus = "current"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// DateLayout is the calendar date format used across the schema.
const DateLayout = "2006-01-02"

type ReadingSession struct {
	ID        int32         `json:"id"`
	ClubID    int32         `json:"club_id"`
	BookID    int32         `json:"book_id"`
	StartDate string        `json:"start_date"`
	EndDate   string        `json:"end_date"`
	Status    SessionStatus `json:"status"`
	Notes     string        `json:"notes"`

	MeetingDate     string `json:"meeting_date"`
	MeetingLocation string `json:"meeting_location"`
	MeetingNotes    string `json:"meeting_notes"`

	CreatedTs int64 `json:"created_ts"`
	UpdatedTs int64 `json:"updated_ts"`
}

// IsCurrent reports whether today falls inside the session's date range.
func (s *ReadingSession) IsCurrent(today time.Time) bool {
	start, err := time.Parse(DateLayout, s.StartDate)
	if err != nil {
		return false
	}
	end, err := time.Parse(DateLayout, s.EndDate)
	if err != nil {
		return false
	}
	day := today.Truncate(24 * time.Hour)
	return !day.Before(start) && !day.After(end)
}

// EffectiveStatus derives the session state for the given day. Terminal
// stored marks win; everything else follows the calendar.
func (s *ReadingSession) EffectiveStatus(today time.Time) SessionStatus {
	if s.Status == SessionCompleted || s.Status == SessionCancelled {
		return s.Status
	}
	start, err := time.Parse(DateLayout, s.StartDate)
	if err != nil {
		return s.Status
	}
	day := today.Truncate(24 * time.Hour)
	if day.Before(start) {
		return SessionUpcoming
	}
	end, err := time.Parse(DateLayout, s.EndDate)
	if err != nil {
		return s.Status
	}
	if day.After(end) {
		return SessionCompleted
	}
	return SessionCurrent
}

// ProgressPercentage is 100 for completed sessions, 0 for upcoming ones,
// otherwise the elapsed share of the date range clamped to [0,100]. A
// zero-length range reads as 0 rather than dividing by zero.
func (s *ReadingSession) ProgressPercentage(today time.Time) float64 {
	switch s.EffectiveStatus(today) {
	case SessionCompleted:
		return 100
	case SessionUpcoming, SessionCancelled:
		return 0
	}

	start, err1 := time.Parse(DateLayout, s.StartDate)
	end, err2 := time.Parse(DateLayout, s.EndDate)
	if err1 != nil || err2 != nil {
		return 0
	}

	totalDays := end.Sub(start).Hours() / 24
	if totalDays <= 0 {
		return 0
	}
	elapsedDays := today.Truncate(24 * time.Hour).Sub(start).Hours() / 24
	pct := elapsedDays / totalDays * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

type FindReadingSession struct {
	ID     *int32
	ClubID *int32
	BookID *int32
	Status *SessionStatus

	// CurrentOn restricts to sessions whose date range contains the given day.
	CurrentOn *string

	Limit *int
}

type SessionCreateRequest struct {
	BookID          int32  `json:"book_id"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Notes           string `json:"notes"`
	MeetingDate     string `json:"meeting_date"`
	MeetingLocation string `json:"meeting_location"`
	MeetingNotes    string `json:"meeting_notes"`
}

type SessionUpdateRequest struct {
	Status          *SessionStatus `json:"status"`
	EndDate         *string        `json:"end_date"`
	Notes           *string        `json:"notes"`
	MeetingDate     *string        `json:"meeting_date"`
	MeetingLocation *string        `json:"meeting_location"`
	MeetingNotes    *string        `json:"meeting_notes"`
}
