package domain

import "time"

type TaskStatus string

const (
	StatusToDo       TaskStatus = "To Do"
	StatusInProgress TaskStatus = "In Progress"
	StatusDone       TaskStatus = "Done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// DateFormat is the calendar-date layout recorded in task history.
// History entries carry no time component.
const DateFormat = "2006-01-02"

type HistoryEntry struct {
	Status TaskStatus `json:"status"`
	Date   string     `json:"date"` // ISO calendar date, e.g. 2026-09-01
}

type Task struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      TaskStatus     `json:"status"`
	ScrumID     string         `json:"scrum_id"`
	AssignedTo  string         `json:"assigned_to"`
	History     []HistoryEntry `json:"history"`
	CreatedAt   time.Time      `json:"created_at"`
}
