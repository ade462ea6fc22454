package models

import "time"

// Priority is the urgency label attached to a homework task. The known labels
// form a closed set; any other string is kept verbatim.
type Priority string

const (
	PriorityCritical    Priority = "Critical"
	PriorityThisWeek    Priority = "This Week"
	PriorityLongTerm    Priority = "Long-term"
	PriorityExtraCredit Priority = "Extra Credit"
	PriorityFunProject  Priority = "Fun Project"
)

// KnownPriorities lists the recognised labels in the order they are offered
// to the user.
var KnownPriorities = []Priority{
	PriorityCritical,
	PriorityThisWeek,
	PriorityLongTerm,
	PriorityExtraCredit,
	PriorityFunProject,
}

// IsKnown reports whether p is one of the recognised labels.
func (p Priority) IsKnown() bool {
	switch p {
	case PriorityCritical, PriorityThisWeek, PriorityLongTerm, PriorityExtraCredit, PriorityFunProject:
		return true
	default:
		return false
	}
}

// LoggedAtLayout is the time layout used for Task.LoggedAt.
const LoggedAtLayout = "2006-01-02 15:04:05"

// DueDateLayout is the format hint shown for Task.DueDate. It is not enforced.
const DueDateLayout = "YYYY-MM-DD"

// Task is a single homework entry. Tasks are written once and never mutated.
type Task struct {
	Subject     string   `yaml:"subject" json:"subject"`
	Description string   `yaml:"description" json:"description"`
	DueDate     string   `yaml:"due_date" json:"due_date"`
	Priority    Priority `yaml:"priority" json:"priority"`
	LoggedAt    string   `yaml:"logged_at" json:"logged_at"`
}

// Fields returns the task's values in storage order.
func (t Task) Fields() []string {
	return []string{t.Subject, t.Description, t.DueDate, string(t.Priority), t.LoggedAt}
}

// NewTask builds a Task stamped with loggedAt. No field is validated.
func NewTask(subject, description, dueDate string, priority Priority, loggedAt time.Time) Task {
	return Task{
		Subject:     subject,
		Description: description,
		DueDate:     dueDate,
		Priority:    priority,
		LoggedAt:    loggedAt.Format(LoggedAtLayout),
	}
}
