package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound        = errors.New("task not found")
	ErrTitleTaken      = errors.New("task title already taken")
	ErrProjectNotFound = errors.New("task project not found")
)

type Status string

const (
	StatusTodo  Status = "TODO"
	StatusDoing Status = "DOING"
	StatusDone  Status = "DONE"
)

// Statuses lists every status in weight order.
var Statuses = []Status{StatusTodo, StatusDoing, StatusDone}

var statusWeights = map[Status]int{
	StatusTodo:  1,
	StatusDoing: 2,
	StatusDone:  3,
}

// Weight is the display ordinal of the status. It does not restrict transitions:
// any status may follow any other.
func (s Status) Weight() int { return statusWeights[s] }

func (s Status) Valid() bool {
	_, ok := statusWeights[s]
	return ok
}

func (s *Status) UnmarshalText(b []byte) error {
	parsed, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("invalid status %q: must be one of TODO, DOING, DONE", v)
	}
	return s, nil
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

var priorityWeights = map[Priority]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
}

func (p Priority) Weight() int { return priorityWeights[p] }

func (p Priority) Valid() bool {
	_, ok := priorityWeights[p]
	return ok
}

func (p *Priority) UnmarshalText(b []byte) error {
	parsed, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func ParsePriority(v string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(v)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q: must be one of LOW, MEDIUM, HIGH", v)
	}
	return p, nil
}

type Task struct {
	ID        int64     `json:"idTask"`
	Title     string    `json:"title"`
	Status    Status    `json:"status"`
	Priority  Priority  `json:"priority"`
	ProjectID int64     `json:"idProject"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New builds an unsaved task. Empty status and priority fall back to TODO and LOW.
func New(title string, status Status, priority Priority, projectID int64) Task {
	if status == "" {
		status = StatusTodo
	}
	if priority == "" {
		priority = PriorityLow
	}
	now := time.Now().UTC()
	return Task{
		Title:     title,
		Status:    status,
		Priority:  priority,
		ProjectID: projectID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ListFilters is a disjunctive filter: a task matches when ANY non-nil field matches.
// A filter with no fields set matches nothing.
type ListFilters struct {
	Status    *Status
	Priority  *Priority
	ProjectID *int64
}

func (f ListFilters) IsEmpty() bool {
	return f.Status == nil && f.Priority == nil && f.ProjectID == nil
}

func (f ListFilters) Matches(t Task) bool {
	if f.Status != nil && t.Status == *f.Status {
		return true
	}
	if f.Priority != nil && t.Priority == *f.Priority {
		return true
	}
	if f.ProjectID != nil && t.ProjectID == *f.ProjectID {
		return true
	}
	return false
}
