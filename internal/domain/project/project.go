package project

import (
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("project not found")
	ErrNameTaken = errors.New("project name already taken")
)

type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   Date      `json:"startDate"`
	EndDate     Date      `json:"endDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

// New builds an unsaved project. ID is left zero for the store to assign.
func New(name, description string, start, end Date) Project {
	return Project{
		Name:        name,
		Description: description,
		StartDate:   start,
		EndDate:     end,
		CreatedAt:   time.Now().UTC(),
	}
}
