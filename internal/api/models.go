package api

import (
	"time"

	"github.com/studytask/studytask-api/internal/domain"
)

// RegisterAccountRequest is the body for POST /api/users/me.
type RegisterAccountRequest struct {
	FullName string `json:"full_name" validate:"required,max=80"`
}

// AccountResponse represents the account data returned to the client.
// The subject identifier stays server-side.
type AccountResponse struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskCreateRequest is the body for POST /api/tasks.
type TaskCreateRequest struct {
	Title       string     `json:"title"       validate:"required,max=120"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	Deadline    *time.Time `json:"deadline"`
}

// TaskUpdateRequest is the body for PUT /api/tasks/{id}. The full record is
// replaced, so the same bounds apply as on create.
type TaskUpdateRequest struct {
	Title       string     `json:"title"       validate:"required,max=120"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	Completed   bool       `json:"completed"`
	Deadline    *time.Time `json:"deadline"`
}

// TaskResponse represents the task data returned to the client.
type TaskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// accountToResponse converts a domain.Account to an AccountResponse
func accountToResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID,
		FullName:  account.DisplayName,
		CreatedAt: account.CreatedAt,
	}
}

// taskToResponse converts a domain.Task to a TaskResponse
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Deadline:    task.Deadline,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
