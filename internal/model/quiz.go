package model

import "time"

// Quiz is the authoring aggregate root. Visibility to room students is
// gated on IsPublished; owners/admins of an assigned room see it always.
type Quiz struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	CreatorID        int64     `json:"creator_id"`
	IsPublished      bool      `json:"is_published"`
	TimeLimitMinutes *int      `json:"time_limit_minutes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Assignment links a quiz into a room. Unique per (room, quiz).
type Assignment struct {
	ID           int64     `json:"id"`
	RoomID       int64     `json:"room_id"`
	QuizID       int64     `json:"quiz_id"`
	AssignedByID *int64    `json:"assigned_by_id,omitempty"`
	AssignedAt   time.Time `json:"assigned_at"`
}

// AssignmentView is an assignment joined with its quiz for room detail.
type AssignmentView struct {
	Assignment
	QuizTitle     string `json:"quiz_title"`
	QuizPublished bool   `json:"quiz_published"`
}

// RoomQuizzes is the per-role quiz listing inside a room. Candidates is
// populated for owners/admins only: their own quizzes not yet assigned.
type RoomQuizzes struct {
	Role       Role   `json:"role"`
	Assigned   []Quiz `json:"assigned"`
	Candidates []Quiz `json:"candidates,omitempty"`
}

// CreateQuizRequest is the payload for creating a quiz.
type CreateQuizRequest struct {
	Title            string `json:"title" binding:"required,min=1,max=255"`
	Description      string `json:"description" binding:"max=4000"`
	TimeLimitMinutes *int   `json:"time_limit_minutes" binding:"omitempty,min=1,max=480"`
}

// UpdateQuizRequest is the payload for updating quiz fields.
type UpdateQuizRequest struct {
	Title            string `json:"title" binding:"required,min=1,max=255"`
	Description      string `json:"description" binding:"max=4000"`
	TimeLimitMinutes *int   `json:"time_limit_minutes" binding:"omitempty,min=1,max=480"`
}

// AssignQuizRequest is the payload for assigning a quiz to a room.
type AssignQuizRequest struct {
	QuizID int64 `json:"quiz_id" binding:"required,min=1"`
}
