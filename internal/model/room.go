package model

import "time"

// Room is a classroom-style group that quizzes are assigned into.
// The owner always also holds an owner-role membership row.
type Room struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Membership links a user to a room with a role. Unique per (room, user).
type Membership struct {
	ID       int64     `json:"id"`
	RoomID   int64     `json:"room_id"`
	UserID   int64     `json:"user_id"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// RoomWithRole is a room annotated with the caller's role in it.
type RoomWithRole struct {
	Room
	Role Role `json:"role"`
}

// Member is a membership row joined with the user for room detail views.
type Member struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// RoomDetail is the room page composite: the room, the caller's role
// (nil when not a member), members and quiz assignments.
type RoomDetail struct {
	Room        Room             `json:"room"`
	Role        *Role            `json:"role,omitempty"`
	Members     []Member         `json:"members"`
	Assignments []AssignmentView `json:"assignments"`
}

// CreateRoomRequest is the payload for creating a room.
type CreateRoomRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"max=2000"`
}

// JoinRoomRequest is the payload for joining a room by code.
type JoinRoomRequest struct {
	Code string `json:"code" binding:"required,min=1,max=12"`
}

// InviteRequest is the payload for inviting a user into a room.
// Username matches by username first, then by email.
type InviteRequest struct {
	Username string `json:"username" binding:"required,max=255"`
	Role     string `json:"role" binding:"required,oneof=admin student"`
}

// ChangeRoleRequest is the payload for promoting/demoting a member.
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin student"`
}
