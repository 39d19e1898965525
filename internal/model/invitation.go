package model

import "time"

// InvitationStatus enumerates the invitation lifecycle. Pending is the
// only state with outgoing transitions; accepted and declined are terminal.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// Invitation asks a user to join a room with a given role.
// Unique per (room, invited user); re-inviting overwrites in place.
type Invitation struct {
	ID            int64            `json:"id"`
	RoomID        int64            `json:"room_id"`
	InvitedUserID int64            `json:"invited_user_id"`
	InvitedByID   *int64           `json:"invited_by_id,omitempty"`
	Role          Role             `json:"role"`
	Status        InvitationStatus `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	RespondedAt   *time.Time       `json:"responded_at,omitempty"`
}

// InvitationView is an invitation joined with room and inviter names for
// the recipient's invitation list.
type InvitationView struct {
	Invitation
	RoomName  string `json:"room_name"`
	RoomCode  string `json:"room_code"`
	InvitedBy string `json:"invited_by,omitempty"`
}
