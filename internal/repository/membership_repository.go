package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizroom/quizroom-backend/internal/model"
)

// MembershipRepository handles room membership data access.
type MembershipRepository struct {
	pool *pgxpool.Pool
}

// NewMembershipRepository creates a new MembershipRepository.
func NewMembershipRepository(pool *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{pool: pool}
}

// RoleOf returns the user's role in the room, or found=false when the
// user is not a member.
func (r *MembershipRepository) RoleOf(ctx context.Context, roomID, userID int64) (model.Role, bool, error) {
	var role model.Role
	err := r.pool.QueryRow(ctx,
		`SELECT role FROM room_memberships WHERE room_id = $1 AND user_id = $2`,
		roomID, userID,
	).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return role, true, nil
}

// Create inserts a membership. A unique violation on (room, user)
// propagates as a pgconn error for the caller to map to Conflict.
func (r *MembershipRepository) Create(ctx context.Context, m *model.Membership) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO room_memberships (room_id, user_id, role)
		 VALUES ($1, $2, $3)
		 RETURNING id, joined_at`,
		m.RoomID, m.UserID, m.Role,
	).Scan(&m.ID, &m.JoinedAt)
}

// Delete removes a membership and reports whether a row existed.
func (r *MembershipRepository) Delete(ctx context.Context, roomID, userID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM room_memberships WHERE room_id = $1 AND user_id = $2`,
		roomID, userID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateRole changes a member's role.
func (r *MembershipRepository) UpdateRole(ctx context.Context, roomID, userID int64, role model.Role) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE room_memberships SET role = $1 WHERE room_id = $2 AND user_id = $3`,
		role, roomID, userID,
	)
	return err
}

// ListByRoom retrieves all members of a room joined with usernames.
func (r *MembershipRepository) ListByRoom(ctx context.Context, roomID int64) ([]model.Member, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT m.user_id, u.username, m.role, m.joined_at
		 FROM room_memberships m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.room_id = $1
		 ORDER BY m.joined_at`, roomID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.UserID, &m.Username, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
