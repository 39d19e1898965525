package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizroom/quizroom-backend/internal/model"
)

// InvitationRepository handles room invitation data access.
type InvitationRepository struct {
	pool *pgxpool.Pool
}

// NewInvitationRepository creates a new InvitationRepository.
func NewInvitationRepository(pool *pgxpool.Pool) *InvitationRepository {
	return &InvitationRepository{pool: pool}
}

// Upsert creates the invitation, or overwrites role/inviter/status and
// re-arms it to pending when a row for (room, invited user) already
// exists in any status. The unique key makes this a single statement, so
// concurrent duplicate invites collapse onto one row.
func (r *InvitationRepository) Upsert(ctx context.Context, inv *model.Invitation) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO room_invitations (room_id, invited_user_id, invited_by_id, role, status)
		 VALUES ($1, $2, $3, $4, 'pending')
		 ON CONFLICT (room_id, invited_user_id) DO UPDATE
		 SET role = EXCLUDED.role,
		     invited_by_id = EXCLUDED.invited_by_id,
		     status = 'pending',
		     created_at = NOW(),
		     responded_at = NULL
		 RETURNING id, status, created_at`,
		inv.RoomID, inv.InvitedUserID, inv.InvitedByID, inv.Role,
	).Scan(&inv.ID, &inv.Status, &inv.CreatedAt)
}

// GetByID retrieves an invitation by id.
func (r *InvitationRepository) GetByID(ctx context.Context, id int64) (*model.Invitation, error) {
	inv := &model.Invitation{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, room_id, invited_user_id, invited_by_id, role, status, created_at, responded_at
		 FROM room_invitations WHERE id = $1`, id,
	).Scan(&inv.ID, &inv.RoomID, &inv.InvitedUserID, &inv.InvitedByID,
		&inv.Role, &inv.Status, &inv.CreatedAt, &inv.RespondedAt)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Accept creates the membership carried by the invitation and marks it
// accepted, in one transaction. A membership unique violation (the user
// joined by another path meanwhile) propagates for mapping to Conflict,
// leaving the invitation pending.
func (r *InvitationRepository) Accept(ctx context.Context, inv *model.Invitation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO room_memberships (room_id, user_id, role)
		 VALUES ($1, $2, $3)`,
		inv.RoomID, inv.InvitedUserID, inv.Role,
	)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx,
		`UPDATE room_invitations
		 SET status = 'accepted', responded_at = NOW()
		 WHERE id = $1 AND status = 'pending'
		 RETURNING responded_at`, inv.ID,
	).Scan(&inv.RespondedAt)
	if err != nil {
		return err
	}
	inv.Status = model.InvitationAccepted

	return tx.Commit(ctx)
}

// Decline marks a pending invitation declined. Reports whether the row
// was still pending.
func (r *InvitationRepository) Decline(ctx context.Context, inv *model.Invitation) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE room_invitations
		 SET status = 'declined', responded_at = NOW()
		 WHERE id = $1 AND status = 'pending'`, inv.ID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListForUser retrieves a user's invitations, newest first, joined with
// room and inviter names.
func (r *InvitationRepository) ListForUser(ctx context.Context, userID int64) ([]model.InvitationView, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT i.id, i.room_id, i.invited_user_id, i.invited_by_id, i.role,
		        i.status, i.created_at, i.responded_at,
		        r.name, r.code, COALESCE(u.username, '')
		 FROM room_invitations i
		 JOIN rooms r ON r.id = i.room_id
		 LEFT JOIN users u ON u.id = i.invited_by_id
		 WHERE i.invited_user_id = $1
		 ORDER BY i.created_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invs []model.InvitationView
	for rows.Next() {
		var v model.InvitationView
		if err := rows.Scan(&v.ID, &v.RoomID, &v.InvitedUserID, &v.InvitedByID, &v.Role,
			&v.Status, &v.CreatedAt, &v.RespondedAt,
			&v.RoomName, &v.RoomCode, &v.InvitedBy); err != nil {
			return nil, err
		}
		invs = append(invs, v)
	}
	return invs, rows.Err()
}
