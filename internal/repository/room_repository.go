package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizroom/quizroom-backend/internal/model"
)

// RoomRepository handles room data access.
type RoomRepository struct {
	pool *pgxpool.Pool
}

// NewRoomRepository creates a new RoomRepository.
func NewRoomRepository(pool *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

// CreateWithOwner inserts a room and its owner membership in one
// transaction, so a room can never exist without its owner member row.
// A unique violation on the room code propagates for the caller to retry.
func (r *RoomRepository) CreateWithOwner(ctx context.Context, room *model.Room) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO rooms (code, name, description, owner_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		room.Code, room.Name, room.Description, room.OwnerID,
	).Scan(&room.ID, &room.CreatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO room_memberships (room_id, user_id, role)
		 VALUES ($1, $2, $3)`,
		room.ID, room.OwnerID, model.RoleOwner,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByCode retrieves a room by its join code.
func (r *RoomRepository) GetByCode(ctx context.Context, code string) (*model.Room, error) {
	room := &model.Room{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name, description, owner_id, created_at
		 FROM rooms WHERE code = $1`, code,
	).Scan(&room.ID, &room.Code, &room.Name, &room.Description, &room.OwnerID, &room.CreatedAt)
	if err != nil {
		return nil, err
	}
	return room, nil
}

// GetByID retrieves a room by id.
func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*model.Room, error) {
	room := &model.Room{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name, description, owner_id, created_at
		 FROM rooms WHERE id = $1`, id,
	).Scan(&room.ID, &room.Code, &room.Name, &room.Description, &room.OwnerID, &room.CreatedAt)
	if err != nil {
		return nil, err
	}
	return room, nil
}

// Delete removes a room. Memberships, invitations and assignments go
// with it via ON DELETE CASCADE.
func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	return err
}

// ListForUser retrieves the rooms a user belongs to, with their role.
func (r *RoomRepository) ListForUser(ctx context.Context, userID int64) ([]model.RoomWithRole, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.code, r.name, r.description, r.owner_id, r.created_at, m.role
		 FROM rooms r
		 JOIN room_memberships m ON m.room_id = r.id
		 WHERE m.user_id = $1
		 ORDER BY r.created_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RoomWithRole
	for rows.Next() {
		var rr model.RoomWithRole
		if err := rows.Scan(&rr.ID, &rr.Code, &rr.Name, &rr.Description, &rr.OwnerID, &rr.CreatedAt, &rr.Role); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}
