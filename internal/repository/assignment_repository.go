package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizroom/quizroom-backend/internal/model"
)

// AssignmentRepository handles room-quiz assignment data access.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// Upsert assigns a quiz to a room if not already assigned. Returns
// created=false when the pair already existed (idempotent success); in
// that case the existing row is loaded into a.
func (r *AssignmentRepository) Upsert(ctx context.Context, a *model.Assignment) (bool, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO room_quiz_assignments (room_id, quiz_id, assigned_by_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (room_id, quiz_id) DO NOTHING
		 RETURNING id, assigned_at`,
		a.RoomID, a.QuizID, a.AssignedByID,
	).Scan(&a.ID, &a.AssignedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		err = r.pool.QueryRow(ctx,
			`SELECT id, assigned_by_id, assigned_at
			 FROM room_quiz_assignments WHERE room_id = $1 AND quiz_id = $2`,
			a.RoomID, a.QuizID,
		).Scan(&a.ID, &a.AssignedByID, &a.AssignedAt)
		return false, err
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByRoom retrieves a room's assignments joined with quiz data.
func (r *AssignmentRepository) ListByRoom(ctx context.Context, roomID int64) ([]model.AssignmentView, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.room_id, a.quiz_id, a.assigned_by_id, a.assigned_at,
		        q.title, q.is_published
		 FROM room_quiz_assignments a
		 JOIN quizzes q ON q.id = a.quiz_id
		 WHERE a.room_id = $1
		 ORDER BY a.assigned_at DESC`, roomID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []model.AssignmentView
	for rows.Next() {
		var v model.AssignmentView
		if err := rows.Scan(&v.ID, &v.RoomID, &v.QuizID, &v.AssignedByID, &v.AssignedAt,
			&v.QuizTitle, &v.QuizPublished); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}
