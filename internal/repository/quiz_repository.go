package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizroom/quizroom-backend/internal/model"
)

// QuizRepository handles quiz data access.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

// Create inserts a new quiz as unpublished.
func (r *QuizRepository) Create(ctx context.Context, q *model.Quiz) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO quizzes (title, description, creator_id, is_published, time_limit_minutes)
		 VALUES ($1, $2, $3, FALSE, $4)
		 RETURNING id, is_published, created_at`,
		q.Title, q.Description, q.CreatorID, q.TimeLimitMinutes,
	).Scan(&q.ID, &q.IsPublished, &q.CreatedAt)
}

// GetByID retrieves a quiz by id.
func (r *QuizRepository) GetByID(ctx context.Context, id int64) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, description, creator_id, is_published, time_limit_minutes, created_at
		 FROM quizzes WHERE id = $1`, id,
	).Scan(&q.ID, &q.Title, &q.Description, &q.CreatorID, &q.IsPublished, &q.TimeLimitMinutes, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// Update persists editable quiz fields.
func (r *QuizRepository) Update(ctx context.Context, q *model.Quiz) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE quizzes SET title = $1, description = $2, time_limit_minutes = $3
		 WHERE id = $4`,
		q.Title, q.Description, q.TimeLimitMinutes, q.ID,
	)
	return err
}

// SetPublished flips the publish flag.
func (r *QuizRepository) SetPublished(ctx context.Context, id int64, published bool) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE quizzes SET is_published = $1 WHERE id = $2`, published, id)
	return err
}

// Delete removes a quiz; questions, choices, assignments and attempts
// cascade.
func (r *QuizRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	return err
}

// ListByCreator retrieves a creator's quizzes, newest first.
func (r *QuizRepository) ListByCreator(ctx context.Context, creatorID int64) ([]model.Quiz, error) {
	return r.list(ctx,
		`SELECT id, title, description, creator_id, is_published, time_limit_minutes, created_at
		 FROM quizzes WHERE creator_id = $1
		 ORDER BY created_at DESC`, creatorID)
}

// ListPublished retrieves every published quiz, newest first (taker lobby).
func (r *QuizRepository) ListPublished(ctx context.Context) ([]model.Quiz, error) {
	return r.list(ctx,
		`SELECT id, title, description, creator_id, is_published, time_limit_minutes, created_at
		 FROM quizzes WHERE is_published
		 ORDER BY created_at DESC`)
}

// ListAssignedToRoom retrieves the quizzes assigned to a room. With
// publishedOnly set, unpublished quizzes are filtered out (student view).
func (r *QuizRepository) ListAssignedToRoom(ctx context.Context, roomID int64, publishedOnly bool) ([]model.Quiz, error) {
	query := `SELECT q.id, q.title, q.description, q.creator_id, q.is_published, q.time_limit_minutes, q.created_at
	          FROM quizzes q
	          JOIN room_quiz_assignments a ON a.quiz_id = q.id
	          WHERE a.room_id = $1`
	if publishedOnly {
		query += ` AND q.is_published`
	}
	query += ` ORDER BY a.assigned_at DESC`
	return r.list(ctx, query, roomID)
}

// ListUnassignedByCreator retrieves a creator's quizzes not yet assigned
// to the given room — the owner/admin's assignment candidates.
func (r *QuizRepository) ListUnassignedByCreator(ctx context.Context, creatorID, roomID int64) ([]model.Quiz, error) {
	return r.list(ctx,
		`SELECT q.id, q.title, q.description, q.creator_id, q.is_published, q.time_limit_minutes, q.created_at
		 FROM quizzes q
		 WHERE q.creator_id = $1
		   AND NOT EXISTS (
		       SELECT 1 FROM room_quiz_assignments a
		       WHERE a.quiz_id = q.id AND a.room_id = $2)
		 ORDER BY q.created_at DESC`, creatorID, roomID)
}

// IsRoomManagerOfAssigned reports whether the user is owner or admin of
// any room the quiz is assigned to.
func (r *QuizRepository) IsRoomManagerOfAssigned(ctx context.Context, quizID, userID int64) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		     SELECT 1
		     FROM room_quiz_assignments a
		     JOIN room_memberships m ON m.room_id = a.room_id
		     WHERE a.quiz_id = $1 AND m.user_id = $2 AND m.role IN ('owner', 'admin'))`,
		quizID, userID,
	).Scan(&ok)
	return ok, err
}

func (r *QuizRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.Quiz, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		var q model.Quiz
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.CreatorID, &q.IsPublished, &q.TimeLimitMinutes, &q.CreatedAt); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}
