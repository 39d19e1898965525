package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizroom/quizroom-backend/internal/model"
)

// AttemptRepository handles attempt and answer data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// Create inserts a new attempt. The unique index on (quiz_id, taker_id)
// rejects a concurrent duplicate start; callers resolve the 23505 by
// fetching the winner.
func (r *AttemptRepository) Create(ctx context.Context, a *model.Attempt) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO attempts (quiz_id, taker_id, room_id, room_code)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, started_at`,
		a.QuizID, a.TakerID, a.RoomID, a.RoomCode,
	).Scan(&a.ID, &a.StartedAt)
}

// GetByID retrieves an attempt by id.
func (r *AttemptRepository) GetByID(ctx context.Context, id int64) (*model.Attempt, error) {
	a := &model.Attempt{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, quiz_id, taker_id, started_at, finished_at, score, room_id, room_code
		 FROM attempts WHERE id = $1`, id,
	).Scan(&a.ID, &a.QuizID, &a.TakerID, &a.StartedAt, &a.FinishedAt, &a.Score, &a.RoomID, &a.RoomCode)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByQuizAndTaker retrieves the attempt for a (quiz, taker) pair, or
// nil when none exists.
func (r *AttemptRepository) GetByQuizAndTaker(ctx context.Context, quizID, takerID int64) (*model.Attempt, error) {
	a := &model.Attempt{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, quiz_id, taker_id, started_at, finished_at, score, room_id, room_code
		 FROM attempts WHERE quiz_id = $1 AND taker_id = $2`, quizID, takerID,
	).Scan(&a.ID, &a.QuizID, &a.TakerID, &a.StartedAt, &a.FinishedAt, &a.Score, &a.RoomID, &a.RoomCode)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// SubmitWithAnswers finishes an attempt atomically: all prior answers
// are deleted, the new answer rows inserted, and finished_at/score set,
// in one transaction. The finished_at IS NULL guard makes a concurrent
// double submit lose cleanly; the loser's transaction rolls back.
func (r *AttemptRepository) SubmitWithAnswers(ctx context.Context, attempt *model.Attempt, answers []model.Answer, score *float64, finishedAt time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE attempts SET finished_at = $1, score = $2
		 WHERE id = $3 AND finished_at IS NULL`,
		finishedAt, score, attempt.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM answers WHERE attempt_id = $1`, attempt.ID); err != nil {
		return err
	}

	for i := range answers {
		if err := tx.QueryRow(ctx,
			`INSERT INTO answers (attempt_id, question_id, selected_choice_id, text)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			attempt.ID, answers[i].QuestionID, answers[i].SelectedChoiceID, answers[i].Text,
		).Scan(&answers[i].ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	attempt.FinishedAt = &finishedAt
	attempt.Score = score
	return nil
}

// ListAnswerViews retrieves an attempt's answers joined with question
// and selected-choice data, in question order.
func (r *AttemptRepository) ListAnswerViews(ctx context.Context, attemptID int64) ([]model.AnswerView, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ans.id, ans.attempt_id, ans.question_id, ans.selected_choice_id, ans.text,
		        q.text, q.qtype, COALESCE(c.text, ''), c.is_correct
		 FROM answers ans
		 JOIN questions q ON q.id = ans.question_id
		 LEFT JOIN choices c ON c.id = ans.selected_choice_id
		 WHERE ans.attempt_id = $1
		 ORDER BY q.order_num, q.id`, attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []model.AnswerView
	for rows.Next() {
		var v model.AnswerView
		if err := rows.Scan(&v.ID, &v.AttemptID, &v.QuestionID, &v.SelectedChoiceID, &v.Text,
			&v.QuestionText, &v.QuestionType, &v.SelectedChoice, &v.Correct); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// ListAttemptedQuizIDs returns the quiz ids the user has attempts for.
func (r *AttemptRepository) ListAttemptedQuizIDs(ctx context.Context, takerID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT quiz_id FROM attempts WHERE taker_id = $1`, takerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListOverdue retrieves unfinished attempts whose quiz time limit has
// elapsed as of now.
func (r *AttemptRepository) ListOverdue(ctx context.Context, now time.Time) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.quiz_id, a.taker_id, a.started_at, a.finished_at, a.score, a.room_id, a.room_code
		 FROM attempts a
		 JOIN quizzes q ON q.id = a.quiz_id
		 WHERE a.finished_at IS NULL
		   AND q.time_limit_minutes IS NOT NULL
		   AND a.started_at + (q.time_limit_minutes * INTERVAL '1 minute') < $1`, now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		if err := rows.Scan(&a.ID, &a.QuizID, &a.TakerID, &a.StartedAt, &a.FinishedAt, &a.Score, &a.RoomID, &a.RoomCode); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
