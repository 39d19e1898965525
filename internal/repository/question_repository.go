package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizroom/quizroom-backend/internal/model"
)

// QuestionRepository handles question and choice data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// GetByID retrieves a question by id.
func (r *QuestionRepository) GetByID(ctx context.Context, id int64) (*model.Question, error) {
	q := &model.Question{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, quiz_id, text, qtype, order_num
		 FROM questions WHERE id = $1`, id,
	).Scan(&q.ID, &q.QuizID, &q.Text, &q.QType, &q.OrderNum)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// CountByQuiz returns the number of questions in a quiz.
func (r *QuestionRepository) CountByQuiz(ctx context.Context, quizID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions WHERE quiz_id = $1`, quizID).Scan(&n)
	return n, err
}

// ListIDsByQuiz returns the ids of a quiz's questions.
func (r *QuestionRepository) ListIDsByQuiz(ctx context.Context, quizID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM questions WHERE quiz_id = $1`, quizID)
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

// GetWithChoices retrieves a question with its choices attached.
func (r *QuestionRepository) GetWithChoices(ctx context.Context, id int64) (*model.QuestionWithChoices, error) {
	q, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &model.QuestionWithChoices{Question: *q}

	rows, err := r.pool.Query(ctx,
		`SELECT id, question_id, text, is_correct
		 FROM choices WHERE question_id = $1
		 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c model.Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.Text, &c.IsCorrect); err != nil {
			return nil, err
		}
		out.Choices = append(out.Choices, c)
	}
	return out, rows.Err()
}

// ListByQuizWithChoices retrieves a quiz's questions ordered by
// (order_num, id) with their choices attached.
func (r *QuestionRepository) ListByQuizWithChoices(ctx context.Context, quizID int64) ([]model.QuestionWithChoices, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, text, qtype, order_num
		 FROM questions WHERE quiz_id = $1
		 ORDER BY order_num, id`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.QuestionWithChoices
	byID := make(map[int64]int)
	for rows.Next() {
		var q model.QuestionWithChoices
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Text, &q.QType, &q.OrderNum); err != nil {
			return nil, err
		}
		byID[q.ID] = len(questions)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return questions, nil
	}

	crows, err := r.pool.Query(ctx,
		`SELECT c.id, c.question_id, c.text, c.is_correct
		 FROM choices c
		 JOIN questions q ON q.id = c.question_id
		 WHERE q.quiz_id = $1
		 ORDER BY c.id`, quizID)
	if err != nil {
		return nil, err
	}
	defer crows.Close()

	for crows.Next() {
		var c model.Choice
		if err := crows.Scan(&c.ID, &c.QuestionID, &c.Text, &c.IsCorrect); err != nil {
			return nil, err
		}
		if idx, ok := byID[c.QuestionID]; ok {
			questions[idx].Choices = append(questions[idx].Choices, c)
		}
	}
	return questions, crows.Err()
}

// SaveWithChoices persists a question and its choice set in one
// transaction: nothing is written if any part fails, so a rejected
// choice set never leaves an orphaned question behind.
//
// For mcq questions the choice set is reconciled: inputs flagged Delete
// are removed, inputs with an id are updated, the rest are inserted.
// For short questions any existing choices are discarded.
func (r *QuestionRepository) SaveWithChoices(ctx context.Context, q *model.Question, choices []model.ChoiceInput) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if q.ID == 0 {
		err = tx.QueryRow(ctx,
			`INSERT INTO questions (quiz_id, text, qtype, order_num)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			q.QuizID, q.Text, q.QType, q.OrderNum,
		).Scan(&q.ID)
	} else {
		_, err = tx.Exec(ctx,
			`UPDATE questions SET text = $1, qtype = $2, order_num = $3
			 WHERE id = $4`,
			q.Text, q.QType, q.OrderNum, q.ID,
		)
	}
	if err != nil {
		return err
	}

	if q.QType != model.QTypeMCQ {
		if _, err := tx.Exec(ctx,
			`DELETE FROM choices WHERE question_id = $1`, q.ID); err != nil {
			return err
		}
		return tx.Commit(ctx)
	}

	for _, in := range choices {
		switch {
		case in.Delete && in.ID != 0:
			_, err = tx.Exec(ctx,
				`DELETE FROM choices WHERE id = $1 AND question_id = $2`,
				in.ID, q.ID)
		case in.Delete:
			// Deleting a never-persisted choice is a no-op.
		case in.ID != 0:
			_, err = tx.Exec(ctx,
				`UPDATE choices SET text = $1, is_correct = $2
				 WHERE id = $3 AND question_id = $4`,
				in.Text, in.IsCorrect, in.ID, q.ID)
		default:
			_, err = tx.Exec(ctx,
				`INSERT INTO choices (question_id, text, is_correct)
				 VALUES ($1, $2, $3)`,
				q.ID, in.Text, in.IsCorrect)
		}
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Reorder rewrites order_num for the given question ids, 1-indexed in
// input order, in one transaction. Ids not listed keep their old value.
// Callers must have verified every id belongs to the quiz.
func (r *QuestionRepository) Reorder(ctx context.Context, quizID int64, orderedIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for idx, id := range orderedIDs {
		if _, err := tx.Exec(ctx,
			`UPDATE questions SET order_num = $1 WHERE id = $2 AND quiz_id = $3`,
			idx+1, id, quizID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Delete removes a question and its choices (cascade).
func (r *QuestionRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	return err
}
