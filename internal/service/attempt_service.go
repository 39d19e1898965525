package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/quizroom/quizroom-backend/internal/model"
	"github.com/quizroom/quizroom-backend/internal/repository"
	"github.com/rs/zerolog"
)

// AttemptService runs the taking flow: start, paper, submit, result.
type AttemptService struct {
	attemptRepo  *repository.AttemptRepository
	quizRepo     *repository.QuizRepository
	questionRepo *repository.QuestionRepository
	roomRepo     *repository.RoomRepository
	quizService  *QuizService
	log          zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	attemptRepo *repository.AttemptRepository,
	quizRepo *repository.QuizRepository,
	questionRepo *repository.QuestionRepository,
	roomRepo *repository.RoomRepository,
	quizService *QuizService,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		attemptRepo:  attemptRepo,
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		roomRepo:     roomRepo,
		quizService:  quizService,
		log:          log.With().Str("component", "attempt_service").Logger(),
	}
}

// Start begins (or resumes) the user's attempt on a published quiz. An
// unpublished quiz reads as NotFound, indistinguishable from a quiz
// that does not exist. If an attempt already exists it is returned
// as-is, finished or not; the unique index on (quiz, taker) makes
// concurrent starts converge on a single row. roomCode optionally
// records where the taker came from.
func (s *AttemptService) Start(ctx context.Context, quizID, takerID int64, roomCode string) (*model.Attempt, error) {
	quiz, err := s.getQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.IsPublished {
		return nil, ErrNotFound
	}

	existing, err := s.attemptRepo.GetByQuizAndTaker(ctx, quizID, takerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	attempt := &model.Attempt{QuizID: quizID, TakerID: takerID}
	if roomCode != "" {
		room, err := s.roomRepo.GetByCode(ctx, roomCode)
		if err == nil {
			attempt.RoomID = &room.ID
			attempt.RoomCode = &room.Code
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		// Lost the start race: the winner's row is the attempt.
		if isUniqueViolation(err) {
			return s.attemptRepo.GetByQuizAndTaker(ctx, quizID, takerID)
		}
		return nil, err
	}

	s.log.Info().Int64("quiz_id", quizID).Int64("taker_id", takerID).Msg("Attempt started")
	return attempt, nil
}

// Paper returns the in-progress attempt with its taker-facing question
// payload. Only the taker sees their attempt; a finished attempt
// signals ErrAttemptFinished so callers redirect to the result.
func (s *AttemptService) Paper(ctx context.Context, attemptID, userID int64) (*model.AttemptPaper, error) {
	attempt, err := s.getOwnAttempt(ctx, attemptID, userID)
	if err != nil {
		return nil, err
	}
	if attempt.Finished() {
		return nil, ErrAttemptFinished
	}

	quiz, err := s.getQuiz(ctx, attempt.QuizID)
	if err != nil {
		return nil, err
	}
	questions, err := s.quizService.TakePayload(ctx, attempt.QuizID)
	if err != nil {
		return nil, err
	}

	return &model.AttemptPaper{Attempt: *attempt, Quiz: *quiz, Questions: questions}, nil
}

// Submit grades and finishes the attempt. Submitting an already
// finished attempt is a no-op returning the stored attempt, so a
// double-click or a race with the deadline sweeper never regrades.
func (s *AttemptService) Submit(ctx context.Context, attemptID, userID int64, req *model.SubmitRequest) (*model.Attempt, error) {
	attempt, err := s.getOwnAttempt(ctx, attemptID, userID)
	if err != nil {
		return nil, err
	}
	if attempt.Finished() {
		return attempt, nil
	}
	return s.finish(ctx, attempt, req.Answers)
}

// Result returns the finished attempt with its graded answers. The
// taker only; an unfinished attempt reads as NotFound since there is no
// result yet.
func (s *AttemptService) Result(ctx context.Context, attemptID, userID int64) (*model.AttemptResult, error) {
	attempt, err := s.getOwnAttempt(ctx, attemptID, userID)
	if err != nil {
		return nil, err
	}
	if !attempt.Finished() {
		return nil, ErrNotFound
	}

	quiz, err := s.getQuiz(ctx, attempt.QuizID)
	if err != nil {
		return nil, err
	}
	answers, err := s.attemptRepo.ListAnswerViews(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if answers == nil {
		answers = []model.AnswerView{}
	}

	return &model.AttemptResult{Attempt: *attempt, Quiz: *quiz, Answers: answers}, nil
}

// ExpireOverdue force-submits every unfinished attempt whose quiz time
// limit has elapsed, grading whatever answers were never sent as blank.
// Returns the number of attempts closed.
func (s *AttemptService) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	overdue, err := s.attemptRepo.ListOverdue(ctx, now)
	if err != nil {
		return 0, err
	}

	closed := 0
	for i := range overdue {
		if _, err := s.finish(ctx, &overdue[i], nil); err != nil {
			s.log.Error().Err(err).Int64("attempt_id", overdue[i].ID).Msg("Deadline close failed")
			continue
		}
		closed++
	}
	return closed, nil
}

// finish grades the raw answer map and writes the result atomically. A
// concurrent submit that wins the finished_at guard turns the loser
// into a reload of the winner's row.
func (s *AttemptService) finish(ctx context.Context, attempt *model.Attempt, raw map[string]string) (*model.Attempt, error) {
	questions, err := s.questionRepo.ListByQuizWithChoices(ctx, attempt.QuizID)
	if err != nil {
		return nil, err
	}

	answers, score := scoreSubmission(questions, raw)
	for i := range answers {
		answers[i].AttemptID = attempt.ID
	}

	if err := s.attemptRepo.SubmitWithAnswers(ctx, attempt, answers, score, time.Now()); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.attemptRepo.GetByID(ctx, attempt.ID)
		}
		return nil, err
	}

	ev := s.log.Info().Int64("attempt_id", attempt.ID).Int64("quiz_id", attempt.QuizID)
	if score != nil {
		ev = ev.Float64("score", *score)
	}
	ev.Msg("Attempt finished")
	return attempt, nil
}

// scoreSubmission turns the raw "question_<id>" answer map into answer
// rows and an overall score. Every question yields a row even when
// unanswered. The score is the percentage of mcq questions answered
// with their correct choice; a quiz with no mcq questions has no score.
//
// Malformed mcq values (not an integer, or an id outside the question's
// choice set) count as unanswered rather than failing the submission.
// Short-answer text is recorded trimmed.
func scoreSubmission(questions []model.QuestionWithChoices, raw map[string]string) ([]model.Answer, *float64) {
	answers := make([]model.Answer, 0, len(questions))
	mcqCount := 0
	correct := 0

	for _, q := range questions {
		ans := model.Answer{QuestionID: q.ID}
		value := raw[fmt.Sprintf("question_%d", q.ID)]

		switch q.QType {
		case model.QTypeMCQ:
			mcqCount++
			if choiceID, err := strconv.ParseInt(value, 10, 64); err == nil {
				for _, c := range q.Choices {
					if c.ID == choiceID {
						id := c.ID
						ans.SelectedChoiceID = &id
						if c.IsCorrect {
							correct++
						}
						break
					}
				}
			}
		default:
			ans.Text = strings.TrimSpace(value)
		}
		answers = append(answers, ans)
	}

	if mcqCount == 0 {
		return answers, nil
	}
	score := 100 * float64(correct) / float64(mcqCount)
	return answers, &score
}

func (s *AttemptService) getQuiz(ctx context.Context, quizID int64) (*model.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

// getOwnAttempt loads an attempt and hides other users' attempts behind
// NotFound.
func (s *AttemptService) getOwnAttempt(ctx context.Context, attemptID, userID int64) (*model.Attempt, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if attempt.TakerID != userID {
		return nil, ErrNotFound
	}
	return attempt, nil
}
