package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/quizroom/quizroom-backend/internal/model"
	"github.com/quizroom/quizroom-backend/internal/repository"
	"github.com/rs/zerolog"
)

// QuestionService handles question/choice authoring inside a quiz.
// All operations run under the quiz's authoring access rules.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
	quizService  *QuizService
	log          zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(
	questionRepo *repository.QuestionRepository,
	quizService *QuizService,
	log zerolog.Logger,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		quizService:  quizService,
		log:          log.With().Str("component", "question_service").Logger(),
	}
}

// ValidateChoiceSet checks the choice set a question would end up with
// after applying the inputs. Blank and deletion-marked entries do not
// count. Multiple-choice questions need at least two surviving choices
// with exactly one marked correct; short-answer questions carry no
// choices and always pass.
func ValidateChoiceSet(qtype model.QType, choices []model.ChoiceInput) error {
	if qtype != model.QTypeMCQ {
		return nil
	}

	total := 0
	correct := 0
	for _, c := range choices {
		if c.Delete || strings.TrimSpace(c.Text) == "" {
			continue
		}
		total++
		if c.IsCorrect {
			correct++
		}
	}

	if total < 2 {
		return ErrTooFewChoices
	}
	if correct != 1 {
		return ErrNotExactlyOneChoice
	}
	return nil
}

// normalizeChoices prepares the choice inputs for persistence so that
// storage holds exactly the set ValidateChoiceSet counted. Entries
// whose text trims to empty never survive: never-saved ones are
// dropped, already-saved ones become deletions. Kept text is trimmed.
func normalizeChoices(choices []model.ChoiceInput) []model.ChoiceInput {
	out := make([]model.ChoiceInput, 0, len(choices))
	for _, c := range choices {
		text := strings.TrimSpace(c.Text)
		switch {
		case c.Delete:
			out = append(out, c)
		case text == "" && c.ID == 0:
			continue
		case text == "":
			c.Delete = true
			out = append(out, c)
		default:
			c.Text = text
			out = append(out, c)
		}
	}
	return out
}

// Add creates a question with its choices in one transaction. The
// choice set is validated before anything touches the database, so a
// rejected payload leaves no orphan question behind. A zero OrderNum
// places the question at the end.
func (s *QuestionService) Add(ctx context.Context, quizID, userID int64, req *model.SaveQuestionRequest) (*model.QuestionWithChoices, error) {
	if _, err := s.quizService.GetForAuthoring(ctx, quizID, userID); err != nil {
		return nil, err
	}

	qtype := model.QType(req.QType)
	if err := ValidateChoiceSet(qtype, req.Choices); err != nil {
		return nil, err
	}

	orderNum := req.OrderNum
	if orderNum == 0 {
		count, err := s.questionRepo.CountByQuiz(ctx, quizID)
		if err != nil {
			return nil, err
		}
		orderNum = count + 1
	}

	q := &model.Question{
		QuizID:   quizID,
		Text:     req.Text,
		QType:    qtype,
		OrderNum: orderNum,
	}
	if err := s.questionRepo.SaveWithChoices(ctx, q, normalizeChoices(req.Choices)); err != nil {
		return nil, err
	}

	s.quizService.invalidatePayload(ctx, quizID)
	return s.questionRepo.GetWithChoices(ctx, q.ID)
}

// Edit updates a question and reconciles its choices in one
// transaction: inputs with an id update or delete existing choices,
// inputs without an id insert new ones. Changing an mcq question to
// short drops all of its choices.
func (s *QuestionService) Edit(ctx context.Context, quizID, questionID, userID int64, req *model.SaveQuestionRequest) (*model.QuestionWithChoices, error) {
	if _, err := s.quizService.GetForAuthoring(ctx, quizID, userID); err != nil {
		return nil, err
	}

	existing, err := s.questionRepo.GetByID(ctx, questionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if existing.QuizID != quizID {
		return nil, ErrNotFound
	}

	qtype := model.QType(req.QType)
	if err := ValidateChoiceSet(qtype, req.Choices); err != nil {
		return nil, err
	}

	existing.Text = req.Text
	existing.QType = qtype
	if req.OrderNum > 0 {
		existing.OrderNum = req.OrderNum
	}

	if err := s.questionRepo.SaveWithChoices(ctx, existing, normalizeChoices(req.Choices)); err != nil {
		return nil, err
	}

	s.quizService.invalidatePayload(ctx, quizID)
	return s.questionRepo.GetWithChoices(ctx, existing.ID)
}

// Delete removes a question and (via cascade) its choices and answers.
func (s *QuestionService) Delete(ctx context.Context, quizID, questionID, userID int64) error {
	if _, err := s.quizService.GetForAuthoring(ctx, quizID, userID); err != nil {
		return err
	}

	q, err := s.questionRepo.GetByID(ctx, questionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if q.QuizID != quizID {
		return ErrNotFound
	}

	if err := s.questionRepo.Delete(ctx, questionID); err != nil {
		return err
	}
	s.quizService.invalidatePayload(ctx, quizID)
	return nil
}

// Reorder rewrites question order from the submitted id sequence. The
// sequence may be a subset of the quiz's questions: ids left out keep
// their old order value. Any id belonging to another quiz, or listed
// twice, rejects the whole request and nothing is written.
func (s *QuestionService) Reorder(ctx context.Context, quizID, userID int64, orderedIDs []int64) error {
	if _, err := s.quizService.GetForAuthoring(ctx, quizID, userID); err != nil {
		return err
	}

	ownIDs, err := s.questionRepo.ListIDsByQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	own := make(map[int64]bool, len(ownIDs))
	for _, id := range ownIDs {
		own[id] = true
	}

	seen := make(map[int64]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !own[id] || seen[id] {
			return ErrForeignQuestionIDs
		}
		seen[id] = true
	}

	if err := s.questionRepo.Reorder(ctx, quizID, orderedIDs); err != nil {
		return err
	}
	s.quizService.invalidatePayload(ctx, quizID)
	return nil
}

// List returns a quiz's questions with choices in display order, under
// authoring access. Correctness flags are included; this is the editor
// view, not the taker view.
func (s *QuestionService) List(ctx context.Context, quizID, userID int64) ([]model.QuestionWithChoices, error) {
	if _, err := s.quizService.GetForAuthoring(ctx, quizID, userID); err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.ListByQuizWithChoices(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []model.QuestionWithChoices{}
	}
	return questions, nil
}
