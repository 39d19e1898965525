package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/quizroom/quizroom-backend/internal/config"
	"github.com/quizroom/quizroom-backend/internal/model"
	"github.com/quizroom/quizroom-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// QuizService handles quiz lifecycle, room assignment and visibility,
// plus the Redis cache of taker-facing payloads for published quizzes.
type QuizService struct {
	quizRepo       *repository.QuizRepository
	questionRepo   *repository.QuestionRepository
	membershipRepo *repository.MembershipRepository
	roomRepo       *repository.RoomRepository
	assignmentRepo *repository.AssignmentRepository
	attemptRepo    *repository.AttemptRepository
	rdb            *redis.Client
	log            zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(
	quizRepo *repository.QuizRepository,
	questionRepo *repository.QuestionRepository,
	membershipRepo *repository.MembershipRepository,
	roomRepo *repository.RoomRepository,
	assignmentRepo *repository.AssignmentRepository,
	attemptRepo *repository.AttemptRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *QuizService {
	return &QuizService{
		quizRepo:       quizRepo,
		questionRepo:   questionRepo,
		membershipRepo: membershipRepo,
		roomRepo:       roomRepo,
		assignmentRepo: assignmentRepo,
		attemptRepo:    attemptRepo,
		rdb:            rdb,
		log:            log.With().Str("component", "quiz_service").Logger(),
	}
}

// Create makes a new unpublished quiz owned by the creator.
func (s *QuizService) Create(ctx context.Context, creatorID int64, req *model.CreateQuizRequest) (*model.Quiz, error) {
	quiz := &model.Quiz{
		Title:            req.Title,
		Description:      req.Description,
		CreatorID:        creatorID,
		TimeLimitMinutes: req.TimeLimitMinutes,
	}
	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// GetForAuthoring loads a quiz for its creator or for an owner/admin of
// a room it is assigned to. Anyone else gets NotFound — existence is
// not leaked to unauthorized actors.
func (s *QuizService) GetForAuthoring(ctx context.Context, quizID, userID int64) (*model.Quiz, error) {
	quiz, err := s.getQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeAuthoring(ctx, quiz, userID); err != nil {
		return nil, err
	}
	return quiz, nil
}

// Update persists quiz field edits under authoring access.
func (s *QuizService) Update(ctx context.Context, quizID, userID int64, req *model.UpdateQuizRequest) (*model.Quiz, error) {
	quiz, err := s.GetForAuthoring(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}

	quiz.Title = req.Title
	quiz.Description = req.Description
	quiz.TimeLimitMinutes = req.TimeLimitMinutes
	if err := s.quizRepo.Update(ctx, quiz); err != nil {
		return nil, err
	}

	s.invalidatePayload(ctx, quiz.ID)
	return quiz, nil
}

// Delete removes a quiz. Creator only; an authorized-but-not-creator
// actor gets NotFound like everyone else.
func (s *QuizService) Delete(ctx context.Context, quizID, userID int64) error {
	quiz, err := s.getQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	if quiz.CreatorID != userID {
		return ErrNotFound
	}
	if err := s.quizRepo.Delete(ctx, quizID); err != nil {
		return err
	}
	s.invalidatePayload(ctx, quizID)
	return nil
}

// TogglePublish flips the publish flag under authoring access. On
// publish the taker payload is warmed into Redis; on unpublish it is
// evicted.
func (s *QuizService) TogglePublish(ctx context.Context, quizID, userID int64) (*model.Quiz, error) {
	quiz, err := s.GetForAuthoring(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}

	quiz.IsPublished = !quiz.IsPublished
	if err := s.quizRepo.SetPublished(ctx, quizID, quiz.IsPublished); err != nil {
		return nil, err
	}

	if quiz.IsPublished {
		if err := s.warmPayload(ctx, quiz.ID); err != nil {
			s.log.Warn().Err(err).Int64("quiz_id", quiz.ID).Msg("Payload warm failed")
		}
	} else {
		s.invalidatePayload(ctx, quiz.ID)
	}

	s.log.Info().Int64("quiz_id", quiz.ID).Bool("published", quiz.IsPublished).Msg("Publish toggled")
	return quiz, nil
}

// ListMine returns the quizzes the user created, newest first.
func (s *QuizService) ListMine(ctx context.Context, userID int64) ([]model.Quiz, error) {
	quizzes, err := s.quizRepo.ListByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}
	if quizzes == nil {
		quizzes = []model.Quiz{}
	}
	return quizzes, nil
}

// Lobby returns every published quiz plus the ids of quizzes the user
// has already attempted.
func (s *QuizService) Lobby(ctx context.Context, userID int64) ([]model.Quiz, []int64, error) {
	quizzes, err := s.quizRepo.ListPublished(ctx)
	if err != nil {
		return nil, nil, err
	}
	attempted, err := s.attemptRepo.ListAttemptedQuizIDs(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if quizzes == nil {
		quizzes = []model.Quiz{}
	}
	if attempted == nil {
		attempted = []int64{}
	}
	return quizzes, attempted, nil
}

// Assign attaches a quiz to a room. Owner/admin only. Assigning an
// already-assigned quiz is a no-op success.
func (s *QuizService) Assign(ctx context.Context, roomCode string, actorID, quizID int64) (*model.Assignment, bool, error) {
	room, err := s.roomRepo.GetByCode(ctx, roomCode)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, ErrNotFound
	}
	if err != nil {
		return nil, false, err
	}

	role, isMember, err := s.membershipRepo.RoleOf(ctx, room.ID, actorID)
	if err != nil {
		return nil, false, err
	}
	if !isMember || !model.RolesManageMembers.Contains(role) {
		return nil, false, ErrForbidden
	}

	if _, err := s.getQuiz(ctx, quizID); err != nil {
		return nil, false, err
	}

	assignment := &model.Assignment{RoomID: room.ID, QuizID: quizID, AssignedByID: &actorID}
	created, err := s.assignmentRepo.Upsert(ctx, assignment)
	if err != nil {
		return nil, false, err
	}
	return assignment, created, nil
}

// VisibleForRoom lists the quizzes a member can see inside a room.
// Owners/admins see every assignment regardless of publish state, plus
// their own unassigned quizzes as assignment candidates. Students see
// published assignments only. Non-members are refused.
func (s *QuizService) VisibleForRoom(ctx context.Context, roomCode string, userID int64) (*model.RoomQuizzes, error) {
	room, err := s.roomRepo.GetByCode(ctx, roomCode)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	role, isMember, err := s.membershipRepo.RoleOf(ctx, room.ID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrForbidden
	}

	out := &model.RoomQuizzes{Role: role}
	manager := model.RolesManageMembers.Contains(role)

	if out.Assigned, err = s.quizRepo.ListAssignedToRoom(ctx, room.ID, !manager); err != nil {
		return nil, err
	}
	if out.Assigned == nil {
		out.Assigned = []model.Quiz{}
	}

	if manager {
		if out.Candidates, err = s.quizRepo.ListUnassignedByCreator(ctx, userID, room.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// TakePayload returns the taker-facing questions of a published quiz,
// reading through the Redis cache.
func (s *QuizService) TakePayload(ctx context.Context, quizID int64) ([]model.PaperQuestion, error) {
	key := config.CacheKey.QuizPayloadKey(quizID)

	cached, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var payload []model.PaperQuestion
		if err := json.Unmarshal(cached, &payload); err == nil {
			return payload, nil
		}
		// Corrupt cache entry: fall through to the database.
		s.rdb.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Int64("quiz_id", quizID).Msg("Payload cache read failed")
	}

	payload, err := s.buildPayload(ctx, quizID)
	if err != nil {
		return nil, err
	}
	s.cachePayload(ctx, quizID, payload)
	return payload, nil
}

func (s *QuizService) getQuiz(ctx context.Context, quizID int64) (*model.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

// authorizeAuthoring grants the creator and owners/admins of rooms the
// quiz is assigned to; everyone else gets NotFound.
func (s *QuizService) authorizeAuthoring(ctx context.Context, quiz *model.Quiz, userID int64) error {
	if quiz.CreatorID == userID {
		return nil
	}
	manager, err := s.quizRepo.IsRoomManagerOfAssigned(ctx, quiz.ID, userID)
	if err != nil {
		return err
	}
	if !manager {
		return ErrNotFound
	}
	return nil
}

func (s *QuizService) buildPayload(ctx context.Context, quizID int64) ([]model.PaperQuestion, error) {
	questions, err := s.questionRepo.ListByQuizWithChoices(ctx, quizID)
	if err != nil {
		return nil, err
	}

	payload := make([]model.PaperQuestion, len(questions))
	for i, q := range questions {
		pq := model.PaperQuestion{
			ID:       q.ID,
			Text:     q.Text,
			QType:    q.QType,
			OrderNum: q.OrderNum,
		}
		if q.QType == model.QTypeMCQ {
			pq.Choices = make([]model.PaperChoice, len(q.Choices))
			for j, c := range q.Choices {
				pq.Choices[j] = model.PaperChoice{ID: c.ID, Text: c.Text}
			}
		}
		payload[i] = pq
	}
	return payload, nil
}

func (s *QuizService) warmPayload(ctx context.Context, quizID int64) error {
	payload, err := s.buildPayload(ctx, quizID)
	if err != nil {
		return err
	}
	s.cachePayload(ctx, quizID, payload)
	return nil
}

func (s *QuizService) cachePayload(ctx context.Context, quizID int64, payload []model.PaperQuestion) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.QuizPayloadKey(quizID), raw, 0).Err(); err != nil {
		s.log.Warn().Err(err).Int64("quiz_id", quizID).Msg("Payload cache write failed")
	}
}

// invalidatePayload evicts the cached taker payload. Called on any
// write that could change what takers see.
func (s *QuizService) invalidatePayload(ctx context.Context, quizID int64) {
	if err := s.rdb.Del(ctx, config.CacheKey.QuizPayloadKey(quizID)).Err(); err != nil {
		s.log.Warn().Err(err).Int64("quiz_id", quizID).Msg("Payload cache eviction failed")
	}
}
