package main

import (
	"context"
	"fmt"

	"github.com/quizroom/quizroom-backend/internal/config"
	"github.com/quizroom/quizroom-backend/internal/database"
	"github.com/quizroom/quizroom-backend/internal/logger"
	"github.com/quizroom/quizroom-backend/internal/model"
	"github.com/quizroom/quizroom-backend/internal/repository"
	"github.com/quizroom/quizroom-backend/internal/service"
)

// Seeds a demo teacher account with a room and a published quiz so a
// fresh install has something to click on.
func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Services ──────────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)
	membershipRepo := repository.NewMembershipRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)

	authService := service.NewAuthService(cfg, userRepo, rdb)
	roomService := service.NewRoomService(roomRepo, membershipRepo, assignmentRepo, log)
	quizService := service.NewQuizService(quizRepo, questionRepo, membershipRepo, roomRepo, assignmentRepo, attemptRepo, rdb, log)
	questionService := service.NewQuestionService(questionRepo, quizService, log)

	// ─── Seed ──────────────────────────────────────────────────────────
	teacher, err := authService.Register(ctx, &model.RegisterRequest{
		Username: "demo-teacher",
		Email:    "teacher@example.com",
		Password: "demo-password",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Seed user failed (already seeded?)")
	}

	room, err := roomService.Create(ctx, teacher.ID, &model.CreateRoomRequest{
		Name:        "Demo Classroom",
		Description: "A seeded room to explore the platform",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Seed room failed")
	}

	quiz, err := quizService.Create(ctx, teacher.ID, &model.CreateQuizRequest{
		Title:       "Getting Started Quiz",
		Description: "Two sample questions",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Seed quiz failed")
	}

	if _, err := questionService.Add(ctx, quiz.ID, teacher.ID, &model.SaveQuestionRequest{
		Text:  "Which planet is closest to the sun?",
		QType: string(model.QTypeMCQ),
		Choices: []model.ChoiceInput{
			{Text: "Mercury", IsCorrect: true},
			{Text: "Venus"},
			{Text: "Mars"},
		},
	}); err != nil {
		log.Fatal().Err(err).Msg("Seed question failed")
	}

	if _, err := questionService.Add(ctx, quiz.ID, teacher.ID, &model.SaveQuestionRequest{
		Text:  "In your own words, what is gravity?",
		QType: string(model.QTypeShort),
	}); err != nil {
		log.Fatal().Err(err).Msg("Seed question failed")
	}

	if _, err := quizService.TogglePublish(ctx, quiz.ID, teacher.ID); err != nil {
		log.Fatal().Err(err).Msg("Seed publish failed")
	}

	if _, _, err := quizService.Assign(ctx, room.Code, teacher.ID, quiz.ID); err != nil {
		log.Fatal().Err(err).Msg("Seed assignment failed")
	}

	fmt.Printf("Seeded demo data: user 'demo-teacher' / room %s / quiz %d\n", room.Code, quiz.ID)
}
