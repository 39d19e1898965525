package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizroom/quizroom-backend/internal/middleware"
	"github.com/quizroom/quizroom-backend/internal/model"
	"github.com/quizroom/quizroom-backend/internal/response"
	"github.com/quizroom/quizroom-backend/internal/service"
	"github.com/quizroom/quizroom-backend/internal/validator"
)

// QuizHandler handles quiz authoring, assignment and lobby endpoints.
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// Create godoc
// POST /api/v1/quizzes
func (h *QuizHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"quiz": quiz})
}

// ListMine godoc
// GET /api/v1/quizzes
// Lists the quizzes the caller created.
func (h *QuizHandler) ListMine(c *gin.Context) {
	claims := middleware.GetClaims(c)

	quizzes, err := h.quizService.ListMine(c.Request.Context(), claims.UserID)
	if err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quizzes": quizzes})
}

// Lobby godoc
// GET /api/v1/quizzes/lobby
// Lists every published quiz with the ids the caller already attempted.
func (h *QuizHandler) Lobby(c *gin.Context) {
	claims := middleware.GetClaims(c)

	quizzes, attempted, err := h.quizService.Lobby(c.Request.Context(), claims.UserID)
	if err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"quizzes":   quizzes,
		"attempted": attempted,
	})
}

// Get godoc
// GET /api/v1/quizzes/:id
// Authoring view; creator or owner/admin of an assigned room.
func (h *QuizHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)

	quizID, ok := paramID(c, "id")
	if !ok {
		return
	}

	quiz, err := h.quizService.GetForAuthoring(c.Request.Context(), quizID, claims.UserID)
	if err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// Update godoc
// PUT /api/v1/quizzes/:id
func (h *QuizHandler) Update(c *gin.Context) {
	claims := middleware.GetClaims(c)

	quizID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Update(c.Request.Context(), quizID, claims.UserID, &req)
	if err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// Delete godoc
// DELETE /api/v1/quizzes/:id
// Creator only.
func (h *QuizHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)

	quizID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.quizService.Delete(c.Request.Context(), quizID, claims.UserID); err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// TogglePublish godoc
// POST /api/v1/quizzes/:id/publish
// Flips the publish flag.
func (h *QuizHandler) TogglePublish(c *gin.Context) {
	claims := middleware.GetClaims(c)

	quizID, ok := paramID(c, "id")
	if !ok {
		return
	}

	quiz, err := h.quizService.TogglePublish(c.Request.Context(), quizID, claims.UserID)
	if err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// Assign godoc
// POST /api/v1/rooms/:code/quizzes
// Assigns a quiz to the room. Owner/admin; idempotent.
func (h *QuizHandler) Assign(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.AssignQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	assignment, created, err := h.quizService.Assign(c.Request.Context(), c.Param("code"), claims.UserID, req.QuizID)
	if err != nil {
		failDomainError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.Success(c, status, gin.H{"assignment": assignment})
}

// RoomQuizzes godoc
// GET /api/v1/rooms/:code/quizzes
// Role-dependent quiz listing inside a room.
func (h *QuizHandler) RoomQuizzes(c *gin.Context) {
	claims := middleware.GetClaims(c)

	out, err := h.quizService.VisibleForRoom(c.Request.Context(), c.Param("code"), claims.UserID)
	if err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, out)
}
