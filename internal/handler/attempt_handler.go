package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizroom/quizroom-backend/internal/middleware"
	"github.com/quizroom/quizroom-backend/internal/model"
	"github.com/quizroom/quizroom-backend/internal/response"
	"github.com/quizroom/quizroom-backend/internal/service"
	"github.com/quizroom/quizroom-backend/internal/validator"
)

// AttemptHandler handles the quiz-taking endpoints.
type AttemptHandler struct {
	attemptService *service.AttemptService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attemptService *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

// Start godoc
// POST /api/v1/quizzes/:id/attempts
// Starts (or resumes) the caller's attempt. ?room=<code> records the
// room the taker came from.
func (h *AttemptHandler) Start(c *gin.Context) {
	claims := middleware.GetClaims(c)

	quizID, ok := paramID(c, "id")
	if !ok {
		return
	}

	attempt, err := h.attemptService.Start(c.Request.Context(), quizID, claims.UserID, c.Query("room"))
	if err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": attempt})
}

// Paper godoc
// GET /api/v1/attempts/:id
// Returns the in-progress paper; finished attempts answer 409 so the
// client redirects to the result.
func (h *AttemptHandler) Paper(c *gin.Context) {
	claims := middleware.GetClaims(c)

	attemptID, ok := paramID(c, "id")
	if !ok {
		return
	}

	paper, err := h.attemptService.Paper(c.Request.Context(), attemptID, claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrAttemptFinished) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, paper)
}

// Submit godoc
// POST /api/v1/attempts/:id/submit
// Grades and finishes the attempt; resubmitting is a no-op.
func (h *AttemptHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)

	attemptID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.SubmitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	attempt, err := h.attemptService.Submit(c.Request.Context(), attemptID, claims.UserID, &req)
	if err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": attempt})
}

// Result godoc
// GET /api/v1/attempts/:id/result
// Finished attempt with graded answers.
func (h *AttemptHandler) Result(c *gin.Context) {
	claims := middleware.GetClaims(c)

	attemptID, ok := paramID(c, "id")
	if !ok {
		return
	}

	result, err := h.attemptService.Result(c.Request.Context(), attemptID, claims.UserID)
	if err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
