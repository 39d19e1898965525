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

// QuestionHandler handles question authoring endpoints.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// List godoc
// GET /api/v1/quizzes/:id/questions
// Editor view with correctness flags.
func (h *QuestionHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)

	quizID, ok := paramID(c, "id")
	if !ok {
		return
	}

	questions, err := h.questionService.List(c.Request.Context(), quizID, claims.UserID)
	if err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// Add godoc
// POST /api/v1/quizzes/:id/questions
// Creates a question with its choice set in one transaction.
func (h *QuestionHandler) Add(c *gin.Context) {
	claims := middleware.GetClaims(c)

	quizID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.SaveQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Add(c.Request.Context(), quizID, claims.UserID, &req)
	if err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// Edit godoc
// PUT /api/v1/quizzes/:id/questions/:questionId
func (h *QuestionHandler) Edit(c *gin.Context) {
	claims := middleware.GetClaims(c)

	quizID, ok := paramID(c, "id")
	if !ok {
		return
	}
	questionID, ok := paramID(c, "questionId")
	if !ok {
		return
	}

	var req model.SaveQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Edit(c.Request.Context(), quizID, questionID, claims.UserID, &req)
	if err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// Delete godoc
// DELETE /api/v1/quizzes/:id/questions/:questionId
func (h *QuestionHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)

	quizID, ok := paramID(c, "id")
	if !ok {
		return
	}
	questionID, ok := paramID(c, "questionId")
	if !ok {
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), quizID, questionID, claims.UserID); err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Reorder godoc
// PUT /api/v1/quizzes/:id/questions-order
// Rewrites question order from the submitted id list; omitted ids keep
// their position, ids from other quizzes reject the whole request.
func (h *QuestionHandler) Reorder(c *gin.Context) {
	claims := middleware.GetClaims(c)

	quizID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.ReorderRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.questionService.Reorder(c.Request.Context(), quizID, claims.UserID, req.Order); err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
