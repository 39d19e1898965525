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

// InvitationHandler handles invitation endpoints.
type InvitationHandler struct {
	invitationService *service.InvitationService
}

// NewInvitationHandler creates a new InvitationHandler.
func NewInvitationHandler(invitationService *service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService}
}

// Invite godoc
// POST /api/v1/rooms/:code/invitations
// Invites a user into the room. Owners invite admins or students;
// admins invite students only. Re-inviting re-arms a declined row.
func (h *InvitationHandler) Invite(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.InviteRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	inv, err := h.invitationService.Invite(c.Request.Context(), c.Param("code"), claims.UserID, &req)
	if err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"invitation": inv})
}

// Respond godoc
// POST /api/v1/invitations/:id/accept
// POST /api/v1/invitations/:id/decline
// Recipient's response; responding again after the invitation left
// pending is a no-op.
func (h *InvitationHandler) Respond(action service.InvitationAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.GetClaims(c)

		invID, ok := paramID(c, "id")
		if !ok {
			return
		}

		inv, err := h.invitationService.Respond(c.Request.Context(), invID, claims.UserID, action)
		if err != nil {
			failDomainError(c, err)
			return
		}

		response.Success(c, http.StatusOK, gin.H{"invitation": inv})
	}
}

// ListMine godoc
// GET /api/v1/invitations
// Lists the caller's invitations, newest first.
func (h *InvitationHandler) ListMine(c *gin.Context) {
	claims := middleware.GetClaims(c)

	invs, err := h.invitationService.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"invitations": invs})
}
