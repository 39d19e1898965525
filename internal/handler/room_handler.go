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

// RoomHandler handles room and membership endpoints.
type RoomHandler struct {
	roomService *service.RoomService
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// Create godoc
// POST /api/v1/rooms
// Creates a room; the caller becomes its owner-role member.
func (h *RoomHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateRoomRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	room, err := h.roomService.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"room": room})
}

// List godoc
// GET /api/v1/rooms
// Lists the caller's rooms with their role in each.
func (h *RoomHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)

	rooms, err := h.roomService.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}

// Detail godoc
// GET /api/v1/rooms/:code
// Returns the room with members, assignments and the caller's role.
func (h *RoomHandler) Detail(c *gin.Context) {
	claims := middleware.GetClaims(c)

	detail, err := h.roomService.Detail(c.Request.Context(), c.Param("code"), claims.UserID)
	if err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// Delete godoc
// DELETE /api/v1/rooms/:code
// Deletes a room. Owner only.
func (h *RoomHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)

	if err := h.roomService.Delete(c.Request.Context(), c.Param("code"), claims.UserID); err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Join godoc
// POST /api/v1/rooms/join
// Joins the caller into a room by code as a student. Already being a
// member is a no-op success.
func (h *RoomHandler) Join(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.JoinRoomRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	room, already, err := h.roomService.JoinByCode(c.Request.Context(), req.Code, claims.UserID)
	if err != nil {
		failDomainError(c, err)
		return
	}

	status := http.StatusCreated
	if already {
		status = http.StatusOK
	}
	response.Success(c, status, gin.H{"room": room})
}

// RemoveMember godoc
// DELETE /api/v1/rooms/:code/members/:userId
// Removes a member under the role rules; the owner is never removable.
func (h *RoomHandler) RemoveMember(c *gin.Context) {
	claims := middleware.GetClaims(c)

	targetID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	if err := h.roomService.RemoveMember(c.Request.Context(), c.Param("code"), claims.UserID, targetID); err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ChangeRole godoc
// PUT /api/v1/rooms/:code/members/:userId/role
// Promotes/demotes a member between admin and student. Owner only.
func (h *RoomHandler) ChangeRole(c *gin.Context) {
	claims := middleware.GetClaims(c)

	targetID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	var req model.ChangeRoleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	newRole, ok := model.ParseRole(req.Role)
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	if err := h.roomService.ChangeRole(c.Request.Context(), c.Param("code"), claims.UserID, targetID, newRole); err != nil {
		failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
