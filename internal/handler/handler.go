package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/quizroom/quizroom-backend/internal/response"
	"github.com/quizroom/quizroom-backend/internal/service"
)

// failDomainError maps service-layer errors onto the response envelope.
// Unmatched errors surface as 500 Internal.
func failDomainError(c *gin.Context, err error) {
	var ve *service.ValidationError
	var pgErr *pgconn.PgError

	switch {
	case errors.As(err, &ve):
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, ve.Error())
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrAlreadyMember):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyMember)
	case errors.Is(err, service.ErrUserNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrUserNotFound)
	case errors.Is(err, service.ErrConflict):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.As(err, &pgErr) && pgErr.Code == "23505":
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// paramID parses a numeric path parameter; a second return of false
// means the 400 response has already been written.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}
