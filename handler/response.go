package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"hackathon-backend/errs"
	"hackathon-backend/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statuses is checked in order; the first sentinel the error wraps wins.
var statuses = []struct {
	err    error
	status int
}{
	{errs.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
	{errs.ErrValidation, http.StatusBadRequest},
	{errs.ErrInvalidID, http.StatusBadRequest},
	{errs.ErrInvalidTeamID, http.StatusBadRequest},
	{errs.ErrTeamIDRequired, http.StatusBadRequest},
	{errs.ErrDuplicateEmail, http.StatusConflict},
	{errs.ErrNotFound, http.StatusNotFound},
	{errs.ErrMemberNotFound, http.StatusNotFound},
	{errs.ErrNoTeamsFound, http.StatusNotFound},
	{errs.ErrSubmissionClosed, http.StatusForbidden},
	{errs.ErrUnauthorized, http.StatusUnauthorized},
	{errs.ErrTokenExpired, http.StatusUnauthorized},
	{errs.ErrInvalidCredentials, http.StatusUnauthorized},
	{errs.ErrMail, http.StatusBadGateway},
	{errs.ErrUpload, http.StatusBadGateway},
	{errs.ErrQueue, http.StatusBadGateway},
	{errs.ErrLock, http.StatusServiceUnavailable},
	{errs.ErrDatabase, http.StatusInternalServerError},
	{errs.ErrJWT, http.StatusInternalServerError},
	{errs.ErrCryptographic, http.StatusInternalServerError},
}

func statusOf(err error) (int, bool) {
	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return s.status, true
		}
	}
	return http.StatusInternalServerError, false
}

// fail writes err as {"error": msg}. Errors that wrap no known sentinel are
// logged and reported as a database error.
func fail(c *gin.Context, err error) {
	status, known := statusOf(err)
	msg := err.Error()
	if !known {
		log.Logger.Error("unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
		msg = errs.ErrDatabase.Error()
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}

// badRequest reports a body that could not be decoded.
func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: errs.ErrValidation.Error() + ": " + err.Error()})
}
