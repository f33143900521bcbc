package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mock-interview/internal/backend"
	"mock-interview/internal/interview"
)

// errorBody представляет JSON ответ при сбое
type errorBody struct {
	Error     string       `json:"error"`
	Kind      string       `json:"kind"`
	Retryable bool         `json:"retryable"`
	Redirect  string       `json:"redirect,omitempty"`
	Session   *sessionView `json:"session,omitempty"`
}

// classify переводит ошибку в HTTP статус и тело
func classify(err error) (int, errorBody) {
	switch {
	case errors.Is(err, interview.ErrNoIdentity):
		return http.StatusUnauthorized, errorBody{
			Error:    "User session not found. Please log in again.",
			Kind:     backend.InputFailure.String(),
			Redirect: "login",
		}
	case errors.Is(err, interview.ErrSkipDisabled):
		return http.StatusBadRequest, errorBody{
			Error: "Skipping is not available in this interview. Please record an answer.",
			Kind:  backend.InputFailure.String(),
		}
	case errors.Is(err, interview.ErrCompleted):
		return http.StatusConflict, errorBody{Error: "The interview is already complete.", Kind: "state"}
	case errors.Is(err, interview.ErrInvalidTransition), errors.Is(err, interview.ErrQuestionLimit):
		return http.StatusConflict, errorBody{Error: "This action is not available right now.", Kind: "state"}
	}

	var be *backend.Error
	if errors.As(err, &be) {
		body := errorBody{Error: backend.UserMessage(err), Kind: be.Kind.String(), Retryable: be.Retryable()}
		if be.Kind == backend.InputFailure {
			return http.StatusBadRequest, body
		}
		return http.StatusBadGateway, body
	}

	return http.StatusInternalServerError, errorBody{Error: "Something went wrong. Please try again.", Kind: "internal"}
}

func (s *Server) writeError(c *gin.Context, err error) {
	status, body := classify(err)
	s.log.Warn().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("request failed")
	c.JSON(status, body)
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, errorBody{
		Error:    "Please log in first.",
		Kind:     backend.InputFailure.String(),
		Redirect: "login",
	})
}
