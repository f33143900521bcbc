package web

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mock-interview/internal/audio"
	"mock-interview/internal/backend"
	"mock-interview/internal/interview"
	"mock-interview/internal/report"
)

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, errorBody{Error: "Please enter your email.", Kind: backend.InputFailure.String()})
		return
	}

	ui := currentUI(c)
	candidate, err := ui.client.GetCandidate(c.Request.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if backend.KindOf(err) == backend.ApplicationFailure {
			c.JSON(http.StatusNotFound, errorBody{
				Error:    "No account found for this email. Please register.",
				Kind:     backend.ApplicationFailure.String(),
				Redirect: "register",
			})
			return
		}
		s.writeError(c, err)
		return
	}

	ui.candidate = candidate
	ui.session = nil
	s.log.Info().Str("candidate", candidate.Email).Msg("candidate logged in")
	c.JSON(http.StatusOK, gin.H{"candidate": candidate})
}

func (s *Server) handleRegister(c *gin.Context) {
	var reg backend.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "Invalid request format", Kind: backend.InputFailure.String()})
		return
	}

	ui := currentUI(c)
	if err := ui.client.RegisterCandidate(c.Request.Context(), reg); err != nil {
		s.writeError(c, err)
		return
	}

	candidate := reg.Normalize().Candidate()
	ui.candidate = &candidate
	ui.session = nil
	s.log.Info().Str("candidate", candidate.Email).Msg("candidate registered")
	c.JSON(http.StatusCreated, gin.H{"candidate": candidate})
}

func (s *Server) handleLogout(c *gin.Context) {
	ui := currentUI(c)
	s.registry.delete(ui.id)
	c.SetCookie(cookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

func (s *Server) handleDashboard(c *gin.Context) {
	ui := currentUI(c)
	if ui.candidate == nil {
		unauthorized(c)
		return
	}

	resp := gin.H{"candidate": ui.candidate}
	records, err := ui.client.CandidateInterviews(c.Request.Context(), ui.candidate.Email)
	if err != nil {
		s.log.Warn().Err(err).Str("candidate", ui.candidate.Email).Msg("history unavailable")
		resp["history"] = []report.HistoryEntry{}
		resp["history_error"] = backend.UserMessage(err)
	} else {
		resp["history"] = report.History(records)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleStartInterview(c *gin.Context) {
	var req struct {
		Flow string `json:"flow"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorBody{Error: "Invalid request format", Kind: backend.InputFailure.String()})
			return
		}
	}

	ui := currentUI(c)
	candidateID := ""
	if ui.candidate != nil {
		candidateID = ui.candidate.Email
	}

	flow, err := s.config.GetFlow(req.Flow)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: err.Error(), Kind: backend.InputFailure.String()})
		return
	}
	session, err := interview.NewSession(candidateID, flow)
	if err != nil {
		s.writeError(c, err)
		return
	}

	ui.session = session
	s.respond(c, ui, http.StatusCreated, ui.controller.Begin(c.Request.Context(), session))
}

func (s *Server) handleGetInterview(c *gin.Context) {
	ui := currentUI(c)
	if ui.session == nil {
		c.JSON(http.StatusNotFound, errorBody{Error: "No active interview.", Kind: "state", Redirect: "dashboard"})
		return
	}
	c.JSON(http.StatusOK, newSessionView(ui.session, s.config))
}

func (s *Server) handleDiscardInterview(c *gin.Context) {
	ui := currentUI(c)
	ui.session = nil
	c.JSON(http.StatusOK, gin.H{"status": "discarded"})
}

func (s *Server) handleFetchQuestion(c *gin.Context) {
	s.withSession(c, func(ui *uiSession) error {
		return ui.controller.FetchQuestion(c.Request.Context(), ui.session)
	})
}

func (s *Server) handleStartRecording(c *gin.Context) {
	s.withSession(c, func(ui *uiSession) error {
		return ui.controller.StartRecording(ui.session)
	})
}

func (s *Server) handleAnswer(c *gin.Context) {
	s.withSession(c, func(ui *uiSession) error {
		rec, err := readAudio(c)
		if err != nil {
			return err
		}
		return ui.controller.SubmitRecording(c.Request.Context(), ui.session, rec)
	})
}

func (s *Server) handleSkip(c *gin.Context) {
	s.withSession(c, func(ui *uiSession) error {
		return ui.controller.Skip(c.Request.Context(), ui.session)
	})
}

func (s *Server) handleEnd(c *gin.Context) {
	s.withSession(c, func(ui *uiSession) error {
		ui.controller.EndEarly(ui.session)
		return nil
	})
}

func (s *Server) handleOverallFeedback(c *gin.Context) {
	ui := currentUI(c)
	if ui.candidate == nil {
		unauthorized(c)
		return
	}
	raw, err := ui.client.OverallFeedback(c.Request.Context(), ui.candidate.Email)
	s.respondFeedback(c, raw, err)
}

func (s *Server) handleInterviewFeedback(c *gin.Context) {
	ui := currentUI(c)
	if ui.candidate == nil {
		unauthorized(c)
		return
	}
	raw, err := ui.client.InterviewFeedback(c.Request.Context(), c.Param("id"))
	s.respondFeedback(c, raw, err)
}

func (s *Server) respondFeedback(c *gin.Context, raw []byte, err error) {
	if err != nil {
		if backend.KindOf(err) == backend.ProtocolFailure {
			c.JSON(http.StatusOK, gin.H{"feedback": nil, "message": report.NoDataMessage})
			return
		}
		s.writeError(c, err)
		return
	}

	fb, err := report.ParseFeedback(raw)
	if errors.Is(err, report.ErrNoData) {
		c.JSON(http.StatusOK, gin.H{"feedback": nil, "message": report.NoDataMessage})
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": fb})
}

// withSession выполняет операцию над текущим интервью и отдает новое состояние
func (s *Server) withSession(c *gin.Context, op func(ui *uiSession) error) {
	ui := currentUI(c)
	if ui.session == nil {
		c.JSON(http.StatusNotFound, errorBody{Error: "No active interview.", Kind: "state", Redirect: "dashboard"})
		return
	}
	s.respond(c, ui, http.StatusOK, op(ui))
}

func (s *Server) respond(c *gin.Context, ui *uiSession, okStatus int, err error) {
	view := newSessionView(ui.session, s.config)
	if err == nil {
		c.JSON(okStatus, view)
		return
	}
	status, body := classify(err)
	body.Session = view
	s.log.Warn().Err(err).Str("session", ui.session.ID).Int("status", status).Msg("interview operation failed")
	c.JSON(status, body)
}

// readAudio читает audio_file из multipart формы вместе с именем и типом части;
// отсутствие файла означает пропуск
func readAudio(c *gin.Context) (audio.Recording, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile("audio_file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return audio.Recording{}, nil
	}
	if err != nil {
		return audio.Recording{}, &backend.Error{Op: "read answer", Kind: backend.InputFailure, Message: "Could not read the recording. Please try again.", Err: err}
	}

	f, err := fh.Open()
	if err != nil {
		return audio.Recording{}, &backend.Error{Op: "read answer", Kind: backend.InputFailure, Message: "Could not read the recording. Please try again.", Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return audio.Recording{}, &backend.Error{Op: "read answer", Kind: backend.InputFailure, Message: "Could not read the recording. Please try again.", Err: err}
	}
	return audio.Recording{Data: data, Filename: fh.Filename, ContentType: fh.Header.Get("Content-Type")}, nil
}
