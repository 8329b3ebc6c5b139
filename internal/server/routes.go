package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/notexe/assistant/internal/errors"
	"github.com/notexe/assistant/internal/history"
	"github.com/notexe/assistant/internal/reminder"
)

// featureCount is reported by GET /: time, date, math, search, reminders,
// speech and history.
const featureCount = 7

func (s *Server) setupRoutes() {
	s.engine.GET("/", s.handleHome)
	s.engine.GET("/health", s.handleHealth)

	s.engine.POST("/process", s.handleProcess)
	s.engine.POST("/listen", s.handleListen)
	s.engine.POST("/speak", s.handleSpeak)

	reminders := s.engine.Group("/reminders")
	{
		reminders.GET("", s.handleListReminders)
		reminders.POST("", s.handleAddReminder)
		reminders.DELETE("/clear", s.handleClearReminders)
		reminders.DELETE("/:id", s.handleDeleteReminder)
	}

	s.engine.GET("/trigger_popup", s.handleTriggerPopup)

	s.engine.GET("/history", s.handleGetHistory)
	s.engine.DELETE("/history", s.handleClearHistory)

	if s.deps.Gatherer != nil {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{})))
	}
}

// ReminderView is the wire shape of a reminder.
type ReminderView struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
	Time string `json:"time"`
}

func viewOf(r reminder.Reminder) ReminderView {
	return ReminderView{ID: r.ID, Text: r.Label, Time: r.DisplayTime()}
}

func writeError(c *gin.Context, err error) {
	code := errors.ErrInternal
	if aErr, ok := errors.As(err); ok {
		code = aErr.Code
	}
	c.JSON(errors.StatusOf(err), gin.H{
		"success": false,
		"error":   string(code),
		"message": errors.MessageOf(err),
	})
}

func (s *Server) handleHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "features": featureCount})
}

func (s *Server) handleHealth(c *gin.Context) {
	var tts, stt bool
	if s.deps.Voice != nil {
		tts = s.deps.Voice.TTSAvailable()
		stt = s.deps.Voice.STTAvailable()
	}
	stats := s.deps.Reminders.Stats()

	c.JSON(http.StatusOK, gin.H{
		"server":                 "running",
		"reminders_active":       stats.Pending,
		"reminders":              stats,
		"tts":                    tts,
		"speech_input_available": stt,
	})
}

type processRequest struct {
	Command string `json:"command"`
}

func (s *Server) handleProcess(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Command) == "" {
		writeError(c, errors.NewInvalidRequest("Missing command"))
		return
	}

	reply := s.deps.Assistant.Process(c.Request.Context(), req.Command)
	c.JSON(http.StatusOK, gin.H{"success": true, "response": reply.Text, "intent": reply.Intent})
}

func (s *Server) handleListen(c *gin.Context) {
	if s.deps.Voice == nil {
		writeError(c, errors.NewUnavailable("speech input is not configured"))
		return
	}

	text, err := s.deps.Voice.Listen(c.Request.Context())
	if err != nil {
		s.logger.Warn("listen failed: %v", err)
		writeError(c, err)
		return
	}

	reply := s.deps.Assistant.Process(c.Request.Context(), text)
	c.JSON(http.StatusOK, gin.H{"success": true, "command": text, "response": reply.Text})
}

type speakRequest struct {
	Text string `json:"text"`
}

// handleSpeak answers immediately and speaks in the background.
func (s *Server) handleSpeak(c *gin.Context) {
	var req speakRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		writeError(c, errors.NewInvalidRequest("Missing 'text'"))
		return
	}
	if s.deps.Voice == nil {
		writeError(c, errors.NewUnavailable("text-to-speech is not configured"))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), s.speakTimeout)
	go func() {
		defer cancel()
		if err := s.deps.Voice.Speak(ctx, req.Text); err != nil {
			s.logger.Warn("speak failed: %v", err)
		}
	}()

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type addReminderRequest struct {
	Label   string `json:"label"`
	Time    string `json:"time"`
	Command string `json:"command"`
}

func (s *Server) handleAddReminder(c *gin.Context) {
	var req addReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.NewInvalidRequest("Invalid JSON body"))
		return
	}

	var (
		result reminder.AddResult
		err    error
	)
	switch {
	case strings.TrimSpace(req.Command) != "":
		result, err = s.deps.Reminders.AddFromText(req.Command)
	case strings.TrimSpace(req.Time) != "":
		result, err = s.deps.Reminders.Add(req.Label, req.Time)
	default:
		err = errors.NewInvalidRequest("Provide either 'command' or 'label' and 'time'")
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    result.Message,
		"time_until": result.TimeUntil,
		"reminder":   viewOf(result.Reminder),
	})
}

func (s *Server) handleListReminders(c *gin.Context) {
	includeTriggered, _ := strconv.ParseBool(c.Query("include_triggered"))

	list := s.deps.Reminders.List(includeTriggered)
	views := make([]ReminderView, 0, len(list))
	for _, r := range list {
		views = append(views, viewOf(r))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reminders": views})
}

func (s *Server) handleDeleteReminder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, errors.NewInvalidRequest("reminder id must be an integer"))
		return
	}
	s.deps.Reminders.Delete(id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleClearReminders(c *gin.Context) {
	s.deps.Reminders.Clear()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleTriggerPopup(c *gin.Context) {
	r, ok := s.deps.Reminders.PollPopup()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": r.Label,
		"id":      r.ID,
		"time":    r.DisplayTime(),
	})
}

func (s *Server) handleGetHistory(c *gin.Context) {
	if s.deps.History == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "history": []history.Entry{}})
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := s.deps.History.List(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("list history: %v", err)
		writeError(c, errors.NewInternal(err))
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "history": entries})
}

func (s *Server) handleClearHistory(c *gin.Context) {
	if s.deps.History != nil {
		if err := s.deps.History.Clear(c.Request.Context()); err != nil {
			s.logger.Error("clear history: %v", err)
			writeError(c, errors.NewInternal(err))
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
