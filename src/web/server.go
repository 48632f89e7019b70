package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/RSAKTHISABARISH/RubyAI/src/configs"
	"github.com/RSAKTHISABARISH/RubyAI/src/core"
	auth "github.com/RSAKTHISABARISH/RubyAI/src/core/Auth"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/rag"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/utils"

	"github.com/gin-gonic/gin"
)

const (
	maxUploadSize = 5 * 1024 * 1024

	turnTimeout = 120 * time.Second
)

// Service exposes the assistant over HTTP for browser clients: text and
// audio turns, state, language control and document ingestion. The
// realtime path stays on the websocket; these routes cover everything a
// page can do with plain requests.
type Service struct {
	config    *configs.Config
	logger    *utils.Logger
	session   *core.Session
	documents *rag.Store      // nil when RAG is disabled
	authToken *auth.AuthToken // nil when auth is disabled
}

// NewService wires the HTTP surface around the shared session.
func NewService(config *configs.Config, logger *utils.Logger, session *core.Session, documents *rag.Store) *Service {
	s := &Service{
		config:    config,
		logger:    logger,
		session:   session,
		documents: documents,
	}
	if config.Server.Auth.Enabled {
		s.authToken = auth.NewAuthToken(config.Server.Auth.Secret)
	}
	return s
}

// Start registers all assistant routes. Token issuance stays outside the
// auth group so clients can bootstrap.
func (s *Service) Start(ctx context.Context, engine *gin.Engine, apiGroup *gin.RouterGroup) error {
	if s.config.Web.StaticDir != "" {
		engine.Static("/ui", s.config.Web.StaticDir)
	}

	apiGroup.POST("/token", s.handleToken)
	apiGroup.GET("/status", s.handleStatus)

	authed := apiGroup.Group("", s.requireAuth)
	authed.POST("/chat", s.handleChat)
	authed.POST("/audio", s.handleAudio)
	authed.GET("/state", s.handleState)
	authed.POST("/reset", s.handleReset)
	authed.GET("/languages", s.handleLanguages)
	authed.POST("/language", s.handleLanguage)
	authed.POST("/documents", s.handleDocuments)

	s.logger.Info("web API routes registered")
	return nil
}

// requireAuth verifies the Bearer token when auth is enabled. With auth
// disabled the middleware is a pass-through.
func (s *Service) requireAuth(c *gin.Context) {
	if s.authToken == nil {
		c.Next()
		return
	}

	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		s.respondError(c, http.StatusUnauthorized, "missing bearer token")
		c.Abort()
		return
	}

	valid, clientID, err := s.authToken.VerifyToken(header[7:])
	if err != nil || !valid {
		s.respondError(c, http.StatusUnauthorized, "invalid or expired token")
		c.Abort()
		return
	}

	c.Set("client_id", clientID)
	c.Next()
}

func (s *Service) handleToken(c *gin.Context) {
	if s.authToken == nil {
		s.respondError(c, http.StatusNotFound, "auth is disabled")
		return
	}

	var req struct {
		ClientID string `json:"client_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, "client_id is required")
		return
	}

	token, err := s.authToken.GenerateToken(req.ClientID)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, "could not issue token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// handleStatus tells clients where the realtime endpoint lives.
func (s *Service) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"websocket": s.config.Web.Websocket,
		"session":   s.session.ID(),
	})
}

func (s *Service) handleChat(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, "text is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), turnTimeout)
	defer cancel()

	reply, err := s.session.RespondToText(ctx, req.Text)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("chat turn failed: %v", err))
		s.respondError(c, http.StatusInternalServerError, "the assistant could not answer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reply":           reply,
		"state":           string(s.session.State()),
		"close_requested": s.session.CloseRequested(),
	})
}

// handleAudio accepts one utterance as a multipart "file" field or as a
// raw request body, 16kHz mono PCM or WAV.
func (s *Service) handleAudio(c *gin.Context) {
	pcm, err := s.readAudio(c)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), turnTimeout)
	defer cancel()

	transcript, reply, err := s.session.RespondToAudio(ctx, pcm)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("audio turn failed: %v", err))
		s.respondError(c, http.StatusInternalServerError, "the assistant could not answer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transcript":      transcript,
		"reply":           reply,
		"state":           string(s.session.State()),
		"close_requested": s.session.CloseRequested(),
	})
}

func (s *Service) readAudio(c *gin.Context) ([]byte, error) {
	if file, _, err := c.Request.FormFile("file"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
		if err != nil {
			return nil, fmt.Errorf("read upload: %v", err)
		}
		if len(data) > maxUploadSize {
			return nil, fmt.Errorf("audio exceeds %dMB limit", maxUploadSize/1024/1024)
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %v", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty audio payload")
	}
	if len(data) > maxUploadSize {
		return nil, fmt.Errorf("audio exceeds %dMB limit", maxUploadSize/1024/1024)
	}
	return data, nil
}

func (s *Service) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state":    string(s.session.State()),
		"language": s.session.Language(),
	})
}

func (s *Service) handleReset(c *gin.Context) {
	s.session.Reset()
	c.JSON(http.StatusOK, gin.H{"state": string(s.session.State())})
}

func (s *Service) handleLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"languages": s.session.SupportedLanguages(),
		"active":    s.session.Language(),
	})
}

func (s *Service) handleLanguage(c *gin.Context) {
	var req struct {
		Language string `json:"language" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, "language is required")
		return
	}

	if err := s.session.SwitchLanguage(req.Language); err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"language": s.session.Language()})
}

// handleDocuments ingests a plain-text file into the document store so
// query_document can answer from it.
func (s *Service) handleDocuments(c *gin.Context) {
	if s.documents == nil {
		s.respondError(c, http.StatusNotFound, "document store is disabled")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		s.respondError(c, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		s.respondError(c, http.StatusBadRequest, fmt.Sprintf("file exceeds %dMB limit", maxUploadSize/1024/1024))
		return
	}

	text, err := io.ReadAll(file)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, "could not read file")
		return
	}
	if strings.TrimSpace(string(text)) == "" {
		s.respondError(c, http.StatusBadRequest, "file is empty")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), turnTimeout)
	defer cancel()

	chunks, err := s.documents.AddDocument(ctx, header.Filename, string(text))
	if err != nil {
		s.logger.Warn(fmt.Sprintf("document ingest failed: %v", err))
		s.respondError(c, http.StatusInternalServerError, "could not index document")
		return
	}

	s.logger.Info(fmt.Sprintf("indexed document %s in %d chunks", header.Filename, chunks))
	c.JSON(http.StatusOK, gin.H{"document": header.Filename, "chunks": chunks})
}

func (s *Service) respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
