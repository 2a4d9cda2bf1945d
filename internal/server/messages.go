package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	messagingdomain "github.com/cemcalis/chiptunnig/internal/messaging/domain"
	"github.com/gin-gonic/gin"
)

type SendMessageRequest struct {
	Body string `json:"body"`
}

func (s *Server) MyConversation(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	messages, err := s.messagingSvc.Conversation(c.Request.Context(), user.ID, messagingdomain.SenderUser)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (s *Server) SendMessage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	message, err := s.messagingSvc.SendDirect(c.Request.Context(), user.ID, messagingdomain.SenderUser, req.Body)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (s *Server) MessageOverview(c *gin.Context) {
	summaries, err := s.messagingSvc.Overview(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (s *Server) UserConversation(c *gin.Context) {
	userID, err := snowflake.ParseString(c.Param("userId"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	messages, err := s.messagingSvc.Conversation(c.Request.Context(), userID, messagingdomain.SenderAdmin)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (s *Server) SendMessageToUser(c *gin.Context) {
	userID, err := snowflake.ParseString(c.Param("userId"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	message, err := s.messagingSvc.SendDirect(c.Request.Context(), userID, messagingdomain.SenderAdmin, req.Body)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (s *Server) ListFileMessages(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	fileID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	messages, err := s.messagingSvc.ListFileMessages(c.Request.Context(), fileID, user.ID, user.IsAdmin())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (s *Server) SendFileMessage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	fileID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	message, err := s.messagingSvc.AppendFileMessage(c.Request.Context(), fileID, user.ID, user.IsAdmin(), req.Body)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}
