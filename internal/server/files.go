package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bwmarrin/snowflake"
	filedomain "github.com/cemcalis/chiptunnig/internal/filerequest/domain"
	"github.com/gin-gonic/gin"
)

type AdvanceFileStatusRequest struct {
	Status     string  `json:"status"`
	AdminNotes *string `json:"admin_notes"`
}

func (s *Server) CreateFile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, newValidationError("file", "required", "file upload is required"))
		return
	}
	upload, err := fileHeader.Open()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer upload.Close()

	var options []string
	if raw := strings.TrimSpace(c.PostForm("options")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &options); err != nil {
			AbortWithError(c, newValidationError("options", "invalid", "options must be a JSON array of service names"))
			return
		}
	}

	request, err := s.fileSvc.Submit(c.Request.Context(), user.ID, filedomain.SubmitRequest{
		VehicleMake:  strings.TrimSpace(c.PostForm("vehicle_make")),
		VehicleModel: strings.TrimSpace(c.PostForm("vehicle_model")),
		EngineCode:   strings.TrimSpace(c.PostForm("engine_code")),
		ECUType:      strings.TrimSpace(c.PostForm("ecu_type")),
		Options:      options,
		FileName:     fileHeader.Filename,
		File:         upload,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.obsMetrics.RecordUpload(c.Request.Context(), fileHeader.Size)
	c.JSON(http.StatusCreated, request)
}

func (s *Server) ListFiles(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	requests, err := s.fileSvc.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (s *Server) AdminListFiles(c *gin.Context) {
	requests, err := s.fileSvc.ListAll(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (s *Server) GetFile(c *gin.Context) {
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

	request, err := s.fileSvc.Get(c.Request.Context(), fileID, user.ID, user.IsAdmin())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

func (s *Server) DownloadOriginal(c *gin.Context) {
	s.streamFile(c, s.fileSvc.OpenOriginal)
}

func (s *Server) DownloadResult(c *gin.Context) {
	s.streamFile(c, s.fileSvc.OpenResult)
}

func (s *Server) streamFile(c *gin.Context, open func(ctx context.Context, fileID, actorID snowflake.ID, isAdmin bool) (io.ReadCloser, string, error)) {
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

	reader, name, err := open(c.Request.Context(), fileID, user.ID, user.IsAdmin())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", `attachment; filename="`+url.PathEscape(name)+`"`)
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

func (s *Server) AdvanceFileStatus(c *gin.Context) {
	fileID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req AdvanceFileStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	request, err := s.fileSvc.AdvanceStatus(c.Request.Context(), fileID, filedomain.AdvanceStatusRequest{
		Status:     req.Status,
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

func (s *Server) AttachFileResult(c *gin.Context) {
	fileID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, newValidationError("file", "required", "file upload is required"))
		return
	}
	upload, err := fileHeader.Open()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer upload.Close()

	request, err := s.fileSvc.AttachResult(c.Request.Context(), fileID, fileHeader.Filename, upload)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}
