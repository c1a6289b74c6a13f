package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	filedomain "github.com/kamrel/kamrel/internal/file/domain"
)

func (s *Server) UploadFile(c *gin.Context) {
	uid, _ := userID(c)
	wsID, _ := workspaceID(c)

	header, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, newValidationError("file", "invalid_file", "file field is required"))
		return
	}

	var projectID *snowflake.ID
	if raw := strings.TrimSpace(c.PostForm("project_id")); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, newValidationError("project_id", "invalid_project_id", "invalid value"))
			return
		}
		projectID = &id
	}

	content, err := header.Open()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer content.Close()

	upload, err := s.fileSvc.Upload(c.Request.Context(), wsID, uid, filedomain.UploadRequest{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		ProjectID:   projectID,
		Content:     content,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, &wsID, uid, "file.uploaded", "file", upload.ID.String(), map[string]any{"file_name": upload.FileName, "size_bytes": upload.SizeBytes})
	c.JSON(http.StatusCreated, gin.H{"file": upload})
}

func (s *Server) ListFiles(c *gin.Context) {
	wsID, _ := workspaceID(c)

	files, err := s.fileSvc.List(c.Request.Context(), wsID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (s *Server) GetFile(c *gin.Context) {
	wsID, _ := workspaceID(c)
	fileID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	file, err := s.fileSvc.Get(c.Request.Context(), wsID, fileID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"file": file})
}

func (s *Server) DownloadFile(c *gin.Context) {
	wsID, _ := workspaceID(c)
	fileID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	file, blob, err := s.fileSvc.Download(c.Request.Context(), wsID, fileID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer blob.Close()

	c.DataFromReader(http.StatusOK, file.SizeBytes, file.ContentType, blob, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", file.FileName),
	})
}

func (s *Server) DeleteFile(c *gin.Context) {
	uid, _ := userID(c)
	wsID, _ := workspaceID(c)
	fileID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.fileSvc.Delete(c.Request.Context(), wsID, fileID); err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, &wsID, uid, "file.deleted", "file", fileID.String(), nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
