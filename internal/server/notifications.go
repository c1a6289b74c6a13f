package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListNotifications(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	unreadOnly, err := parseOptionalBoolQuery(c, "unread")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	limit, err := parseOptionalIntQuery(c, "limit", 0)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	notifications, err := s.notificationSvc.ListForUser(c.Request.Context(), uid, unreadOnly, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (s *Server) MarkNotificationRead(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	notificationID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.notificationSvc.MarkRead(c.Request.Context(), uid, notificationID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) MarkAllNotificationsRead(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.notificationSvc.MarkAllRead(c.Request.Context(), uid); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) DeleteNotification(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	notificationID, err := parseSnowflakeParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.notificationSvc.Delete(c.Request.Context(), uid, notificationID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
