package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	preferencedomain "github.com/kamrel/kamrel/internal/preference/domain"
)

func (s *Server) GetPreferences(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	prefs, err := s.preferenceSvc.Get(c.Request.Context(), uid)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

func (s *Server) UpdatePreferences(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req preferencedomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	prefs, err := s.preferenceSvc.Update(c.Request.Context(), uid, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}
