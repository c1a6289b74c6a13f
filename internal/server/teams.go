package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	teamdomain "github.com/kamrel/kamrel/internal/team/domain"
)

type syncTeamRequest struct {
	Team struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"team"`
}

// SyncTeam mirrors one provider team on demand. The client calls this
// when the provider reports a team the local store has not seen yet.
func (s *Server) SyncTeam(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req syncTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.Team.ID) == "" {
		AbortWithError(c, newValidationError("team.id", "invalid_team_id", "invalid value"))
		return
	}

	team, err := s.teamSvc.SyncTeam(c.Request.Context(), uid, teamdomain.TeamInput{
		ID:          req.Team.ID,
		DisplayName: req.Team.DisplayName,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"team": team})
}
