package domain

import "errors"

var (
	ErrInvalidUser  = errors.New("invalid_user")
	ErrInvalidTeam  = errors.New("invalid_team")
	ErrTeamNotFound = errors.New("team_not_found")
)
