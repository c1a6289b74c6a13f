package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/kamrel/kamrel/internal/audit/domain"
	authdomain "github.com/kamrel/kamrel/internal/auth/domain"
	"github.com/kamrel/kamrel/internal/authorization"
	chatdomain "github.com/kamrel/kamrel/internal/chat/domain"
	filedomain "github.com/kamrel/kamrel/internal/file/domain"
	invitedomain "github.com/kamrel/kamrel/internal/invite/domain"
	importdomain "github.com/kamrel/kamrel/internal/localimport/domain"
	notificationdomain "github.com/kamrel/kamrel/internal/notification/domain"
	preferencedomain "github.com/kamrel/kamrel/internal/preference/domain"
	projectdomain "github.com/kamrel/kamrel/internal/project/domain"
	taskdomain "github.com/kamrel/kamrel/internal/task/domain"
	timeentrydomain "github.com/kamrel/kamrel/internal/timeentry/domain"
	workspacedomain "github.com/kamrel/kamrel/internal/workspace/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
	ErrRateLimited        = errors.New("rate_limited")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// classifyErrorForLog feeds the request logger without writing anything
// to the response.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionNotFound),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case isForbiddenError(err):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, ErrRateLimited),
		errors.Is(err, chatdomain.ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "rate limit exceeded",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case errors.Is(err, invitedomain.ErrInviteExpired),
		errors.Is(err, invitedomain.ErrInviteRevoked),
		errors.Is(err, invitedomain.ErrInviteEmailMismatch):
		return true
	case isWorkspaceValidationError(err),
		isInviteValidationError(err),
		isProjectValidationError(err),
		isTaskValidationError(err),
		isTimeEntryValidationError(err),
		isChatValidationError(err),
		isFileValidationError(err),
		isNotificationValidationError(err),
		isPreferenceValidationError(err),
		isImportValidationError(err),
		isAuditValidationError(err):
		return true
	default:
		return false
	}
}

func isWorkspaceValidationError(err error) bool {
	return errors.Is(err, workspacedomain.ErrInvalidName) ||
		errors.Is(err, workspacedomain.ErrInvalidUser) ||
		errors.Is(err, workspacedomain.ErrInvalidWorkspace) ||
		errors.Is(err, workspacedomain.ErrInvalidRole) ||
		errors.Is(err, workspacedomain.ErrInvalidStatus)
}

func isInviteValidationError(err error) bool {
	return errors.Is(err, invitedomain.ErrInvalidEmail) ||
		errors.Is(err, invitedomain.ErrInvalidRole) ||
		errors.Is(err, invitedomain.ErrInvalidToken)
}

func isProjectValidationError(err error) bool {
	return errors.Is(err, projectdomain.ErrInvalidName) ||
		errors.Is(err, projectdomain.ErrInvalidStatus)
}

func isTaskValidationError(err error) bool {
	return errors.Is(err, taskdomain.ErrInvalidTitle) ||
		errors.Is(err, taskdomain.ErrInvalidStatus) ||
		errors.Is(err, taskdomain.ErrInvalidProgress) ||
		errors.Is(err, taskdomain.ErrInvalidProject)
}

func isTimeEntryValidationError(err error) bool {
	return errors.Is(err, timeentrydomain.ErrInvalidTask) ||
		errors.Is(err, timeentrydomain.ErrInvalidStartedAt) ||
		errors.Is(err, timeentrydomain.ErrEntryStopped)
}

func isChatValidationError(err error) bool {
	return errors.Is(err, chatdomain.ErrInvalidRoomName) ||
		errors.Is(err, chatdomain.ErrInvalidMessageID) ||
		errors.Is(err, chatdomain.ErrEmptyMessage) ||
		errors.Is(err, chatdomain.ErrMessageTooLong)
}

func isFileValidationError(err error) bool {
	return errors.Is(err, filedomain.ErrInvalidFileName) ||
		errors.Is(err, filedomain.ErrEmptyFile) ||
		errors.Is(err, filedomain.ErrFileTooLarge)
}

func isNotificationValidationError(err error) bool {
	return errors.Is(err, notificationdomain.ErrInvalidUser) ||
		errors.Is(err, notificationdomain.ErrInvalidKind) ||
		errors.Is(err, notificationdomain.ErrInvalidTitle)
}

func isPreferenceValidationError(err error) bool {
	return errors.Is(err, preferencedomain.ErrInvalidUser) ||
		errors.Is(err, preferencedomain.ErrInvalidTheme)
}

func isImportValidationError(err error) bool {
	return errors.Is(err, importdomain.ErrBatchTooLarge)
}

func isAuditValidationError(err error) bool {
	return errors.Is(err, auditdomain.ErrInvalidAction) ||
		errors.Is(err, auditdomain.ErrInvalidPageToken) ||
		errors.Is(err, auditdomain.ErrInvalidTimeRange)
}

func isForbiddenError(err error) bool {
	return errors.Is(err, ErrForbidden) ||
		errors.Is(err, authorization.ErrForbidden) ||
		errors.Is(err, workspacedomain.ErrNotMember) ||
		errors.Is(err, chatdomain.ErrNotMessageSender) ||
		errors.Is(err, timeentrydomain.ErrNotEntryOwner)
}

func isConflictError(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, workspacedomain.ErrWorkspaceExists) ||
		errors.Is(err, invitedomain.ErrInviteAlreadyPending) ||
		errors.Is(err, invitedomain.ErrInviteAlreadyUsed) ||
		errors.Is(err, importdomain.ErrImportRunning) ||
		errors.Is(err, importdomain.ErrAlreadyImported)
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, projectdomain.ErrProjectNotFound),
		errors.Is(err, taskdomain.ErrTaskNotFound),
		errors.Is(err, timeentrydomain.ErrEntryNotFound),
		errors.Is(err, chatdomain.ErrRoomNotFound),
		errors.Is(err, chatdomain.ErrMessageNotFound),
		errors.Is(err, invitedomain.ErrInviteNotFound),
		errors.Is(err, filedomain.ErrFileNotFound),
		errors.Is(err, notificationdomain.ErrNotificationNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return err.Error()
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "invite_expired":
		return "Invitation has expired"
	case "invite_revoked":
		return "invitation was revoked"
	case "invite_email_mismatch":
		return "invitation was issued for a different email"
	case "empty_message":
		return "message body is empty"
	case "message_too_long":
		return "message body exceeds the limit"
	case "batch_too_large":
		return "import batch exceeds the limit"
	case "empty_file":
		return "file is empty"
	case "file_too_large":
		return "file exceeds the size limit"
	default:
		return "invalid value"
	}
}
