package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/dto"
	"github.com/SscSPs/bizdesk/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func init() {
	// Request bodies are decoded strictly and checked by the shared validator so
	// every endpoint reports the same field messages.
	binding.EnableDecoderDisallowUnknownFields = true
	binding.Validator = requestValidator{}
}

// requestValidator plugs dto.Validate into gin's binding.
type requestValidator struct{}

func (requestValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	return dto.Validate(obj)
}

func (requestValidator) Engine() any {
	return dto.Validator()
}

// respondError writes the error body matching err's kind. Storage failures
// are logged in full and answered with a generic message.
func respondError(c *gin.Context, err error, logMsg string) {
	logger := middleware.GetLoggerFromContext(c)
	status := apperrors.StatusCode(err)
	body := dto.ErrorResponse{Error: err.Error()}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		body.Error = appErr.Message
		body.Fields = appErr.Fields
	}
	if status >= http.StatusInternalServerError && (appErr == nil || errors.Is(err, apperrors.ErrPersistence)) {
		body = dto.ErrorResponse{Error: "internal server error"}
	}

	if status >= http.StatusInternalServerError {
		logger.Error(logMsg, slog.String("error", err.Error()))
	} else {
		logger.Warn(logMsg, slog.String("error", err.Error()), slog.Int("status", status))
	}
	c.AbortWithStatusJSON(status, body)
}

// bindJSON decodes the request body into req, answering 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		bindJSONError(c, err)
		return false
	}
	return true
}

func bindJSONError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		err = apperrors.NewBadRequestError("invalid request body: " + err.Error())
	}
	respondError(c, err, "Failed to bind request body")
}

// jsonNoValidate decodes strictly and leaves validation to the service, for
// operations that must authorize before looking at the payload.
type jsonNoValidate struct{}

func (jsonNoValidate) Name() string { return "json" }

func (jsonNoValidate) Bind(req *http.Request, obj any) error {
	if req == nil || req.Body == nil {
		return errors.New("missing request body")
	}
	decoder := json.NewDecoder(req.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(obj)
}

// listParams reads the shared search and pagination query.
func listParams(c *gin.Context) (dto.ListQuery, bool) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, apperrors.NewBadRequestError("invalid query: "+err.Error()), "Failed to bind list query")
		return q, false
	}
	return q, true
}
