package public

import (
	"errors"

	handlershared "github.com/promolane/internal/http/handlers/shared"
	"github.com/promolane/internal/http/response"
	"github.com/promolane/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

// mappedHandlerError maps a business error to a response code and message.
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

var promotionErrorRules = []mappedHandlerError{
	{target: service.ErrPromotionInvalid, code: response.CodeBadRequest, msg: "promotion input invalid"},
	{target: service.ErrUnknownPackageType, code: response.CodeBadRequest, msg: "unknown package type"},
	{target: service.ErrConflictingActivePromotion, code: response.CodeConflict, msg: "content already has an active promotion"},
	{target: service.ErrPromotionNotFound, code: response.CodeNotFound, msg: "promotion not found"},
	{target: service.ErrInvalidTransition, code: response.CodeBadRequest, msg: "transition not allowed"},
	{target: service.ErrSurfaceUnknown, code: response.CodeBadRequest, msg: "unknown display surface"},
	{target: service.ErrDisplayLimitInvalid, code: response.CodeBadRequest, msg: "display limit invalid"},
}

func respondWithMappedError(c *gin.Context, err error, fallbackCode int, fallbackMsg string) {
	for _, rule := range promotionErrorRules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}
