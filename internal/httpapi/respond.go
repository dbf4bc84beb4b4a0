package httpapi

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/admarket/admarket/internal/apperr"
)

// respondErr converts any fault into the {"msg": ...} JSON contract.
// Internal faults are logged with full detail and returned generically.
func (h *Handlers) respondErr(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	if code == apperr.CodeInternal {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("method", c.Request.Method),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(apperr.HTTPStatus(code), gin.H{"msg": apperr.Message(err)})
}
