package admin

import (
	handlershared "github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func respondErrorWithData(c *gin.Context, code int, msg string, data interface{}, err error) {
	handlershared.RespondErrorWithData(c, code, msg, data, err)
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}

func getAdviserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "adviser_id")
}

func getAdviserRole(c *gin.Context) string {
	value, exists := c.Get("adviser_role")
	if !exists {
		return ""
	}
	role, _ := value.(string)
	return role
}
