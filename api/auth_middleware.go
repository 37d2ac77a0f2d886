package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"modsou/model"
	"modsou/service"
)

// AuthMiddleware 令牌校验中间件，认证服务未启用时放行所有请求
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authService.Enabled() {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse(401, "缺少认证令牌"))
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse(401, "无效的认证格式"))
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse(401, "无效的认证令牌: "+err.Error()))
			return
		}

		c.Set("client", claims.Client)
		c.Next()
	}
}
