package middleware

import (
	"net/http"
	"strings"

	"huddle_server/pkg/constants"
	"huddle_server/pkg/errorx"
	"huddle_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// JWTAuth 验证 Access Token 并将用户 ID 存入上下文
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthenticated(c, "please sign in first")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			abortUnauthenticated(c, "malformed authorization header, expected Bearer token")
			return
		}

		claims, err := jwt.ParseToken(parts[1])
		if err != nil {
			abortUnauthenticated(c, "token expired or invalid, please sign in again")
			return
		}
		if claims.Subject != jwt.SubjectAccessToken {
			abortUnauthenticated(c, "an access token is required")
			return
		}

		c.Set(constants.CTX_USER_ID, claims.UserID)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code": errorx.CodeUnauthorized,
		"kind": errorx.Kind(errorx.CodeUnauthorized),
		"msg":  msg,
		"data": nil,
	})
}
