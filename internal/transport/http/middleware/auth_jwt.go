package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-api/internal/core/auth"
	resp "restaurant-api/internal/transport/http/response"
)

const KeyIdentity = "identity"

// AuthJWT 校验 "Authorization: Bearer <token>"，通过后把身份放进 context。
// 不回查存储：账号删除后，已签发的令牌在过期前仍然有效。
func AuthJWT(j *auth.JWTer, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if ah == "" {
			l.Warn("auth failed: no authorization header", zap.String("rid", c.GetString("rid")))
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Msg(resp.MsgNoToken))
			return
		}
		parts := strings.Split(ah, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			l.Warn("auth failed: malformed authorization header", zap.String("rid", c.GetString("rid")))
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Msg(resp.MsgMalformedToken))
			return
		}
		claims, err := j.Parse(parts[1])
		if err != nil {
			l.Warn("auth failed: invalid token", zap.String("rid", c.GetString("rid")), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Msg(resp.MsgInvalidToken))
			return
		}
		c.Set(KeyIdentity, claims.User)
		c.Next()
	}
}

// IdentityFrom 取 AuthJWT 放入的身份
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(KeyIdentity)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}
