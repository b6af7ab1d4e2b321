package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "restaurant-api/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小，超出时读取 body 会报错（绑定失败走 400）
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp.Error(http.StatusRequestEntityTooLarge, ""))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
