package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Sanitize 删除 JSON 请求体中以 '$' 开头或包含 '.' 的 key（任意层级），
// 防止查询操作符注入。绑定不看 Content-Type，这里也不看：有 body 就尝试解析，
// 解析失败的 body 原样放行。
func Sanitize(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			// 超过 MaxBodyBytes 等情况交给后续绑定报错
			c.Request.Body = io.NopCloser(bytes.NewReader(raw))
			c.Next()
			return
		}

		body := raw
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var v any
		if dec.Decode(&v) == nil {
			if removed := sanitizeValue(v); len(removed) > 0 {
				if b, err := json.Marshal(v); err == nil {
					body = b
					l.Warn("request sanitized",
						zap.String("rid", c.GetString(KeyRequestID)),
						zap.String("path", c.Request.URL.Path),
						zap.Strings("removed", removed),
					)
				}
			}
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Request.ContentLength = int64(len(body))
		c.Next()
	}
}

// sanitizeValue 原地删除非法 key，返回被删除的 key
func sanitizeValue(v any) []string {
	var removed []string
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			if strings.HasPrefix(k, "$") || strings.Contains(k, ".") {
				delete(t, k)
				removed = append(removed, k)
				continue
			}
			removed = append(removed, sanitizeValue(child)...)
		}
	case []any:
		for _, child := range t {
			removed = append(removed, sanitizeValue(child)...)
		}
	}
	return removed
}
