package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"restaurant-api/internal/core/auth"
	resp "restaurant-api/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

func newJWTer() *auth.JWTer {
	return &auth.JWTer{Secret: []byte("test-secret"), Issuer: "restaurant-api", TTL: time.Hour}
}

func decodeMsg(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body["msg"]
}

func TestAuthJWT(t *testing.T) {
	j := newJWTer()
	valid, err := j.Issue("rid-42")
	require.NoError(t, err)
	expired, err := (&auth.JWTer{Secret: j.Secret, Issuer: j.Issuer, TTL: -2 * time.Hour}).Issue("rid-42")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
		wantID     string
	}{
		{"no header", "", http.StatusUnauthorized, resp.MsgNoToken, ""},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, resp.MsgMalformedToken, ""},
		{"lowercase scheme", "bearer " + valid, http.StatusUnauthorized, resp.MsgMalformedToken, ""},
		{"missing token", "Bearer", http.StatusUnauthorized, resp.MsgMalformedToken, ""},
		{"extra part", "Bearer " + valid + " extra", http.StatusUnauthorized, resp.MsgMalformedToken, ""},
		{"double space", "Bearer  " + valid, http.StatusUnauthorized, resp.MsgMalformedToken, ""},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized, resp.MsgInvalidToken, ""},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized, resp.MsgInvalidToken, ""},
		{"valid", "Bearer " + valid, http.StatusOK, "", "rid-42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			called := false
			r.GET("/p", AuthJWT(j, zap.NewNop()), func(c *gin.Context) {
				called = true
				id, ok := IdentityFrom(c)
				require.True(t, ok)
				c.String(http.StatusOK, id.ID)
			})

			req := httptest.NewRequest(http.MethodGet, "/p", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantID != "" {
				assert.True(t, called)
				assert.Equal(t, tt.wantID, rr.Body.String())
				return
			}
			assert.False(t, called)
			assert.Equal(t, tt.wantMsg, decodeMsg(t, rr))
		})
	}
}

func TestIdentityFrom_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := IdentityFrom(c)
	assert.False(t, ok)
}

func echoBody(t *testing.T, mw gin.HandlerFunc, contentType, body string) string {
	t.Helper()
	r := gin.New()
	r.POST("/echo", mw, func(c *gin.Context) {
		b, err := io.ReadAll(c.Request.Body)
		require.NoError(t, err)
		c.Data(http.StatusOK, "text/plain", b)
	})
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestSanitize(t *testing.T) {
	out := echoBody(t, Sanitize(zap.NewNop()), "application/json", `{
		"email": {"$gt": ""},
		"password": "x",
		"$where": "1",
		"a.b": 1,
		"nested": [{"ok": 1, "$ne": 2}],
		"Commercial_Num": 12345678901234567
	}`)

	var got map[string]any
	dec := json.NewDecoder(strings.NewReader(out))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&got))

	assert.Equal(t, map[string]any{}, got["email"])
	assert.Equal(t, "x", got["password"])
	assert.NotContains(t, got, "$where")
	assert.NotContains(t, got, "a.b")
	assert.Equal(t, []any{map[string]any{"ok": json.Number("1")}}, got["nested"])
	assert.Equal(t, json.Number("12345678901234567"), got["Commercial_Num"])
}

func TestSanitize_PassThrough(t *testing.T) {
	clean := `{"Name":"ok"}`
	assert.Equal(t, clean, echoBody(t, Sanitize(zap.NewNop()), "application/json", clean))

	broken := `{"$x": `
	assert.Equal(t, broken, echoBody(t, Sanitize(zap.NewNop()), "application/json", broken))

	form := "$where=1"
	assert.Equal(t, form, echoBody(t, Sanitize(zap.NewNop()), "application/x-www-form-urlencoded", form))
}

func TestSanitize_IgnoresContentType(t *testing.T) {
	for _, ct := range []string{"text/plain", ""} {
		t.Run("content-type="+ct, func(t *testing.T) {
			out := echoBody(t, Sanitize(zap.NewNop()), ct, `{"email":{"$ne":""},"password":"x"}`)
			assert.JSONEq(t, `{"email":{},"password":"x"}`, out)
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rr.Header().Get(HeaderRequestID))
	assert.Equal(t, rr.Header().Get(HeaderRequestID), rr.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "given-id")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, "given-id", rr.Body.String())
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.POST("/", MaxBodyBytes(8), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small")))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestMaskQuery(t *testing.T) {
	got := maskQuery(map[string][]string{"Password": {"p"}, "q": {"pizza"}})
	assert.Equal(t, []string{"****"}, got["Password"])
	assert.Equal(t, []string{"pizza"}, got["q"])
}
