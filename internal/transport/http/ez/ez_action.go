package ez

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	resp "restaurant-api/internal/transport/http/response"
)

type EZ struct {
	g *gin.RouterGroup
	l *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ { return EZ{g: g, l: l} }

// 绑定方式
type Binder string

const (
	BindJSON Binder = "json" // 从 JSON 绑定
	BindNone Binder = "none" // 不绑定，自己从 c.Param 取
)

// AErr 统一错误对象。Body 非空时原样输出，否则输出 {"msg": Msg}
type AErr struct {
	Code int
	Msg  string
	Err  error
	Body any
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: http.StatusUnauthorized, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: http.StatusNotFound, Msg: msg} }

// Invalid 400 + 自定义错误体（校验错误列表等）
func Invalid(body any) error { return &AErr{Code: http.StatusBadRequest, Body: body} }

// Internal 500：err 只写日志，不返回给客户端
func Internal(msg string, err error) error {
	return &AErr{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// WithBody 替换错误体（如登录接口用 {"message": ...}）
func WithBody(err error, body any) error {
	var ae *AErr
	if errors.As(err, &ae) {
		cp := *ae
		cp.Body = body
		return &cp
	}
	return err
}

// Action 一个接口：I 入参，O 出参
type Action[I any, O any] struct {
	Method string // GET / POST / PATCH / DELETE
	Path   string
	Binder Binder
	// 成功状态码，默认 200
	Status int
	// 挂在 handler 前的中间件（鉴权等）
	Use []gin.HandlerFunc
	// 绑定后、Handler 前执行
	Validate func(in *I) error
	// 绑定失败时的错误，默认 400 {"msg": "Bad Request"}
	OnBindError func(err error) error
	Handler     func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 绑定入参
		var in I
		if a.Binder == BindJSON {
			if err := bindJSON(c, &in); err != nil {
				if a.OnBindError != nil {
					e.fail(c, a.OnBindError(err))
				} else {
					e.fail(c, BadRequest(""))
				}
				return
			}
		}

		// 2) 校验
		if a.Validate != nil {
			if err := a.Validate(&in); err != nil {
				e.fail(c, err)
				return
			}
		}

		// 3) 执行
		out, err := a.Handler(c, &in)
		if err != nil {
			e.fail(c, err)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, out)
	}

	handlers := append(append([]gin.HandlerFunc{}, a.Use...), h)
	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, handlers...)
	case http.MethodPut:
		e.g.PUT(a.Path, handlers...)
	case http.MethodPatch:
		e.g.PATCH(a.Path, handlers...)
	case http.MethodDelete:
		e.g.DELETE(a.Path, handlers...)
	default: // 默认 POST
		e.g.POST(a.Path, handlers...)
	}
}

// bindJSON 同 ShouldBindJSON，但数字解成 json.Number，超过 2^53 的整数不丢精度
func bindJSON(c *gin.Context, obj any) error {
	if c.Request == nil || c.Request.Body == nil {
		return errors.New("invalid request")
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(obj); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(obj)
}

// fail 统一错误映射
func (e EZ) fail(c *gin.Context, err error) {
	var ae *AErr
	if !errors.As(err, &ae) {
		ae = &AErr{Code: http.StatusInternalServerError, Msg: "unhandled action error", Err: err}
	}
	if ae.Code >= http.StatusInternalServerError {
		e.l.Error(ae.Msg,
			zap.Error(ae.Err),
			zap.String("rid", c.GetString("rid")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
		)
		_ = c.Error(err)
		body := ae.Body
		if body == nil {
			body = resp.Error(http.StatusInternalServerError, "")
		}
		c.AbortWithStatusJSON(ae.Code, body)
		return
	}
	if ae.Body != nil {
		c.AbortWithStatusJSON(ae.Code, ae.Body)
		return
	}
	c.AbortWithStatusJSON(ae.Code, resp.Error(ae.Code, ae.Msg))
}
