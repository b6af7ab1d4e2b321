package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-api/internal/core/auth"
	"restaurant-api/internal/core/server"
	"restaurant-api/internal/domain"
	"restaurant-api/internal/feature/restaurant"
	httpez "restaurant-api/internal/transport/http/ez"
	"restaurant-api/internal/transport/http/handler"
	mdw "restaurant-api/internal/transport/http/middleware"
	resp "restaurant-api/internal/transport/http/response"
)

type Deps struct {
	Log         *zap.Logger
	JWT         *auth.JWTer
	Restaurants handler.RestaurantService
	// 请求体上限，<=0 用 1MB
	MaxBodyBytes int64
}

func NewAPIEngine(d Deps) *gin.Engine {
	maxBody := d.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}

	r := server.NewRouter(d.Log,
		mdw.RequestID(),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)
	r.Use(
		mdw.MaxBodyBytes(maxBody),
		mdw.Sanitize(d.Log),
	)

	// 健康检查 / 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", mdw.MetricsHandler())

	h := handler.NewRestaurantHandler(d.Restaurants, d.Log)
	mountRestaurants(r.Group("/restaurants"), d.Log, h, mdw.AuthJWT(d.JWT, d.Log))
	return r
}

func mountRestaurants(g *gin.RouterGroup, l *zap.Logger, h *handler.RestaurantHandler, authGate gin.HandlerFunc) {
	ez := httpez.New(g, l)

	httpez.RegisterAction(ez, httpez.Action[struct{}, []domain.Restaurant]{
		Method:  http.MethodGet,
		Path:    "",
		Binder:  httpez.BindNone,
		Handler: h.List,
	})

	httpez.RegisterAction(ez, httpez.Action[restaurant.LoginInput, handler.LoginOut]{
		Method:      http.MethodPost,
		Path:        "/login",
		Binder:      httpez.BindJSON,
		OnBindError: func(error) error { return handler.InvalidCredentials() },
		Handler:     h.Login,
	})

	httpez.RegisterAction(ez, httpez.Action[restaurant.Input, handler.CreateOut]{
		Method:      http.MethodPost,
		Path:        "",
		Binder:      httpez.BindJSON,
		Status:      http.StatusCreated,
		OnBindError: invalidBody,
		Validate:    rules(restaurant.CreateRules),
		Handler:     h.Create,
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.Restaurant]{
		Method:  http.MethodGet,
		Path:    "/:id",
		Binder:  httpez.BindNone,
		Handler: h.Get,
	})

	httpez.RegisterAction(ez, httpez.Action[restaurant.Input, *domain.Restaurant]{
		Method:      http.MethodPatch,
		Path:        "/:id",
		Binder:      httpez.BindJSON,
		Use:         []gin.HandlerFunc{authGate},
		OnBindError: invalidBody,
		Validate:    rules(restaurant.UpdateRules),
		Handler:     h.Update,
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, handler.DeleteOut]{
		Method:  http.MethodDelete,
		Path:    "/:id",
		Binder:  httpez.BindNone,
		Use:     []gin.HandlerFunc{authGate},
		Handler: h.Delete,
	})
}

// rules 把规则表挂到路由上；失败时返回全部错误
func rules(rs restaurant.RuleSet) func(in *restaurant.Input) error {
	return func(in *restaurant.Input) error {
		if errs := rs.Validate(in); len(errs) > 0 {
			return httpez.Invalid(resp.Errors(errs))
		}
		return nil
	}
}

func invalidBody(error) error {
	return httpez.Invalid(resp.Errors([]restaurant.FieldError{restaurant.BodyError("Invalid request body")}))
}
