package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"restaurant-api/internal/domain"
	"restaurant-api/internal/feature/restaurant"
	httpez "restaurant-api/internal/transport/http/ez"
	mdw "restaurant-api/internal/transport/http/middleware"
	resp "restaurant-api/internal/transport/http/response"
)

// RestaurantService service.RestaurantService 实现
type RestaurantService interface {
	List(ctx context.Context) ([]domain.Restaurant, error)
	Get(ctx context.Context, id string) (*domain.Restaurant, error)
	Create(ctx context.Context, r domain.Restaurant, password string) (*domain.Restaurant, string, error)
	Update(ctx context.Context, id string, p domain.RestaurantPatch, password *string) (*domain.Restaurant, error)
	Delete(ctx context.Context, id string) error
	Login(ctx context.Context, email, password string) (*domain.Restaurant, string, error)
}

type RestaurantHandler struct {
	svc RestaurantService
	l   *zap.Logger
}

func NewRestaurantHandler(svc RestaurantService, l *zap.Logger) *RestaurantHandler {
	return &RestaurantHandler{svc: svc, l: l}
}

type CreateOut struct {
	Token      string             `json:"token"`
	Restaurant *domain.Restaurant `json:"restaurant"`
}

type DeleteOut struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
}

type LoginOut struct {
	Message      string `json:"message"`
	Token        string `json:"token"`
	RestaurantID string `json:"restaurantId"`
	Name         string `json:"name"`
}

func (h *RestaurantHandler) List(c *gin.Context, _ *struct{}) ([]domain.Restaurant, error) {
	rs, err := h.svc.List(c.Request.Context())
	if err != nil {
		return nil, httpez.Internal("list restaurants failed", err)
	}
	h.l.Debug("restaurants listed", zap.Int("count", len(rs)))
	return rs, nil
}

func (h *RestaurantHandler) Get(c *gin.Context, _ *struct{}) (*domain.Restaurant, error) {
	id := c.Param("id")
	r, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		return nil, h.storeErr("get restaurant failed", id, err)
	}
	return r, nil
}

func (h *RestaurantHandler) Create(c *gin.Context, in *restaurant.Input) (CreateOut, error) {
	candidate, password := in.ToRestaurant()
	r, tok, err := h.svc.Create(c.Request.Context(), candidate, password)
	if err != nil {
		return CreateOut{}, h.storeErr("create restaurant failed", "", err)
	}
	h.l.Info("restaurant created", zap.String("id", r.ID), zap.String("name", r.Name))
	return CreateOut{Token: tok, Restaurant: r}, nil
}

func (h *RestaurantHandler) Update(c *gin.Context, in *restaurant.Input) (*domain.Restaurant, error) {
	id := c.Param("id")
	patch, password := in.ToPatch()
	r, err := h.svc.Update(c.Request.Context(), id, patch, password)
	if err != nil {
		return nil, h.storeErr("update restaurant failed", id, err)
	}
	h.l.Info("restaurant updated", zap.String("id", id), zap.String("by", callerID(c)))
	return r, nil
}

func (h *RestaurantHandler) Delete(c *gin.Context, _ *struct{}) (DeleteOut, error) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		return DeleteOut{}, h.storeErr("delete restaurant failed", id, err)
	}
	h.l.Info("restaurant deleted", zap.String("id", id), zap.String("by", callerID(c)))
	return DeleteOut{Success: true, Msg: resp.MsgDeleted}, nil
}

func (h *RestaurantHandler) Login(c *gin.Context, in *restaurant.LoginInput) (LoginOut, error) {
	r, tok, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		// 日志里区分原因，响应里不区分
		h.l.Warn("login failed", zap.String("email", in.Email))
		return LoginOut{}, InvalidCredentials()
	case err != nil:
		return LoginOut{}, httpez.WithBody(httpez.Internal("login failed", err), resp.Message(resp.MsgLoginServerError))
	}
	h.l.Info("login succeeded", zap.String("id", r.ID))
	return LoginOut{Message: resp.MsgLoginOK, Token: tok, RestaurantID: r.ID, Name: r.Name}, nil
}

// InvalidCredentials 登录失败统一响应（请求体无法解析时也用它）
func InvalidCredentials() error {
	return httpez.WithBody(httpez.BadRequest(resp.MsgInvalidCredentials), resp.Message(resp.MsgInvalidCredentials))
}

func (h *RestaurantHandler) storeErr(msg, id string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.l.Warn("restaurant not found", zap.String("id", id))
		return httpez.NotFound(resp.MsgNotFound)
	case errors.Is(err, domain.ErrDuplicate):
		h.l.Warn("restaurant unique field conflict", zap.String("id", id))
		return httpez.BadRequest(resp.MsgDuplicate)
	}
	return httpez.Internal(msg, err)
}

func callerID(c *gin.Context) string {
	if id, ok := mdw.IdentityFrom(c); ok {
		return id.ID
	}
	return ""
}
