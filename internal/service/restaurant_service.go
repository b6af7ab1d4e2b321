package service

import (
	"context"
	"errors"
	"fmt"

	"restaurant-api/internal/domain"
	"restaurant-api/pkg/utils"
)

// TokenIssuer 签发绑定餐厅 id 的令牌（auth.JWTer 实现）
type TokenIssuer interface {
	Issue(id string) (string, error)
}

type RestaurantService struct {
	repo   domain.RestaurantRepository
	tokens TokenIssuer
	cost   int
	// 邮箱不存在时也做一次比较，响应时间不暴露账号是否存在
	dummyHash string
}

func NewRestaurantService(repo domain.RestaurantRepository, tokens TokenIssuer, bcryptCost int) *RestaurantService {
	s := &RestaurantService{repo: repo, tokens: tokens, cost: bcryptCost}
	s.dummyHash, _ = utils.HashPassword("restaurant-api/dummy", bcryptCost)
	return s
}

func (s *RestaurantService) List(ctx context.Context) ([]domain.Restaurant, error) {
	return s.repo.List(ctx)
}

func (s *RestaurantService) Get(ctx context.Context, id string) (*domain.Restaurant, error) {
	return s.repo.FindByID(ctx, id)
}

// Create 哈希密码 -> 落库 -> 签发令牌
func (s *RestaurantService) Create(ctx context.Context, r domain.Restaurant, password string) (*domain.Restaurant, string, error) {
	hash, err := s.hashOnWrite(password)
	if err != nil {
		return nil, "", err
	}
	r.PasswordHash = hash
	if err := s.repo.Create(ctx, &r); err != nil {
		return nil, "", err
	}
	tok, err := s.tokens.Issue(r.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token for %s: %w", r.ID, err)
	}
	return &r, tok, nil
}

// Update 只有 patch 带了密码才重新计算哈希
func (s *RestaurantService) Update(ctx context.Context, id string, p domain.RestaurantPatch, password *string) (*domain.Restaurant, error) {
	if password != nil {
		hash, err := s.hashOnWrite(*password)
		if err != nil {
			return nil, err
		}
		p.PasswordHash = &hash
	}
	return s.repo.Update(ctx, id, p)
}

func (s *RestaurantService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Login 邮箱不存在与密码错误统一返回 domain.ErrInvalidCredentials
func (s *RestaurantService) Login(ctx context.Context, email, password string) (*domain.Restaurant, string, error) {
	r, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		utils.CheckPassword(password, s.dummyHash)
		return nil, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if !utils.CheckPassword(password, r.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}
	tok, err := s.tokens.Issue(r.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token for %s: %w", r.ID, err)
	}
	return r, tok, nil
}

// hashOnWrite 落库前的密码转换
func (s *RestaurantService) hashOnWrite(password string) (string, error) {
	hash, err := utils.HashPassword(password, s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}
