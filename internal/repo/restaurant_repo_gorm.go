package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"restaurant-api/internal/domain"
	"restaurant-api/internal/feature/restaurant"
	"restaurant-api/pkg/utils"
)

type GormRestaurantRepo struct{ db *gorm.DB }

func NewGormRestaurantRepo(db *gorm.DB) *GormRestaurantRepo { return &GormRestaurantRepo{db: db} }

// Migrate 建表 + 唯一索引
func (r *GormRestaurantRepo) Migrate() error {
	return r.db.AutoMigrate(&restaurant.Model{})
}

func (r *GormRestaurantRepo) List(ctx context.Context) ([]domain.Restaurant, error) {
	var ms []restaurant.Model
	if err := r.db.WithContext(ctx).Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	out := make([]domain.Restaurant, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].ToDomain())
	}
	return out, nil
}

func (r *GormRestaurantRepo) FindByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	if !utils.IsID(id) {
		return nil, domain.ErrNotFound
	}
	return r.first(r.db.WithContext(ctx), "id = ?", id)
}

func (r *GormRestaurantRepo) FindByEmail(ctx context.Context, email string) (*domain.Restaurant, error) {
	return r.first(r.db.WithContext(ctx), "email = ?", email)
}

func (r *GormRestaurantRepo) first(tx *gorm.DB, query string, args ...any) (*domain.Restaurant, error) {
	var m restaurant.Model
	err := tx.Where(query, args...).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find restaurant: %w", err)
	}
	out := m.ToDomain()
	return &out, nil
}

func (r *GormRestaurantRepo) Create(ctx context.Context, rest *domain.Restaurant) error {
	m := restaurant.FromDomain(rest)
	m.ID = utils.NewID()
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isDupKey(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create restaurant: %w", err)
	}
	rest.ID = m.ID
	return nil
}

// Update 存在性检查 + 更新 + 回读在同一事务内
func (r *GormRestaurantRepo) Update(ctx context.Context, id string, p domain.RestaurantPatch) (*domain.Restaurant, error) {
	if !utils.IsID(id) {
		return nil, domain.ErrNotFound
	}
	var out *domain.Restaurant
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.first(tx, "id = ?", id); err != nil {
			return err
		}
		if !p.Empty() {
			err := tx.Model(&restaurant.Model{}).Where("id = ?", id).Updates(restaurant.Columns(p)).Error
			if err != nil {
				if isDupKey(err) {
					return domain.ErrDuplicate
				}
				return fmt.Errorf("update restaurant: %w", err)
			}
		}
		var err error
		out, err = r.first(tx, "id = ?", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRestaurantRepo) Delete(ctx context.Context, id string) error {
	if !utils.IsID(id) {
		return domain.ErrNotFound
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&restaurant.Model{})
	if res.Error != nil {
		return fmt.Errorf("delete restaurant: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 驱动未翻译时按错误信息兜底
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
