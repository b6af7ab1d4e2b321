package repo

import (
	"context"
	"sync"

	"restaurant-api/internal/domain"
	"restaurant-api/pkg/utils"
)

// MemoryRestaurantRepo 进程内存储，保持插入顺序并校验唯一字段。
// 用于本地开发（db.driver=memory）和 handler 测试。
type MemoryRestaurantRepo struct {
	mu    sync.RWMutex
	order []string
	items map[string]domain.Restaurant
}

func NewMemoryRestaurantRepo() *MemoryRestaurantRepo {
	return &MemoryRestaurantRepo{items: map[string]domain.Restaurant{}}
}

func (r *MemoryRestaurantRepo) List(_ context.Context) ([]domain.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Restaurant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *MemoryRestaurantRepo) FindByID(_ context.Context, id string) (*domain.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &v, nil
}

func (r *MemoryRestaurantRepo) FindByEmail(_ context.Context, email string) (*domain.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		if v := r.items[id]; v.Email == email {
			return &v, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MemoryRestaurantRepo) Create(_ context.Context, rest *domain.Restaurant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflicts("", *rest) {
		return domain.ErrDuplicate
	}
	rest.ID = utils.NewID()
	r.items[rest.ID] = *rest
	r.order = append(r.order, rest.ID)
	return nil
}

func (r *MemoryRestaurantRepo) Update(_ context.Context, id string, p domain.RestaurantPatch) (*domain.Restaurant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Apply(&v)
	if r.conflicts(id, v) {
		return nil, domain.ErrDuplicate
	}
	r.items[id] = v
	return &v, nil
}

func (r *MemoryRestaurantRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len 当前记录数（测试用）
func (r *MemoryRestaurantRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// 调用方需持有锁
func (r *MemoryRestaurantRepo) conflicts(selfID string, c domain.Restaurant) bool {
	for id, v := range r.items {
		if id == selfID {
			continue
		}
		if v.Email == c.Email || v.CommercialNum == c.CommercialNum || v.Phone == c.Phone {
			return true
		}
	}
	return false
}
