package domain

import "context"

// Restaurant 餐厅账号（唯一实体）。json tag 沿用原有 API 的字段名
type Restaurant struct {
	ID            string `json:"_id"`
	Name          string `json:"Name"`
	Email         string `json:"Email"`
	PasswordHash  string `json:"-"`
	CommercialNum int64  `json:"Commercial_Num"`
	Phone         string `json:"Phone"`
	Location      string `json:"Location"`
	Img           string `json:"img,omitempty"`
}

// RestaurantPatch 部分更新：nil 表示不修改该字段
type RestaurantPatch struct {
	Name          *string
	Email         *string
	PasswordHash  *string
	CommercialNum *int64
	Phone         *string
	Location      *string
	Img           *string
}

func (p RestaurantPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.PasswordHash == nil &&
		p.CommercialNum == nil && p.Phone == nil && p.Location == nil && p.Img == nil
}

// Apply 把 patch 写到 r 上（内存仓库与测试共用）
func (p RestaurantPatch) Apply(r *Restaurant) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Email != nil {
		r.Email = *p.Email
	}
	if p.PasswordHash != nil {
		r.PasswordHash = *p.PasswordHash
	}
	if p.CommercialNum != nil {
		r.CommercialNum = *p.CommercialNum
	}
	if p.Phone != nil {
		r.Phone = *p.Phone
	}
	if p.Location != nil {
		r.Location = *p.Location
	}
	if p.Img != nil {
		r.Img = *p.Img
	}
}

// RestaurantRepository 存储抽象。
// 找不到（含 id 格式非法）返回 ErrNotFound，唯一约束冲突返回 ErrDuplicate。
type RestaurantRepository interface {
	List(ctx context.Context) ([]Restaurant, error)
	FindByID(ctx context.Context, id string) (*Restaurant, error)
	FindByEmail(ctx context.Context, email string) (*Restaurant, error)
	Create(ctx context.Context, r *Restaurant) error
	Update(ctx context.Context, id string, p RestaurantPatch) (*Restaurant, error)
	Delete(ctx context.Context, id string) error
}
