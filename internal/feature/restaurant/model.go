package restaurant

import "restaurant-api/internal/domain"

// Model SQL 表结构；email / commercial_num / phone 唯一
type Model struct {
	ID            string `gorm:"primaryKey;type:varchar(36)"`
	Name          string `gorm:"size:255;not null"`
	Email         string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash  string `gorm:"size:100;not null"`
	CommercialNum int64  `gorm:"uniqueIndex;not null"`
	Phone         string `gorm:"uniqueIndex;size:255;not null"`
	Location      string `gorm:"size:255;not null"`
	Img           string `gorm:"size:1024"`
}

func (Model) TableName() string { return "restaurants" }

func FromDomain(r *domain.Restaurant) *Model {
	return &Model{
		ID:            r.ID,
		Name:          r.Name,
		Email:         r.Email,
		PasswordHash:  r.PasswordHash,
		CommercialNum: r.CommercialNum,
		Phone:         r.Phone,
		Location:      r.Location,
		Img:           r.Img,
	}
}

func (m *Model) ToDomain() domain.Restaurant {
	return domain.Restaurant{
		ID:            m.ID,
		Name:          m.Name,
		Email:         m.Email,
		PasswordHash:  m.PasswordHash,
		CommercialNum: m.CommercialNum,
		Phone:         m.Phone,
		Location:      m.Location,
		Img:           m.Img,
	}
}

// Columns 把 patch 转成 Updates 用的列 map（只含出现的字段）
func Columns(p domain.RestaurantPatch) map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	if p.PasswordHash != nil {
		cols["password_hash"] = *p.PasswordHash
	}
	if p.CommercialNum != nil {
		cols["commercial_num"] = *p.CommercialNum
	}
	if p.Phone != nil {
		cols["phone"] = *p.Phone
	}
	if p.Location != nil {
		cols["location"] = *p.Location
	}
	if p.Img != nil {
		cols["img"] = *p.Img
	}
	return cols
}
