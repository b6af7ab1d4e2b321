package restaurant

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"restaurant-api/internal/domain"
)

// Input 创建 / 更新请求体。字段保留原始 JSON 值（nil 表示请求里没带），
// 类型错误交给规则表报错，不让整个绑定失败
type Input struct {
	Name     any `json:"Name"`
	Email    any `json:"Email"`
	Password any `json:"Password"`
	// 兼容数字和数字字符串
	CommercialNum any `json:"Commercial_Num"`
	Phone         any `json:"Phone"`
	Location      any `json:"Location"`
	Img           any `json:"img"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// 字段名（与 json tag 一致，校验错误里的 path 用它）
const (
	FieldName          = "Name"
	FieldEmail         = "Email"
	FieldPassword      = "Password"
	FieldCommercialNum = "Commercial_Num"
	FieldPhone         = "Phone"
	FieldLocation      = "Location"
	FieldImg           = "img"
)

// value 返回字段值以及是否出现在请求中
func (in *Input) value(field string) (any, bool) {
	var v any
	switch field {
	case FieldName:
		v = in.Name
	case FieldEmail:
		v = in.Email
	case FieldPassword:
		v = in.Password
	case FieldPhone:
		v = in.Phone
	case FieldLocation:
		v = in.Location
	case FieldImg:
		v = in.Img
	case FieldCommercialNum:
		v = in.CommercialNum
	}
	return v, v != nil
}

// ToRestaurant 校验通过后调用；返回的记录不含密码哈希
func (in *Input) ToRestaurant() (domain.Restaurant, string) {
	r := domain.Restaurant{
		Name:     deref(in.Name),
		Email:    deref(in.Email),
		Phone:    deref(in.Phone),
		Location: deref(in.Location),
		Img:      deref(in.Img),
	}
	r.CommercialNum, _ = toInt64(in.CommercialNum)
	return r, deref(in.Password)
}

// ToPatch 只带出现的字段；明文密码单独返回，由调用方哈希
func (in *Input) ToPatch() (domain.RestaurantPatch, *string) {
	p := domain.RestaurantPatch{
		Name:     strPtr(in.Name),
		Email:    strPtr(in.Email),
		Phone:    strPtr(in.Phone),
		Location: strPtr(in.Location),
		Img:      strPtr(in.Img),
	}
	if n, ok := toInt64(in.CommercialNum); ok {
		p.CommercialNum = &n
	}
	return p, strPtr(in.Password)
}

// strPtr 非字符串（含未出现）返回 nil
func strPtr(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

func deref(v any) string {
	s, _ := v.(string)
	return s
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		// float64(MaxInt64) 是 2^63，必须用 >=
		if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}
