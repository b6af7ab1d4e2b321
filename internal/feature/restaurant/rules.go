package restaurant

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldError 单条校验失败
type FieldError struct {
	Type     string `json:"type"`
	Value    any    `json:"value,omitempty"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

type Rule struct {
	Field string
	Msg   string
	Check func(v any) bool
}

// RuleSet Partial=true 时跳过请求中没有的字段
type RuleSet struct {
	Partial bool
	Rules   []Rule
}

var validate = validator.New()

// bcrypt 只接受 72 字节以内的密码
const maxPasswordBytes = 72

var fieldRules = []Rule{
	{FieldName, "Name is required", notEmpty},
	{FieldName, "Name must be a string", isString},
	{FieldLocation, "Location is required", notEmpty},
	{FieldLocation, "Location must be a string", isString},
	{FieldEmail, "Email is required", notEmpty},
	{FieldEmail, "Email must be a string", isString},
	// 唯一索引列 varchar(255)
	{FieldEmail, "Email is not valid", tag("email,max=255")},
	{FieldPassword, "Password is required", notEmpty},
	{FieldPassword, "Password must be a string", isString},
	{FieldPassword, "Password must be at least 8 characters long", tag("min=8")},
	{FieldPassword, "Password must be at most 72 bytes long", maxBytes(maxPasswordBytes)},
	{FieldPhone, "Phone is required", notEmpty},
	{FieldPhone, "Phone must be a string", isString},
	{FieldPhone, "Enter a valid phone number", tag("min=11,max=255")},
	{FieldCommercialNum, "Commercial number is required", notEmpty},
	{FieldCommercialNum, "Commercial number must be an integer", isInteger},
	{FieldImg, "img must be a string", isString},
}

var (
	CreateRules = RuleSet{Rules: fieldRules}
	UpdateRules = RuleSet{Partial: true, Rules: fieldRules}
)

// Validate 收集全部失败项，不在第一条失败时停止
func (rs RuleSet) Validate(in *Input) []FieldError {
	var errs []FieldError
	for _, r := range rs.Rules {
		v, present := in.value(r.Field)
		if !present && rs.Partial {
			continue
		}
		if r.Check(v) {
			continue
		}
		fe := FieldError{Type: "field", Msg: r.Msg, Path: r.Field, Location: "body"}
		if r.Field != FieldPassword {
			fe.Value = v
		}
		errs = append(errs, fe)
	}
	return errs
}

// BodyError 请求体无法解析时的单条错误
func BodyError(msg string) FieldError {
	return FieldError{Type: "body", Msg: msg, Location: "body"}
}

func notEmpty(v any) bool {
	switch s := v.(type) {
	case nil:
		return false
	case string:
		return s != ""
	}
	return fmt.Sprint(v) != ""
}

// isString 未出现的字段不算类型错误（由 notEmpty 负责）
func isString(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(string)
	return ok
}

// maxBytes 按字节计长度；非字符串交给 isString
func maxBytes(n int) func(v any) bool {
	return func(v any) bool {
		s, ok := v.(string)
		return !ok || len(s) <= n
	}
}

func isInteger(v any) bool {
	_, ok := toInt64(v)
	return ok
}

// tag 用 validator 的单字段规则检查字符串
func tag(t string) func(v any) bool {
	return func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		return validate.Var(s, t) == nil
	}
}
