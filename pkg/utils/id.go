package utils

import "github.com/google/uuid"

func NewID() string { return uuid.NewString() }

// IsID 判断是否为 NewID 生成的格式
func IsID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}
