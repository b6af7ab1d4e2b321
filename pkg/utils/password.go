package utils

import "golang.org/x/crypto/bcrypt"

// 与原服务保持一致的默认 cost
const DefaultPasswordCost = 10

func HashPassword(pw string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultPasswordCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
