// Package auth は認証のドメインロジック（パスワードハッシュ、トークン発行・検証、登録・ログイン）を提供する。
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword は平文パスワードをbcryptでハッシュ化する。
// ソルトは内部で毎回ランダム生成されるため、同一入力でも出力は毎回異なる。
// costが範囲外（bcrypt.MaxCost超）の場合のみエラーを返す。
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword は平文パスワードとハッシュの一致を検証する。
// 不一致の場合はエラーではなくfalseを返す。
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
