// Package model はドメインモデルを定義する。
package model

import "time"

// Post は投稿を表す。
// 投稿者の表示属性（FirstName、LastName、Location、UserPicturePath）は
// 作成時点のスナップショットであり、ユーザーの後続変更には追従しない。
type Post struct {
	ID              string
	UserID          string
	FirstName       string
	LastName        string
	Location        string
	Description     string
	PicturePath     string
	UserPicturePath string
	Likes           map[string]bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
