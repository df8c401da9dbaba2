// Package model はドメインモデルを定義する。
package model

import "time"

// User は登録ユーザーを表す。
// PasswordHashはAPIレスポンスに含めてはならない。
type User struct {
	ID            string
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	Location      string
	Occupation    string
	PicturePath   string
	ViewedProfile int
	Impressions   int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FriendSummary は友人一覧で返す表示属性のみの投影。
// 友人一覧は取得時点の最新属性を結合して返す（投稿の作成時スナップショットとは異なる）。
type FriendSummary struct {
	ID          string
	FirstName   string
	LastName    string
	Location    string
	Occupation  string
	PicturePath string
}
