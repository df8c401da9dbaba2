// Package storage はアップロードファイルのローカルディスク保存を提供する。
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileStore はアップロードされたバイナリを保存し、参照文字列を返すインターフェース。
// 参照文字列はユーザー・投稿レコードに保存され、/assets/ 配下で配信される。
type FileStore interface {
	Save(filename string, r io.Reader) (string, error)
}

// LocalStore は設定されたディレクトリ配下にファイルを保存するFileStore実装。
// 保存名は元のファイル名を維持する。同名ファイルは上書きされる。
type LocalStore struct {
	dir string
}

// NewLocalStore はLocalStoreを生成し、保存先ディレクトリを作成する。
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create assets directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save はrの内容をディレクトリ配下に書き込み、保存した参照名を返す。
// パストラバーサルを防ぐため、ファイル名はベース名のみを使用する。
func (s *LocalStore) Save(filename string, r io.Reader) (string, error) {
	name := filepath.Base(filepath.Clean(filename))
	if name == "." || name == ".." || name == string(filepath.Separator) || name == "" {
		return "", fmt.Errorf("invalid file name: %q", filename)
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return name, nil
}

// Dir は保存先ディレクトリを返す。静的配信ハンドラーの構成に使用する。
func (s *LocalStore) Dir() string {
	return s.dir
}

// compile-time interface check
var _ FileStore = (*LocalStore)(nil)
