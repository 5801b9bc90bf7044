package page

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// ErrUnsafeImageName は画像ファイル名が安全なパスではない場合のエラー
var ErrUnsafeImageName = errors.New("安全でない画像ファイル名")

// ValidateImageName は画像ファイル名が作業ディレクトリ内の相対パスであることを検証する
func ValidateImageName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: 空です", ErrUnsafeImageName)
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return fmt.Errorf("%w: 制御文字を含みます: %q", ErrUnsafeImageName, name)
	}
	// URLのクエリやフラグメントとして解釈される文字は許可しない
	if strings.ContainsAny(name, `\?#`) {
		return fmt.Errorf("%w: 使用できない文字を含みます: %q", ErrUnsafeImageName, name)
	}
	for _, elem := range strings.Split(name, "/") {
		if elem == ".." {
			return fmt.Errorf("%w: 親ディレクトリを参照しています: %q", ErrUnsafeImageName, name)
		}
	}
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return fmt.Errorf("%w: 相対パスではありません: %q", ErrUnsafeImageName, name)
	}
	return nil
}
