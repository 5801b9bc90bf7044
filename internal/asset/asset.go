// Package asset は起動時に構造式の画像ファイルを確認します。
//
// 画像が無くてもページは表示されるため、結果は警告としてのみ扱います。
package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// ErrMissing は画像ファイルが存在しない場合のエラー
var ErrMissing = errors.New("画像ファイルが見つかりません")

// Info は画像ファイルの情報
type Info struct {
	Path string // ファイルパス
	Size int64  // ファイルサイズ
	MIME string // 検出されたMIMEタイプ
}

// IsImage は検出されたMIMEタイプが画像かどうかを返す
func (i Info) IsImage() bool {
	return strings.HasPrefix(i.MIME, "image/")
}

// HumanSize は人間が読みやすい形式のサイズを返す
func (i Info) HumanSize() string {
	return humanize.Bytes(uint64(i.Size))
}

// Check はroot配下のnameを確認し、存在すればMIMEタイプを判定する
func Check(root, name string) (Info, error) {
	path := filepath.Join(root, filepath.FromSlash(name))
	info := Info{Path: path}

	st, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return info, fmt.Errorf("%w: %s", ErrMissing, path)
	}
	if err != nil {
		return info, fmt.Errorf("画像ファイルの確認に失敗: %w", err)
	}
	if st.IsDir() {
		return info, fmt.Errorf("%w: %s はディレクトリです", ErrMissing, path)
	}
	info.Size = st.Size()

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return info, fmt.Errorf("MIMEタイプの判定に失敗: %w", err)
	}
	info.MIME = mt.String()

	return info, nil
}

// Report は確認結果をログに出力する。起動時に一度だけ呼ぶ
func Report(logger *zap.Logger, root, name string) Info {
	info, err := Check(root, name)
	switch {
	case errors.Is(err, ErrMissing):
		logger.Warn("画像ファイルが見つかりません。ページは表示されますが画像は読み込まれません",
			zap.String("path", info.Path))
	case err != nil:
		logger.Warn("画像ファイルを確認できませんでした", zap.String("path", info.Path), zap.Error(err))
	case !info.IsImage():
		logger.Warn("画像ファイルではない可能性があります",
			zap.String("path", info.Path),
			zap.String("mime", info.MIME))
	default:
		logger.Info("画像ファイルを確認しました",
			zap.String("path", info.Path),
			zap.String("mime", info.MIME),
			zap.String("size", info.HumanSize()))
	}
	return info
}
