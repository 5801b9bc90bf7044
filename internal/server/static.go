package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// NewStaticHandler はrootを起点に静的ファイルを配信するハンドラを返す
// 存在しないファイルは404、ディレクトリトラバーサルはhttp.Dirが防ぐ
func NewStaticHandler(root string) (http.Handler, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("静的ファイルのルートの解決に失敗: %w", err)
	}

	st, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("静的ファイルのルートが見つかりません: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("静的ファイルのルートがディレクトリではありません: %s", abs)
	}

	return http.FileServer(http.Dir(abs)), nil
}
