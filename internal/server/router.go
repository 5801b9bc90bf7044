package server

import (
	"net/http"
	"strings"
)

// Decision はリクエストの振り分け先
type Decision int

// Decision の定数定義
const (
	RenderPage     Decision = iota // ルートページを描画する
	StaticFallback                 // 静的ファイル配信に任せる
)

func (d Decision) String() string {
	switch d {
	case RenderPage:
		return "render_page"
	case StaticFallback:
		return "static_fallback"
	default:
		return "unknown"
	}
}

// Route はリクエストターゲットから振り分け先を決める
// "/index.html" などの別名は扱わない
func Route(requestURI string) Decision {
	if requestURI == "/" || strings.HasPrefix(requestURI, "/?") {
		return RenderPage
	}
	return StaticFallback
}

// requestURI はクライアントが送ったリクエストターゲットを返す
func requestURI(r *http.Request) string {
	if r.RequestURI != "" {
		return r.RequestURI
	}
	return r.URL.RequestURI()
}
