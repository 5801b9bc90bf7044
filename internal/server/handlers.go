package server

import (
	"errors"
	"net/http"

	"mateina/internal/logging"
	"mateina/internal/molecule"
	"mateina/internal/page"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PageHandler はリクエストをルートページの描画か静的ファイル配信に振り分ける
// 保持する値はすべて読み取り専用で、リクエスト間で共有しても安全
type PageHandler struct {
	template  *page.Template
	imageName string
	static    http.Handler
	logger    *zap.Logger

	// 比較する二つの記述子
	subject   molecule.Descriptor
	reference molecule.Descriptor
}

// NewPageHandler は新しいPageHandlerを作成する
func NewPageHandler(tmpl *page.Template, imageName string, static http.Handler, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		template:  tmpl,
		imageName: imageName,
		static:    static,
		logger:    logger,
		subject:   molecule.Mateine(),
		reference: molecule.Caffeine(),
	}
}

// Handle はginに登録するハンドラ
func (h *PageHandler) Handle(c *gin.Context) {
	switch Route(requestURI(c.Request)) {
	case RenderPage:
		h.renderPage(c)
	default:
		h.static.ServeHTTP(c.Writer, c.Request)
	}
}

// Render はルートページを描画する。判定はリクエストごとに計算し直す
func (h *PageHandler) Render() ([]byte, error) {
	verdict := molecule.Evaluate(h.subject, h.reference)

	return h.template.Render(page.Context{
		IdentityBlock: verdict.Text,
		ImageName:     h.imageName,
	})
}

// renderPage はルートページを描画して書き込む
func (h *PageHandler) renderPage(c *gin.Context) {
	body, err := h.Render()
	if err != nil {
		// 起動時に検証済みのため通常は発生しない。途中までのHTMLは返さない
		h.logger.Error("ページの描画に失敗しました",
			zap.String(logging.RequestIDKey, c.GetString(logging.RequestIDKey)),
			zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	if err := OK(body, page.ContentType).Write(c.Writer); err != nil {
		var connErr *ConnectionError
		if errors.As(err, &connErr) {
			h.logger.Debug("クライアントへの書き込みに失敗しました",
				zap.String(logging.RequestIDKey, c.GetString(logging.RequestIDKey)),
				zap.Int("written", connErr.Written),
				zap.Error(connErr.Err))
		}
		c.Abort()
	}
}
