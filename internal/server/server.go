package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"mateina/internal/apispec"
	"mateina/internal/asset"
	"mateina/internal/browser"
	"mateina/internal/config"
	"mateina/internal/logging"
	"mateina/internal/page"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrListen はアドレスのバインドに失敗した場合のエラー
var ErrListen = errors.New("リッスンに失敗")

// shutdownTimeout は処理中のリクエストを待つ時間
const shutdownTimeout = 5 * time.Second

// Server はHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	logger     *zap.Logger
	opener     browser.Opener
	engine     *gin.Engine
	handler    *PageHandler
	httpServer *http.Server
}

// Option はServerのオプション
type Option func(*Server)

// WithLogger はロガーを設定する
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithOpener はブラウザを開くOpenerを設定する
func WithOpener(opener browser.Opener) Option {
	return func(s *Server) {
		s.opener = opener
	}
}

// New は新しいServerインスタンスを作成する
// テンプレート・API定義・静的ファイルのルートのいずれかが不正な場合は起動できないためエラーを返す
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		config: cfg,
		logger: zap.NewNop(),
		opener: browser.NewSystem(),
	}
	for _, opt := range opts {
		opt(s)
	}

	tmpl, err := page.New()
	if err != nil {
		return nil, fmt.Errorf("テンプレートの作成に失敗: %w", err)
	}

	static, err := NewStaticHandler(cfg.Page.StaticRoot)
	if err != nil {
		return nil, err
	}

	s.handler = NewPageHandler(tmpl, cfg.Page.ImageName, static, s.logger)

	// 描画できない設定ではリクエストを受け付けない
	body, err := s.handler.Render()
	if err != nil {
		return nil, fmt.Errorf("ページの描画に失敗: %w", err)
	}

	if err := checkContract(OK(body, page.ContentType)); err != nil {
		return nil, err
	}

	s.engine = s.setupRoutes()
	s.httpServer = &http.Server{
		Handler:      s.engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorLog:     zap.NewStdLog(s.logger),
	}

	return s, nil
}

// checkContract は描画したルートページのレスポンスがAPI定義に従っているか確認する
func checkContract(frame Frame) error {
	ctx := context.Background()

	doc, err := apispec.Load(ctx)
	if err != nil {
		return err
	}
	validator, err := apispec.NewValidator(doc)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return err
	}
	return validator.ValidateResponse(ctx, req, frame.Status, frame.Header, frame.Body)
}

// setupRoutes はHTTPルートを設定する
func (s *Server) setupRoutes() *gin.Engine {
	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(logging.RequestLogger(s.logger), logging.Recovery(s.logger))

	// すべてのパスを一つのハンドラで受け、振り分けはRouteで行う
	engine.GET("/*path", s.handler.Handle)
	engine.HEAD("/*path", s.handler.Handle)

	return engine
}

// Handler はサーバーのhttp.Handlerを返す
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Listen は設定されたアドレスでリッスンを開始する
func (s *Server) Listen() (net.Listener, error) {
	addr := s.config.ServerAddress()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrListen, addr, err)
	}
	return ln, nil
}

// Start はサーバーを起動する
func (s *Server) Start(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve はlnで接続を受け付け、コンテキストがキャンセルされるまでブロックする
// シグナルはctxに紐づけて呼び出し側で扱う
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	// 画像ファイルの確認（無くても起動は続ける）
	asset.Report(s.logger, s.config.Page.StaticRoot, s.config.Page.ImageName)

	url := "http://" + ln.Addr().String() + "/"

	// シャットダウン用のチャンネル
	shutdownCh := make(chan error, 1)

	// サーバーを別ゴルーチンで起動
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			shutdownCh <- fmt.Errorf("サーバーの実行に失敗: %w", err)
		}
	}()
	s.logger.Info("サーバーを起動しました", zap.String("url", url))

	// 起動前に停止を要求された場合はブラウザを開かない
	if s.config.Browser.AutoOpen && ctx.Err() == nil {
		if err := s.opener.Open(ctx, url); err != nil {
			s.logger.Warn("ブラウザを開けませんでした", zap.String("url", url), zap.Error(err))
		}
	}

	select {
	case <-ctx.Done():
		s.logger.Info("停止が要求されました", zap.Error(context.Cause(ctx)))
	case err := <-shutdownCh:
		return err
	}

	// グレースフルシャットダウン
	return s.Shutdown()
}

// Shutdown はサーバーをグレースフルにシャットダウンする
func (s *Server) Shutdown() error {
	s.logger.Info("サーバーをシャットダウンしています...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
	}

	s.logger.Info("サーバーが正常にシャットダウンされました")
	return nil
}
