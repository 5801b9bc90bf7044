// Package logging はzapロガーの生成とginのログ用ミドルウェアを提供します。
package logging

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDKey はgin.Contextにリクエストidを保存するキー
const RequestIDKey = "request_id"

// New はログレベルと出力形式を指定してロガーを作成する
func New(level string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("ログレベルの解析に失敗: %w", err)
	}

	config := zap.NewProductionConfig()
	if development {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("ロガーの初期化に失敗: %w", err)
	}
	return logger, nil
}

// RequestLogger はリクエストごとにメソッド、パス、ステータス、処理時間を記録する
// アクセスログは多くなりがちなのでDebugレベルで出力する
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := uuid.NewString()
		c.Set(RequestIDKey, id)

		path := c.Request.URL.Path
		c.Next()

		logger.Debug("リクエストを処理しました",
			zap.String(RequestIDKey, id),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Int("size", c.Writer.Size()),
			zap.Duration("duration", time.Since(start)))
	}
}

// Recovery はハンドラ内のpanicを回復し、500を返す。サーバーは停止しない
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("リクエスト処理中にpanicが発生しました",
					zap.String(RequestIDKey, c.GetString(RequestIDKey)),
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", r))
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}
