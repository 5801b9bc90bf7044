// Package cli はmateinaのコマンドラインインターフェースを実装します。
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mateina/internal/browser"
	"mateina/internal/config"
	"mateina/internal/logging"
	"mateina/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveOptions はサーバー起動のコマンドラインオプション
type serveOptions struct {
	configPath string
	host       string
	port       int
	image      string
	noOpen     bool
	logLevel   string
}

// Execute はルートコマンドを実行し、プロセスの終了コードを返す
func Execute() int {
	cmd := newRootCommand(browser.NewSystem())
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		return 1
	}
	return 0
}

// newRootCommand はルートコマンドを作成する。引数なしで実行するとサーバーを起動する
func newRootCommand(opener browser.Opener) *cobra.Command {
	defaults := config.Default()
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:          "mateina",
		Short:        "Servidor local: cafeína vs 'mateína'",
		Long:         "Sirve una página con el veredicto de identidad molecular en \"/\" y los archivos del directorio de trabajo en el resto de rutas.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, opener)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "設定ファイル (YAML)")
	flags.StringVar(&opts.host, "host", defaults.Server.Host, "サーバーのホスト")
	flags.IntVar(&opts.port, "port", defaults.Server.Port, "サーバーのポート")
	flags.StringVar(&opts.image, "image", defaults.Page.ImageName, "構造式の画像ファイル名")
	flags.BoolVar(&opts.noOpen, "no-open", false, "ブラウザを自動で開かない")
	flags.StringVar(&opts.logLevel, "log-level", defaults.Log.Level, "ログレベル (debug, info, warn, error)")

	cmd.AddCommand(newReportCommand(opener))

	return cmd
}

// load は設定を読み込み、指定されたコマンドラインオプションで上書きする
func (o *serveOptions) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host = o.host
	}
	if flags.Changed("port") {
		cfg.Server.Port = o.port
	}
	if flags.Changed("image") {
		cfg.Page.ImageName = o.image
	}
	if flags.Changed("no-open") {
		cfg.Browser.AutoOpen = !o.noOpen
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}
	return cfg, nil
}

// runServe はサーバーを起動し、停止するまでブロックする
func runServe(ctx context.Context, cfg *config.Config, opener browser.Opener) error {
	// 起動途中の割り込みも正常終了として扱う
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	gin.SetMode(gin.ReleaseMode)

	srv, err := server.New(cfg, server.WithLogger(logger), server.WithOpener(opener))
	if err != nil {
		logger.Error("サーバーの作成に失敗しました", zap.Error(err))
		return err
	}

	if err := srv.Start(ctx); err != nil {
		if errors.Is(err, server.ErrListen) {
			logger.Error("アドレスを使用できません", zap.String("address", cfg.ServerAddress()), zap.Error(err))
		}
		return err
	}
	return nil
}
