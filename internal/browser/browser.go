// Package browser はOSの既定のアプリケーションでURLやファイルを開きます。
package browser

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Opener はURLやファイルを開くインターフェース
type Opener interface {
	Open(ctx context.Context, target string) error
}

// CommandFunc は外部コマンドを作成する関数
type CommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// System はOSの既定のブラウザ・ビューアを使うOpener
type System struct {
	goos    string
	command CommandFunc
}

// NewSystem は実行中のOS向けのSystemを作成する
func NewSystem() *System {
	return NewSystemFor(runtime.GOOS, exec.CommandContext)
}

// NewSystemFor はOSとコマンド作成関数を指定してSystemを作成する
func NewSystemFor(goos string, command CommandFunc) *System {
	return &System{goos: goos, command: command}
}

// Command はtargetを開くためのコマンドと引数を返す
func (s *System) Command(target string) (string, []string) {
	switch s.goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	case "darwin":
		return "open", []string{target}
	default:
		return "xdg-open", []string{target}
	}
}

// Open はtargetを開く。起動したコマンドの終了は待たない
func (s *System) Open(ctx context.Context, target string) error {
	name, args := s.Command(target)

	cmd := s.command(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s の起動に失敗: %w", name, err)
	}

	// ゾンビプロセスを残さない
	go func() {
		_ = cmd.Wait()
	}()

	return nil
}
