package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"testing"
	"time"

	"mateina/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOpener は開かれた対象を記録する
type fakeOpener struct {
	opened []string
	err    error
}

func (f *fakeOpener) Open(ctx context.Context, target string) error {
	f.opened = append(f.opened, target)
	return f.err
}

func execute(t *testing.T, opener *fakeOpener, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(opener)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestReportNoImage(t *testing.T) {
	opener := &fakeOpener{}

	out, err := execute(t, opener, "report", "--no-image")
	require.NoError(t, err)

	assert.Contains(t, out, "DEMO: 'MATEÍNA' vs CAFEÍNA")
	assert.Contains(t, out, "SON LA MISMA MOLÉCULA")
	assert.NotContains(t, out, "[IMG]")
	assert.Empty(t, opener.opened)
}

func TestReportImage(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "caffeine_structure.png"), []byte("\x89PNG\r\n\x1a\n"), 0o644))

	t.Run("画像を開く", func(t *testing.T) {
		opener := &fakeOpener{}
		out, err := execute(t, opener, "report")
		require.NoError(t, err)

		assert.Contains(t, out, "[IMG] Mostrando imagen de la estructura...")
		require.Len(t, opener.opened, 1)
		assert.True(t, filepath.IsAbs(opener.opened[0]))
		assert.Equal(t, "caffeine_structure.png", filepath.Base(opener.opened[0]))
	})

	t.Run("開けない場合は案内を表示する", func(t *testing.T) {
		opener := &fakeOpener{err: errors.New("sin visor")}
		out, err := execute(t, opener, "report")
		require.NoError(t, err)

		assert.Contains(t, out, "[WARN] No pude abrir la imagen automáticamente: sin visor")
		assert.Contains(t, out, "[INFO] Abrí manualmente la imagen:")
	})

	t.Run("画像が無い", func(t *testing.T) {
		opener := &fakeOpener{}
		out, err := execute(t, opener, "report", "--image", "no_existe.png")
		require.NoError(t, err)

		assert.Contains(t, out, "[WARN] No encontré la imagen en: no_existe.png")
		assert.Empty(t, opener.opened)
	})

	t.Run("絶対パスの画像", func(t *testing.T) {
		other := t.TempDir()
		path := filepath.Join(other, "estructura.png")
		require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n"), 0o644))

		opener := &fakeOpener{}
		out, err := execute(t, opener, "report", "--image", path)
		require.NoError(t, err)

		assert.NotContains(t, out, "[WARN]")
		assert.Equal(t, []string{path}, opener.opened)
	})

	t.Run("作業ディレクトリ外の相対パス", func(t *testing.T) {
		sub := filepath.Join(dir, "sub")
		require.NoError(t, os.Mkdir(sub, 0o755))
		chdir(t, sub)

		opener := &fakeOpener{}
		_, err := execute(t, opener, "report", "--image", "../caffeine_structure.png")
		require.NoError(t, err)

		require.Len(t, opener.opened, 1)
		assert.Equal(t, filepath.Join(dir, "caffeine_structure.png"), opener.opened[0])
	})
}

func TestServeInvalidFlags(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"範囲外のポート", []string{"--port", "99999"}},
		{"ポート0", []string{"--port", "0"}},
		{"安全でない画像名", []string{"--image", "/etc/passwd"}},
		{"不明なログレベル", []string{"--log-level", "loud"}},
		{"空のホスト", []string{"--host", ""}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opener := &fakeOpener{}
			out, err := execute(t, opener, tc.args...)

			assert.ErrorIs(t, err, config.ErrInvalid)
			assert.Contains(t, out, "Error:")
			assert.Empty(t, opener.opened)
		})
	}
}

func TestServeUnknownArgs(t *testing.T) {
	_, err := execute(t, &fakeOpener{}, "extra")
	assert.Error(t, err)
}

func TestServe(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	port := freePort(t)
	url := fmt.Sprintf("http://127.0.0.1:%d/", port)
	opener := &fakeOpener{}

	cmd := newRootCommand(opener)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--port", strconv.Itoa(port), "--image", "mate.png", "--log-level", "error"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- cmd.ExecuteContext(ctx)
	}()

	client := &http.Client{Timeout: time.Second}
	var body []byte
	require.Eventually(t, func() bool {
		resp, err := client.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return false
		}
		body, err = io.ReadAll(resp.Body)
		return err == nil
	}, 3*time.Second, 20*time.Millisecond)

	assert.Contains(t, string(body), "MISMA MOLÉCULA")
	assert.Contains(t, string(body), "mate.png")

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(6 * time.Second):
		t.Fatal("サーバーの停止がタイムアウトしました")
	}

	assert.Equal(t, []string{url}, opener.opened)
}

func TestServeNoOpen(t *testing.T) {
	chdir(t, t.TempDir())

	port := freePort(t)
	opener := &fakeOpener{}

	cmd := newRootCommand(opener)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--port", strconv.Itoa(port), "--no-open", "--log-level", "error"})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Empty(t, opener.opened)
}

// TestServeInterrupt はSIGINTで正常終了することをテストする
func TestServeInterrupt(t *testing.T) {
	chdir(t, t.TempDir())

	port := freePort(t)
	url := fmt.Sprintf("http://127.0.0.1:%d/", port)

	cmd := newRootCommand(&fakeOpener{})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--port", strconv.Itoa(port), "--no-open", "--log-level", "error"})

	errCh := make(chan error, 1)
	go func() {
		errCh <- cmd.ExecuteContext(context.Background())
	}()

	client := &http.Client{Timeout: time.Second}
	require.Eventually(t, func() bool {
		resp, err := client.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(6 * time.Second):
		t.Fatal("サーバーの停止がタイムアウトしました")
	}
}

// TestServeStoppedBeforeStart は起動前の停止要求で正常終了しブラウザを開かないことをテストする
func TestServeStoppedBeforeStart(t *testing.T) {
	chdir(t, t.TempDir())

	opener := &fakeOpener{}
	cmd := newRootCommand(opener)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--port", strconv.Itoa(freePort(t)), "--log-level", "error"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Empty(t, opener.opened)
}

// chdir は t.Chdir（Go 1.24+）と同等：作業ディレクトリを変更し、テスト終了時に元に戻す
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
