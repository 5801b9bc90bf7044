package asset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// pngHeader はPNGのシグネチャとIHDRチャンクの先頭
var pngHeader = []byte{
	0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n',
	0x00, 0x00, 0x00, 0x0d, 'I', 'H', 'D', 'R',
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00,
}

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("ディレクトリの作成に失敗しました: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("ファイルの作成に失敗しました: %v", err)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "caffeine_structure.png", pngHeader)
	writeFile(t, dir, "img/nota.txt", []byte("esto no es una imagen\n"))
	if err := os.Mkdir(filepath.Join(dir, "carpeta"), 0o755); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name        string
		file        string
		wantMissing bool
		wantImage   bool
	}{
		{"PNG画像", "caffeine_structure.png", false, true},
		{"テキストファイル", "img/nota.txt", false, false},
		{"存在しないファイル", "no_existe.png", true, false},
		{"ディレクトリ", "carpeta", true, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			info, err := Check(dir, tc.file)

			if got := errors.Is(err, ErrMissing); got != tc.wantMissing {
				t.Fatalf("ErrMissing = %v, want %v (err: %v)", got, tc.wantMissing, err)
			}
			if !tc.wantMissing && err != nil {
				t.Fatalf("予期しないエラーが発生しました: %v", err)
			}
			if info.IsImage() != tc.wantImage {
				t.Errorf("IsImage() = %v, want %v (mime: %s)", info.IsImage(), tc.wantImage, info.MIME)
			}
			if info.Path != filepath.Join(dir, filepath.FromSlash(tc.file)) {
				t.Errorf("パスが一致しません: %s", info.Path)
			}
		})
	}
}

func TestCheckSize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "caffeine_structure.png", pngHeader)

	info, err := Check(dir, "caffeine_structure.png")
	if err != nil {
		t.Fatalf("予期しないエラーが発生しました: %v", err)
	}
	if info.MIME != "image/png" {
		t.Errorf("MIMEタイプが一致しません: got %s", info.MIME)
	}
	if info.Size != int64(len(pngHeader)) {
		t.Errorf("サイズが一致しません: got %d", info.Size)
	}
	if info.HumanSize() != "29 B" {
		t.Errorf("HumanSize() = %s", info.HumanSize())
	}
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "caffeine_structure.png", pngHeader)
	writeFile(t, dir, "nota.txt", []byte("hola"))

	testCases := []struct {
		name      string
		file      string
		wantLevel zapcore.Level
	}{
		{"画像あり", "caffeine_structure.png", zapcore.InfoLevel},
		{"画像なし", "no_existe.png", zapcore.WarnLevel},
		{"画像ではない", "nota.txt", zapcore.WarnLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)

			Report(zap.New(core), dir, tc.file)

			if logs.Len() != 1 {
				t.Fatalf("ログは一度だけ出力されるべき: got %d", logs.Len())
			}
			if entry := logs.All()[0]; entry.Level != tc.wantLevel {
				t.Errorf("ログレベルが一致しません: got %s, want %s", entry.Level, tc.wantLevel)
			}
		})
	}
}
