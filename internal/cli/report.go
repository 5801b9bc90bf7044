package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"mateina/internal/asset"
	"mateina/internal/browser"
	"mateina/internal/config"
	"mateina/internal/molecule"

	"github.com/spf13/cobra"
)

// newReportCommand はコンソール向けレポートを表示するコマンドを作成する
func newReportCommand(opener browser.Opener) *cobra.Command {
	var (
		image   string
		noImage bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Demo en consola: 'mateína' vs cafeína",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprint(out, molecule.Summary(molecule.Mateine(), molecule.Caffeine()))

			if noImage {
				return nil
			}

			fmt.Fprintln(out, "\n[IMG] Mostrando imagen de la estructura...")

			// ビューアで開くだけなのでURL用の制限はかけない。相対パスは作業ディレクトリ基準
			abs, err := filepath.Abs(image)
			if err != nil {
				return err
			}

			_, err = asset.Check(filepath.Dir(abs), filepath.Base(abs))
			if errors.Is(err, asset.ErrMissing) {
				printLines(out, fmt.Sprintf("[WARN] No encontré la imagen en: %s", image))
				return nil
			}
			if err != nil {
				return err
			}

			if err := opener.Open(cmd.Context(), abs); err != nil {
				printLines(out,
					fmt.Sprintf("[WARN] No pude abrir la imagen automáticamente: %v", err),
					fmt.Sprintf("[INFO] Abrí manualmente la imagen: %s", abs))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&image, "image", config.Default().Page.ImageName, "構造式の画像ファイルのパス")
	cmd.Flags().BoolVar(&noImage, "no-image", false, "画像を表示しない（テキストのみ）")

	return cmd
}

// printLines は行ごとに出力する
func printLines(w io.Writer, lines ...string) {
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}
