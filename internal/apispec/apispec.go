// Package apispec はHTTPインターフェースの定義（OpenAPI）を読み込みます。
//
// サーバーは起動時に定義を検証し、描画したルートページのレスポンスが
// 定義に従っていることを確認します。
package apispec

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var document []byte

// Load は埋め込まれたOpenAPI定義を読み込み、検証する
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("API定義の読み込みに失敗: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("API定義の検証に失敗: %w", err)
	}
	return doc, nil
}
