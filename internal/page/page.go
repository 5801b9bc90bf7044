// Package page はルートページのHTMLを生成します。
//
// テンプレートは埋め込みファイルから一度だけ読み込まれ、
// 列挙されたフィールド（IdentityBlock, ImageName）だけを参照できます。
// 計算されたテキストは html/template によって必ずエスケープされます。
package page

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"text/template/parse"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

const templateName = "templates/index.html.tmpl"

// ContentType はレンダリング結果のContent-Type
const ContentType = "text/html; charset=utf-8"

// Context はテンプレートに渡す値の集合
type Context struct {
	IdentityBlock string // 判定ブロック（常にエスケープされる）
	ImageName     string // 画像ファイル名（安全なパスであること）
}

// contextFields はテンプレートが参照してよいフィールド名
var contextFields = map[string]struct{}{
	"IdentityBlock": {},
	"ImageName":     {},
}

// TemplateError はテンプレートとContextのキーが一致しない場合のエラー
type TemplateError struct {
	Key string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template: missing key %s", e.Key)
}

// Template は解析済みのページテンプレート。生成後は変更されないため並行利用できる
type Template struct {
	tmpl *template.Template
}

// New は埋め込みテンプレートからTemplateを作成する
func New() (*Template, error) {
	data, err := templateFS.ReadFile(templateName)
	if err != nil {
		return nil, fmt.Errorf("埋め込みテンプレートの読み込みに失敗: %w", err)
	}
	return Parse(string(data))
}

// Parse はテンプレート文字列を解析し、参照フィールドを検証する
func Parse(text string) (*Template, error) {
	tmpl, err := template.New("index").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("テンプレートの解析に失敗: %w", err)
	}

	for _, t := range tmpl.Templates() {
		if t.Tree == nil || t.Tree.Root == nil {
			continue
		}
		if key := unknownField(t.Tree.Root); key != "" {
			return nil, &TemplateError{Key: key}
		}
	}

	return &Template{tmpl: tmpl}, nil
}

// Render はContextをテンプレートに埋め込み、UTF-8のHTMLを返す
func (t *Template) Render(data Context) ([]byte, error) {
	if err := ValidateImageName(data.ImageName); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("テンプレートの実行に失敗: %w", err)
	}
	return buf.Bytes(), nil
}

// unknownField は許可されていないフィールド参照を探し、最初に見つかった名前を返す
func unknownField(node parse.Node) string {
	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return ""
		}
		for _, child := range n.Nodes {
			if key := unknownField(child); key != "" {
				return key
			}
		}
	case *parse.ActionNode:
		return unknownField(n.Pipe)
	case *parse.PipeNode:
		if n == nil {
			return ""
		}
		for _, cmd := range n.Cmds {
			for _, arg := range cmd.Args {
				if key := unknownField(arg); key != "" {
					return key
				}
			}
		}
	case *parse.FieldNode:
		return checkField(n.Ident)
	case *parse.VariableNode:
		// $ はContext自身を指す
		if len(n.Ident) > 1 && n.Ident[0] == "$" {
			return checkField(n.Ident[1:])
		}
	case *parse.ChainNode:
		if key := unknownField(n.Node); key != "" {
			return key
		}
	case *parse.IfNode:
		return unknownBranch(&n.BranchNode)
	case *parse.RangeNode:
		return unknownBranch(&n.BranchNode)
	case *parse.WithNode:
		return unknownBranch(&n.BranchNode)
	case *parse.TemplateNode:
		return unknownField(n.Pipe)
	}
	return ""
}

func unknownBranch(n *parse.BranchNode) string {
	if key := unknownField(n.Pipe); key != "" {
		return key
	}
	if key := unknownField(n.List); key != "" {
		return key
	}
	if n.ElseList != nil {
		return unknownField(n.ElseList)
	}
	return ""
}

func checkField(ident []string) string {
	if len(ident) == 0 {
		return ""
	}
	if _, ok := contextFields[ident[0]]; !ok {
		return ident[0]
	}
	return ""
}
