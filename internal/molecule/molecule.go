package molecule

import (
	"fmt"
	"strings"
)

// デモで使う定数
const (
	CaffeineFormula   = "C8H10N4O2"
	CaffeineStructure = "1,3,7-trimetilxantina"
)

// 判定行に出す文言
const (
	VerdictSame      = "MISMA MOLÉCULA ✅"
	VerdictDifferent = "DISTINTAS ❌"
)

// Descriptor は化合物を識別するための分子式と構造名の組
type Descriptor struct {
	Name      string // 表示用のラベル（比較には使わない）
	Formula   string // 分子式
	Structure string // 構造名
}

// Verdict は同一性判定の結果
type Verdict struct {
	Same bool   // 同一分子かどうか
	Text string // 判定ブロックのテキスト
}

// Caffeine はカフェインの記述子を返す
func Caffeine() Descriptor {
	return Descriptor{Name: "cafeína", Formula: CaffeineFormula, Structure: CaffeineStructure}
}

// Mateine は「マテイン」の記述子を返す。化学的にはカフェインと同じ値を持つ
func Mateine() Descriptor {
	return Descriptor{Name: "mateína", Formula: CaffeineFormula, Structure: CaffeineStructure}
}

// Same は二つの記述子が同じ分子を指すかを判定する
func Same(a, b Descriptor) bool {
	if strings.TrimSpace(a.Formula) != strings.TrimSpace(b.Formula) {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(a.Structure), strings.TrimSpace(b.Structure))
}

// Evaluate は判定とテキストをまとめて返す
func Evaluate(a, b Descriptor) Verdict {
	return Verdict{
		Same: Same(a, b),
		Text: Report(a, b),
	}
}

// Report は両方の記述子と判定行を含む複数行のブロックを返す
//
// 出力例:
//
//	mateína:
//	  fórmula   = C8H10N4O2
//	  estructura= 1,3,7-trimetilxantina
//
//	cafeína:
//	  fórmula   = C8H10N4O2
//	  estructura= 1,3,7-trimetilxantina
//
//	veredicto químico: MISMA MOLÉCULA ✅
func Report(a, b Descriptor) string {
	var sb strings.Builder
	writeDescriptor(&sb, a)
	sb.WriteString("\n")
	writeDescriptor(&sb, b)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "veredicto químico: %s", verdictLine(Same(a, b)))
	return sb.String()
}

func writeDescriptor(sb *strings.Builder, d Descriptor) {
	fmt.Fprintf(sb, "%s:\n", label(d))
	fmt.Fprintf(sb, "  fórmula   = %s\n", d.Formula)
	fmt.Fprintf(sb, "  estructura= %s\n", d.Structure)
}

func verdictLine(same bool) string {
	if same {
		return VerdictSame
	}
	return VerdictDifferent
}

// label はラベルが空の場合に分子式で代用する
func label(d Descriptor) string {
	if name := strings.TrimSpace(d.Name); name != "" {
		return name
	}
	return strings.TrimSpace(d.Formula)
}
