package molecule

import (
	"fmt"
	"strings"
)

const rule = "=============================================================================="

const differenceSection = `La sensación puede variar aunque la molécula principal sea la misma, por:
  A) Origen vegetal (matriz distinta)
     - Mate:  Ilex paraguariensis
     - Café:  Coffea spp.

  B) Matriz de consumo (cómo entra al cuerpo)
     - Mate: dosis fraccionada (cebadas), ingesta sostenida.
     - Café: dosis más concentrada por taza, a veces más "de golpe".

  C) Co-compuestos (acompañantes) que modulan la experiencia
     - Polifenoles / taninos / ácidos, etc.
     - Efectos GI, percepción de "nervios", tolerancia, set & setting.

  D) Expectativas y aprendizaje (tu cerebro 'predice' el efecto)
     - Si esperás que mate sea distinto, tu interpretación subjetiva cambia.`

const memeticSection = `Idea central:
  - No hay selección natural de moléculas acá.
  - Hay selección cultural de ETIQUETAS y RELATOS (memes).

Regla "darwiniana" (social):
  - Sobrevive el nombre/relato que mejor cumple una función en su entorno.

Función de la etiqueta "mateína" en cultura matera:
  - Identidad: 'mate no es café' (marca de pertenencia).
  - Simplificación: explica diferencias percibidas sin bioquímica.
  - Propagación: es fácil de repetir y suena "técnico".

Función de "cafeína":
  - Estándar científico y universal (útil en nutrición, medicina, etiquetado).`

// Summary はコンソール向けの完全なレポートを返す
func Summary(a, b Descriptor) string {
	var sb strings.Builder

	sb.WriteString(rule + "\n")
	sb.WriteString("DEMO: 'MATEÍNA' vs CAFEÍNA\n")
	sb.WriteString(rule + "\n")

	sb.WriteString("\n[1] Identidad molecular (química)\n")
	fmt.Fprintf(&sb, "    - %s:  fórmula=%s, estructura=%s\n", label(a), a.Formula, a.Structure)
	fmt.Fprintf(&sb, "    - %s:  fórmula=%s, estructura=%s\n", label(b), b.Formula, b.Structure)

	if Same(a, b) {
		sb.WriteString("\n    VEREDICTO QUÍMICO: SON LA MISMA MOLÉCULA ✅\n")
		sb.WriteString("    (Cambian el nombre/relato, no el compuesto principal.)\n")
	} else {
		sb.WriteString("\n    VEREDICTO QUÍMICO: NO SON LA MISMA MOLÉCULA ❌\n")
	}

	sb.WriteString("\n[2] 'Diferencia' (percepción / fisiología práctica)\n")
	sb.WriteString(differenceSection + "\n")

	sb.WriteString("\n[3] Segmentación darwiniana (memética): por qué sobrevive 'mateína'\n")
	sb.WriteString(memeticSection + "\n")

	sb.WriteString("\n[4] Conclusión\n")
	sb.WriteString("    - Químicamente: 'mateína' == cafeína (misma molécula principal).\n")
	sb.WriteString("    - Prácticamente: cambia el 'pack': planta + consumo + co-compuestos + relato.\n")
	sb.WriteString(rule + "\n")

	return sb.String()
}
