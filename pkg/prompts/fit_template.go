package prompts

import (
	"fmt"
	"strings"

	"github.com/shouni/go-fitting-kit/pkg/domain"
)

const (
	// PhotoQualityTags クオリティ向上のための共通タグ
	PhotoQualityTags = "photorealistic, natural skin texture, sharp focus, 8k"

	// FittingNegativePrompt Negative Prompt の定義
	FittingNegativePrompt = "extra limbs, deformed hands, distorted garment, mismatched fabric pattern, text, watermark, username, low quality, bad anatomy"

	// FittingStructureHeader は試着合成の全体構造を定義します。
	FittingStructureHeader = `### MANDATORY FORMAT: VIRTUAL TRY-ON COMPOSITION ###
- STRUCTURE: The person from the reference photo wearing the reference garment.
- IDENTITY: Preserve the person's face, body shape and pose exactly.
- GARMENT: Preserve the garment's color, fabric pattern and silhouette exactly.`

	// RenderingStyle は共通の画風を定義します。
	RenderingStyle = `### GLOBAL VISUAL STYLE ###
- RENDERING: Clean studio-grade photography, natural lighting, no blurring, true-to-life colors.`
)

// BuildFramingSection は出力の向きに応じた構図指示を生成します。
func BuildFramingSection(orientation string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("### FRAMING (%s) ###\n", strings.ToUpper(orientation)))

	switch orientation {
	case "portrait":
		sb.WriteString("- COMPOSITION: Vertical full-body shot, subject centered, headroom preserved.\n")
	case "landscape":
		sb.WriteString("- COMPOSITION: Horizontal three-quarter shot, subject offset with negative space.\n")
	default:
		sb.WriteString("- COMPOSITION: Centered upper-body shot with balanced margins.\n")
	}
	return sb.String()
}

// BuildLookIdentitySection はルックの参照画像とスタイル指示をマスター定義として出力します。
func BuildLookIdentitySection(look domain.Look) string {
	var sb strings.Builder
	sb.WriteString("### LOOK MASTER DEFINITION (STRICT IDENTITY) ###\n")
	sb.WriteString(fmt.Sprintf("- SUBJECT [%s]: See the person reference image.\n", look.Name))
	sb.WriteString("- GARMENT: See the garment reference image.\n")

	if len(look.StyleCues) > 0 {
		// STYLE_CUES の形式でAIに演出を固定させるのだ
		sb.WriteString(fmt.Sprintf("- STYLE_CUES: {%s}\n", strings.Join(look.StyleCues, ", ")))
	}
	sb.WriteString("\n")
	return sb.String()
}
