package prompts

import (
	"fmt"
	"strings"

	"github.com/shouni/go-fitting-kit/pkg/domain"
)

// FitPromptBuilder は、ルック情報を考慮して試着生成用のAIプロンプトを構築します。
type FitPromptBuilder struct {
	looksMap      domain.LooksMap
	defaultSuffix string // "studio lighting, high quality" 等の共通サフィックス
}

// NewFitPromptBuilder は新しい FitPromptBuilder を生成します。
func NewFitPromptBuilder(looks domain.LooksMap, suffix string) *FitPromptBuilder {
	return &FitPromptBuilder{
		looksMap:      looks,
		defaultSuffix: suffix,
	}
}

// BuildFitPrompt は、1ルック分の UserPrompt, SystemPrompt, およびシード値を生成します。
// orientation には解決済み出力サイズのラベル（"portrait" など）を渡します。
func (pb *FitPromptBuilder) BuildFitPrompt(look domain.Look, orientation string) (string, string, int64) {
	// --- 1. System Prompt の構築 ---
	// 試着合成では、人物と衣装の同一性を崩さないことが最優先の役割なのだ。
	var ss strings.Builder
	const fitSystemInstruction = "You are a professional fashion photographer and retoucher. Compose a single realistic try-on photograph."
	ss.WriteString(fitSystemInstruction)
	ss.WriteString("\n\n")
	ss.WriteString(FittingStructureHeader)
	ss.WriteString("\n\n")
	ss.WriteString(RenderingStyle)
	if pb.defaultSuffix != "" {
		ss.WriteString("\n\n")
		ss.WriteString(fmt.Sprintf("### GLOBAL VISUAL STYLE ###\n%s", pb.defaultSuffix))
	}
	systemPrompt := ss.String()

	// --- 2. User Prompt の構築 (ルック固有の内容) ---
	var us strings.Builder
	us.WriteString(BuildLookIdentitySection(look))
	us.WriteString(BuildFramingSection(orientation))

	var visualParts []string
	if len(look.StyleCues) > 0 {
		visualParts = append(visualParts, look.StyleCues...)
	}
	visualParts = append(visualParts, PhotoQualityTags)

	var cleanParts []string
	for _, p := range visualParts {
		if s := strings.TrimSpace(p); s != "" {
			cleanParts = append(cleanParts, s)
		}
	}
	us.WriteString("\n")
	us.WriteString(strings.Join(cleanParts, ", "))

	// --- 3. シード値の決定 ---
	// 登録済みルックのシードを継承し、未設定なら名前から決定論的に生成するのだ
	targetSeed := look.Seed
	if targetSeed == 0 {
		targetSeed = domain.GetSeedFromName(look.Name, pb.looksMap)
	}

	return us.String(), systemPrompt, targetSeed
}

// NegativePrompt は試着生成で常用する Negative Prompt を返します。
func (pb *FitPromptBuilder) NegativePrompt() string {
	return FittingNegativePrompt
}
