package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-fitting-kit/internal/config"
	"github.com/shouni/go-fitting-kit/pkg/domain"
	"github.com/shouni/go-fitting-kit/pkg/probe"
	"github.com/shouni/go-fitting-kit/pkg/prompts"
	"github.com/shouni/go-fitting-kit/pkg/ratio"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ImageAdapter は、画像生成AI（Imagen/Gemini）へのアダプターのインターフェース。
type ImageAdapter interface {
	GenerateMangaPanel(ctx context.Context, req imagedom.ImageGenerationRequest) (*imagedom.ImageResponse, error)
}

// DimensionProber は、参照画像のピクセル寸法を取得する依存インターフェース。
// probe.Prober がこれを満たします。
type DimensionProber interface {
	Probe(ctx context.Context, url string) (probe.Dimensions, error)
}

// FitResult は、1ルック分の生成結果と解決済み出力サイズを保持する。
type FitResult struct {
	Look  domain.Look
	Size  ratio.ResolvedSize
	Image *imagedom.ImageResponse
}

// FitRunner は、ルック定義を基に並列で試着画像生成を行う実体。
type FitRunner struct {
	imageAdapter   ImageAdapter           // 画像生成AIへのアダプター
	prober         DimensionProber        // 人物写真の寸法を調べるプローブ
	engine         *ratio.Engine          // 出力サイズ解決エンジン
	promptBuilder  *prompts.FitPromptBuilder
	looks          domain.LooksMap        // 利用可能なルック定義のマップ
	limit          int                    // 一度に生成する最大ルック数の制限
	defaultService ratio.ServiceID        // ルック側で未指定のときに使う生成サービスID
}

// NewFitRunner は、FitRunnerの新しいインスタンスを生成して返す。
func NewFitRunner(
	adapter ImageAdapter,
	prober DimensionProber,
	engine *ratio.Engine,
	looks domain.LooksMap,
	limit int,
	basePrompt string,
	defaultService ratio.ServiceID,
) (*FitRunner, error) {
	if adapter == nil {
		return nil, fmt.Errorf("ImageAdapter は必須です")
	}
	if prober == nil {
		return nil, fmt.Errorf("DimensionProber は必須です")
	}
	if engine == nil {
		return nil, fmt.Errorf("ratio.Engine は必須です")
	}

	return &FitRunner{
		imageAdapter:   adapter,
		prober:         prober,
		engine:         engine,
		promptBuilder:  prompts.NewFitPromptBuilder(looks, basePrompt),
		looks:          looks,
		limit:          limit,
		defaultService: defaultService,
	}, nil
}

// Run は並列処理を用いて、各ルックの試着画像を生成するメインロジックなのだ。
func (fr *FitRunner) Run(ctx context.Context) ([]*FitResult, error) {
	looks := fr.looks.Sorted()
	// 指定があれば、生成するルック数を制限するのだ（テスト用などに便利！）
	if fr.limit > 0 && len(looks) > fr.limit {
		slog.Info("ルック数に制限を適用したのだ", "limit", fr.limit, "total", len(looks))
		looks = looks[:fr.limit]
	}

	results := make([]*FitResult, len(looks))
	eg, egCtx := errgroup.WithContext(ctx)

	// 設定ファイルから取得した間隔で、レートリミット（流量制限）をかけるのだ
	// Burst 2 により、開始直後に2枚までは同時にリクエストを開始できるのだ
	limiter := rate.NewLimiter(rate.Every(config.DefaultRateLimit), 2)
	slog.Info("並列試着生成を開始するのだ", "count", len(looks), "interval", config.DefaultRateLimit)

	for i, look := range looks {
		i, look := i, look // ゴルーチンのクロージャ対策なのだ

		eg.Go(func() error {
			// 1. レートリミットに従って、自分の番が来るまで待機するのだ
			if err := limiter.Wait(egCtx); err != nil {
				return err
			}

			// 2. 人物写真の寸法から出力サイズを解決するのだ
			resolved, err := fr.resolveSize(egCtx, look)
			if err != nil {
				slog.Error("出力サイズの解決に失敗したのだ", "look", look.ID, "error", err)
				return err
			}

			// 3. ルックのスタイル指示と構図を組み合わせてプロンプトを作るのだ
			orientation := ratio.ToLabel(resolved.Ratio)
			prompt, systemPrompt, seed := fr.promptBuilder.BuildFitPrompt(look, orientation)

			slog.Info("ルックを生成中...", "look", look.ID, "size", fmt.Sprintf("%dx%d", resolved.Width, resolved.Height), "orientation", orientation)

			var seedPtr *int64
			if seed > 0 {
				seedPtr = &seed
			}

			// 4. アダプターを介してAIに画像生成を依頼するのだ
			resp, err := fr.imageAdapter.GenerateMangaPanel(egCtx, imagedom.ImageGenerationRequest{
				Prompt:         prompt,
				NegativePrompt: fr.promptBuilder.NegativePrompt(),
				SystemPrompt:   systemPrompt,
				Seed:           seedPtr,
				ReferenceURL:   look.PersonImageURL,
				AspectRatio:    resolved.Ratio.String(),
			})
			if err != nil {
				slog.Error("ルック生成に失敗したのだ", "look", look.ID, "error", err)
				return err
			}

			results[i] = &FitResult{Look: look, Size: resolved, Image: resp}
			slog.Info("ルック生成に成功したのだ", "look", look.ID)
			return nil
		})
	}

	// すべての並列処理が完了するのを待つのだ
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	slog.Info("すべてのルックが正常に生成されたのだ", "total", len(results))
	return results, nil
}

// resolveSize は、人物写真の実寸から生成サービスに渡す出力サイズを決定するのだ。
func (fr *FitRunner) resolveSize(ctx context.Context, look domain.Look) (ratio.ResolvedSize, error) {
	dims, err := fr.prober.Probe(ctx, look.PersonImageURL)
	if err != nil {
		return ratio.ResolvedSize{}, fmt.Errorf("人物写真の寸法取得に失敗したのだ: %w", err)
	}

	service := fr.defaultService
	if look.Service != "" {
		// ルック単位の上書きを優先するのだ
		service = ratio.ServiceID(look.Service)
	}

	resolved, err := fr.engine.Fit(dims.Width, dims.Height, service)
	if err != nil {
		return ratio.ResolvedSize{}, fmt.Errorf("出力サイズの解決に失敗したのだ: %w", err)
	}
	return resolved, nil
}
