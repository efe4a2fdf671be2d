package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/shouni/go-fitting-kit/internal/config"
	"github.com/shouni/go-fitting-kit/internal/runner"
	"github.com/shouni/go-fitting-kit/pkg/domain"
	"github.com/shouni/go-fitting-kit/pkg/probe"
	"github.com/shouni/go-fitting-kit/pkg/ratio"

	"github.com/patrickmn/go-cache"
	"github.com/shouni/gemini-image-kit/pkg/generator"
	"github.com/shouni/go-gemini-client/pkg/gemini"
	"google.golang.org/genai"
)

// BuildRatioEngine はカタログ設定を読み込み、出力サイズ解決エンジンを構築します。
// カタログの不整合は起動時のエラーとしてここで顕在化するのだ。
func BuildRatioEngine(catalogFile string) (*ratio.Engine, error) {
	catalog, err := ratio.LoadCatalog(catalogFile)
	if err != nil {
		return nil, fmt.Errorf("サイズカタログの読み込みに失敗したのだ: %w", err)
	}
	engine, err := ratio.NewEngine(catalog)
	if err != nil {
		return nil, fmt.Errorf("解決エンジンの初期化に失敗したのだ: %w", err)
	}
	return engine, nil
}

// BuildFitRunner は試着画像の並列生成を担当する Runner を構築します。
func BuildFitRunner(ctx context.Context, appCtx *AppContext, engine *ratio.Engine) (*runner.FitRunner, error) {
	imgGen, err := InitializeImageGenerator(appCtx)
	if err != nil {
		return nil, fmt.Errorf("GeminiGeneratorの初期化に失敗したのだ: %w", err)
	}

	looks, err := domain.LoadLooks(appCtx.Options.LooksFile)
	if err != nil {
		return nil, fmt.Errorf("ルック情報の取得に失敗しました: %w", err)
	}

	prober, err := probe.NewProber(appCtx.Reader, config.DefaultProbeTTL)
	if err != nil {
		return nil, fmt.Errorf("寸法プローブの初期化に失敗しました: %w", err)
	}

	return runner.NewFitRunner(
		imgGen,
		prober,
		engine,
		looks,
		appCtx.Options.LookLimit,
		appCtx.Config.FitPromptSuffix,
		ratio.ServiceID(appCtx.Options.Service),
	)
}

// InitializeAIClient は gemini クライアントを初期化します。
func InitializeAIClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	const defaultGeminiTemperature = float32(0.2)
	clientConfig := gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	}
	aiClient, err := gemini.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return aiClient, nil
}

// InitializeImageGenerator は ImageGeneratorを初期化します。
func InitializeImageGenerator(appCtx *AppContext) (generator.ImageGenerator, error) {
	imgCache := cache.New(30*time.Minute, 1*time.Hour)
	cacheTTL := 1 * time.Hour

	// 画像処理コアを生成
	core, err := generator.NewGeminiImageCore(
		appCtx.httpClient,
		imgCache,
		cacheTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("GeminiImageCoreの初期化に失敗したのだ: %w", err)
	}

	imgGen, err := generator.NewGeminiGenerator(
		core,
		appCtx.aiClient,
		appCtx.Config.GeminiImageModel,
	)
	if err != nil {
		return nil, fmt.Errorf("GeminiGeneratorの初期化に失敗したのだ: %w", err)
	}

	return imgGen, nil
}
