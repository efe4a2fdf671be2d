package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/shouni/go-fitting-kit/internal/builder"
	"github.com/shouni/go-fitting-kit/internal/config"
	"github.com/shouni/go-fitting-kit/internal/runner"
	"github.com/shouni/go-fitting-kit/pkg/asset"
	"github.com/shouni/go-fitting-kit/pkg/ratio"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
)

// classifyOutput は classify コマンドの出力をまとめたJSON構造なのだ。
type classifyOutput struct {
	Input struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"input"`
	Service  ratio.ServiceID    `json:"service"`
	Label    string             `json:"label"`
	Resolved ratio.ResolvedSize `json:"resolved"`
}

// ExecuteClassify は、入力寸法をカタログに照らして出力サイズを解決し、
// 結果をJSONで標準出力に書き出すのだ。AIクライアントは不要なのだよ。
func ExecuteClassify(cfg *config.Config, width, height int) error {
	engine, err := builder.BuildRatioEngine(cfg.Options.CatalogFile)
	if err != nil {
		return err
	}

	service := ratio.ServiceID(cfg.Options.Service)
	resolved, err := engine.Fit(width, height, service)
	if err != nil {
		return fmt.Errorf("出力サイズの解決に失敗したのだ: %w", err)
	}

	var out classifyOutput
	out.Input.Width = width
	out.Input.Height = height
	out.Service = service
	out.Label = ratio.ToLabel(resolved.Ratio)
	out.Resolved = resolved

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("結果の出力に失敗したのだ: %w", err)
	}
	return nil
}

// ExecuteCatalog は、設定済みの全サービスと対応サイズの一覧をJSONで書き出すのだ。
func ExecuteCatalog(cfg *config.Config) error {
	catalog, err := ratio.LoadCatalog(cfg.Options.CatalogFile)
	if err != nil {
		return fmt.Errorf("サイズカタログの読み込みに失敗したのだ: %w", err)
	}

	listing := make(map[ratio.ServiceID][]ratio.SupportedSize)
	for _, service := range catalog.Services() {
		sizes, err := catalog.Lookup(service)
		if err != nil {
			return err
		}
		listing[service] = sizes
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(listing); err != nil {
		return fmt.Errorf("カタログの出力に失敗したのだ: %w", err)
	}
	return nil
}

// ExecuteFit は、ルック定義を読み込み、全ルックの試着画像生成と保存を実行するのだ。
func ExecuteFit(ctx context.Context, cfg *config.Config) error {
	appCtx, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	engine, err := builder.BuildRatioEngine(cfg.Options.CatalogFile)
	if err != nil {
		return err
	}

	// --- Phase 1: Generate Phase (試着画像の並列生成) ---
	results, err := runFitStep(ctx, appCtx, engine)
	if err != nil {
		return err
	}

	// --- Phase 2: Save Phase (保存) ---
	if err := runSaveStep(ctx, appCtx, results); err != nil {
		return err
	}

	slog.Info("試着生成と保存処理が完了したのだ！")
	return nil
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、アプリケーションコンテキストを初期化して返すのだ。
// ライフサイクル管理用の context と設定オブジェクトを受け取るのだ。
// 初期化中にエラーが発生した場合は、AppContext のポインタとエラーを返すのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, error) {
	httpClient := httpkit.New(config.DefaultHTTPTimeout)
	aiClient, err := builder.InitializeAIClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create ai client: %w", err)
	}

	gcsFactory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}

	reader, err := gcsFactory.NewInputReader()
	if err != nil {
		return nil, err
	}
	writer, err := gcsFactory.NewOutputWriter()
	if err != nil {
		return nil, err
	}

	appCtx := builder.NewAppContext(cfg, httpClient, aiClient, reader, writer)
	return &appCtx, nil
}

// runFitStep は FitRunner を使って試着画像を並列生成するのだ
func runFitStep(ctx context.Context, appCtx *builder.AppContext, engine *ratio.Engine) ([]*runner.FitResult, error) {
	slog.Info("Phase 1: 試着生成を開始するのだ...", "looks_file", appCtx.Options.LooksFile)
	fitRunner, err := builder.BuildFitRunner(ctx, appCtx, engine)
	if err != nil {
		return nil, fmt.Errorf("FitRunnerの構築に失敗したのだ: %w", err)
	}

	results, err := fitRunner.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("試着生成に失敗したのだ: %w", err)
	}
	return results, nil
}

// runSaveStep は生成された試着画像を出力先へ保存するのだ
func runSaveStep(ctx context.Context, appCtx *builder.AppContext, results []*runner.FitResult) error {
	slog.Info("Phase 2: 保存処理を開始するのだ...", "count", len(results))

	for _, res := range results {
		if res == nil || res.Image == nil {
			continue
		}

		fileName := asset.LookFileName(res.Look.ID)
		outputPath, err := asset.ResolveOutputPath(appCtx.Options.OutputImageDir, fileName)
		if err != nil {
			return fmt.Errorf("出力パスの解決に失敗したのだ: %w", err)
		}

		if err := appCtx.Writer.Write(ctx, outputPath, bytes.NewReader(res.Image.Data), res.Image.MimeType); err != nil {
			return fmt.Errorf("試着画像の保存に失敗したのだ (%s): %w", outputPath, err)
		}
		slog.Info("試着画像を保存したのだ", "look", res.Look.ID, "path", outputPath, "size", fmt.Sprintf("%dx%d", res.Size.Width, res.Size.Height))
	}
	return nil
}
