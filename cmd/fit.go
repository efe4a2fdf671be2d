package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-fitting-kit/internal/config"
	"github.com/shouni/go-fitting-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// fitCmd は、ルック定義を読み込んで試着画像の生成フェーズを実行するためのサブコマンドなのだ。
// 人物写真の寸法調査、出力サイズの解決、画像生成、保存までを一気通貫で行うのだ。
var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "ルック定義から試着画像を生成して保存するのだ。",
	Long: `人物×衣装のルック定義JSONを読み込み、各ルックの試着画像生成と保存を実行するのだ。
人物写真の実寸からサービスの対応サイズを自動で解決するので、寸法指定は不要なのだ。`,
	RunE: fitCommand,
}

// init は、fit コマンドに必要なフラグを定義し、コマンド体系に登録するための初期化関数なのだ。
func init() {
}

// fitCommand は、fit サブコマンドの実行ロジック本体なのだ。
// 設定のバリデーションを行い、pipeline.ExecuteFit を呼び出して一連の処理をキックするのだ。
func fitCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 必須となる入力ファイルの存在チェック
	if opts.LooksFile == "" {
		return fmt.Errorf("読み込むルック定義（--looks-file）を指定してほしいのだ")
	}

	// 1. 環境変数から基本設定をロード
	cfg := config.LoadConfig()

	// 2. コマンドライン引数の値を反映
	cfg.Options = opts
	cfg.GeminiImageModel = opts.ImageModel

	slog.Info("試着生成モードを起動するのだ！",
		"looks_file", cfg.Options.LooksFile,
		"output_image_dir", cfg.Options.OutputImageDir,
		"image_model", cfg.GeminiImageModel)

	// 3. パイプライン実行
	return pipeline.ExecuteFit(ctx, cfg)
}
