package cmd

import (
	"fmt"
	"os"

	"github.com/shouni/go-fitting-kit/internal/config"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

// opts は addAppFlags で各フラグと紐付けられる実行時パラメータなのだ。
var opts config.FitOptions

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- ソース入力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.LooksFile, "looks-file", "f", config.DefaultLooksFile, "人物×衣装のルック定義を記述したJSONパスなのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.CatalogFile, "catalog-file", "c", config.DefaultCatalogFile, "サービスごとの対応サイズと制約を定義したJSONパスなのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.Service, "service", "s", config.DefaultService, "出力サイズ解決に使う生成サービスIDなのだ。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputImageDir, "output-image-dir", "i", config.DefaultLocalImageDir, "生成された画像を保存するディレクトリ（ローカル or gs://...）なのだ。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", config.DefaultImageModel, "使用する Gemini モデル名なのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "Webリクエストのタイムアウトなのだ。")

	// --- 画像生成 (Nano Banana) 固有設定 ---
	rootCmd.PersistentFlags().IntVarP(&opts.LookLimit, "look-limit", "l", config.DefaultLookLimit, "一度に生成するルックの最大数を指定するのだ。")
}

// preRunAppE は、コマンド実行前に環境変数などの必須チェックを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	// classify / catalog はローカルで完結するため、APIキーのチェックは生成コマンドだけに限るのだ
	if cmd.Name() != "fit" {
		return nil
	}

	// Gemini APIを利用するため、APIキーの存在チェックは欠かせないのだ！
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("エラー: 環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")
	}

	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		"go-fitting-kit",
		addAppFlags,
		preRunAppE,
		classifyCmd,
		catalogCmd,
		fitCmd,
	)
}
