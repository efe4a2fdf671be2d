package cmd

import (
	"github.com/shouni/go-fitting-kit/internal/config"
	"github.com/shouni/go-fitting-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// catalogCmd は、設定済みの全サービスと対応サイズの一覧を表示するサブコマンドなのだ。
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "設定済みサービスと対応サイズの一覧をJSONで表示するのだ。",
	Long: `サイズカタログを読み込み、登録されている生成サービスごとの対応アスペクト比と
正規ピクセル寸法の一覧をJSONで標準出力に書き出すのだ。カタログの検証も兼ねるのだよ。`,
	RunE: catalogCommand,
}

func init() {
}

// catalogCommand は、catalog サブコマンドの実行ロジック本体なのだ。
func catalogCommand(cmd *cobra.Command, args []string) error {
	cfg := config.LoadConfig()
	cfg.Options = opts

	return pipeline.ExecuteCatalog(cfg)
}
