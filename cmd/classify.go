package cmd

import (
	"fmt"
	"strconv"

	"github.com/shouni/go-fitting-kit/internal/config"
	"github.com/shouni/go-fitting-kit/internal/pipeline"
	"github.com/shouni/go-fitting-kit/pkg/ratio"

	"github.com/spf13/cobra"
)

// classifyCmd は、入力画像の寸法から生成サービスに渡す出力サイズを解決するサブコマンドなのだ。
// AIクライアントを使わずローカルのカタログだけで完結するのだ。
var classifyCmd = &cobra.Command{
	Use:   "classify (WIDTH HEIGHT | DECIMAL_RATIO)",
	Short: "入力寸法から出力サイズを解決してJSONで表示するのだ。",
	Long: `入力画像のピクセル寸法をサイズカタログに照らし、最も近いアスペクト比と
サービス制約に収めた出力サイズを解決して、結果をJSONで標準出力に書き出すのだ。
引数が1つの場合は小数のアスペクト比（例: 1.7778）として解釈し、
連分数展開で既約比へ近似してから解決するのだよ。`,
	Args: cobra.RangeArgs(1, 2),
	RunE: classifyCommand,
}

func init() {
}

// classifyCommand は、classify サブコマンドの実行ロジック本体なのだ。
func classifyCommand(cmd *cobra.Command, args []string) error {
	width, height, err := parseDimensionArgs(args)
	if err != nil {
		return err
	}

	// 1. 環境変数から基本設定をロード
	cfg := config.LoadConfig()

	// 2. コマンドライン引数の値を反映
	cfg.Options = opts

	// 3. 解決実行
	return pipeline.ExecuteClassify(cfg, width, height)
}

// parseDimensionArgs は、引数をピクセル寸法または小数アスペクト比として解釈するのだ。
func parseDimensionArgs(args []string) (int, int, error) {
	if len(args) == 2 {
		width, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, 0, fmt.Errorf("WIDTH には整数を指定してほしいのだ: %q", args[0])
		}
		height, err := strconv.Atoi(args[1])
		if err != nil {
			return 0, 0, fmt.Errorf("HEIGHT には整数を指定してほしいのだ: %q", args[1])
		}
		return width, height, nil
	}

	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("DECIMAL_RATIO には小数を指定してほしいのだ: %q", args[0])
	}

	// 小数の比を既約比へ近似し、その単位をそのまま入力寸法として使うのだ
	r, err := ratio.FromDecimal(value, config.DefaultDenominatorLimit)
	if err != nil {
		return 0, 0, fmt.Errorf("アスペクト比の近似に失敗したのだ: %w", err)
	}
	return r.Width, r.Height, nil
}
