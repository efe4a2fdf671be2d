package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultImageModel       = "gemini-3-pro-image-preview"
	DefaultHTTPTimeout      = 30 * time.Second
	DefaultLookLimit        = 10
	DefaultRateLimit        = 30 * time.Second
	DefaultService          = "gemini-image"
	DefaultCatalogFile      = "examples/catalog.json" // サービスごとの対応サイズと制約を定義したJSONパス
	DefaultLooksFile        = "examples/looks.json"   // 人物×衣装のルック定義を記述したJSONパス
	DefaultLocalImageDir    = "output/images"         // 試着画像のデフォルト保存先なのだ
	DefaultProbeTTL         = 30 * time.Minute        // 参照画像の寸法キャッシュの有効期間
	DefaultDenominatorLimit = 100                     // 小数アスペクト比を既約比へ近似する際の分母上限
	DefaultFitPromptSuffix  = "studio lighting, professional fashion photography, true-to-life fabric texture, natural pose, high resolution, masterpiece"
)

// Config はアプリケーション全体の環境設定（APIキーやクラウド設定）を保持する構造体なのだ。
type Config struct {
	ProjectID        string
	LocationID       string
	GeminiAPIKey     string
	GeminiImageModel string
	FitPromptSuffix  string

	Options FitOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	cfg := &Config{
		ProjectID:        envutil.GetEnv("PROJECT_ID", ""),
		LocationID:       envutil.GetEnv("REGION", ""),
		GeminiAPIKey:     envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiImageModel: envutil.GetEnv("IMAGE_GEMINI_MODEL", DefaultImageModel),
		FitPromptSuffix:  envutil.GetEnv("FIT_PROMPT_SUFFIX", DefaultFitPromptSuffix),
	}
	return cfg
}

// FitOptions は CLI フラグから渡される実行時のパラメータなのだ。
type FitOptions struct {
	// ソース入力関連
	LooksFile   string // --looks-file
	CatalogFile string // --catalog-file
	Service     string // --service: 出力サイズ解決に使う生成サービスID

	// 生成結果の出力設定
	OutputImageDir string // --output-image-dir

	// AI挙動設定
	ImageModel string // --image-model
	LookLimit  int    // --look-limit: 一度に生成するルックの最大数

	// 実行制御
	HTTPTimeout time.Duration // --http-timeout
}
