package ratio

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"sync/atomic"
)

// DefaultTolerance は、ピクセル比と宣言されたアスペクト比のズレとして許容する
// デフォルトの絶対誤差です。サービス側がピクセルを粒度に量子化するため、
// 厳密な一致ではなくこの許容差で自己検証します。
const DefaultTolerance = 0.05

// SupportedSize は、サービスが受け付ける1つの出力サイズ（比と正規ピクセル寸法）を表します。
type SupportedSize struct {
	Ratio   AspectRatio `json:"ratio"`
	Width   int         `json:"width"`
	Height  int         `json:"height"`
	Service ServiceID   `json:"-"`
}

// Constraints は、サービスごとの解決制約（長辺の範囲とピクセル粒度）を保持します。
type Constraints struct {
	MinPx       int     `json:"min_px"`
	MaxPx       int     `json:"max_px"`
	Granularity int     `json:"granularity"`
	Tolerance   float64 `json:"tolerance,omitempty"`
}

// ServiceConfig は、カタログ設定ファイル内の1サービス分の定義です。
// Sizes の宣言順はそのまま分類時の優先順位になるのだ。
type ServiceConfig struct {
	Constraints
	Sizes []SupportedSize `json:"sizes"`
}

// CatalogConfig は、カタログ設定ファイル全体のJSON表現です。
type CatalogConfig struct {
	Services map[ServiceID]ServiceConfig `json:"services"`
}

// Catalog は、サービスごとの対応サイズ一覧を保持する読み取り専用テーブルです。
// NewCatalog による構築後は一切変更されないため、ロックなしで並行利用できます。
type Catalog struct {
	services    map[ServiceID][]SupportedSize
	constraints map[ServiceID]Constraints
}

// NewCatalog は、設定を検証しながらカタログを構築するのだ。
// 1件でも検証に失敗したエントリがあれば ErrInvalidCatalogEntry で失敗し、
// 壊れたカタログでの起動を防ぐのだよ。
func NewCatalog(cfg CatalogConfig) (*Catalog, error) {
	if len(cfg.Services) == 0 {
		return nil, fmt.Errorf("%w: サービスが1つも定義されていないのだ", ErrInvalidCatalogEntry)
	}

	c := &Catalog{
		services:    make(map[ServiceID][]SupportedSize, len(cfg.Services)),
		constraints: make(map[ServiceID]Constraints, len(cfg.Services)),
	}

	for service, sc := range cfg.Services {
		cons := sc.Constraints
		if cons.Tolerance == 0 {
			cons.Tolerance = DefaultTolerance
		}
		if err := validateConstraints(service, cons); err != nil {
			return nil, err
		}
		if len(sc.Sizes) == 0 {
			return nil, fmt.Errorf("%w: サービス %q に対応サイズが1つもないのだ", ErrInvalidCatalogEntry, service)
		}

		sizes := make([]SupportedSize, 0, len(sc.Sizes))
		for i, size := range sc.Sizes {
			size.Service = service
			if err := validateEntry(service, i, size, cons); err != nil {
				return nil, err
			}
			sizes = append(sizes, size)
		}

		c.services[service] = sizes
		c.constraints[service] = cons
	}

	return c, nil
}

// ParseCatalog はJSONバイト列からカタログを構築して返します。
func ParseCatalog(data []byte) (*Catalog, error) {
	var cfg CatalogConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("カタログ設定のJSONパースに失敗したのだ: %w", err)
	}
	return NewCatalog(cfg)
}

// LoadCatalog は指定されたファイルパスからJSONを読み込み、カタログを構築して返すのだ。
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("カタログファイルの読み込みに失敗したのだ: %w", err)
	}
	return ParseCatalog(data)
}

// Lookup は、サービスの対応サイズ一覧を宣言順のまま返します。
// 内部テーブルが呼び出し元によって変更されるのを防ぐため、コピーを返します。
func (c *Catalog) Lookup(service ServiceID) ([]SupportedSize, error) {
	sizes, ok := c.services[service]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownService, service)
	}
	copied := make([]SupportedSize, len(sizes))
	copy(copied, sizes)
	return copied, nil
}

// Constraints は、サービスの解決制約を返します。
func (c *Catalog) Constraints(service ServiceID) (Constraints, error) {
	cons, ok := c.constraints[service]
	if !ok {
		return Constraints{}, fmt.Errorf("%w: %q", ErrUnknownService, service)
	}
	return cons, nil
}

// Services は、登録されているサービスIDをソート済みで返します。
// 常に同じ結果を得るため、ID順に整列します。
func (c *Catalog) Services() []ServiceID {
	ids := make([]ServiceID, 0, len(c.services))
	for id := range c.services {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// validateConstraints はサービス単位の制約値を検証する内部ヘルパーです。
func validateConstraints(service ServiceID, cons Constraints) error {
	if cons.Granularity <= 0 {
		return fmt.Errorf("%w: サービス %q の粒度 %d が正ではないのだ", ErrInvalidCatalogEntry, service, cons.Granularity)
	}
	if cons.MinPx <= 0 || cons.MaxPx < cons.MinPx {
		return fmt.Errorf("%w: サービス %q の長辺範囲 [%d, %d] が不正なのだ", ErrInvalidCatalogEntry, service, cons.MinPx, cons.MaxPx)
	}
	if cons.Tolerance < 0 {
		return fmt.Errorf("%w: サービス %q の許容差 %v が負なのだ", ErrInvalidCatalogEntry, service, cons.Tolerance)
	}
	return nil
}

// validateEntry はカタログエントリ1件の自己整合性を検証する内部ヘルパーです。
func validateEntry(service ServiceID, index int, size SupportedSize, cons Constraints) error {
	if size.Width <= 0 || size.Height <= 0 {
		return fmt.Errorf("%w: %s[%d] の寸法 %dx%d が正ではないのだ", ErrInvalidCatalogEntry, service, index, size.Width, size.Height)
	}
	if size.Ratio.IsZero() {
		return fmt.Errorf("%w: %s[%d] のアスペクト比が未定義なのだ", ErrInvalidCatalogEntry, service, index)
	}
	if size.Width%cons.Granularity != 0 || size.Height%cons.Granularity != 0 {
		return fmt.Errorf("%w: %s[%d] の寸法 %dx%d が粒度 %d の倍数ではないのだ",
			ErrInvalidCatalogEntry, service, index, size.Width, size.Height, cons.Granularity)
	}

	actual := float64(size.Width) / float64(size.Height)
	if math.Abs(actual-size.Ratio.Value()) > cons.Tolerance {
		return fmt.Errorf("%w: %s[%d] のピクセル比 %.4f が宣言された比 %s (%.4f) から乖離しているのだ",
			ErrInvalidCatalogEntry, service, index, actual, size.Ratio, size.Ratio.Value())
	}
	return nil
}

// Store は、プロセス全体で共有されるカタログの置き場です。
// 設定のリロード時は、新しいカタログを完全に構築してから Swap で
// アトミックに差し替えるため、実行中の分類処理が構築途中のテーブルを
// 観測することはありません。
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore は、初期カタログを保持する Store を生成します。
func NewStore(c *Catalog) *Store {
	s := &Store{}
	s.current.Store(c)
	return s
}

// Current は現在有効なカタログを返します。
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Swap は構築済みの新しいカタログに差し替えるのだ。
func (s *Store) Swap(c *Catalog) {
	s.current.Store(c)
}
