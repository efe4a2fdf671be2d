package ratio

import (
	"fmt"
	"strconv"
	"strings"
)

// ServiceID は、ダウンストリームの画像生成サービス（カタログのキー）を識別するIDです。
type ServiceID string

// AspectRatio は、幅と高さの既約比で表現されたアスペクト比の値オブジェクトです。
// 常に最大公約数で約分された状態を維持し、等価性は元のピクセル値ではなく
// 約分後の比によって決まります。
type AspectRatio struct {
	Width  int
	Height int
}

// NewAspectRatio は、幅と高さの単位からアスペクト比を生成するのだ。
// 入力は自動的に約分されるのだよ（例: 1920, 1080 -> 16:9）。
func NewAspectRatio(width, height int) (AspectRatio, error) {
	if width <= 0 || height <= 0 {
		return AspectRatio{}, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	d := gcd(width, height)
	return AspectRatio{Width: width / d, Height: height / d}, nil
}

// Value はアスペクト比を倍精度の小数（幅 ÷ 高さ）として返します。
func (a AspectRatio) Value() float64 {
	return float64(a.Width) / float64(a.Height)
}

// String はアスペクト比をコロン区切りの "W:H" 形式で返します（例: "16:9"）。
func (a AspectRatio) String() string {
	return fmt.Sprintf("%d:%d", a.Width, a.Height)
}

// IsZero は、未初期化のアスペクト比かどうかを返します。
func (a AspectRatio) IsZero() bool {
	return a.Width == 0 || a.Height == 0
}

// ParseAspectRatio は "16:9" のようなコロン区切り文字列をパースして
// 約分済みの AspectRatio を返すのだ。
func ParseAspectRatio(s string) (AspectRatio, error) {
	before, after, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return AspectRatio{}, fmt.Errorf("%w: %q にコロンが含まれていないのだ", ErrInvalidDimensions, s)
	}

	width, err := strconv.Atoi(strings.TrimSpace(before))
	if err != nil {
		return AspectRatio{}, fmt.Errorf("%w: 幅 %q が整数ではないのだ", ErrInvalidDimensions, before)
	}
	height, err := strconv.Atoi(strings.TrimSpace(after))
	if err != nil {
		return AspectRatio{}, fmt.Errorf("%w: 高さ %q が整数ではないのだ", ErrInvalidDimensions, after)
	}

	return NewAspectRatio(width, height)
}

// MarshalJSON は、アスペクト比を "W:H" 形式のJSON文字列として書き出します。
// カタログ設定ファイルの可読性を優先した表現です。
func (a AspectRatio) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, a.String()), nil
}

// UnmarshalJSON は "W:H" 形式のJSON文字列からアスペクト比を復元します。
func (a *AspectRatio) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("アスペクト比のJSON表現が文字列ではないのだ: %w", err)
	}
	parsed, err := ParseAspectRatio(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// gcd はユークリッドの互除法で最大公約数を求める内部ヘルパーなのだ。
func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
