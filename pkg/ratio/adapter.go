package ratio

import (
	"fmt"
	"math"
	"strings"
)

// labelTable は、既知の既約比と人間向けラベルの双方向テーブルです。
// ToLabel と FromLabel のラウンドトリップを保証するため、対応は全単射に
// 限定しています。テーブルにない比は "W:H" の文字列表現で受け渡しします。
var labelTable = []struct {
	label string
	ratio AspectRatio
}{
	{"square", AspectRatio{Width: 1, Height: 1}},
	{"landscape", AspectRatio{Width: 16, Height: 9}},
	{"portrait", AspectRatio{Width: 9, Height: 16}},
}

// ToLabel は、既約比を人間向けのラベルへ変換するのだ。
// 既知の比はラベル名（"square" など）になり、未知の比はエラーではなく
// "W:H" のリテラル表現になるのだよ。
func ToLabel(r AspectRatio) string {
	for _, entry := range labelTable {
		if entry.ratio == r {
			return entry.label
		}
	}
	return r.String()
}

// FromLabel は ToLabel の逆変換です。既知のラベルと "W:H" 表現を受け付け、
// どちらでもない入力は ErrUnknownLabel で失敗します。
func FromLabel(label string) (AspectRatio, error) {
	normalized := strings.ToLower(strings.TrimSpace(label))

	for _, entry := range labelTable {
		if entry.label == normalized {
			return entry.ratio, nil
		}
	}

	if strings.Contains(normalized, ":") {
		parsed, err := ParseAspectRatio(normalized)
		if err != nil {
			return AspectRatio{}, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
		}
		return parsed, nil
	}

	return AspectRatio{}, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
}

// ToDecimal は、アスペクト比を小数表現へ変換します。
func ToDecimal(r AspectRatio) float64 {
	return r.Value()
}

// FromDecimal は、小数のアスペクト比を分母上限付きの連分数展開で
// 既約比へ近似するのだ。生のピクセル比から分類器への入力を組み立てる
// 用途であり、カタログエントリの構築には使わないのだよ。
func FromDecimal(value float64, denominatorLimit int) (AspectRatio, error) {
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return AspectRatio{}, fmt.Errorf("%w: value=%v", ErrInvalidDimensions, value)
	}
	if denominatorLimit < 1 {
		denominatorLimit = 1
	}

	// 連分数展開の漸化式: p_n = a_n * p_{n-1} + p_{n-2}（分母 q も同様）
	var p0, q0, p1, q1 int64 = 0, 1, 1, 0
	limit := int64(denominatorLimit)
	x := value
	for {
		a := int64(math.Floor(x))
		if q2 := a*q1 + q0; q2 > limit {
			break
		}
		p0, q0, p1, q1 = p1, q1, a*p1+p0, a*q1+q0

		frac := x - math.Floor(x)
		if frac < 1e-12 {
			break
		}
		x = 1 / frac
	}

	// 半収束分数も候補に加え、より近い方を採用する
	if q1 > 0 {
		k := (limit - q0) / q1
		if k > 0 {
			candP, candQ := k*p1+p0, k*q1+q0
			if candQ > 0 && betterApproximation(value, candP, candQ, p1, q1) {
				p1, q1 = candP, candQ
			}
		}
	}

	if p1 <= 0 || q1 <= 0 {
		return AspectRatio{}, fmt.Errorf("%w: value=%v を分母上限 %d で近似できないのだ", ErrInvalidDimensions, value, denominatorLimit)
	}
	return NewAspectRatio(int(p1), int(q1))
}

// betterApproximation は、候補 candP/candQ が現行 p/q より value に近いかを返します。
func betterApproximation(value float64, candP, candQ, p, q int64) bool {
	candErr := math.Abs(value - float64(candP)/float64(candQ))
	currErr := math.Abs(value - float64(p)/float64(q))
	return candErr < currErr
}
