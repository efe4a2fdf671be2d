package ratio

import (
	"fmt"
	"math"
)

// ResolvedSize は、解決済みの最終出力サイズです。リクエストごとに生成され、
// 呼び出し元が所有する使い捨ての値なのだ。
type ResolvedSize struct {
	Width    int         `json:"width"`
	Height   int         `json:"height"`
	Ratio    AspectRatio `json:"ratio"`
	Distance float64     `json:"distance"`
}

// Resolve は、分類済みのエントリにサービス制約を適用して最終寸法を決めるのだ。
//
// 出力はカタログの正規寸法から始まり、長辺が [MinPx, MaxPx] を外れている
// 場合のみ両辺を同じ倍率でスケールする。長辺を粒度の倍数へ四捨五入した後、
// 短辺は別々に丸めた値からではなく、採用された比そのものから再計算する
// ことでドリフトを防ぐのだよ。
//
// 丸めの結果として比が許容差を超えて歪んだ場合や、寸法が退化した場合は
// ErrUnresolvableSize で失敗する。歪んだサイズを黙って返すことはないのだ。
func (e *Engine) Resolve(m Match, cons Constraints) (ResolvedSize, error) {
	size := m.Size
	if size.Width <= 0 || size.Height <= 0 {
		return ResolvedSize{}, fmt.Errorf("%w: 入力寸法 %dx%d が正ではないのだ", ErrUnresolvableSize, size.Width, size.Height)
	}
	if cons.Granularity <= 0 {
		return ResolvedSize{}, fmt.Errorf("%w: 粒度 %d が正ではないのだ", ErrUnresolvableSize, cons.Granularity)
	}

	tolerance := cons.Tolerance
	if tolerance == 0 {
		tolerance = DefaultTolerance
	}

	width, height := size.Width, size.Height
	longer, shorter := width, height
	portrait := height > width
	if portrait {
		longer, shorter = height, width
	}

	switch {
	case cons.MaxPx > 0 && longer > cons.MaxPx:
		longer, shorter = rescale(longer, cons.MaxPx, size.Ratio, cons)
	case cons.MinPx > 0 && longer < cons.MinPx:
		longer, shorter = rescale(longer, cons.MinPx, size.Ratio, cons)
	}

	if longer <= 0 || shorter <= 0 {
		return ResolvedSize{}, fmt.Errorf("%w: 丸め後の寸法 %dx%d が退化しているのだ", ErrUnresolvableSize, longer, shorter)
	}

	if portrait {
		width, height = shorter, longer
	} else {
		width, height = longer, shorter
	}

	actual := float64(width) / float64(height)
	if math.Abs(actual-size.Ratio.Value()) > tolerance {
		return ResolvedSize{}, fmt.Errorf("%w: 解決後の比 %.4f が %s (%.4f) から許容差 %v を超えて歪んでいるのだ",
			ErrUnresolvableSize, actual, size.Ratio, size.Ratio.Value(), tolerance)
	}

	return ResolvedSize{
		Width:    width,
		Height:   height,
		Ratio:    size.Ratio,
		Distance: m.Distance,
	}, nil
}

// Fit は Classify と Resolve を、サービス自身の制約でまとめて実行するのだ。
func (e *Engine) Fit(width, height int, service ServiceID) (ResolvedSize, error) {
	match, err := e.Classify(width, height, service)
	if err != nil {
		return ResolvedSize{}, err
	}
	cons, err := e.catalog.Constraints(service)
	if err != nil {
		return ResolvedSize{}, err
	}
	return e.Resolve(match, cons)
}

// rescale は、長辺を bound に合わせて両辺を同率でスケールし、粒度に丸めます。
// 短辺は別々に丸めた値からではなく、丸め済みの長辺と正確な比の補数
// （短辺単位 ÷ 長辺単位）から再計算します。
func rescale(longer, bound int, r AspectRatio, cons Constraints) (int, int) {
	factor := float64(bound) / float64(longer)
	complement := float64(min(r.Width, r.Height)) / float64(max(r.Width, r.Height))

	longerRounded := roundToStep(float64(longer)*factor, cons.Granularity)
	// 丸めで範囲の外へはみ出した場合は1段戻し、Resolve を冪等に保つ
	if cons.MaxPx > 0 && longerRounded > cons.MaxPx {
		longerRounded -= cons.Granularity
	}
	if cons.MinPx > 0 && longerRounded < cons.MinPx {
		longerRounded += cons.Granularity
	}

	shorterRounded := roundToStep(float64(longerRounded)*complement, cons.Granularity)
	return longerRounded, shorterRounded
}

// roundToStep は x を step の倍数へ四捨五入（half up）します。
func roundToStep(x float64, step int) int {
	return int(math.Floor(x/float64(step)+0.5)) * step
}
