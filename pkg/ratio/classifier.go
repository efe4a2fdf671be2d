package ratio

import (
	"fmt"
	"math"
)

// tieEpsilon は、最小距離の同着とみなす許容差です。
// 同着の場合はカタログの宣言順が早いエントリを採用することで、
// 決定的で再現可能な分類結果を保証するのだ。
const tieEpsilon = 1e-9

// Engine は、注入されたカタログの上で動作するステートレスな解決エンジンです。
// カタログは構築後に変更されないため、Engine は任意のゴルーチンから
// ロックなしで並行に呼び出せます。
type Engine struct {
	catalog *Catalog
}

// NewEngine は、カタログを注入して新しい Engine を生成します。
func NewEngine(catalog *Catalog) (*Engine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog は必須です")
	}
	return &Engine{catalog: catalog}, nil
}

// Match は、分類で選ばれたカタログエントリと入力比との距離を保持します。
// Distance は入力画像の比と採用された比の絶対差で、診断とテストに使います。
type Match struct {
	Size     SupportedSize
	Distance float64
}

// Classify は、入力画像のピクセル寸法から最も近い対応サイズを選ぶのだ。
// 入力比 r = width / height を倍精度で計算し、カタログの全エントリに対して
// d = |r - 宣言比| を求め、d が最小のエントリを返すのだよ。
// d が最小値から tieEpsilon 以内の同着となった場合は、宣言順の早い方を
// 優先するため、カタログの並び順が暗黙の優先度になるのだ。
func (e *Engine) Classify(width, height int, service ServiceID) (Match, error) {
	if width <= 0 || height <= 0 {
		return Match{}, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}

	sizes, err := e.catalog.Lookup(service)
	if err != nil {
		return Match{}, err
	}

	r := float64(width) / float64(height)
	best := Match{Distance: math.Inf(1)}
	for _, size := range sizes {
		d := math.Abs(r - size.Ratio.Value())
		// 先に登録されたエントリを同着で上書きしないよう、厳密に小さい場合のみ更新する
		if d < best.Distance-tieEpsilon {
			best = Match{Size: size, Distance: d}
		}
	}

	return best, nil
}
