package ratio

import (
	"errors"
	"testing"
)

func TestEngine_Resolve(t *testing.T) {
	engine := newTestEngine(t, newTestCatalogConfig())
	cons := Constraints{MinPx: 512, MaxPx: 2048, Granularity: 64}

	t.Run("範囲内かつ粒度整合ならそのまま返るのだ", func(t *testing.T) {
		match := Match{
			Size:     SupportedSize{Ratio: AspectRatio{Width: 16, Height: 9}, Width: 1344, Height: 768},
			Distance: 0.0009,
		}
		got, err := engine.Resolve(match, cons)
		if err != nil {
			t.Fatalf("解決失敗なのだ: %v", err)
		}
		if got.Width != 1344 || got.Height != 768 {
			t.Errorf("寸法が変わってしまったのだ: %dx%d", got.Width, got.Height)
		}
		if got.Ratio.String() != "16:9" || got.Distance != 0.0009 {
			t.Errorf("比または距離が引き継がれていないのだ: %+v", got)
		}
	})

	t.Run("長辺が上限を超えたら同率で縮小して丸めるのだ", func(t *testing.T) {
		match := Match{
			Size: SupportedSize{Ratio: AspectRatio{Width: 16, Height: 9}, Width: 2560, Height: 1440},
		}
		got, err := engine.Resolve(match, cons)
		if err != nil {
			t.Fatalf("解決失敗なのだ: %v", err)
		}
		// 長辺 2560 -> 2048、短辺は 2048 * 9/16 = 1152 を比から再計算する
		if got.Width != 2048 || got.Height != 1152 {
			t.Errorf("期待: 2048x1152, 実際: %dx%d", got.Width, got.Height)
		}
	})

	t.Run("長辺が下限を割ったら同率で拡大するのだ", func(t *testing.T) {
		match := Match{
			Size: SupportedSize{Ratio: AspectRatio{Width: 1, Height: 1}, Width: 256, Height: 256},
		}
		got, err := engine.Resolve(match, cons)
		if err != nil {
			t.Fatalf("解決失敗なのだ: %v", err)
		}
		if got.Width != 512 || got.Height != 512 {
			t.Errorf("期待: 512x512, 実際: %dx%d", got.Width, got.Height)
		}
	})

	t.Run("縦長入力でも長辺として扱われるのだ", func(t *testing.T) {
		match := Match{
			Size: SupportedSize{Ratio: AspectRatio{Width: 9, Height: 16}, Width: 1440, Height: 2560},
		}
		got, err := engine.Resolve(match, cons)
		if err != nil {
			t.Fatalf("解決失敗なのだ: %v", err)
		}
		if got.Width != 1152 || got.Height != 2048 {
			t.Errorf("期待: 1152x2048, 実際: %dx%d", got.Width, got.Height)
		}
	})

	t.Run("Resolveは自身の出力に対して冪等なのだ", func(t *testing.T) {
		match := Match{
			Size: SupportedSize{Ratio: AspectRatio{Width: 16, Height: 9}, Width: 2560, Height: 1440},
		}
		first, err := engine.Resolve(match, cons)
		if err != nil {
			t.Fatalf("1回目の解決に失敗したのだ: %v", err)
		}

		again := Match{
			Size: SupportedSize{Ratio: first.Ratio, Width: first.Width, Height: first.Height},
		}
		second, err := engine.Resolve(again, cons)
		if err != nil {
			t.Fatalf("2回目の解決に失敗したのだ: %v", err)
		}
		if first.Width != second.Width || first.Height != second.Height {
			t.Errorf("冪等ではないのだ。1回目: %dx%d, 2回目: %dx%d",
				first.Width, first.Height, second.Width, second.Height)
		}
	})

	t.Run("丸めで比が歪みすぎたらErrUnresolvableSizeなのだ", func(t *testing.T) {
		// 粒度が粗すぎて 16:9 を保てないケースは黙って補正せず失敗させる
		match := Match{
			Size: SupportedSize{Ratio: AspectRatio{Width: 16, Height: 9}, Width: 1344, Height: 768},
		}
		coarse := Constraints{MinPx: 512, MaxPx: 512, Granularity: 512}
		if _, err := engine.Resolve(match, coarse); !errors.Is(err, ErrUnresolvableSize) {
			t.Errorf("ErrUnresolvableSize が返るべきなのだ。実際: %v", err)
		}
	})

	t.Run("退化した入力や制約はErrUnresolvableSizeなのだ", func(t *testing.T) {
		valid := Match{
			Size: SupportedSize{Ratio: AspectRatio{Width: 1, Height: 1}, Width: 1024, Height: 1024},
		}

		if _, err := engine.Resolve(Match{}, cons); !errors.Is(err, ErrUnresolvableSize) {
			t.Errorf("空のMatchで ErrUnresolvableSize が返るべきなのだ。実際: %v", err)
		}
		if _, err := engine.Resolve(valid, Constraints{MinPx: 512, MaxPx: 2048}); !errors.Is(err, ErrUnresolvableSize) {
			t.Errorf("粒度ゼロで ErrUnresolvableSize が返るべきなのだ。実際: %v", err)
		}
	})
}

func TestEngine_Fit(t *testing.T) {
	engine := newTestEngine(t, newTestCatalogConfig())

	t.Run("フルHD入力は1344x768に落ち着くのだ", func(t *testing.T) {
		got, err := engine.Fit(1920, 1080, "gen-v1")
		if err != nil {
			t.Fatalf("解決失敗なのだ: %v", err)
		}
		if got.Width != 1344 || got.Height != 768 {
			t.Errorf("期待: 1344x768, 実際: %dx%d", got.Width, got.Height)
		}
		if got.Ratio.String() != "16:9" {
			t.Errorf("比が違うのだ: %s", got.Ratio)
		}
	})

	t.Run("エラーは各段から素通しされるのだ", func(t *testing.T) {
		if _, err := engine.Fit(0, 100, "gen-v1"); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("ErrInvalidDimensions が返るべきなのだ。実際: %v", err)
		}
		if _, err := engine.Fit(100, 100, "unknown-service"); !errors.Is(err, ErrUnknownService) {
			t.Errorf("ErrUnknownService が返るべきなのだ。実際: %v", err)
		}
	})
}
