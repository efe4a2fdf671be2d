package runner

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shouni/go-fitting-kit/pkg/domain"
	"github.com/shouni/go-fitting-kit/pkg/probe"
	"github.com/shouni/go-fitting-kit/pkg/ratio"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
)

// fakeAdapter は発行されたリクエストを記録するテスト用の ImageAdapter なのだ。
type fakeAdapter struct {
	mu       sync.Mutex
	requests []imagedom.ImageGenerationRequest
	err      error
}

func (f *fakeAdapter) GenerateMangaPanel(_ context.Context, req imagedom.ImageGenerationRequest) (*imagedom.ImageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.requests = append(f.requests, req)
	return &imagedom.ImageResponse{Data: []byte("png"), MimeType: "image/png"}, nil
}

// fakeProber はURLごとに固定の寸法を返すテスト用の DimensionProber なのだ。
type fakeProber struct {
	dims map[string]probe.Dimensions
}

func (f *fakeProber) Probe(_ context.Context, url string) (probe.Dimensions, error) {
	d, ok := f.dims[url]
	if !ok {
		return probe.Dimensions{}, fmt.Errorf("not found: %s", url)
	}
	return d, nil
}

func newTestEngine(t *testing.T) *ratio.Engine {
	t.Helper()
	catalog, err := ratio.NewCatalog(ratio.CatalogConfig{
		Services: map[ratio.ServiceID]ratio.ServiceConfig{
			"gen-v1": {
				Constraints: ratio.Constraints{MinPx: 512, MaxPx: 2048, Granularity: 64},
				Sizes: []ratio.SupportedSize{
					{Ratio: ratio.AspectRatio{Width: 1, Height: 1}, Width: 1024, Height: 1024},
					{Ratio: ratio.AspectRatio{Width: 16, Height: 9}, Width: 1344, Height: 768},
					{Ratio: ratio.AspectRatio{Width: 9, Height: 16}, Width: 768, Height: 1344},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("カタログ構築に失敗したのだ: %v", err)
	}
	engine, err := ratio.NewEngine(catalog)
	if err != nil {
		t.Fatalf("Engine構築に失敗したのだ: %v", err)
	}
	return engine
}

func TestFitRunner_Run(t *testing.T) {
	looks := domain.LooksMap{
		"summer-dress": {
			ID:             "summer-dress",
			Name:           "夏のワンピース",
			PersonImageURL: "gs://fitting/person/hana.png",
			StyleCues:      []string{"outdoor lighting"},
			Seed:           123,
		},
		"winter-coat": {
			ID:             "winter-coat",
			Name:           "冬のコート",
			PersonImageURL: "gs://fitting/person/yuki.png",
		},
	}
	prober := &fakeProber{dims: map[string]probe.Dimensions{
		"gs://fitting/person/hana.png": {Width: 1080, Height: 1920},
		"gs://fitting/person/yuki.png": {Width: 1920, Height: 1080},
	}}

	t.Run("全ルックの画像が解決済みサイズで生成されること", func(t *testing.T) {
		adapter := &fakeAdapter{}
		runner, err := NewFitRunner(adapter, prober, newTestEngine(t), looks, 0, "studio", "gen-v1")
		if err != nil {
			t.Fatalf("FitRunner構築に失敗したのだ: %v", err)
		}

		results, err := runner.Run(context.Background())
		if err != nil {
			t.Fatalf("実行に失敗したのだ: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("結果数が違うのだ: %d", len(results))
		}

		// Sorted によりID昇順: summer-dress(縦長), winter-coat(横長)
		if results[0].Look.ID != "summer-dress" {
			t.Errorf("結果の順序が違うのだ: %s", results[0].Look.ID)
		}
		if results[0].Size.Width != 768 || results[0].Size.Height != 1344 {
			t.Errorf("縦長ルックの解決サイズが違うのだ: %dx%d", results[0].Size.Width, results[0].Size.Height)
		}
		if results[1].Size.Width != 1344 || results[1].Size.Height != 768 {
			t.Errorf("横長ルックの解決サイズが違うのだ: %dx%d", results[1].Size.Width, results[1].Size.Height)
		}
	})

	t.Run("リクエストに解決済みの比とシードが載ること", func(t *testing.T) {
		adapter := &fakeAdapter{}
		runner, err := NewFitRunner(adapter, prober, newTestEngine(t), looks, 0, "studio", "gen-v1")
		if err != nil {
			t.Fatalf("FitRunner構築に失敗したのだ: %v", err)
		}
		if _, err := runner.Run(context.Background()); err != nil {
			t.Fatalf("実行に失敗したのだ: %v", err)
		}

		ratios := map[string]bool{}
		for _, req := range adapter.requests {
			ratios[req.AspectRatio] = true
			if req.NegativePrompt == "" {
				t.Error("NegativePrompt が空なのだ")
			}
		}
		if !ratios["9:16"] || !ratios["16:9"] {
			t.Errorf("リクエストのアスペクト比が違うのだ: %v", ratios)
		}
	})

	t.Run("ルック数の制限が適用されること", func(t *testing.T) {
		adapter := &fakeAdapter{}
		runner, err := NewFitRunner(adapter, prober, newTestEngine(t), looks, 1, "studio", "gen-v1")
		if err != nil {
			t.Fatalf("FitRunner構築に失敗したのだ: %v", err)
		}

		results, err := runner.Run(context.Background())
		if err != nil {
			t.Fatalf("実行に失敗したのだ: %v", err)
		}
		if len(results) != 1 {
			t.Errorf("制限が効いていないのだ: %d", len(results))
		}
	})

	t.Run("寸法取得に失敗したルックがあれば全体が失敗すること", func(t *testing.T) {
		broken := domain.LooksMap{
			"broken": {ID: "broken", Name: "壊れたルック", PersonImageURL: "gs://fitting/missing.png"},
		}
		adapter := &fakeAdapter{}
		runner, err := NewFitRunner(adapter, prober, newTestEngine(t), broken, 0, "studio", "gen-v1")
		if err != nil {
			t.Fatalf("FitRunner構築に失敗したのだ: %v", err)
		}

		if _, err := runner.Run(context.Background()); err == nil {
			t.Error("エラーになるべきなのだ")
		}
	})

	t.Run("ルック単位のサービス上書きが未登録ならエラーになること", func(t *testing.T) {
		override := domain.LooksMap{
			"override": {
				ID:             "override",
				Name:           "上書きルック",
				PersonImageURL: "gs://fitting/person/hana.png",
				Service:        "unknown-service",
			},
		}
		adapter := &fakeAdapter{}
		runner, err := NewFitRunner(adapter, prober, newTestEngine(t), override, 0, "studio", "gen-v1")
		if err != nil {
			t.Fatalf("FitRunner構築に失敗したのだ: %v", err)
		}

		if _, err := runner.Run(context.Background()); err == nil {
			t.Error("エラーになるべきなのだ")
		}
	})
}

func TestNewFitRunner(t *testing.T) {
	t.Run("必須依存が欠けていたら構築できないこと", func(t *testing.T) {
		prober := &fakeProber{}
		engine := newTestEngine(t)

		if _, err := NewFitRunner(nil, prober, engine, nil, 0, "", "gen-v1"); err == nil {
			t.Error("ImageAdapterなしはエラーになるべきなのだ")
		}
		if _, err := NewFitRunner(&fakeAdapter{}, nil, engine, nil, 0, "", "gen-v1"); err == nil {
			t.Error("DimensionProberなしはエラーになるべきなのだ")
		}
		if _, err := NewFitRunner(&fakeAdapter{}, prober, nil, nil, 0, "", "gen-v1"); err == nil {
			t.Error("Engineなしはエラーになるべきなのだ")
		}
	})
}
