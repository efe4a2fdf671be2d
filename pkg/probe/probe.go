// Package probe は、参照画像のピクセル寸法を調べる境界コンポーネントなのだ。
// 画像本体はデコードせず、ヘッダ情報（DecodeConfig）だけを読むのだよ。
package probe

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"time"

	// DecodeConfig が主要フォーマットを認識できるようデコーダを登録するのだ
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// SourceOpener は、ローカルやGCSの画像を開くための依存インターフェースです。
// remoteio.InputReader がこれを満たします。
type SourceOpener interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// Dimensions は画像のピクセル寸法を保持します。
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Prober は画像URLから寸法を取得し、結果をTTL付きでキャッシュします。
type Prober struct {
	opener     SourceOpener
	dimsCache  *cache.Cache
	probeGroup singleflight.Group
}

// NewProber は新しい Prober を生成します。
func NewProber(opener SourceOpener, ttl time.Duration) (*Prober, error) {
	if opener == nil {
		return nil, fmt.Errorf("SourceOpener は必須です")
	}
	return &Prober{
		opener:    opener,
		dimsCache: cache.New(ttl, ttl*2),
	}, nil
}

// Probe は指定されたURLの画像寸法を返すのだ。
// 同じURLへの同時呼び出しは singleflight で1回のI/Oに集約されるのだよ。
func (p *Prober) Probe(ctx context.Context, url string) (Dimensions, error) {
	if cached, ok := p.dimsCache.Get(url); ok {
		return cached.(Dimensions), nil
	}

	val, err, _ := p.probeGroup.Do(url, func() (interface{}, error) {
		// singleflight で待機中に他のゴルーチンが取得を完了させている可能性があるため、コールバック内で再度キャッシュを確認
		if cached, ok := p.dimsCache.Get(url); ok {
			return cached.(Dimensions), nil
		}

		dims, probeErr := p.probeOnce(ctx, url)
		if probeErr != nil {
			return Dimensions{}, probeErr
		}

		p.dimsCache.Set(url, dims, cache.DefaultExpiration)
		return dims, nil
	})

	if err != nil {
		return Dimensions{}, err
	}

	dims, ok := val.(Dimensions)
	if !ok {
		return Dimensions{}, fmt.Errorf("unexpected return type from singleflight: %T", val)
	}
	return dims, nil
}

// probeOnce は実際にI/Oを行い、画像ヘッダから寸法を読み取ります。
func (p *Prober) probeOnce(ctx context.Context, url string) (Dimensions, error) {
	rc, err := p.opener.Open(ctx, url)
	if err != nil {
		return Dimensions{}, fmt.Errorf("参照画像のオープンに失敗したのだ (%s): %w", url, err)
	}
	defer rc.Close()

	cfg, format, err := image.DecodeConfig(rc)
	if err != nil {
		return Dimensions{}, fmt.Errorf("画像ヘッダの解析に失敗したのだ (%s): %w", url, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Dimensions{}, fmt.Errorf("画像ヘッダの寸法が不正なのだ (%s): %dx%d", url, cfg.Width, cfg.Height)
	}

	slog.Debug("画像寸法を取得したのだ", "url", url, "format", format, "width", cfg.Width, "height", cfg.Height)
	return Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}
