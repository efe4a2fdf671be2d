package ratio

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNewAspectRatio(t *testing.T) {
	t.Run("ピクセル寸法が既約比に約分されるのだ", func(t *testing.T) {
		testCases := []struct {
			name  string
			w, h  int
			wantW int
			wantH int
		}{
			{"フルHDは16:9", 1920, 1080, 16, 9},
			{"正方形は1:1", 1024, 1024, 1, 1},
			{"縦長パネルは4:7", 768, 1344, 4, 7},
			{"約分済みでも正規化されるのだ", 21, 9, 7, 3},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				got, err := NewAspectRatio(tc.w, tc.h)
				if err != nil {
					t.Fatalf("予期しないエラーなのだ: %v", err)
				}
				if got.Width != tc.wantW || got.Height != tc.wantH {
					t.Errorf("約分結果が違うのだ。期待: %d:%d, 実際: %s", tc.wantW, tc.wantH, got)
				}
			})
		}
	})

	t.Run("非正の入力はErrInvalidDimensionsで失敗するのだ", func(t *testing.T) {
		for _, pair := range [][2]int{{0, 100}, {100, 0}, {-1, 100}, {100, -1}} {
			if _, err := NewAspectRatio(pair[0], pair[1]); !errors.Is(err, ErrInvalidDimensions) {
				t.Errorf("(%d, %d): ErrInvalidDimensions が返るべきなのだ。実際: %v", pair[0], pair[1], err)
			}
		}
	})
}

func TestParseAspectRatio(t *testing.T) {
	t.Run("コロン区切り表現をパースできるのだ", func(t *testing.T) {
		got, err := ParseAspectRatio("16:9")
		if err != nil {
			t.Fatalf("パース失敗なのだ: %v", err)
		}
		if got != (AspectRatio{Width: 16, Height: 9}) {
			t.Errorf("パース結果が違うのだ: %s", got)
		}
	})

	t.Run("パース時にも約分されるのだ", func(t *testing.T) {
		got, err := ParseAspectRatio("1920:1080")
		if err != nil {
			t.Fatalf("パース失敗なのだ: %v", err)
		}
		if got.String() != "16:9" {
			t.Errorf("約分されていないのだ: %s", got)
		}
	})

	t.Run("不正な表現は失敗するのだ", func(t *testing.T) {
		for _, input := range []string{"", "16", "16x9", "a:b", "0:9"} {
			if _, err := ParseAspectRatio(input); err == nil {
				t.Errorf("%q はエラーになるべきなのだ", input)
			}
		}
	})
}

func TestAspectRatio_JSON(t *testing.T) {
	t.Run("W:H文字列として往復変換できるのだ", func(t *testing.T) {
		original := AspectRatio{Width: 16, Height: 9}

		data, err := json.Marshal(original)
		if err != nil {
			t.Fatalf("Marshal失敗なのだ: %v", err)
		}
		if string(data) != `"16:9"` {
			t.Errorf("JSON表現が違うのだ: %s", data)
		}

		var decoded AspectRatio
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal失敗なのだ: %v", err)
		}
		if decoded != original {
			t.Errorf("変換前後で値が一致しないのだ。期待: %s, 実際: %s", original, decoded)
		}
	})
}

func TestAspectRatio_Value(t *testing.T) {
	r := AspectRatio{Width: 16, Height: 9}
	want := 16.0 / 9.0
	if got := r.Value(); got != want {
		t.Errorf("小数表現が違うのだ。期待: %v, 実際: %v", want, got)
	}
}
