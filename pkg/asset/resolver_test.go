package asset

import "testing"

func TestFitFileRegex(t *testing.T) {
	t.Run("連番付きの試着画像名に一致すること", func(t *testing.T) {
		for _, name := range []string{"fit_1.png", "fit_42.png"} {
			if !FitFileRegex.MatchString(name) {
				t.Errorf("%q に一致するべきです", name)
			}
		}
	})

	t.Run("無関係なファイル名には一致しないこと", func(t *testing.T) {
		for _, name := range []string{"fit.png", "fit_a.png", "fit_1.jpg", "sheet_1.png"} {
			if FitFileRegex.MatchString(name) {
				t.Errorf("%q に一致するべきではありません", name)
			}
		}
	})
}

func TestLookFileName(t *testing.T) {
	if got := LookFileName("summer-dress"); got != "fit_summer-dress.png" {
		t.Errorf("期待値 'fit_summer-dress.png', 実際の値 '%s'", got)
	}
}
