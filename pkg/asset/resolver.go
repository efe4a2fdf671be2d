package asset

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shouni/go-utils/urlpath"
)

const (
	// DefaultImageDir は生成された画像を格納するデフォルトのディレクトリ名です。
	DefaultImageDir = "images"
	// DefaultResultJson は解決結果のデフォルト JSON ファイル名です。
	DefaultResultJson = "fit_result.json"
	// DefaultFitFileName は試着画像の共通のベースファイル名です。
	DefaultFitFileName = "fit.png"
	// DefaultContactSheetName は全ルックをまとめた一覧画像のベースファイル名です。
	DefaultContactSheetName = "fit_sheet.png"
)

var (
	// FitFileRegex は試着画像 (fit_1.png 等) に一致します
	FitFileRegex = createIndexedRegex(DefaultFitFileName)
	// ContactSheetRegex は一覧画像 (fit_sheet_1.png 等) に一致します
	ContactSheetRegex = createIndexedRegex(DefaultContactSheetName)
)

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// GCS/ローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	return urlpath.ResolveOutputPath(baseDir, fileName)
}

// ResolveBaseURL は、入力パス（URLまたはローカルパス）から
// 親ディレクトリのパスを解決し、末尾がセパレータで終わるように正規化します。
func ResolveBaseURL(rawPath string) string {
	return urlpath.ResolveBaseURL(rawPath)
}

// GenerateIndexedPath は、指定されたベースパスの拡張子の前に連番を挿入し、
// 新しいパス文字列を生成します。index は1以上の整数である必要があります。
// 例: "path/to/image.png", 1 -> "path/to/image_1.png"
func GenerateIndexedPath(basePath string, index int) (string, error) {
	return urlpath.GenerateIndexedPath(basePath, index)
}

// LookFileName は、ルックIDから出力ファイル名を生成します。
// 例: "summer-dress" -> "fit_summer-dress.png"
func LookFileName(lookID string) string {
	ext := filepath.Ext(DefaultFitFileName)
	base := strings.TrimSuffix(DefaultFitFileName, ext)
	return fmt.Sprintf("%s_%s%s", base, lookID, ext)
}

// createIndexedRegex は、ファイル名に基づきインデックス付きファイル用の正規表現を生成します。
// 例: "fit.png" -> ^fit_\d+\.png$
func createIndexedRegex(fileName string) *regexp.Regexp {
	ext := filepath.Ext(fileName)
	baseName := strings.TrimSuffix(fileName, ext)

	// baseName と ext の両方を QuoteMeta でエスケープすることで
	// ドットや特殊文字が含まれていても正しくリテラルとしてマッチします。
	pattern := fmt.Sprintf(`^%s_\d+%s$`, regexp.QuoteMeta(baseName), regexp.QuoteMeta(ext))
	return regexp.MustCompile(pattern)
}
