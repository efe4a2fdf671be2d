package ratio

import "errors"

// 本パッケージが返す番兵エラーの定義なのだ。
// 呼び出し側は errors.Is で失敗の種類を判別できるのだよ。
var (
	// ErrInvalidDimensions は、幅または高さが正の整数でない入力に対して返されます。
	ErrInvalidDimensions = errors.New("画像の幅と高さは正の整数である必要があるのだ")

	// ErrUnknownService は、カタログに登録されていないサービスIDが指定された場合に返されます。
	ErrUnknownService = errors.New("カタログに存在しないサービスIDなのだ")

	// ErrInvalidCatalogEntry は、カタログの自己検証が失敗した場合に返されます。
	// 起動時の致命的エラーであり、壊れたカタログのままサービスを開始してはいけないのだ。
	ErrInvalidCatalogEntry = errors.New("カタログエントリの検証に失敗したのだ")

	// ErrUnresolvableSize は、制約解決の結果が退化または歪曲した場合に返されます。
	// これは設定かロジックのバグなので、黙って補正せずに必ず表面化させるのだ。
	ErrUnresolvableSize = errors.New("出力サイズを解決できなかったのだ")

	// ErrUnknownLabel は、フォーマットアダプタが認識できないラベルを受け取った場合に返されます。
	ErrUnknownLabel = errors.New("認識できないアスペクト比ラベルなのだ")
)
