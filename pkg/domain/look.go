package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
)

// Look は1回の試着生成の単位となる「人物 × 衣装」の定義を保持します。
type Look struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	PersonImageURL  string   `json:"person_image_url"`  // 試着させる人物写真のURL
	GarmentImageURL string   `json:"garment_image_url"` // 着せる衣装画像のURL
	StyleCues       []string `json:"style_cues"`        // 生成プロンプトに注入するスタイル指示
	Service         string   `json:"service"`           // ルック単位で上書きする生成サービスID（空なら既定値）
	Seed            int64    `json:"seed"`              // DB保存等のために広い型を維持
	IsPrimary       bool     `json:"is_primary"`
}

// LooksMap はIDや名前をキーとしたルックの検索用マップなのだ。
type LooksMap map[string]Look

// LoadLooks は指定されたファイルパスからJSONを読み込み、ルックマップを返すのだ。
func LoadLooks(path string) (LooksMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ルック定義ファイルの読み込みに失敗したのだ: %w", err)
	}
	return GetLooks(data)
}

// GetLooks はJSONバイト列からルックマップをパースして返します。
// この関数はステートレスであり、キャッシュを行いません。
func GetLooks(looksJSON []byte) (LooksMap, error) {
	var looks LooksMap
	if err := json.Unmarshal(looksJSON, &looks); err != nil {
		return nil, fmt.Errorf("ルック定義のデコードに失敗したのだ: %w", err)
	}
	return looks, nil
}

// copyLooksMap はマップの防御的コピーを行う内部ヘルパーなのだ。
func copyLooksMap(src LooksMap) LooksMap {
	copied := make(LooksMap, len(src))
	for k, v := range src {
		lookCopy := v
		// StyleCuesスライスも新しく割り当ててコピーするのだ
		if v.StyleCues != nil {
			lookCopy.StyleCues = make([]string, len(v.StyleCues))
			copy(lookCopy.StyleCues, v.StyleCues)
		}
		copied[k] = lookCopy
	}
	return copied
}

// String はルックの情報を文字列で返すのだ。
func (l Look) String() string {
	return fmt.Sprintf("%s (%s)", l.Name, l.ID)
}

// BuildLooksMap はスライス形式のデータを検索効率の良いマップ形式に変換するのだ。
func BuildLooksMap(looks []Look) LooksMap {
	m := make(LooksMap)
	for _, l := range looks {
		key := l.ID
		if key == "" {
			key = l.Name
		}
		m[key] = l
	}
	return m
}

// GetSeedFromName は設定済みのシードを優先し、未設定なら名前から決定論的に生成します。
func GetSeedFromName(name string, looks LooksMap) int64 {
	if look, ok := looks[name]; ok && look.Seed != 0 {
		return look.Seed
	}
	hash := sha256.Sum256([]byte(name))
	seed := int64(int32(binary.BigEndian.Uint32(hash[:4])))
	// Geminiのシード値は正の数が望ましいため、最上位ビットを落とすのが安全なのだ
	return seed & 0x7FFFFFFF
}

// NewLook は最低限の情報からルック構造体を生成します。
func NewLook(id, name, personURL, garmentURL, styleCue string) Look {
	l := Look{
		ID:              id,
		Name:            name,
		PersonImageURL:  personURL,
		GarmentImageURL: garmentURL,
	}
	if styleCue != "" {
		l.StyleCues = []string{styleCue}
	}
	if l.Seed == 0 {
		l.Seed = GetSeedFromName(name, nil)
	}
	return l
}
