package domain

import (
	"sort"
	"strings"
)

// FindLook は 直接のIDからルック情報を特定します。
func (m LooksMap) FindLook(ID string) *Look {
	if m == nil {
		return nil
	}
	if look, ok := m[ID]; ok {
		res := look
		return &res
	}
	if look, ok := m[strings.ToLower(ID)]; ok {
		res := look
		return &res
	}
	return nil
}

// GetPrimary はマップ内から IsPrimary が true のルックを1件返します。
// 常に同じ結果を得るため、IDでソートした順に走査します。
func (m LooksMap) GetPrimary() *Look {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		look := m[k]
		if look.IsPrimary {
			res := look
			return &res
		}
	}

	return nil
}

// Sorted はID順に整列したルックのスライスを返すのだ。
// 並列実行時の走査順を安定させるために使うのだよ。
func (m LooksMap) Sorted() []Look {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	looks := make([]Look, 0, len(keys))
	for _, k := range keys {
		looks = append(looks, m[k])
	}
	return looks
}

// Clone はマップ全体の防御的コピーを返します。
func (m LooksMap) Clone() LooksMap {
	return copyLooksMap(m)
}
