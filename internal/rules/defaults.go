package rules

import "github.com/kawaragi/meguri/internal/model"

// The built-in rule set. These started life as the pattern tables the
// site's extraction scripts carried inline; they are consolidated here
// as one versionable table. Character classes cover hiragana, katakana
// (with long vowel mark), CJK ideographs, and ASCII alphanumerics.
const jp = `一-龯ぁ-んァ-ヶA-Za-z0-9ー々`

func builtinRules() []model.Rule {
	return []model.Rule{
		// --- Locations: pattern rules ---
		{ID: "loc-restaurant-suffix", Category: "restaurant", Family: model.FamilyLocation, Kind: model.RuleKindPattern,
			Matcher: `[` + jp + `]{2,20}(?:店|屋|亭|軒|庵|食堂|飯店)`},
		{ID: "loc-ramen", Category: "restaurant", Family: model.FamilyLocation, Kind: model.RuleKindPattern,
			Matcher: `[` + jp + `]{2,16}(?:ラーメン|らーめん|つけ麺)`},
		{ID: "loc-cafe-suffix", Category: "cafe", Family: model.FamilyLocation, Kind: model.RuleKindPattern,
			Matcher: `[` + jp + `]{2,18}(?:カフェ|喫茶店|珈琲店|ベーカリー)`},
		{ID: "loc-sightseeing", Category: "sightseeing", Family: model.FamilyLocation, Kind: model.RuleKindPattern,
			Matcher: `[一-龯ァ-ヶー々]{2,15}(?:神社|神宮|寺|城|公園|タワー|美術館|博物館|水族館|動物園|展望台|庭園)`},
		{ID: "loc-area", Category: "area", Family: model.FamilyLocation, Kind: model.RuleKindPattern,
			Matcher: `[一-龯]{1,8}(?:駅前|駅|商店街|横丁|市場)`},
		{ID: "loc-hotel", Category: "hotel", Family: model.FamilyLocation, Kind: model.RuleKindPattern,
			Matcher: `[` + jp + `]{2,20}(?:ホテル|旅館|温泉)`},

		// --- Locations: keyword rules (known chains) ---
		{ID: "loc-kw-starbucks", Category: "cafe", Family: model.FamilyLocation, Kind: model.RuleKindKeyword, Matcher: "スターバックス"},
		{ID: "loc-kw-ichiran", Category: "restaurant", Family: model.FamilyLocation, Kind: model.RuleKindKeyword, Matcher: "一蘭"},
		{ID: "loc-kw-saizeriya", Category: "restaurant", Family: model.FamilyLocation, Kind: model.RuleKindKeyword, Matcher: "サイゼリヤ"},
		{ID: "loc-kw-sushiro", Category: "restaurant", Family: model.FamilyLocation, Kind: model.RuleKindKeyword, Matcher: "スシロー"},
		{ID: "loc-kw-mcdonalds", Category: "restaurant", Family: model.FamilyLocation, Kind: model.RuleKindKeyword, Matcher: "マクドナルド"},
		{ID: "loc-kw-komeda", Category: "cafe", Family: model.FamilyLocation, Kind: model.RuleKindKeyword, Matcher: "コメダ珈琲"},
		{ID: "loc-kw-donki", Category: "shop", Family: model.FamilyLocation, Kind: model.RuleKindKeyword, Matcher: "ドン・キホーテ"},

		// --- Items: pattern rules ---
		{ID: "item-fashion-suffix", Category: "fashion", Family: model.FamilyItem, Kind: model.RuleKindPattern,
			Matcher: `[` + jp + `]{2,15}(?:Tシャツ|パーカー|スニーカー|キャップ|バッグ|リュック|ジャケット|ワンピース|コート)`},
		{ID: "item-accessory-suffix", Category: "accessory", Family: model.FamilyItem, Kind: model.RuleKindPattern,
			Matcher: `[` + jp + `]{2,15}(?:ネックレス|リング|ピアス|ブレスレット|時計)`},
		{ID: "item-food-suffix", Category: "food_item", Family: model.FamilyItem, Kind: model.RuleKindPattern,
			Matcher: `[` + jp + `]{2,15}(?:ケーキ|パフェ|プリン|クレープ|弁当|スイーツ)`},
		{ID: "item-gadget-suffix", Category: "gadget", Family: model.FamilyItem, Kind: model.RuleKindPattern,
			Matcher: `[` + jp + `]{2,15}(?:イヤホン|ヘッドホン|カメラ|キーボード|スピーカー)`},

		// --- Items: keyword rules (known brands) ---
		{ID: "item-kw-uniqlo", Category: "fashion", Family: model.FamilyItem, Kind: model.RuleKindKeyword, Matcher: "ユニクロ"},
		{ID: "item-kw-gu", Category: "fashion", Family: model.FamilyItem, Kind: model.RuleKindKeyword, Matcher: "ジーユー"},
		{ID: "item-kw-nike", Category: "fashion", Family: model.FamilyItem, Kind: model.RuleKindKeyword, Matcher: "ナイキ"},
		{ID: "item-kw-adidas", Category: "fashion", Family: model.FamilyItem, Kind: model.RuleKindKeyword, Matcher: "アディダス"},
		{ID: "item-kw-supreme", Category: "fashion", Family: model.FamilyItem, Kind: model.RuleKindKeyword, Matcher: "シュプリーム"},
		{ID: "item-kw-casio", Category: "accessory", Family: model.FamilyItem, Kind: model.RuleKindKeyword, Matcher: "カシオ"},
	}
}

// builtinNoise is the default false-positive blocklist. Platform words
// and video-meta vocabulary dominate comment text and match the loose
// suffix patterns constantly.
func builtinNoise() []model.NoiseEntry {
	terms := []string{
		"youtube", "YouTube",
		"チャンネル登録", "チャンネル", "登録者",
		"高評価", "低評価", "グッドボタン",
		"概要欄", "コメント欄", "再生リスト", "サムネイル",
		"メンバーシップ", "スーパーチャット",
		"フォロー", "リツイート",
		"instagram", "twitter", "tiktok",
		"公式サイト", "リンク先",
		"動画", "生配信", "アーカイブ",
	}

	entries := make([]model.NoiseEntry, 0, len(terms))
	for _, t := range terms {
		entries = append(entries, model.NoiseEntry{Term: t, AppliesTo: model.FamilyBoth})
	}
	return entries
}

// Builtin returns the built-in library. The built-in table must always
// compile; a failure here is a programming error.
func Builtin() *Library {
	lib, err := NewLibrary(builtinRules(), builtinNoise())
	if err != nil {
		panic("rules: built-in library failed to compile: " + err.Error())
	}
	return lib
}

// BrandTokens lists brand names the scorer treats as corroborating
// context for item candidates.
func BrandTokens() []string {
	return []string{
		"ユニクロ", "ジーユー", "ナイキ", "アディダス", "シュプリーム",
		"カシオ", "セイコー", "ソニー", "ニトリ", "無印良品",
		"uniqlo", "nike", "adidas", "supreme", "casio", "sony",
	}
}
