package registry

import (
	"strings"

	"kitchencar/internal/nameform"
)

// UnknownCuisine is the explicit fallback category for vendors whose name and
// detail text match no keyword. Entries classified unknown are re-classified
// on later runs when richer detail text becomes available.
const (
	UnknownCuisine      = "unknown"
	UnknownCuisineLabel = "ジャンル未分類"
)

type cuisineCategory struct {
	key      string
	label    string
	keywords []string
}

// cuisineTable is scanned in order, first hit wins. The order is a
// specificity ranking: narrow categories (korean, thai) come before broad
// catch-alls (meat, asian) so a specific signal is never shadowed by a
// generic one. Keywords are in normalized form (lowercase, NFKC).
// The order is tuned against observed venue listings; treat it as policy.
var cuisineTable = []cuisineCategory{
	{"karaage", "からあげ・チキン", []string{"からあげ", "唐揚", "から揚", "karaage", "チキン", "chicken", "鶏"}},
	{"korean", "韓国料理", []string{"韓国", "キンパ", "チヂミ", "ヤンニョム", "プルコギ", "ビビンバ", "スンドゥブ", "korean", "kimbap", "bulgogi"}},
	{"thai", "タイ料理", []string{"ガパオ", "カオマンガイ", "トムヤム", "タイ料理", "タイ風", "thai", "gapao"}},
	{"kebab", "ケバブ", []string{"ケバブ", "kebab", "kebap", "ドネル"}},
	{"curry", "カレー", []string{"カレー", "curry", "スパイス", "spice", "ビリヤニ", "biryani"}},
	{"chinese", "中華・台湾", []string{"中華", "台湾", "魯肉", "ルーロー", "餃子", "gyoza", "taiwan", "点心"}},
	{"hawaiian", "ハワイアン", []string{"ロコモコ", "ハワイ", "ポキ", "loco moco", "hawaii", "poke"}},
	{"hamburger", "ハンバーガー", []string{"バーガー", "burger"}},
	{"mexican", "メキシカン", []string{"タコス", "ブリトー", "メキシ", "tacos", "taco", "burrito", "mexican"}},
	{"pizza", "ピザ", []string{"ピザ", "ピッツァ", "pizza"}},
	{"italian", "パスタ・イタリアン", []string{"パスタ", "イタリア", "pasta", "italian", "リゾット"}},
	{"sweets", "クレープ・スイーツ", []string{"クレープ", "ワッフル", "スイーツ", "crepe", "waffle", "sweets", "ドーナツ", "donut"}},
	{"drinks", "コーヒー・ドリンク", []string{"コーヒー", "珈琲", "coffee", "ジュース", "juice", "スムージー", "smoothie", "レモネード", "lemonade"}},
	{"washoku", "お弁当・和食", []string{"弁当", "おにぎり", "和食", "丼", "bento", "washoku", "deli", "デリ"}},
	{"meat", "ステーキ・肉料理", []string{"ステーキ", "steak", "bbq", "バーベキュー", "焼肉", "グリル", "grill", "ロースト", "roast", "肉"}},
	{"asian", "アジア・エスニック", []string{"アジア", "エスニック", "asian", "ethnic", "ベトナム", "バインミー", "banh mi"}},
}

// Classify infers a cuisine category from a vendor name plus optional
// free-text detail content. Pure and deterministic: identical inputs always
// yield the identical category, so the pipeline can re-run it later with
// richer detail text to upgrade a previously unknown classification.
func Classify(name, extraText string) (key, label string) {
	text := nameform.Normalize(name + " " + extraText)
	for _, cat := range cuisineTable {
		for _, kw := range cat.keywords {
			if strings.Contains(text, kw) {
				return cat.key, cat.label
			}
		}
	}
	return UnknownCuisine, UnknownCuisineLabel
}
