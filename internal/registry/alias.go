package registry

// nameAliases maps normalized known name variants to truck ids, for vendors
// whose scraped names differ too much from the canonical form for the
// automatic tiers to work: script mismatches, embedded menu items,
// decoration-heavy site-specific spellings. Maintained by hand; keys must be
// in nameform.Normalize form. Loaded once, never mutated at runtime.
var nameAliases = map[string]string{
	// Site mixes the mascot name into the truck name.
	"mr.chicken torihanten": "mr-chicken",
	"mr.chicken 鶏飯店":        "mr-chicken",
	// Kanji listing vs. romaji registry entry.
	"韓国屋台 ハンサム":  "hansamu",
	"ケバブカー アンカラ": "ankara-kebab",
	// Listing appends the headline menu item to the name.
	"tokyo deli lunch 特製ローストビーフ丼": "tokyo-deli-lunch",
	"spice wagon 本格スパイスカレー":      "spice-wagon",
}

// aliasID returns the truck id for a normalized name variant, if the alias
// table knows it.
func aliasID(normalized string) (string, bool) {
	id, ok := nameAliases[normalized]
	return id, ok
}
