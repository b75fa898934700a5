package classify

// Immutable vocabulary tables loaded once at startup. The semantic
// model leans entirely on these; the other models use the exclusion
// and merchant tables only.

// categoryKeywords maps product categories to indicative terms.
var categoryKeywords = map[string][]string{
	"food": {
		"organic", "fresh", "frozen", "canned", "dried", "raw", "cooked",
		"milk", "bread", "eggs", "cheese", "butter", "yogurt", "meat",
		"chicken", "beef", "pork", "fish", "salmon", "tuna", "shrimp",
		"apple", "banana", "orange", "grape", "berry", "tomato", "potato",
		"onion", "carrot", "lettuce", "spinach", "broccoli", "pepper",
		"rice", "pasta", "cereal", "oats", "flour", "sugar", "salt",
		"oil", "vinegar", "sauce", "soup", "juice", "water", "soda",
		"coffee", "tea", "wine", "beer", "snack", "cookie", "candy",
	},
	"household": {
		"detergent", "soap", "shampoo", "toothpaste", "tissue", "paper",
		"towel", "cleaner", "bleach", "sponge", "brush", "bag", "foil",
		"wrap", "container", "bottle", "jar", "box", "can",
	},
	"personal": {
		"deodorant", "lotion", "cream", "makeup", "perfume", "razor",
		"vitamin", "medicine", "bandage", "cotton", "nail", "hair",
	},
}

// measurementUnits are strong item indicators when they appear as whole
// words.
var measurementUnits = []string{
	"lbs", "lb", "pounds", "pound", "ounces", "ounce", "oz",
	"kilogram", "kg", "grams", "gram", "g",
	"milliliter", "ml", "liters", "liter", "l",
	"fl oz", "fluid ounce", "gallons", "gallon", "quarts", "quart",
	"packages", "package", "packs", "pack", "boxes", "box",
	"bottles", "bottle", "cans", "can", "jars", "jar",
	"bags", "bag", "dozen", "each", "ea", "pcs", "pc", "pieces", "piece",
}

// commonBrands help identify product lines by substring match.
var commonBrands = []string{
	"coca cola", "pepsi", "kraft", "nestle", "unilever", "procter",
	"johnson", "kellogg", "general mills", "nabisco", "frito lay",
	"heinz", "campbell", "del monte", "dole", "chiquita", "tropicana",
	"minute maid", "ocean spray", "starbucks", "folgers", "maxwell",
	"tide", "downy", "charmin", "bounty", "kleenex", "scott",
	"crest", "colgate", "oral b", "gillette", "dove", "olay",
}

// merchantIndicators identify store names in headers and are stripped
// from item-name prefixes. Shared with the metadata extractor.
var merchantIndicators = []string{
	"walmart", "target", "costco", "safeway", "kroger", "publix", "whole foods",
	"mcdonald", "starbucks", "subway", "kfc", "pizza", "burger", "taco bell",
	"home depot", "lowes", "best buy", "amazon", "apple store", "microsoft",
	"cvs", "walgreens", "rite aid", "pharmacy", "dollar", "family dollar",
	"shell", "exxon", "bp", "chevron", "mobil", "gas", "fuel",
	"restaurant", "cafe", "deli", "market", "store", "shop",
}

// storeWords are generic retail words stripped from item-name prefixes.
var storeWords = []string{"store", "market", "shop", "grocery", "supermarket"}

// excludeWords disqualify a candidate name outright when any of its
// words appears here.
var excludeWords = map[string]struct{}{
	"total": {}, "subtotal": {}, "subiotal": {}, "tax": {}, "change": {},
	"cash": {}, "credit": {}, "debit": {}, "receipt": {}, "store": {},
	"date": {}, "time": {}, "cashier": {}, "thank": {}, "visit": {},
	"discount": {}, "coupon": {}, "savings": {}, "member": {},
	"payment": {}, "card": {},
}

// MerchantIndicators exposes the merchant vocabulary for metadata
// extraction.
func MerchantIndicators() []string { return merchantIndicators }
