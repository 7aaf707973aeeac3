package domain

// Categories is the closed vocabulary of product categories.
// Values are the stored form; filtering matches them exactly.
var Categories = []string{
	"saas",
	"payments",
	"productivity",
	"analytics",
	"ai",
	"design",
	"development",
	"marketing",
	"finance",
	"ecommerce",
	"communication",
	"education",
	"security",
	"devops",
	"content",
}

// ValidCategory reports whether v is part of the closed category vocabulary.
func ValidCategory(v string) bool {
	for _, c := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// FilterCategories drops values outside the closed vocabulary, deduplicates
// and caps the result at MaxCategories.
func FilterCategories(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range NormalizeTags(values) {
		if !ValidCategory(v) {
			continue
		}
		out = append(out, v)
		if len(out) == MaxCategories {
			break
		}
	}
	return out
}
