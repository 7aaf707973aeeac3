package extractor

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// maxDerivedTags caps the heuristically derived tag set.
const maxDerivedTags = 10

// topKeywordCount is how many frequency-ranked content words become tags.
const topKeywordCount = 5

// stopWords are excluded from keyword extraction.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"from": {}, "up": {}, "about": {}, "into": {}, "through": {}, "during": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"being": {}, "have": {}, "has": {}, "had": {}, "do": {}, "does": {},
	"did": {}, "will": {}, "would": {}, "should": {}, "could": {}, "may": {},
	"might": {}, "can": {}, "your": {}, "you": {}, "we": {}, "our": {},
	"their": {}, "this": {}, "that": {}, "these": {}, "those": {},
}

// categoryPatterns label content by regex match against title+description.
var categoryPatterns = map[string]*regexp.Regexp{
	"saas":               regexp.MustCompile(`\b(saas|software as a service|cloud software)\b`),
	"productivity":       regexp.MustCompile(`\b(productivity|task|todo|workflow|organization)\b`),
	"design":             regexp.MustCompile(`\b(design|ui|ux|interface|figma|sketch)\b`),
	"development":        regexp.MustCompile(`\b(developer|development|code|coding|programming|api)\b`),
	"analytics":          regexp.MustCompile(`\b(analytics|tracking|metrics|data|statistics)\b`),
	"collaboration":      regexp.MustCompile(`\b(collaboration|team|collaborate|share|sharing)\b`),
	"project-management": regexp.MustCompile(`\b(project management|project|management|planning)\b`),
	"communication":      regexp.MustCompile(`\b(communication|chat|messaging|slack|discord)\b`),
	"marketing":          regexp.MustCompile(`\b(marketing|email|campaign|seo|social media)\b`),
	"ecommerce":          regexp.MustCompile(`\b(ecommerce|e-commerce|shop|store|shopping|cart)\b`),
	"finance":            regexp.MustCompile(`\b(finance|accounting|invoice|payment|billing)\b`),
	"crm":                regexp.MustCompile(`\b(crm|customer|sales|lead)\b`),
	"ai":                 regexp.MustCompile(`\b(ai|artificial intelligence|machine learning|ml|gpt)\b`),
	"automation":         regexp.MustCompile(`\b(automation|automate|workflow|integration)\b`),
	"no-code":            regexp.MustCompile(`\b(no-code|low-code|nocode|lowcode)\b`),
}

var (
	metaKeywordsSplit = regexp.MustCompile(`\s*,\s*`)
	nonLetters        = regexp.MustCompile(`[^a-z\s-]`)
)

// deriveTags heuristically extracts candidate tags from page metadata and
// content: meta keywords, non-"website" Open Graph type, the domain's
// first meaningful segment, top frequency-ranked content words, and
// pattern-matched category labels. Best effort, capped at maxDerivedTags.
func deriveTags(html, name, description, rawURL string) []string {
	seen := make(map[string]struct{})
	tags := make([]string, 0, maxDerivedTags)
	add := func(tag string) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	// 1. Meta keywords.
	if keywords := metaName(html, "keywords"); keywords != "" {
		for _, kw := range metaKeywordsSplit.Split(keywords, -1) {
			if len(strings.TrimSpace(kw)) > 2 {
				add(kw)
			}
		}
	}

	// 2. Open Graph type, unless it is the generic "website".
	if ogType := metaProperty(html, "og:type"); ogType != "" && !strings.EqualFold(ogType, "website") {
		add(ogType)
	}

	// 3. First meaningful domain segment ("notion.so" -> "notion").
	if u, err := url.Parse(rawURL); err == nil {
		host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
		if segment, _, ok := strings.Cut(host, "."); ok && len(segment) > 2 {
			add(segment)
		}
	}

	// 4. Frequency-ranked content words.
	for _, kw := range topKeywords(name+" "+description, topKeywordCount) {
		add(kw)
	}

	// 5. Category labels matched against title and description.
	for _, category := range detectCategories(name + " " + description) {
		add(category)
	}

	if len(tags) > maxDerivedTags {
		tags = tags[:maxDerivedTags]
	}
	return tags
}

// topKeywords returns the n most frequent words in text, stop words and
// short words excluded. Ties break alphabetically for determinism.
func topKeywords(text string, n int) []string {
	cleaned := nonLetters.ReplaceAllString(strings.ToLower(text), " ")

	freq := make(map[string]int)
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		freq[word]++
	}

	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > n {
		words = words[:n]
	}
	return words
}

// detectCategories returns the category labels whose pattern matches the
// text, in stable order.
func detectCategories(text string) []string {
	lower := strings.ToLower(text)

	var categories []string
	for category, pattern := range categoryPatterns {
		if pattern.MatchString(lower) {
			categories = append(categories, category)
		}
	}
	sort.Strings(categories)
	return categories
}
