package services

import (
	"math"
	"sort"
	"strings"

	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
)

const (
	// DefaultMaxMatches is used when callers pass a non-positive limit
	DefaultMaxMatches = 5

	minMatchSimilarity  = 0.1
	priceBonusDeviation = 0.2
	autoLinkConfidence  = 0.7
	autoLinkSimilarity  = 0.8
)

// Common abbreviation expansions, applied per word
var abbreviations = map[string]string{
	"org":  "organic",
	"whl":  "whole",
	"chkn": "chicken",
	"frsh": "fresh",
	"frzn": "frozen",
	"veg":  "vegetable",
	"jce":  "juice",
	"mlk":  "milk",
	"chse": "cheese",
	"brd":  "bread",
	"wht":  "white",
}

// ProductMatcher scores catalog search results against a parsed candidate
type ProductMatcher struct{}

// NewProductMatcher creates a new product matcher
func NewProductMatcher() *ProductMatcher {
	return &ProductMatcher{}
}

// Similarity scores product against the candidate on a 0..1 scale.
// Tiers: exact name 1.0, name contains term 0.8, term contains name 0.7,
// otherwise keyword overlap scaled by 0.6; brand, category and price bonuses follow.
func (m *ProductMatcher) Similarity(parsed models.ParsedItem, product models.ProductSearchResult) float64 {
	term := normalizeItemName(parsed.ProductName)
	name := normalizeItemName(product.Name)
	if term == "" || name == "" {
		return 0
	}

	var score float64
	switch {
	case term == name:
		score = 1.0
	case strings.Contains(name, term):
		score = 0.8
	case strings.Contains(term, name):
		score = 0.7
	default:
		score = keywordOverlap(term, name) * 0.6
	}

	if product.Brand != nil {
		if brand := normalizeItemName(*product.Brand); brand != "" && strings.Contains(term, brand) {
			score += 0.2
		}
	}
	if product.Category != nil {
		if category := normalizeItemName(*product.Category); category != "" && strings.Contains(term, category) {
			score += 0.1
		}
	}
	if dev := priceDeviation(parsed.Price, product.AveragePrice); dev != nil && *dev < priceBonusDeviation {
		score += 0.1
	}

	return math.Min(score, 1.0)
}

// Score builds the match projection for one product
func (m *ProductMatcher) Score(parsed models.ParsedItem, product models.ProductSearchResult) models.ProductMatch {
	similarity := m.Similarity(parsed, product)
	return models.ProductMatch{
		Product:         product,
		Similarity:      similarity,
		ConfidenceLevel: ConfidenceLevel(similarity),
		PriceDeviation:  priceDeviation(parsed.Price, product.AveragePrice),
	}
}

// FindBestMatches ranks results by similarity, drops weak matches and keeps at most maxResults
func (m *ProductMatcher) FindBestMatches(parsed models.ParsedItem, results []models.ProductSearchResult, maxResults int) []models.ProductMatch {
	if maxResults <= 0 {
		maxResults = DefaultMaxMatches
	}

	matches := make([]models.ProductMatch, 0, len(results))
	for _, r := range results {
		match := m.Score(parsed, r)
		if match.Similarity <= minMatchSimilarity {
			continue
		}
		matches = append(matches, match)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}

// IsHighConfidenceMatch gates linking a product without asking the user
func (m *ProductMatcher) IsHighConfidenceMatch(parsed models.ParsedItem, match models.ProductMatch) bool {
	return parsed.Confidence > autoLinkConfidence && match.Similarity > autoLinkSimilarity
}

// ConfidenceLevel returns a human-readable confidence level
func ConfidenceLevel(similarity float64) string {
	switch {
	case similarity >= 0.9:
		return "high"
	case similarity >= 0.7:
		return "medium"
	case similarity >= 0.5:
		return "low"
	default:
		return "none"
	}
}

// keywordOverlap is the fraction of term words found, as substrings either way, among name words
func keywordOverlap(term, name string) float64 {
	termWords := strings.Fields(term)
	nameWords := strings.Fields(name)
	if len(termWords) == 0 || len(nameWords) == 0 {
		return 0
	}

	found := 0
	for _, tw := range termWords {
		for _, nw := range nameWords {
			if strings.Contains(nw, tw) || strings.Contains(tw, nw) {
				found++
				break
			}
		}
	}
	return float64(found) / float64(len(termWords))
}

func priceDeviation(price, average *float64) *float64 {
	if price == nil || average == nil || *average <= 0 {
		return nil
	}
	dev := math.Abs(*price-*average) / *average
	return &dev
}

// normalizeItemName lowercases, expands abbreviations and collapses whitespace
func normalizeItemName(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, w := range words {
		if full, ok := abbreviations[w]; ok {
			words[i] = full
		}
	}
	return strings.Join(words, " ")
}
