package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
)

const (
	quantityPattern = `\d+(?:[.,]\d+)?`

	// Longer spellings first: alternation is leftmost-first.
	unitAlternation = `kilogrammes?|kilograms?|kilos?|kgs?|grammes?|grams?|gr|g|` +
		`millilitres?|milliliters?|ml|litres?|liters?|l|pièces?|pieces?|pcs?|unités?|units?`

	pricePattern = `(?:(?P<currency>[€$£])\s*(?P<pricepre>` + quantityPattern + `)|` +
		`(?P<pricepost>` + quantityPattern + `)\s*(?:[€$£]|(?i:eur(?:os?)?)))`

	minParsedQuantity = 0.1
	emptyConfidence   = 0.2
)

// Unit normalization map, english and french spellings
var unitNormalization = map[string]string{
	"kilogramme":  "kg",
	"kilogrammes": "kg",
	"kilogram":    "kg",
	"kilograms":   "kg",
	"kilo":        "kg",
	"kilos":       "kg",
	"kg":          "kg",
	"kgs":         "kg",

	"gramme":  "g",
	"grammes": "g",
	"gram":    "g",
	"grams":   "g",
	"gr":      "g",
	"g":       "g",

	"millilitre":  "ml",
	"millilitres": "ml",
	"milliliter":  "ml",
	"milliliters": "ml",
	"ml":          "ml",

	"litre":  "l",
	"litres": "l",
	"liter":  "l",
	"liters": "l",
	"l":      "l",

	"pièce":  "unit",
	"pièces": "unit",
	"piece":  "unit",
	"pieces": "unit",
	"pc":     "unit",
	"pcs":    "unit",
	"unité":  "unit",
	"unités": "unit",
	"unit":   "unit",
	"units":  "unit",
}

// Unicode vulgar fractions mapping
var unicodeFractions = map[rune]string{
	'¼': ".25",
	'½': ".5",
	'¾': ".75",
	'⅓': ".33",
	'⅔': ".67",
	'⅛': ".125",
}

// inputPattern is one family of the parsing cascade
type inputPattern struct {
	name       string
	re         *regexp.Regexp
	confidence float64
}

// patternMatch is the result of trying one family: matched reports success
type patternMatch struct {
	matched    bool
	quantity   string
	unit       string
	name       string
	price      string
	confidence float64
}

// SmartInputParser turns one line of free text into a structured list item candidate
type SmartInputParser struct {
	patterns        []inputPattern
	checkboxPattern *regexp.Regexp
	bulletPattern   *regexp.Regexp
	notesPattern    *regexp.Regexp
	spacePattern    *regexp.Regexp
	numberUnitToken *regexp.Regexp
	priceToken      *regexp.Regexp
	leadingPrice    *regexp.Regexp
}

// NewSmartInputParser creates a new parser instance
func NewSmartInputParser() *SmartInputParser {
	unit := `(?P<unit>` + unitAlternation + `)`
	qty := `(?P<qty>` + quantityPattern + `)`
	price := `(?:\s+` + pricePattern + `)?`

	return &SmartInputParser{
		patterns: []inputPattern{
			{
				// 2 kg apples, 1.5l milk 2.49€
				name:       "quantity-first",
				re:         regexp.MustCompile(`(?i)^` + qty + `\s*` + unit + `\s+(?P<name>.+?)` + price + `$`),
				confidence: 0.8,
			},
			{
				// apples 2 kg, milk 1,5 l 2,30 €
				name:       "name-first",
				re:         regexp.MustCompile(`(?i)^(?P<name>.+?)\s+` + qty + `\s*` + unit + price + `$`),
				confidence: 0.8,
			},
			{
				// apples, 3 lemons, bread 1.20€
				name:       "fallback",
				re:         regexp.MustCompile(`(?i)^(?:` + qty + `\s+)?(?P<name>.*?\p{L}.*?)` + price + `$`),
				confidence: 0.6,
			},
		},

		// Match markdown checkbox lines: - [ ] or - [x]
		checkboxPattern: regexp.MustCompile(`^\s*[-*+]\s*\[[ xX]?\]\s*(.*)$`),
		bulletPattern:   regexp.MustCompile(`^\s*[-*+•]\s+(.*)$`),
		notesPattern:    regexp.MustCompile(`\(([^)]*)\)`),
		spacePattern:    regexp.MustCompile(`\s+`),
		numberUnitToken: regexp.MustCompile(`(?i)^` + quantityPattern + `(?:` + unitAlternation + `)$`),
		priceToken:      regexp.MustCompile(`^(?:[€$£]` + quantityPattern + `|` + quantityPattern + `[€$£])$`),
		leadingPrice:    regexp.MustCompile(`(?i)^` + pricePattern + `\s+(?P<rest>.+)$`),
	}
}

// Parse extracts quantity, unit, product name, price and notes from text.
// It never fails: unparsable input yields a low-confidence candidate.
func (p *SmartInputParser) Parse(text string) models.ParsedItem {
	item := models.ParsedItem{
		RawText:    text,
		Quantity:   1,
		Unit:       string(models.UnitUnit),
		Confidence: emptyConfidence,
	}

	input := strings.TrimSpace(text)
	if input == "" {
		return item
	}

	// Notes in parentheses never belong to the name or the quantity
	input, item.Notes = p.extractNotes(input)
	input = normalizeFractions(input)
	input, leadingPrice := p.extractLeadingPrice(input)

	m := p.match(input)
	if m.price == "" {
		m.price = leadingPrice
	}
	// "2 kg" alone: the fallback reads the unit as the name
	if m.unit == "" {
		if _, isUnit := unitNormalization[strings.ToLower(strings.TrimSpace(m.name))]; isUnit {
			m.unit = strings.TrimSpace(m.name)
		}
	}
	confidence := m.confidence

	quantity := 1.0
	if m.quantity != "" {
		if q, ok := parseNumber(m.quantity); ok {
			quantity = q
		} else {
			confidence -= 0.1
		}
	}

	unit := string(models.UnitUnit)
	if m.unit != "" {
		unit = normalizeUnit(m.unit)
	}

	if m.price != "" {
		if price, ok := parseNumber(m.price); ok {
			item.Price = &price
			confidence += 0.1
		}
	}

	if quantity > 0 && unit != string(models.UnitUnit) {
		confidence += 0.1
	}

	name := m.name
	if !m.matched {
		name = input
	}
	item.ProductName = p.cleanName(name)

	confidence = math.Min(confidence, 1.0)
	if item.ProductName == "" {
		confidence = emptyConfidence
	}

	item.Quantity = math.Max(quantity, minParsedQuantity)
	item.Unit = unit
	item.Confidence = math.Round(confidence*100) / 100
	return item
}

// ParseList parses pasted multi-line content, one candidate per non-empty line.
// Markdown checkboxes and bullets are stripped before parsing.
func (p *SmartInputParser) ParseList(content string) []models.ParsedItem {
	var items []models.ParsedItem
	for i, line := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		text := line
		if matches := p.checkboxPattern.FindStringSubmatch(line); len(matches) == 2 {
			text = matches[1]
		} else if matches := p.bulletPattern.FindStringSubmatch(line); len(matches) == 2 {
			text = matches[1]
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		item := p.Parse(text)
		item.RawText = line
		item.LineNumber = i + 1
		items = append(items, item)
	}
	return items
}

// match runs the cascade; the first family that matches wins
func (p *SmartInputParser) match(input string) patternMatch {
	for _, pat := range p.patterns {
		sub := pat.re.FindStringSubmatch(input)
		if sub == nil {
			continue
		}
		return patternMatch{
			matched:    true,
			quantity:   group(pat.re, sub, "qty"),
			unit:       group(pat.re, sub, "unit"),
			name:       group(pat.re, sub, "name"),
			price:      group(pat.re, sub, "pricepre") + group(pat.re, sub, "pricepost"),
			confidence: pat.confidence,
		}
	}
	return patternMatch{confidence: 0.3}
}

func group(re *regexp.Regexp, sub []string, name string) string {
	idx := re.SubexpIndex(name)
	if idx < 0 || idx >= len(sub) {
		return ""
	}
	return sub[idx]
}

// extractLeadingPrice splits a price written before the item, as in "$2 bread"
func (p *SmartInputParser) extractLeadingPrice(s string) (string, string) {
	sub := p.leadingPrice.FindStringSubmatch(s)
	if sub == nil {
		return s, ""
	}
	price := group(p.leadingPrice, sub, "pricepre") + group(p.leadingPrice, sub, "pricepost")
	return group(p.leadingPrice, sub, "rest"), price
}

// extractNotes extracts content in parentheses
func (p *SmartInputParser) extractNotes(s string) (string, string) {
	var notes []string
	for _, m := range p.notesPattern.FindAllStringSubmatch(s, -1) {
		if n := strings.TrimSpace(m[1]); n != "" {
			notes = append(notes, n)
		}
	}
	s = p.notesPattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(p.spacePattern.ReplaceAllString(s, " ")), strings.Join(notes, "; ")
}

// cleanName drops residual quantity/unit tokens and currency marks, then collapses whitespace
func (p *SmartInputParser) cleanName(s string) string {
	var kept []string
	for _, tok := range strings.Fields(s) {
		lower := strings.ToLower(tok)
		if _, isUnit := unitNormalization[lower]; isUnit {
			continue
		}
		if p.numberUnitToken.MatchString(lower) || p.priceToken.MatchString(tok) {
			continue
		}
		tok = strings.Trim(tok, "€$£")
		if tok == "" {
			continue
		}
		kept = append(kept, tok)
	}

	name := strings.Join(kept, " ")
	name = strings.TrimRight(name, ".,;:-_")
	name = strings.TrimLeft(name, ".,;:-_")
	name = strings.TrimSpace(name)

	if !strings.ContainsFunc(name, unicode.IsLetter) {
		return ""
	}
	return name
}

// normalizeFractions rewrites vulgar fractions (½, 1½) as decimals
func normalizeFractions(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		frac, ok := unicodeFractions[r]
		if !ok {
			b.WriteRune(r)
			continue
		}
		if i == 0 || !unicode.IsDigit(runes[i-1]) {
			b.WriteString("0")
		}
		b.WriteString(frac)
	}
	return b.String()
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func normalizeUnit(raw string) string {
	if u, ok := unitNormalization[strings.ToLower(raw)]; ok {
		return u
	}
	return string(models.UnitUnit)
}
