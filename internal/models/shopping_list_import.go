package models

// ParsedItem is the structured candidate extracted from one line of free text
type ParsedItem struct {
	RawText     string   `json:"raw_text"`
	Quantity    float64  `json:"quantity"`
	Unit        string   `json:"unit"`
	ProductName string   `json:"product_name"`
	Price       *float64 `json:"price,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	Confidence  float64  `json:"confidence"`
	LineNumber  int      `json:"line_number,omitempty"` // Source line when parsed from a pasted list
}

// QuickAddPreview is a parsed candidate together with its catalog matches
type QuickAddPreview struct {
	Parsed     ParsedItem     `json:"parsed"`
	Matches    []ProductMatch `json:"matches"`
	BestMatch  *ProductMatch  `json:"best_match,omitempty"`
	AutoLinked bool           `json:"auto_linked"` // Best match is confident enough to link without confirmation
}

// QuickAddResult is the outcome of a quick-add on a list
type QuickAddResult struct {
	Item    ShoppingListItem `json:"item"`
	Preview QuickAddPreview  `json:"preview"`
}

// ImportLineError reports a pasted line that could not become an item
type ImportLineError struct {
	LineNumber int    `json:"line_number"`
	RawText    string `json:"raw_text"`
	Error      string `json:"error"`
}

// ImportResult is the API response of a multi-line import
type ImportResult struct {
	Added       []QuickAddResult  `json:"added"`
	Errors      []ImportLineError `json:"errors,omitempty"`
	TotalParsed int               `json:"total_parsed"`
	LinkedCount int               `json:"linked_count"`
}

// ScanResult is the API response of a list photo scan
type ScanResult struct {
	ImageKey string       `json:"image_key,omitempty"`
	RawText  string       `json:"raw_text"`
	Import   ImportResult `json:"import"`
}
