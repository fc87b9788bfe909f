package models

// OccupationCount is how often a code was selected
type OccupationCount struct {
	NcoCode string `json:"ncoCode"`
	Title   string `json:"title"`
	Count   int64  `json:"count"`
}

// Analytics is the admin dashboard summary derived from the audit log
type Analytics struct {
	TotalSearches      int64             `json:"totalSearches"`
	AverageConfidence  float64           `json:"averageConfidence"`
	LowConfidenceCases int64             `json:"lowConfidenceCases"`
	TotalSelections    int64             `json:"totalSelections"`
	TotalOverrides     int64             `json:"totalOverrides"`
	TopOccupations     []OccupationCount `json:"topOccupations"`
}
