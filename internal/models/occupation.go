package models

// RelatedOccupation is a lightweight link to a nearby NCO code
type RelatedOccupation struct {
	NcoCode string `json:"ncoCode"`
	Title   string `json:"title"`
}

// Occupation is one entry of the NCO catalog
type Occupation struct {
	NcoCode            string              `json:"ncoCode"`
	Title              string              `json:"title"`
	Hierarchy          []string            `json:"hierarchy"`
	Description        string              `json:"description"`
	Tasks              []string            `json:"tasks"`
	RelatedOccupations []RelatedOccupation `json:"relatedOccupations"`
}

// SearchResult is an occupation ranked against a query
type SearchResult struct {
	Occupation
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// SearchRequest is the body of POST /api/search
type SearchRequest struct {
	Query string `json:"query" validate:"required,max=500"`
}

// SelectionRequest records an enumerator picking a code
type SelectionRequest struct {
	NcoCode string `json:"ncoCode" validate:"required,ncocode"`
	Title   string `json:"title" validate:"max=200"`
}

// OverrideRequest records an admin correcting a selection
type OverrideRequest struct {
	FromCode string `json:"fromCode" validate:"required,ncocode"`
	ToCode   string `json:"toCode" validate:"required,ncocode"`
}
