package services

import (
	"math"
	"sort"
	"strings"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
)

const (
	maxSearchResults  = 5
	minConfidence     = 0.5
	maxConfidence     = 0.99
	synonymConfidence = 0.80
	jitterSpread      = 0.025
)

type matchRule struct {
	keywords   []string
	ncoCode    string
	confidence float64
	reason     string
}

// Evaluated in order; the first rule with a keyword in the query wins.
var matchRules = []matchRule{
	{
		keywords:   []string{"sewing", "garment", "tailor"},
		ncoCode:    "75320101",
		confidence: 0.92,
		reason:     "Strong match: Query mentions sewing and garment work, which directly matches this occupation",
	},
	{
		keywords:   []string{"software", "developer", "programmer"},
		ncoCode:    "25120101",
		confidence: 0.95,
		reason:     "Exact match: Query directly mentions software development role",
	},
	{
		keywords:   []string{"cook", "chef", "kitchen"},
		ncoCode:    "51210101",
		confidence: 0.88,
		reason:     "Strong match: Query indicates cooking and food preparation activities",
	},
	{
		keywords:   []string{"teacher", "professor", "lecturer"},
		ncoCode:    "23110101",
		confidence: 0.85,
		reason:     "Good match: Query mentions teaching at higher education level",
	},
	{
		keywords:   []string{"driver", "driving"},
		ncoCode:    "83210101",
		confidence: 0.87,
		reason:     "Strong match: Query indicates vehicle driving occupation",
	},
}

var catalog = []models.Occupation{
	{
		NcoCode:     "75320101",
		Title:       "Sewing Machine Operator (Garment)",
		Hierarchy:   []string{"Major Group 7", "Sub-Major Group 75", "Minor Group 753", "Unit Group 7532", "Occupation 75320101"},
		Description: "Sewing machine operators operate industrial sewing machines to join, reinforce or decorate garment parts in the manufacture of garments and related articles.",
		Tasks: []string{
			"Operating single or multi-needle industrial sewing machines",
			"Joining garment parts by sewing seams",
			"Attaching buttons, hooks, zippers and other accessories",
			"Inspecting finished garments for defects",
			"Maintaining sewing machines and replacing needles",
		},
		RelatedOccupations: []models.RelatedOccupation{
			{NcoCode: "75320102", Title: "Overlock Machine Operator"},
			{NcoCode: "75320103", Title: "Button Hole Machine Operator"},
			{NcoCode: "74320101", Title: "Tailor (General)"},
		},
	},
	{
		NcoCode:     "25120101",
		Title:       "Software Developer",
		Hierarchy:   []string{"Major Group 2", "Sub-Major Group 25", "Minor Group 251", "Unit Group 2512", "Occupation 25120101"},
		Description: "Software developers research, design, and develop computer software systems, in conjunction with hardware product development, for general use.",
		Tasks: []string{
			"Researching, analyzing and evaluating requirements for software applications",
			"Designing, developing and integrating computer code",
			"Testing, debugging and refining computer code",
			"Writing and maintaining program documentation",
			"Evaluating and implementing new technologies",
		},
		RelatedOccupations: []models.RelatedOccupation{
			{NcoCode: "25120102", Title: "Web Developer"},
			{NcoCode: "25120103", Title: "Mobile Application Developer"},
			{NcoCode: "25130101", Title: "Database Designer and Administrator"},
		},
	},
	{
		NcoCode:     "51210101",
		Title:       "Cook (General)",
		Hierarchy:   []string{"Major Group 5", "Sub-Major Group 51", "Minor Group 512", "Unit Group 5121", "Occupation 51210101"},
		Description: "Cooks prepare and cook food in hotels, restaurants, hospitals and other establishments.",
		Tasks: []string{
			"Planning menus and estimating food requirements",
			"Preparing and cooking food",
			"Regulating temperatures of ovens and other cooking equipment",
			"Examining food to ensure quality",
			"Supervising and training kitchen staff",
		},
		RelatedOccupations: []models.RelatedOccupation{
			{NcoCode: "51210102", Title: "Chef"},
			{NcoCode: "51210103", Title: "Pastry Cook"},
			{NcoCode: "94120101", Title: "Kitchen Helper"},
		},
	},
	{
		NcoCode:     "23110101",
		Title:       "University and Higher Education Teacher",
		Hierarchy:   []string{"Major Group 2", "Sub-Major Group 23", "Minor Group 231", "Unit Group 2311", "Occupation 23110101"},
		Description: "University and higher education teachers teach academic and vocational subjects at universities, colleges and other higher education institutions.",
		Tasks: []string{
			"Preparing and delivering lectures and seminars",
			"Conducting tutorials and laboratory sessions",
			"Conducting research and publishing findings",
			"Supervising student research projects",
			"Assessing student work and examination papers",
		},
		RelatedOccupations: []models.RelatedOccupation{
			{NcoCode: "23110102", Title: "College Lecturer"},
			{NcoCode: "23110103", Title: "Research Scholar"},
			{NcoCode: "23210101", Title: "Vocational Education Teacher"},
		},
	},
	{
		NcoCode:     "83210101",
		Title:       "Motor Vehicle Driver",
		Hierarchy:   []string{"Major Group 8", "Sub-Major Group 83", "Minor Group 832", "Unit Group 8321", "Occupation 83210101"},
		Description: "Motor vehicle drivers drive and tend motor vehicles to transport passengers, mail and goods.",
		Tasks: []string{
			"Driving cars, vans, trucks and other motor vehicles",
			"Checking vehicle condition and cleanliness",
			"Maintaining vehicle log books and records",
			"Loading and unloading goods",
			"Collecting fares or delivery payments",
		},
		RelatedOccupations: []models.RelatedOccupation{
			{NcoCode: "83210102", Title: "Taxi Driver"},
			{NcoCode: "83210103", Title: "Truck Driver"},
			{NcoCode: "83220101", Title: "Bus Driver"},
		},
	},
}

// LookupOccupation returns a copy of the catalog entry for code
func LookupOccupation(code string) (models.Occupation, bool) {
	for _, occ := range catalog {
		if occ.NcoCode == code {
			return occ, true
		}
	}
	return models.Occupation{}, false
}

// Match ranks catalog occupations against query. jitter must return a value
// in [-1, 1); it is scaled to the configured spread.
func Match(query string, synonyms []*models.Synonym, jitter func() float64) []models.SearchResult {
	q := strings.ToLower(query)
	results := make([]models.SearchResult, 0, maxSearchResults)
	seen := make(map[string]bool)

	for _, rule := range matchRules {
		if !containsAny(q, rule.keywords) {
			continue
		}
		if occ, ok := LookupOccupation(rule.ncoCode); ok {
			results = append(results, models.SearchResult{
				Occupation: occ,
				Confidence: score(rule.confidence, jitter),
				Reason:     rule.reason,
			})
			seen[occ.NcoCode] = true
		}
		break
	}

	for _, syn := range synonyms {
		term := strings.ToLower(strings.TrimSpace(syn.Term))
		if term == "" || seen[syn.NcoCode] || !strings.Contains(q, term) {
			continue
		}
		occ, ok := LookupOccupation(syn.NcoCode)
		if !ok {
			continue
		}
		results = append(results, models.SearchResult{
			Occupation: occ,
			Confidence: score(synonymConfidence, jitter),
			Reason:     "Synonym match: \"" + term + "\" is mapped to this occupation",
		})
		seen[occ.NcoCode] = true
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}
	return results
}

// score rounds to six places so the band edges are exact
func score(base float64, jitter func() float64) float64 {
	c := math.Round((base+jitter()*jitterSpread)*1e6) / 1e6
	if c < minConfidence {
		return minConfidence
	}
	if c > maxConfidence {
		return maxConfidence
	}
	return c
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
