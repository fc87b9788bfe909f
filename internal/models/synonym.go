package models

import "time"

// Synonym maps a colloquial term onto an NCO code
type Synonym struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Term       string    `json:"synonym" gorm:"size:120;not null;index"`
	NcoCode    string    `json:"ncoCode" gorm:"size:8;not null"`
	Occupation string    `json:"occupation" gorm:"size:200"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SynonymRequest is the body of POST /api/synonyms
type SynonymRequest struct {
	Synonym    string `json:"synonym" validate:"required,max=120"`
	NcoCode    string `json:"ncoCode" validate:"required,ncocode"`
	Occupation string `json:"occupation" validate:"max=200"`
}
