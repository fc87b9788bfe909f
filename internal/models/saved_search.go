package models

import "time"

// SavedSearch is a query an enumerator kept for later
type SavedSearch struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Phone     string    `json:"phone" gorm:"size:15;not null;index"`
	Query     string    `json:"query" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// SavedSearchRequest is the body of POST /api/saved-searches
type SavedSearchRequest struct {
	Query string `json:"query" validate:"required,max=500"`
}
