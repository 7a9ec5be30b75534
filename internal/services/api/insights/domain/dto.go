// Package domain holds DTOs for insights http and service contracts
package domain

// Dates are ISO8601 without timezone; an empty as_of means today in UTC

// CreatorInsightInput requests the full evaluation for one creator
type CreatorInsightInput struct {
	CreatorID string `json:"creator_id" validate:"required,uuid" example:"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`
	AsOf      string `json:"as_of,omitempty" validate:"omitempty,datetime=2006-01-02" example:"2025-11-20"`
}

// MessageInput requests the composed status message for one creator
type MessageInput struct {
	CreatorID string `json:"creator_id" validate:"required,uuid" example:"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`
	AsOf      string `json:"as_of,omitempty" validate:"omitempty,datetime=2006-01-02" example:"2025-11-20"`
}

// MessageRow is the composed message response
type MessageRow struct {
	CreatorID string `json:"creator_id" example:"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`
	Message   string `json:"message" example:"Hi Valeria! Here is your month so far..."`
}

// BatchInput runs the whole roster, optionally persisting bonus runs
type BatchInput struct {
	AsOf    string `json:"as_of,omitempty" validate:"omitempty,datetime=2006-01-02" example:"2025-11-20"`
	Persist bool   `json:"persist,omitempty" example:"false"`
}
