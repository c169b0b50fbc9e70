package entity

import (
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/constant"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/errcode"
)

// Listing is a tutoring offer (proposal) or a help request published by a
// user on the marketplace.
type Listing struct {
	ListingId   string  `json:"listing_id" gorm:"column:listing_id;primaryKey"`
	CreatorId   string  `json:"creator_id" gorm:"column:creator_id;index"`
	Kind        string  `json:"kind" gorm:"column:kind"`
	Title       string  `json:"title" gorm:"column:title"`
	Description string  `json:"description" gorm:"column:description"`
	Subject     string  `json:"subject" gorm:"column:subject;index"`
	HourlyRate  float64 `json:"hourly_rate" gorm:"column:hourly_rate"`
	CreatedAt   int64   `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt   int64   `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Listing
func (Listing) TableName() string {
	return "listings"
}

// Validate checks listing invariants before persisting
func (l *Listing) Validate() error {
	if l.CreatorId == "" || l.Title == "" || l.Subject == "" {
		return errcode.ErrListingInvalid
	}
	if l.Kind != constant.ListingKindProposal && l.Kind != constant.ListingKindRequest {
		return errcode.ErrListingInvalid
	}
	if l.HourlyRate < 0 {
		return errcode.ErrListingInvalid
	}
	return nil
}
