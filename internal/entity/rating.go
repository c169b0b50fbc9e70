package entity

import (
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/constant"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/errcode"
)

// Rating is a star rating left by one booking participant about the other
type Rating struct {
	RatingId    string `json:"rating_id" gorm:"column:rating_id;primaryKey"`
	BookingId   string `json:"booking_id" gorm:"column:booking_id;index"`
	RaterId     string `json:"rater_id" gorm:"column:rater_id;index"`
	RatedUserId string `json:"rated_user_id" gorm:"column:rated_user_id;index"`
	Stars       int    `json:"stars" gorm:"column:stars"`
	Comment     string `json:"comment" gorm:"column:comment"`
	CreatedAt   int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
}

// TableName returns the table name for Rating
func (Rating) TableName() string {
	return "ratings"
}

// Validate checks rating invariants before persisting
func (r *Rating) Validate() error {
	if r.RaterId == "" || r.RatedUserId == "" || r.RaterId == r.RatedUserId {
		return errcode.ErrRatingInvalid
	}
	if r.Stars < constant.RatingMinStars || r.Stars > constant.RatingMaxStars {
		return errcode.ErrRatingInvalid
	}
	return nil
}
