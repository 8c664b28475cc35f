package models

import "time"

type Review struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	UserID    uint          `gorm:"not null;uniqueIndex:idx_review_user_product" json:"user_id"`
	User      User          `gorm:"foreignKey:UserID" json:"-"`
	ProductID uint          `gorm:"not null;uniqueIndex:idx_review_user_product" json:"product_id"`
	Rating    int           `gorm:"not null" json:"rating"`
	Comment   string        `json:"comment"`
	Replies   []ReviewReply `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"replies,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

type ReviewReply struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReviewID  uint      `gorm:"index;not null" json:"review_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Text      string    `gorm:"not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// ReportTargetType tags what a report points at. A report carries exactly one
// target (type, id) pair instead of a nullable column per candidate table.
type ReportTargetType string

const (
	ReportTargetProduct     ReportTargetType = "product"
	ReportTargetReview      ReportTargetType = "review"
	ReportTargetReviewReply ReportTargetType = "review_reply"
)

func ValidReportTarget(t string) bool {
	switch ReportTargetType(t) {
	case ReportTargetProduct, ReportTargetReview, ReportTargetReviewReply:
		return true
	}
	return false
}

type Report struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	UserID     uint             `gorm:"index;not null" json:"user_id"`
	TargetType ReportTargetType `gorm:"type:VARCHAR(20);not null" json:"target_type"`
	TargetID   uint             `gorm:"not null" json:"target_id"`
	Reason     string           `gorm:"not null" json:"reason"`
	CreatedAt  time.Time        `json:"created_at"`
}
