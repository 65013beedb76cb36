package billing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
)

// Subscription is one billing period record. The user row holds the live
// plan; these rows are history.
type Subscription struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Plan      string    `gorm:"column:plan;not null" json:"plan"`
	Status    string    `gorm:"column:status;not null;index" json:"status"`
	StartDate time.Time `gorm:"column:start_date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"column:end_date;not null" json:"end_date"`
	Amount    float64   `gorm:"column:amount;not null" json:"amount"`
	Currency  string    `gorm:"column:currency;not null;default:'USD'" json:"currency"`
	AutoRenew bool      `gorm:"column:auto_renew;not null;default:true" json:"auto_renew"`
	CreatedAt time.Time `json:"created_at"`
}

func (Subscription) TableName() string { return "subscription" }

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
