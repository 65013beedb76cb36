package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PlanFree    = "free"
	PlanBasic   = "basic"
	PlanPro     = "pro"
	PlanPremium = "premium"

	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusCancelled = "cancelled"
	StatusTrial     = "trial"

	// FreeCredits is what a new account starts with.
	FreeCredits = 5
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password string    `gorm:"not null;column:password" json:"-"`
	// TokenVersion is embedded in issued tokens; bumping it on logout
	// invalidates every token issued before.
	TokenVersion int `gorm:"column:token_version;not null;default:0" json:"-"`
	IsActive     bool `gorm:"column:is_active;not null;default:true" json:"is_active"`

	SubscriptionPlan      string     `gorm:"column:subscription_plan;not null;default:'free'" json:"subscription_plan"`
	SubscriptionStatus    string     `gorm:"column:subscription_status;not null;default:'active'" json:"subscription_status"`
	Credits               int        `gorm:"column:credits;not null;default:5" json:"credits"`
	CreditsUsed           int        `gorm:"column:credits_used;not null;default:0" json:"credits_used"`
	SubscriptionStartDate *time.Time `gorm:"column:subscription_start_date" json:"subscription_start_date,omitempty"`
	SubscriptionEndDate   *time.Time `gorm:"column:subscription_end_date" json:"subscription_end_date,omitempty"`

	LastLoginAt *time.Time     `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) HasCredits(amount int) bool {
	return u.Credits >= amount
}
