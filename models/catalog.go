package models

import "time"

// ExtraItem is an add-on dish a customer can attach to a scheduled meal.
// Catalog rows are immutable for the lifetime of a menu cycle; price changes
// create no retroactive effect because applied extras are snapshotted.
type ExtraItem struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	UnitPrice   float64   `json:"unit_price" gorm:"not null"`
	IsAvailable bool      `json:"is_available" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AlternativeMeal is a whole-meal substitution offered in place of the default
// scheduled meal, carrying its own surcharge. At most one may be selected per
// customization.
type AlternativeMeal struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"not null"`
	SurchargePrice float64   `json:"surcharge_price" gorm:"not null"`
	IsAvailable    bool      `json:"is_available" gorm:"default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SubscriptionPlan describes a purchasable meal plan (weekly, monthly)
type SubscriptionPlan struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Code         string    `json:"code" gorm:"uniqueIndex;not null"` // e.g. "weekly", "monthly"
	Name         string    `json:"name" gorm:"not null"`
	Price        float64   `json:"price" gorm:"not null"`
	DurationDays int       `json:"duration_days" gorm:"not null"`
	MealsPerDay  int       `json:"meals_per_day" gorm:"not null;default:3"`
	Popular      bool      `json:"popular" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MenuTemplate is one cell of the weekly menu grid: what dish a given meal slot
// serves on a given weekday, and when it goes out. Provisioning copies these
// into concrete Meal rows.
type MenuTemplate struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Weekday        int       `json:"weekday" gorm:"not null"` // 0 = Sunday, matching time.Weekday
	MealType       MealType  `json:"meal_type" gorm:"not null"`
	Name           string    `json:"name" gorm:"not null"`
	Items          []string  `json:"items" gorm:"serializer:json"`
	Calories       int       `json:"calories"`
	DeliveryHour   int       `json:"delivery_hour" gorm:"not null"`
	DeliveryMinute int       `json:"delivery_minute"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Subscription links a user to the plan they are currently on
type Subscription struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	UserID    uint             `json:"user_id" gorm:"not null;index"`
	PlanID    uint             `json:"plan_id" gorm:"not null"`
	Plan      SubscriptionPlan `json:"plan,omitempty" gorm:"foreignKey:PlanID"`
	StartDate time.Time        `json:"start_date" gorm:"not null"`
	EndDate   time.Time        `json:"end_date" gorm:"not null"`
	Active    bool             `json:"active" gorm:"default:true"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
