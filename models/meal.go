package models

import "time"

// MealType identifies one of the three daily delivery slots
type MealType string

const (
	MealBreakfast MealType = "Breakfast"
	MealLunch     MealType = "Lunch"
	MealDinner    MealType = "Dinner"
)

// DeliveryStatus represents all possible states of a scheduled meal's delivery.
// It only ever advances — there is no cancellation in a subscription slot.
type DeliveryStatus string

const (
	StatusScheduled      DeliveryStatus = "SCHEDULED"
	StatusPreparing      DeliveryStatus = "PREPARING"
	StatusOutForDelivery DeliveryStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      DeliveryStatus = "DELIVERED"
)

// Meal is one scheduled delivery slot, provisioned when a user subscribes to a
// plan. The customization fields (IsCustomized, CustomizationFee, Extras,
// Alternative*) are written exactly once, by the customization applicator.
type Meal struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	UserID         uint           `json:"user_id" gorm:"not null;index"`
	User           User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	MealType       MealType       `json:"meal_type" gorm:"not null"`
	Name           string         `json:"name" gorm:"not null"`
	Items          []string       `json:"items" gorm:"serializer:json"`
	Calories       int            `json:"calories"`
	DisplayTime    string         `json:"display_time"` // e.g. "1:00 PM"
	DeliveryTime   time.Time      `json:"delivery_time" gorm:"not null;index"`
	DeliveryStatus DeliveryStatus `json:"delivery_status" gorm:"not null;default:'SCHEDULED'"`

	IsCustomized     bool           `json:"is_customized" gorm:"not null;default:false"`
	CustomizationFee float64        `json:"customization_fee"`
	AlternativeID    *uint          `json:"alternative_id,omitempty"`
	AlternativeName  string         `json:"alternative_name,omitempty"`
	Extras           []AppliedExtra `json:"extras,omitempty" gorm:"foreignKey:MealID"`

	StatusHistory []MealStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:MealID"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// AppliedExtra is a snapshot of an extra item at the moment a customization was
// committed. Name and price are copied so later catalog edits don't rewrite
// order history.
type AppliedExtra struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	MealID      uint    `json:"meal_id" gorm:"not null;index"`
	ExtraItemID uint    `json:"extra_item_id" gorm:"not null"`
	Name        string  `json:"name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity" gorm:"not null"`
}

// MealStatusHistory tracks every delivery-status change for audit and tracking
type MealStatusHistory struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	MealID     uint           `json:"meal_id" gorm:"not null;index"`
	FromStatus DeliveryStatus `json:"from_status"`
	ToStatus   DeliveryStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint           `json:"changed_by"`
	Note       string         `json:"note"`
	CreatedAt  time.Time      `json:"created_at"`
}

// CustomizationRequest is the transient selection a user submits for one meal.
// It is never persisted as-is; the applicator converts it into AppliedExtra
// snapshots. A quantity of zero means "not selected".
type CustomizationRequest struct {
	Extras        map[uint]int `json:"extras"`
	AlternativeID *uint        `json:"alternative_id"`
}

// IsEmpty reports whether the request selects nothing at all
func (r CustomizationRequest) IsEmpty() bool {
	for _, qty := range r.Extras {
		if qty > 0 {
			return false
		}
	}
	return r.AlternativeID == nil
}
