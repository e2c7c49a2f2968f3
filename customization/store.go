package customization

import (
	"context"
	"errors"

	"github.com/Bips27/tiffinly-daily-bites/models"

	"gorm.io/gorm"
)

// ErrAlreadyCustomized is returned by a MealStore when the committed row is
// already customized. The in-memory copy an apply was evaluated against can
// be stale under concurrent requests; the store's row is authoritative.
var ErrAlreadyCustomized = errors.New("meal already customized")

// GormMealStore persists committed customizations to the primary database
type GormMealStore struct {
	db *gorm.DB
}

func NewGormMealStore(db *gorm.DB) *GormMealStore {
	return &GormMealStore{db: db}
}

// SaveCustomization writes the mutated meal and its applied-extra snapshots
// in one transaction. The commit point for an apply — the meal counts as
// customized only once this returns nil. The update is guarded on
// is_customized = false so the one-shot invariant holds even when the caller
// evaluated a stale copy; a guarded miss returns ErrAlreadyCustomized.
func (s *GormMealStore) SaveCustomization(ctx context.Context, meal *models.Meal) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"is_customized":     meal.IsCustomized,
			"customization_fee": meal.CustomizationFee,
			"alternative_id":    meal.AlternativeID,
			"alternative_name":  meal.AlternativeName,
		}
		res := tx.Model(&models.Meal{}).
			Where("id = ? AND is_customized = ?", meal.ID, false).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyCustomized
		}
		for i := range meal.Extras {
			meal.Extras[i].MealID = meal.ID
		}
		if len(meal.Extras) > 0 {
			if err := tx.Create(&meal.Extras).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
