package pricing

import "github.com/Bips27/tiffinly-daily-bites/models"

// ComputeTotal calculates the additional charge for a customization request
// against the current catalogs. Unknown extra-item ids are skipped silently
// (a stale client may reference a retired catalog entry — that should not
// fail the whole computation), as is an alternative id that no longer
// resolves. An empty request prices to 0, which is a valid "no customization"
// state. The function is deterministic and never returns a negative amount.
func ComputeTotal(req models.CustomizationRequest, extras []models.ExtraItem, alternatives []models.AlternativeMeal) float64 {
	byID := make(map[uint]models.ExtraItem, len(extras))
	for _, item := range extras {
		byID[item.ID] = item
	}

	var total float64
	for id, quantity := range req.Extras {
		if quantity <= 0 {
			continue
		}
		item, ok := byID[id]
		if !ok {
			continue
		}
		total += item.UnitPrice * float64(quantity)
	}

	if req.AlternativeID != nil {
		for _, alt := range alternatives {
			if alt.ID == *req.AlternativeID {
				total += alt.SurchargePrice
				break
			}
		}
	}

	return total
}
