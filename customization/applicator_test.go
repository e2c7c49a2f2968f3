package customization

import (
	"context"
	"testing"
	"time"

	"github.com/Bips27/tiffinly-daily-bites/logger"
	"github.com/Bips27/tiffinly-daily-bites/models"
)

var (
	testExtras = []models.ExtraItem{
		{ID: 5, Name: "Extra Roti", UnitPrice: 15},
		{ID: 6, Name: "Papad", UnitPrice: 10},
		{ID: 7, Name: "Raita", UnitPrice: 20},
	}
	testAlternatives = []models.AlternativeMeal{
		{ID: 9, Name: "Chole Rice Bowl", SurchargePrice: 30},
	}
)

func altID(id uint) *uint { return &id }

func testMeal(delivery time.Time) *models.Meal {
	return &models.Meal{
		ID:           42,
		UserID:       7,
		MealType:     models.MealLunch,
		Name:         "Rajma Rice Bowl",
		DeliveryTime: delivery,
	}
}

func newTestApplicator(store MealStore, balance BalanceService, now time.Time) *Applicator {
	return NewApplicator(store, balance, fixedClock{now: now},
		2*time.Hour, 50*time.Millisecond, logger.New("test"))
}

func TestApplySuccess(t *testing.T) {
	delivery := time.Date(2025, 6, 10, 13, 0, 0, 0, time.UTC)   // 1:00 PM
	now := time.Date(2025, 6, 10, 11, 30, 0, 0, time.UTC)       // 11:30 AM, inside the window

	store := &mockMealStore{}
	balance := &mockBalance{balance: 1250}
	app := newTestApplicator(store, balance, now)

	meal := testMeal(delivery)
	req := models.CustomizationRequest{
		Extras:        map[uint]int{5: 2}, // Extra Roti ×2 = 30
		AlternativeID: altID(9),           // Chole Rice Bowl +30
	}

	if err := app.Apply(context.Background(), meal, req, testExtras, testAlternatives); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if !meal.IsCustomized {
		t.Error("meal should be customized")
	}
	if meal.CustomizationFee != 60 {
		t.Errorf("CustomizationFee = %v, want 60", meal.CustomizationFee)
	}
	if meal.AlternativeName != "Chole Rice Bowl" {
		t.Errorf("AlternativeName = %q, want %q", meal.AlternativeName, "Chole Rice Bowl")
	}
	if len(meal.Extras) != 1 || meal.Extras[0].Quantity != 2 || meal.Extras[0].UnitPrice != 15 {
		t.Errorf("unexpected extras snapshot: %+v", meal.Extras)
	}
	if balance.balance != 1190 {
		t.Errorf("wallet balance = %v, want 1190", balance.balance)
	}
	if store.saveCount() != 1 {
		t.Errorf("saves = %d, want 1", store.saveCount())
	}
}

func TestApplySecondAttemptFails(t *testing.T) {
	delivery := time.Date(2025, 6, 10, 13, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

	store := &mockMealStore{}
	balance := &mockBalance{balance: 1250}
	app := newTestApplicator(store, balance, now)

	meal := testMeal(delivery)
	first := models.CustomizationRequest{Extras: map[uint]int{5: 2}}
	if err := app.Apply(context.Background(), meal, first, testExtras, testAlternatives); err != nil {
		t.Fatalf("first Apply() error = %v", err)
	}
	firstFee := meal.CustomizationFee

	second := models.CustomizationRequest{Extras: map[uint]int{7: 3}}
	err := app.Apply(context.Background(), meal, second, testExtras, testAlternatives)
	if err == nil {
		t.Fatal("second Apply() should fail")
	}
	ae, ok := AsApplyError(err)
	if !ok || ae.Kind != KindNotEligible {
		t.Fatalf("second Apply() error = %v, want NotEligible", err)
	}
	if ae.Reason != "Already customized" {
		t.Errorf("Reason = %q, want %q", ae.Reason, "Already customized")
	}
	if meal.CustomizationFee != firstFee {
		t.Errorf("CustomizationFee = %v, want the first fee %v", meal.CustomizationFee, firstFee)
	}
	if store.saveCount() != 1 {
		t.Errorf("saves = %d, want 1 (second attempt must not persist)", store.saveCount())
	}
}

func TestApplyAfterCutoff(t *testing.T) {
	delivery := time.Date(2025, 6, 10, 13, 0, 0, 0, time.UTC)
	now := delivery.Add(-2 * time.Hour) // exactly at cutoff: already closed

	store := &mockMealStore{}
	balance := &mockBalance{balance: 1250}
	app := newTestApplicator(store, balance, now)

	meal := testMeal(delivery)
	req := models.CustomizationRequest{Extras: map[uint]int{5: 1}}
	err := app.Apply(context.Background(), meal, req, testExtras, testAlternatives)

	ae, ok := AsApplyError(err)
	if !ok || ae.Kind != KindNotEligible {
		t.Fatalf("Apply() error = %v, want NotEligible", err)
	}
	if meal.IsCustomized {
		t.Error("meal must remain uncustomized")
	}
	if len(balance.debits) != 0 {
		t.Error("no debit should be attempted for an ineligible meal")
	}
}

func TestApplyEmptyRequest(t *testing.T) {
	delivery := time.Date(2025, 6, 10, 13, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

	store := &mockMealStore{}
	balance := &mockBalance{balance: 1250}
	app := newTestApplicator(store, balance, now)

	tests := []struct {
		name string
		req  models.CustomizationRequest
	}{
		{"noSelections", models.CustomizationRequest{}},
		{"onlyZeroQuantities", models.CustomizationRequest{Extras: map[uint]int{5: 0}}},
		{"onlyUnknownIDs", models.CustomizationRequest{Extras: map[uint]int{999: 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meal := testMeal(delivery)
			err := app.Apply(context.Background(), meal, tt.req, testExtras, testAlternatives)
			ae, ok := AsApplyError(err)
			if !ok || ae.Kind != KindEmptyRequest {
				t.Fatalf("Apply() error = %v, want EmptyRequest", err)
			}
			if meal.IsCustomized {
				t.Error("meal must remain uncustomized")
			}
		})
	}
}

func TestApplyInsufficientBalance(t *testing.T) {
	delivery := time.Date(2025, 6, 10, 13, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

	store := &mockMealStore{}
	balance := &mockBalance{balance: 10}
	app := newTestApplicator(store, balance, now)

	meal := testMeal(delivery)
	req := models.CustomizationRequest{Extras: map[uint]int{5: 2}}
	err := app.Apply(context.Background(), meal, req, testExtras, testAlternatives)

	ae, ok := AsApplyError(err)
	if !ok || ae.Kind != KindPaymentFailed {
		t.Fatalf("Apply() error = %v, want PaymentFailed", err)
	}
	if meal.IsCustomized {
		t.Error("meal must remain uncustomized after payment failure")
	}
	if meal.CustomizationFee != 0 {
		t.Errorf("no partial fee may be recorded, got %v", meal.CustomizationFee)
	}
	if store.saveCount() != 0 {
		t.Error("nothing should be persisted after payment failure")
	}
}

func TestApplyDebitTimeout(t *testing.T) {
	delivery := time.Date(2025, 6, 10, 13, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

	store := &mockMealStore{}
	balance := &mockBalance{balance: 1250, block: true}
	app := newTestApplicator(store, balance, now)

	meal := testMeal(delivery)
	req := models.CustomizationRequest{Extras: map[uint]int{5: 1}}
	err := app.Apply(context.Background(), meal, req, testExtras, testAlternatives)

	ae, ok := AsApplyError(err)
	if !ok || ae.Kind != KindPaymentFailed {
		t.Fatalf("Apply() error = %v, want PaymentFailed on timeout", err)
	}
	if meal.IsCustomized {
		t.Error("meal must remain uncustomized after debit timeout")
	}
}

func TestApplyPersistenceFailureRefunds(t *testing.T) {
	delivery := time.Date(2025, 6, 10, 13, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

	store := &mockMealStore{failErr: errStorageDown}
	balance := &mockBalance{balance: 1250}
	app := newTestApplicator(store, balance, now)

	meal := testMeal(delivery)
	req := models.CustomizationRequest{Extras: map[uint]int{5: 2}}
	err := app.Apply(context.Background(), meal, req, testExtras, testAlternatives)

	ae, ok := AsApplyError(err)
	if !ok || ae.Kind != KindPersistenceFailed {
		t.Fatalf("Apply() error = %v, want PersistenceFailed", err)
	}
	if meal.IsCustomized {
		t.Error("in-memory meal must be rolled back")
	}
	if meal.CustomizationFee != 0 {
		t.Errorf("fee must be rolled back, got %v", meal.CustomizationFee)
	}
	if len(balance.credits) != 1 || balance.credits[0] != 30 {
		t.Errorf("debit must be compensated, credits = %v", balance.credits)
	}
	if balance.balance != 1250 {
		t.Errorf("balance = %v, want 1250 after refund", balance.balance)
	}
}

func TestApplySerializedPerMeal(t *testing.T) {
	delivery := time.Date(2025, 6, 10, 13, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

	store := &mockMealStore{}
	balance := &mockBalance{balance: 1250}
	app := newTestApplicator(store, balance, now)

	meal := testMeal(delivery)
	req := models.CustomizationRequest{Extras: map[uint]int{5: 1}}

	const attempts = 8
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			errs <- app.Apply(context.Background(), meal, req, testExtras, testAlternatives)
		}()
	}

	var succeeded int
	for i := 0; i < attempts; i++ {
		if err := <-errs; err == nil {
			succeeded++
		}
	}

	if succeeded != 1 {
		t.Errorf("exactly one concurrent Apply may succeed, got %d", succeeded)
	}
	if store.saveCount() != 1 {
		t.Errorf("saves = %d, want 1", store.saveCount())
	}
	if len(balance.debits) != 1 {
		t.Errorf("debits = %d, want 1", len(balance.debits))
	}
}

// Each HTTP request loads its own copy of the meal row, so concurrent
// requests all evaluate IsCustomized = false. The store's guarded write must
// let exactly one commit through and the losers must be refunded.
func TestApplyConcurrentFreshCopies(t *testing.T) {
	delivery := time.Date(2025, 6, 10, 13, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

	store := &mockMealStore{}
	balance := &mockBalance{balance: 1250}
	app := newTestApplicator(store, balance, now)

	req := models.CustomizationRequest{Extras: map[uint]int{5: 2}} // 30

	const attempts = 8
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			// Fresh copy per request, same meal id
			errs <- app.Apply(context.Background(), testMeal(delivery), req, testExtras, testAlternatives)
		}()
	}

	var succeeded, notEligible int
	for i := 0; i < attempts; i++ {
		err := <-errs
		if err == nil {
			succeeded++
			continue
		}
		if ae, ok := AsApplyError(err); ok && ae.Kind == KindNotEligible {
			notEligible++
		}
	}

	if succeeded != 1 {
		t.Errorf("exactly one Apply may commit, got %d", succeeded)
	}
	if notEligible != attempts-1 {
		t.Errorf("losers must fail NotEligible, got %d of %d", notEligible, attempts-1)
	}
	if store.saveCount() != 1 {
		t.Errorf("saves = %d, want 1", store.saveCount())
	}
	// Every losing debit must have been compensated
	if balance.balance != 1220 {
		t.Errorf("balance = %v, want 1220 (one net debit of 30)", balance.balance)
	}
	if len(balance.credits) != len(balance.debits)-1 {
		t.Errorf("credits = %d, want %d (all but the winner refunded)",
			len(balance.credits), len(balance.debits)-1)
	}
}

func TestApplySecondAttemptOnFreshCopyFails(t *testing.T) {
	delivery := time.Date(2025, 6, 10, 13, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

	store := &mockMealStore{}
	balance := &mockBalance{balance: 1250}
	app := newTestApplicator(store, balance, now)

	first := testMeal(delivery)
	if err := app.Apply(context.Background(), first,
		models.CustomizationRequest{Extras: map[uint]int{5: 2}}, testExtras, testAlternatives); err != nil {
		t.Fatalf("first Apply() error = %v", err)
	}

	// A second request re-loads the meal and sees the pre-commit state
	stale := testMeal(delivery)
	err := app.Apply(context.Background(), stale,
		models.CustomizationRequest{Extras: map[uint]int{7: 1}}, testExtras, testAlternatives)
	ae, ok := AsApplyError(err)
	if !ok || ae.Kind != KindNotEligible {
		t.Fatalf("stale Apply() error = %v, want NotEligible", err)
	}
	if ae.Reason != "Already customized" {
		t.Errorf("Reason = %q, want %q", ae.Reason, "Already customized")
	}
	if store.saveCount() != 1 {
		t.Errorf("saves = %d, want 1", store.saveCount())
	}
	if balance.balance != 1220 {
		t.Errorf("balance = %v, want 1220 (stale attempt's debit refunded)", balance.balance)
	}
}
