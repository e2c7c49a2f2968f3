package customization

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Bips27/tiffinly-daily-bites/eligibility"
	"github.com/Bips27/tiffinly-daily-bites/logger"
	"github.com/Bips27/tiffinly-daily-bites/models"
	"github.com/Bips27/tiffinly-daily-bites/pricing"
	"github.com/Bips27/tiffinly-daily-bites/wallet"
)

// Clock abstracts "now" so eligibility stays testable without real time
// passing
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// MealStore is the durable write path for a committed customization
type MealStore interface {
	SaveCustomization(ctx context.Context, meal *models.Meal) error
}

// BalanceService is the payment collaborator, debited once per successful
// apply and credited back if the meal write fails afterwards
type BalanceService interface {
	Debit(ctx context.Context, userID uint, amount float64, description string) (*models.Transaction, error)
	Credit(ctx context.Context, userID uint, amount float64, description string) (*models.Transaction, error)
}

// Applicator commits customization requests against meals. It is the only
// writer of Meal.IsCustomized. Applies are serialized per meal id so the
// one-shot invariant holds even under concurrent submissions.
type Applicator struct {
	store        MealStore
	balance      BalanceService
	clock        Clock
	window       time.Duration
	debitTimeout time.Duration
	log          *logger.Logger

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewApplicator(store MealStore, balance BalanceService, clock Clock, window, debitTimeout time.Duration, log *logger.Logger) *Applicator {
	if clock == nil {
		clock = SystemClock{}
	}
	if window <= 0 {
		window = eligibility.DefaultCutoffWindow
	}
	return &Applicator{
		store:        store,
		balance:      balance,
		clock:        clock,
		window:       window,
		debitTimeout: debitTimeout,
		log:          log,
		locks:        make(map[uint]*sync.Mutex),
	}
}

// mealLock returns the mutex serializing applies for one meal id
func (a *Applicator) mealLock(mealID uint) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	l, ok := a.locks[mealID]
	if !ok {
		l = &sync.Mutex{}
		a.locks[mealID] = l
	}
	return l
}

// Apply atomically commits a customization request against a meal:
//
//  1. Re-check eligibility at the injected clock's now — never silently apply.
//  2. Price the request; an empty selection is rejected.
//  3. Debit the wallet under a bounded timeout.
//  4. Persist the mutated meal; if the write fails, refund the debit.
//
// On success the meal is CUSTOMIZED for good; a second Apply on the same meal
// fails at step 1 regardless of the new request's content.
func (a *Applicator) Apply(ctx context.Context, meal *models.Meal, req models.CustomizationRequest, extras []models.ExtraItem, alternatives []models.AlternativeMeal) error {
	lock := a.mealLock(meal.ID)
	lock.Lock()
	defer lock.Unlock()

	now := a.clock.Now()
	result := eligibility.Evaluate(meal, now, a.window)
	if !result.CanCustomize {
		return notEligible(result.Message)
	}

	total := pricing.ComputeTotal(req, extras, alternatives)
	if total == 0 {
		return emptyRequest()
	}

	debitCtx, cancel := context.WithTimeout(ctx, a.debitTimeout)
	defer cancel()
	description := "Meal customization charge"
	if _, err := a.balance.Debit(debitCtx, meal.UserID, total, description); err != nil {
		switch {
		case errors.Is(err, wallet.ErrInsufficientBalance):
			return paymentFailed("insufficient balance")
		case errors.Is(err, context.DeadlineExceeded):
			return paymentFailed("payment service timed out")
		default:
			return paymentFailed(err.Error())
		}
	}

	applied, altID, altName := buildSelections(req, extras, alternatives)

	// Snapshot so a failed write leaves the in-memory meal untouched
	prev := *meal
	meal.IsCustomized = true
	meal.CustomizationFee = total
	meal.Extras = applied
	meal.AlternativeID = altID
	meal.AlternativeName = altName

	if err := a.store.SaveCustomization(ctx, meal); err != nil {
		*meal = prev
		a.refund(meal.UserID, total)
		// The store's guarded write is the authority on the one-shot
		// invariant: a stale in-memory copy that passed step 1 still
		// loses the commit
		if errors.Is(err, ErrAlreadyCustomized) {
			return notEligible(eligibility.MsgCustomized)
		}
		return persistenceFailed(err.Error())
	}

	a.log.Infow("customization applied",
		"meal_id", meal.ID, "user_id", meal.UserID, "fee", total,
		"extras", len(applied), "alternative", altName)
	return nil
}

// refund compensates an already-taken debit after a failed meal write. Runs
// on a fresh context so a cancelled request can't strand the money.
func (a *Applicator) refund(userID uint, amount float64) {
	ctx, cancel := context.WithTimeout(context.Background(), a.debitTimeout)
	defer cancel()
	if _, err := a.balance.Credit(ctx, userID, amount, "Refund: meal customization failed"); err != nil {
		a.log.Errorw("customization refund failed",
			"user_id", userID, "amount", amount, "error", err)
	}
}

// buildSelections converts the transient request into the snapshots recorded
// on the meal for order history. Extras come out ordered by catalog id so the
// persisted set is deterministic.
func buildSelections(req models.CustomizationRequest, extras []models.ExtraItem, alternatives []models.AlternativeMeal) ([]models.AppliedExtra, *uint, string) {
	byID := make(map[uint]models.ExtraItem, len(extras))
	for _, item := range extras {
		byID[item.ID] = item
	}

	ids := make([]uint, 0, len(req.Extras))
	for id, qty := range req.Extras {
		if qty <= 0 {
			continue
		}
		if _, ok := byID[id]; !ok {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	applied := make([]models.AppliedExtra, 0, len(ids))
	for _, id := range ids {
		item := byID[id]
		applied = append(applied, models.AppliedExtra{
			ExtraItemID: item.ID,
			Name:        item.Name,
			UnitPrice:   item.UnitPrice,
			Quantity:    req.Extras[id],
		})
	}

	var altID *uint
	var altName string
	if req.AlternativeID != nil {
		for _, alt := range alternatives {
			if alt.ID == *req.AlternativeID {
				id := alt.ID
				altID = &id
				altName = alt.Name
				break
			}
		}
	}
	return applied, altID, altName
}
