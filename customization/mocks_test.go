package customization

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Bips27/tiffinly-daily-bites/models"
	"github.com/Bips27/tiffinly-daily-bites/wallet"
)

// fixedClock always reports the same instant
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// mockMealStore records saves and can be told to fail. Like the gorm store,
// it enforces the one-shot guard per meal id at the commit point.
type mockMealStore struct {
	mu        sync.Mutex
	saved     []*models.Meal
	committed map[uint]bool
	failErr   error
}

func (s *mockMealStore) SaveCustomization(_ context.Context, meal *models.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	if s.committed == nil {
		s.committed = make(map[uint]bool)
	}
	if s.committed[meal.ID] {
		return ErrAlreadyCustomized
	}
	s.committed[meal.ID] = true
	copied := *meal
	s.saved = append(s.saved, &copied)
	return nil
}

func (s *mockMealStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

// mockBalance is an in-memory wallet with scriptable failures
type mockBalance struct {
	mu       sync.Mutex
	balance  float64
	debits   []float64
	credits  []float64
	debitErr error
	// block simulates a slow payment service that outlives the debit timeout
	block bool
}

func (b *mockBalance) Debit(ctx context.Context, _ uint, amount float64, _ string) (*models.Transaction, error) {
	if b.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.debitErr != nil {
		return nil, b.debitErr
	}
	if b.balance < amount {
		return nil, wallet.ErrInsufficientBalance
	}
	b.balance -= amount
	b.debits = append(b.debits, amount)
	return &models.Transaction{Type: models.TxnDebit, Amount: amount}, nil
}

func (b *mockBalance) Credit(_ context.Context, _ uint, amount float64, _ string) (*models.Transaction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balance += amount
	b.credits = append(b.credits, amount)
	return &models.Transaction{Type: models.TxnCredit, Amount: amount}, nil
}

var errStorageDown = errors.New("storage unavailable")
