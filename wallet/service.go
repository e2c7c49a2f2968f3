package wallet

import (
	"context"
	"errors"
	"strings"

	"github.com/Bips27/tiffinly-daily-bites/logger"
	"github.com/Bips27/tiffinly-daily-bites/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInsufficientBalance is returned by Debit when the wallet cannot cover
// the requested amount. Callers treat it as recoverable (top up and retry).
var ErrInsufficientBalance = errors.New("insufficient wallet balance")

// ErrWalletNotFound is returned when the user has no wallet row
var ErrWalletNotFound = errors.New("wallet not found")

// Service is the balance/payment collaborator: a prepaid wallet backed by the
// primary database. Debit and Credit are atomic — balance check, balance
// update and ledger row happen in one transaction.
type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewService(db *gorm.DB, log *logger.Logger) *Service {
	return &Service{db: db, log: log}
}

// Balance returns the current balance for a user
func (s *Service) Balance(ctx context.Context, userID uint) (float64, error) {
	var w models.Wallet
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrWalletNotFound
		}
		return 0, err
	}
	return w.Balance, nil
}

// Transactions returns the ledger for a user, newest first
func (s *Service) Transactions(ctx context.Context, userID uint) ([]models.Transaction, error) {
	var w models.Wallet
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	var txns []models.Transaction
	err := s.db.WithContext(ctx).
		Where("wallet_id = ?", w.ID).
		Order("created_at desc").
		Find(&txns).Error
	return txns, err
}

// Credit adds funds to a user's wallet and records the ledger entry
func (s *Service) Credit(ctx context.Context, userID uint, amount float64, description string) (*models.Transaction, error) {
	return s.post(ctx, userID, models.TxnCredit, amount, description)
}

// Debit withdraws funds from a user's wallet. Fails with
// ErrInsufficientBalance when the balance cannot cover the amount; the
// balance and ledger are left untouched in that case.
func (s *Service) Debit(ctx context.Context, userID uint, amount float64, description string) (*models.Transaction, error) {
	return s.post(ctx, userID, models.TxnDebit, amount, description)
}

func (s *Service) post(ctx context.Context, userID uint, kind models.TransactionType, amount float64, description string) (*models.Transaction, error) {
	txn := models.Transaction{
		TxnID:       newTxnID(),
		Type:        kind,
		Amount:      amount,
		Description: description,
		Status:      models.TxnCompleted,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var w models.Wallet
		if err := tx.Where("user_id = ?", userID).First(&w).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWalletNotFound
			}
			return err
		}

		newBalance := w.Balance + amount
		if kind == models.TxnDebit {
			if w.Balance < amount {
				return ErrInsufficientBalance
			}
			newBalance = w.Balance - amount
		}

		if err := tx.Model(&w).Update("balance", newBalance).Error; err != nil {
			return err
		}

		txn.WalletID = w.ID
		return tx.Create(&txn).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("wallet transaction posted",
		"txn_id", txn.TxnID, "user_id", userID, "type", kind, "amount", amount)
	return &txn, nil
}

func newTxnID() string {
	return "TXN-" + strings.ToUpper(uuid.NewString()[:8])
}
