package models

import "time"

// TransactionType distinguishes money in from money out
type TransactionType string

const (
	TxnCredit TransactionType = "credit"
	TxnDebit  TransactionType = "debit"
)

// TransactionStatus mirrors the states the wallet screen renders
type TransactionStatus string

const (
	TxnCompleted TransactionStatus = "completed"
	TxnPending   TransactionStatus = "pending"
	TxnFailed    TransactionStatus = "failed"
)

// Wallet holds a user's prepaid balance. One row per customer, created at
// registration.
type Wallet struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Balance   float64   `json:"balance" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transaction is one ledger entry against a wallet
type Transaction struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	TxnID       string            `json:"txn_id" gorm:"uniqueIndex;not null"`
	WalletID    uint              `json:"wallet_id" gorm:"not null;index"`
	Type        TransactionType   `json:"type" gorm:"not null"`
	Amount      float64           `json:"amount" gorm:"not null"`
	Description string            `json:"description"`
	Status      TransactionStatus `json:"status" gorm:"not null;default:'completed'"`
	CreatedAt   time.Time         `json:"created_at"`
}
