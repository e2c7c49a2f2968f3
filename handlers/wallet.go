package handlers

import (
	"errors"
	"net/http"

	"github.com/Bips27/tiffinly-daily-bites/middleware"
	"github.com/Bips27/tiffinly-daily-bites/wallet"

	"github.com/gin-gonic/gin"
)

// GetWallet returns the caller's balance
func GetWallet(c *gin.Context) {
	userID := middleware.GetUserID(c)

	balance, err := Wallet.Balance(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wallet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// GetTransactions returns the caller's ledger, newest first
func GetTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)

	txns, err := Wallet.Transactions(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transactions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(txns), "transactions": txns})
}

type RechargeRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// RechargeWallet credits the caller's wallet. Real payment capture is an
// upstream gateway's job; this records the credit once it clears.
func RechargeWallet(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req RechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txn, err := Wallet.Credit(c.Request.Context(), userID, req.Amount, "Wallet recharge")
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recharge wallet"})
		return
	}

	balance, _ := Wallet.Balance(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{
		"message":     "Wallet recharged",
		"transaction": txn,
		"balance":     balance,
	})
}
