package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccount_Apply(t *testing.T) {
	t.Run("deposit adds to balance", func(t *testing.T) {
		acc := &Account{ID: 1, Balance: decimal.RequireFromString("50.00")}
		assert.NoError(t, acc.Apply(TransactionTypeDeposit, decimal.RequireFromString("100")))
		assert.Equal(t, "150.00", acc.Balance.StringFixed(2))
	})

	t.Run("withdrawal down to zero", func(t *testing.T) {
		acc := &Account{ID: 1, Balance: decimal.RequireFromString("250.00")}
		assert.NoError(t, acc.Apply(TransactionTypeWithdrawal, decimal.RequireFromString("250.00")))
		assert.True(t, acc.Balance.IsZero())
	})

	t.Run("withdrawal over balance leaves account untouched", func(t *testing.T) {
		acc := &Account{ID: 1, Balance: decimal.RequireFromString("250.00")}
		err := acc.Apply(TransactionTypeWithdrawal, decimal.RequireFromString("300.00"))
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Equal(t, "250.00", acc.Balance.StringFixed(2))
	})

	t.Run("non positive amount", func(t *testing.T) {
		acc := &Account{ID: 1, Balance: decimal.NewFromInt(10)}
		assert.ErrorIs(t, acc.Deposit(decimal.Zero), ErrInvalidAmount)
		assert.ErrorIs(t, acc.Withdraw(decimal.NewFromInt(-1)), ErrInvalidAmount)
	})

	t.Run("unknown type", func(t *testing.T) {
		acc := &Account{ID: 1, Balance: decimal.NewFromInt(10)}
		assert.ErrorIs(t, acc.Apply(TransactionType(3), decimal.NewFromInt(1)), ErrInvalidTransactionType)
		assert.Equal(t, "10", acc.Balance.String())
	})
}

func TestValidAmount(t *testing.T) {
	cases := map[string]bool{
		"0.01":  true,
		"100":   true,
		"12.50": true,
		"0":     false,
		"-5":    false,
		"1.005": false,
	}
	for in, want := range cases {
		assert.Equal(t, want, ValidAmount(decimal.RequireFromString(in)), in)
	}
}

func TestTransactionType(t *testing.T) {
	assert.True(t, TransactionTypeDeposit.Valid())
	assert.True(t, TransactionTypeWithdrawal.Valid())
	assert.False(t, TransactionType(0).Valid())
	assert.False(t, TransactionType(3).Valid())
	assert.Equal(t, "Deposit", TransactionTypeDeposit.Description())
	assert.Equal(t, "Withdrawal", TransactionTypeWithdrawal.Description())
}
