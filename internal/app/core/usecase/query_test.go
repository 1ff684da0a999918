package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
)

func TestQuery_CustomerDisplayName(t *testing.T) {
	q := usecase.NewQueryFacade(nil, nil)
	assert.Equal(t, "Keoni Kahale", q.CustomerDisplayName(&domain.Customer{FirstName: "Keoni", LastName: "Kahale"}))
	assert.Equal(t, usecase.UnknownCustomerName, q.CustomerDisplayName(nil))
}

func TestQuery_SummaryAndStatement(t *testing.T) {
	forEachStore(t, func(t *testing.T, store usecase.RecordStore) {
		ctx := context.Background()
		times := []time.Time{
			time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC),
		}
		next := 0
		ledger := usecase.NewLedgerService(store, usecase.WithClock(func() time.Time {
			at := times[next]
			next++
			return at
		}))
		q := usecase.NewQueryFacade(store, ledger)

		_, err := ledger.ApplyTransaction(ctx, request(1, "50", domain.TransactionTypeDeposit))
		require.NoError(t, err)
		_, err = ledger.ApplyTransaction(ctx, request(1, "20.5", domain.TransactionTypeWithdrawal))
		require.NoError(t, err)

		lines, err := q.AccountTransactionsSummary(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"03/05/2025 - Withdrawal: $20.50",
			"03/04/2025 - Deposit: $50.00",
		}, lines)

		statement, err := q.AccountStatement(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Account: 100-200-001\nBalance: $229.50\n\n"+
			"03/05/2025 - Withdrawal: $20.50\n03/04/2025 - Deposit: $50.00", statement)

		_, err = q.AccountStatement(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)

		empty, err := q.AccountStatement(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, "Account: 100-400-001\nBalance: $0.00\n\n", empty)
	})
}

func TestQuery_StatementGroupsThousands(t *testing.T) {
	forEachStore(t, func(t *testing.T, store usecase.RecordStore) {
		ctx := context.Background()
		at := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
		ledger := usecase.NewLedgerService(store, usecase.WithClock(func() time.Time { return at }))
		q := usecase.NewQueryFacade(store, ledger)

		statement, err := q.AccountStatement(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "Account: 100-200-002\nBalance: $1,500.00\n\n", statement)

		_, err = ledger.ApplyTransaction(ctx, request(2, "12345.67", domain.TransactionTypeDeposit))
		require.NoError(t, err)

		statement, err = q.AccountStatement(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "Account: 100-200-002\nBalance: $13,845.67\n\n"+
			"04/01/2025 - Deposit: $12,345.67", statement)
	})
}

func TestQuery_Lists(t *testing.T) {
	forEachStore(t, func(t *testing.T, store usecase.RecordStore) {
		ctx := context.Background()
		ledger := usecase.NewLedgerService(store)
		q := usecase.NewQueryFacade(store, ledger)

		customers, err := q.ListCustomers(ctx)
		require.NoError(t, err)
		assert.Len(t, customers, 3)

		accounts, err := q.ListAccounts(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 4)
		assert.Equal(t, "Cheque", accounts[3].AccountTypeName)

		_, err = ledger.ApplyTransaction(ctx, request(4, "10", domain.TransactionTypeDeposit))
		require.NoError(t, err)
		trans, err := q.ListTransactions(ctx)
		require.NoError(t, err)
		require.Len(t, trans, 1)
		assert.Equal(t, "Deposit", trans[0].TypeName)

		bank, err := q.GetBank(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "Pacific Savings Bank", bank.Name)
	})
}
