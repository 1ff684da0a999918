package sqlstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/seed"
)

// Bootstrap 建立 (或補齊) 資料表，customers 沒有任何資料時寫入資料集 (nil 表示 seed.Default())
// 已有客戶資料時不寫入
//
// 回傳:
//
//	bool: 本次是否有寫入資料
//	error: 建表或寫入錯誤
func (s *Store) Bootstrap(ctx context.Context, dataset *seed.Dataset) (bool, error) {
	db := s.db.WithContext(ctx)
	if dataset == nil {
		dataset = seed.Default()
	}

	err := db.AutoMigrate(
		&bankRow{},
		&accountTypeRow{},
		&transactionTypeRow{},
		&customerRow{},
		&accountRow{},
		&transactionRow{},
	)
	if err != nil {
		return false, fmt.Errorf("create schema: %w", err)
	}

	seeded := false
	err = db.Transaction(func(tx *gorm.DB) error {
		var customers int64
		if err := tx.Model(&customerRow{}).Count(&customers).Error; err != nil {
			return err
		}
		if customers > 0 {
			return nil
		}
		seeded = true
		return seedTables(tx, dataset)
	})
	if err != nil {
		return false, fmt.Errorf("seed dataset: %w", err)
	}
	if !seeded {
		return false, nil
	}

	s.logger.Info().
		Int("customers", len(dataset.Customers)).
		Int("accounts", len(dataset.Accounts)).
		Msg("store bootstrapped with seed dataset")
	return true, nil
}

// seedTables 依外鍵順序寫入資料集
func seedTables(tx *gorm.DB, d *seed.Dataset) error {
	banks := make([]bankRow, 0, len(d.Banks))
	for _, b := range d.Banks {
		banks = append(banks, bankRow{ID: b.ID, Name: b.Name})
	}
	accTypes := make([]accountTypeRow, 0, len(d.AccountTypes))
	for _, t := range d.AccountTypes {
		accTypes = append(accTypes, accountTypeRow{ID: t.ID, Name: t.Name})
	}
	tranTypes := make([]transactionTypeRow, 0, len(d.TransactionTypes))
	for _, t := range d.TransactionTypes {
		tranTypes = append(tranTypes, transactionTypeRow{ID: int64(t.ID), Name: t.Name})
	}
	customers := make([]customerRow, 0, len(d.Customers))
	for _, c := range d.Customers {
		customers = append(customers, customerRow{ID: c.ID, FirstName: c.FirstName, LastName: c.LastName})
	}
	accounts := make([]accountRow, 0, len(d.Accounts))
	for _, a := range d.Accounts {
		accounts = append(accounts, accountRow{
			ID:            a.ID,
			CustomerID:    a.CustomerID,
			AccountNumber: a.AccountNumber,
			AccountTypeID: a.AccountTypeID,
			BankID:        a.BankID,
			Balance:       a.Balance,
		})
	}

	if err := createAll(tx, banks); err != nil {
		return err
	}
	if err := createAll(tx, accTypes); err != nil {
		return err
	}
	if err := createAll(tx, tranTypes); err != nil {
		return err
	}
	if err := createAll(tx, customers); err != nil {
		return err
	}
	return createAll(tx, accounts)
}

// createAll 空切片直接略過 (GORM 對空切片 Create 會回傳錯誤)
func createAll[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}
