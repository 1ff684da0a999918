package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/adapter/out/remote"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/pkg/config"
	"github.com/JoeShih716/go-account-ledger/pkg/logger"
)

var service = logger.Service{Name: "load-client", Version: "1.0.0"}

// loadRemote 讀取 LEDGER_CONFIG 的 remote 區段，設定檔不存在時使用預設值
func loadRemote(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Parse(nil)
	}
	return cfg, err
}

func main() {
	baseURL := flag.String("url", "", "ledger api base url (overrides remote.base_url)")
	timeout := flag.Duration("timeout", 0, "per request timeout (overrides remote.timeout)")
	accountID := flag.Int64("account", 2, "target account id")
	totalCount := flag.Int("n", 1000, "number of deposits")
	concurrency := flag.Int("c", 50, "concurrent requests")
	amount := flag.String("amount", "1.00", "amount per deposit")
	flag.Parse()

	path := os.Getenv("LEDGER_CONFIG")
	if path == "" {
		path = "config/config.yaml"
	}
	cfg, err := loadRemote(path)
	if err != nil {
		bootLog := logger.New(service)
		bootLog.Fatal().Err(err).Str("path", path).Msg("failed to load config")
	}
	log := logger.NewWithConfig(cfg.Log, service)
	rc := cfg.Remote.Override(*baseURL, *timeout)
	log.Info().Str("base_url", rc.BaseURL).Dur("timeout", rc.Timeout).Msg("load client started")
	client := remote.NewClient(rc.BaseURL, rc.Timeout, log)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	value, err := decimal.NewFromString(*amount)
	if err != nil {
		log.Fatal().Err(err).Str("amount", *amount).Msg("invalid amount")
	}

	var (
		wg     sync.WaitGroup
		failed atomic.Int64
	)
	wg.Add(*totalCount)
	sem := make(chan struct{}, *concurrency)
	startTime := time.Now()

	for i := 0; i < *totalCount; i++ {
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			_, err := client.AddTransaction(ctx, domain.Transaction{
				AccountID: *accountID,
				Amount:    value,
				Type:      domain.TransactionTypeDeposit,
				Date:      time.Now().UTC(),
			})
			if err != nil {
				failed.Add(1)
				if idx%100 == 0 {
					log.Warn().Err(err).Int("idx", idx).Msg("deposit failed")
				}
			}
		}(i)
	}
	wg.Wait()

	elapsed := time.Since(startTime)
	fmt.Printf("Completed %d requests in %v (%d failed)\n", *totalCount, elapsed, failed.Load())
	fmt.Printf("TPS: %.2f\n", float64(*totalCount)/elapsed.Seconds())

	trans, err := client.GetAccountTransactions(ctx, *accountID, 3)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read back transactions")
	}
	for _, t := range trans {
		fmt.Printf("%s  #%d  %s  %s\n", t.Date.Format(time.RFC3339), t.ID, t.TypeName, t.Amount.StringFixed(domain.AmountScale))
	}
}
