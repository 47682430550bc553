package mysql

import (
	"testing"
	"time"

	flagDomain "treasury-desk/internal/domain/flag"
	withdrawalDomain "treasury-desk/internal/domain/withdrawal"
	"treasury-desk/pkg/id"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates an in-memory sqlite DB. A single connection keeps every
// statement on the same in-memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeBankWithdrawal(status withdrawalDomain.Status, submitted time.Time) *withdrawalDomain.Withdrawal {
	return &withdrawalDomain.Withdrawal{
		WithdrawalID: id.NewID32(),
		InvestorID:   id.NewID32(),
		InvestorName: gofakeit.Name(),
		Amount:       decimal.RequireFromString("2500.50"),
		Currency:     withdrawalDomain.CurrencyUSD,
		Type:         withdrawalDomain.TypeBank,
		Status:       status,
		SubmittedAt:  submitted.UTC(),
		Destination: withdrawalDomain.Destination{
			BankName:      gofakeit.Company(),
			AccountNumber: gofakeit.Numerify("##########"),
			SwiftCode:     "CHASUS33",
			BankCurrency:  "USD",
		},
	}
}

func makeFlag(withdrawalID string, status flagDomain.Status, p flagDomain.Priority, created time.Time) *flagDomain.Flag {
	return &flagDomain.Flag{
		FlagID:          id.NewID32(),
		WithdrawalID:    withdrawalID,
		RequestedBy:     id.NewID32(),
		RequestedByName: gofakeit.Name(),
		RequestedByRole: "admin",
		FlagType:        flagDomain.TypeHighAmount,
		Priority:        p,
		Comment:         "amount above desk limit",
		Status:          status,
		IsActive:        status == flagDomain.StatusApproved,
		CreatedAt:       created.UTC(),
	}
}
