package cmd

import (
	"fmt"
	"log"
	"time"

	auditPostgres "github.com/finledger/ledger-engine/internal/audit/postgres"
	"github.com/finledger/ledger-engine/internal/category"
	categoryPostgres "github.com/finledger/ledger-engine/internal/category/postgres"
	"github.com/finledger/ledger-engine/internal/ledger"
	ledgerPostgres "github.com/finledger/ledger-engine/internal/ledger/postgres"
	"github.com/finledger/ledger-engine/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a demo user, a category tree and a few months of transactions for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initGorm(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{"transaction_audit", "transactions", "categories", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		demoEmail := "demo@mail.com"
		var userID int64
		row := db.Raw("SELECT id FROM users WHERE email = ?", demoEmail).Row()
		if err := row.Scan(&userID); err != nil {
			if err := db.Exec("INSERT INTO users (email, name, is_active, created_at, updated_at) VALUES (?, ?, true, now(), now())", demoEmail, "Demo User").Error; err != nil {
				log.Fatalf("failed to insert demo user: %v", err)
			}
			if err := db.Raw("SELECT id FROM users WHERE email = ?", demoEmail).Row().Scan(&userID); err != nil {
				log.Fatalf("failed to look up demo user id: %v", err)
			}
			fmt.Println("Seeded demo user:", demoEmail)
		} else {
			fmt.Println("demo user already exists")
		}

		lg := logger.LoggerWrapper()
		categoryRepo := categoryPostgres.NewCategoryRepository(db)
		categoryService := category.NewService(categoryRepo, lg)

		auditRepo := auditPostgres.NewAuditRepository(db)
		ledgerRepo := ledgerPostgres.NewLedgerRepository(db, auditRepo)
		ledgerService := ledger.NewService(ledgerRepo, categoryService, auditRepo, lg)

		type seedCategory struct {
			Name   string
			Type   string
			Parent string
		}
		seedCategories := []seedCategory{
			{"Salary", "income", ""},
			{"Bonus", "income", "Salary"},
			{"Housing", "expense", ""},
			{"Rent", "expense", "Housing"},
			{"Food", "expense", ""},
			{"Groceries", "expense", "Food"},
			{"Dining Out", "expense", "Food"},
			{"Transport", "expense", ""},
		}

		categoryIDs := map[string]int64{}
		for _, sc := range seedCategories {
			var parentID *int64
			if sc.Parent != "" {
				if id, ok := categoryIDs[sc.Parent]; ok {
					parentID = &id
				}
			}
			cat, err := categoryService.Create(userID, category.CreateCategoryDTO{
				Name:     sc.Name,
				Type:     sc.Type,
				ParentID: parentID,
			})
			if err != nil {
				// already seeded on a previous run
				existing, lookupErr := categoryRepo.GetByNameAndType(userID, sc.Name, sc.Type)
				if lookupErr != nil || existing == nil {
					log.Fatalf("failed to seed category %s: %v", sc.Name, err)
				}
				categoryIDs[sc.Name] = existing.ID
				continue
			}
			categoryIDs[sc.Name] = cat.ID
			fmt.Printf("Seeded category: %s (%s)\n", sc.Name, sc.Type)
		}

		type seedTransaction struct {
			Category    string
			Amount      string
			Type        string
			DaysAgo     int
			Description string
		}
		seedTransactions := []seedTransaction{
			{"Salary", "5000.00", "income", 75, "monthly salary"},
			{"Salary", "5000.00", "income", 45, "monthly salary"},
			{"Salary", "5000.00", "income", 15, "monthly salary"},
			{"Bonus", "750.00", "income", 40, "quarterly bonus"},
			{"Rent", "1500.00", "expense", 73, "rent march"},
			{"Rent", "1500.00", "expense", 43, "rent april"},
			{"Rent", "1500.00", "expense", 13, "rent may"},
			{"Groceries", "240.50", "expense", 60, "weekly shop"},
			{"Groceries", "198.75", "expense", 30, "weekly shop"},
			{"Dining Out", "86.20", "expense", 22, "dinner"},
			{"Transport", "120.00", "expense", 10, "monthly pass"},
		}

		for _, st := range seedTransactions {
			_, err := ledgerService.Create(userID, ledger.CreateTransactionDTO{
				CategoryID:  categoryIDs[st.Category],
				Amount:      decimal.RequireFromString(st.Amount),
				Type:        st.Type,
				OccurredAt:  time.Now().AddDate(0, 0, -st.DaysAgo),
				Description: st.Description,
			}, "seeder")
			if err != nil {
				log.Fatalf("failed to seed transaction for %s: %v", st.Category, err)
			}
		}

		fmt.Println("Sample transactions seeded successfully")
	},
}
