package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/delmon-pos/api/internal/config"
	"github.com/delmon-pos/api/internal/database"
	"github.com/delmon-pos/api/internal/enum"
)

func main() {
	// CLI flags
	email := flag.String("email", "", "Manager email address")
	password := flag.String("password", "", "Manager password")
	name := flag.String("name", "", "Manager full name")
	flag.Parse()

	// Fall back to environment variables
	if *email == "" {
		*email = os.Getenv("SEED_EMAIL")
	}
	if *password == "" {
		*password = os.Getenv("SEED_PASSWORD")
	}
	if *name == "" {
		*name = os.Getenv("SEED_NAME")
	}

	// Fall back to defaults
	if *email == "" {
		*email = "manager@delmon.local"
	}
	if *password == "" {
		*password = "password123"
		log.Println("WARNING: Using default password 'password123'. Change immediately in production!")
	}
	if *name == "" {
		*name = "Delmon Manager"
	}

	// .env is optional; real deployments set the environment directly.
	godotenv.Load() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL())
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	log.Println("Connected to database")

	// Seed in a transaction (all rows or none)
	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	q := database.New(pool).WithTx(tx)

	managerID, err := seedManager(ctx, q, *email, *password, *name)
	if err != nil {
		log.Fatalf("Failed to seed manager: %v", err)
	}

	if err := seedStaff(ctx, q); err != nil {
		log.Fatalf("Failed to seed staff: %v", err)
	}

	if err := seedMenu(ctx, q, tx); err != nil {
		log.Fatalf("Failed to seed menu: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	log.Println("Seed completed successfully")
	log.Printf("Manager ID: %d", managerID)
}

// seedManager creates the manager employee if it doesn't exist.
func seedManager(ctx context.Context, q *database.Queries, email, password, name string) (int64, error) {
	existing, err := q.GetEmployeeByEmail(ctx, email)
	if err == nil {
		log.Printf("Employee '%s' already exists (ID: %d), skipping", email, existing.EmployeeID)
		return existing.EmployeeID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("check employee: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	manager, err := q.CreateEmployee(ctx, database.CreateEmployeeParams{
		Name:           name,
		Role:           enum.EmployeeRoleManager,
		Email:          email,
		HashedPassword: string(hashed),
	})
	if err != nil {
		return 0, fmt.Errorf("insert manager: %w", err)
	}

	log.Printf("Created manager '%s' (ID: %d)", email, manager.EmployeeID)
	return manager.EmployeeID, nil
}

// seedStaff creates a cashier and a kitchen employee with PIN logins.
func seedStaff(ctx context.Context, q *database.Queries) error {
	staff := []struct {
		name string
		role string
		pin  string
	}{
		{"Front Cashier", enum.EmployeeRoleCashier, "2345"},
		{"Kitchen Station", enum.EmployeeRoleKitchen, "3456"},
	}

	for _, s := range staff {
		existing, err := q.GetEmployeeByPin(ctx, s.pin)
		if err == nil {
			log.Printf("Employee '%s' already exists (ID: %d), skipping", s.name, existing.EmployeeID)
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("check employee: %w", err)
		}

		created, err := q.CreateEmployee(ctx, database.CreateEmployeeParams{
			Name: s.name,
			Role: s.role,
			Pin:  s.pin,
		})
		if err != nil {
			return fmt.Errorf("insert employee '%s': %w", s.name, err)
		}
		log.Printf("Created %s '%s' (ID: %d)", s.role, s.name, created.EmployeeID)
	}
	return nil
}

// seedMenu loads a small starter catalog. The existence check goes by name,
// which the query layer has no lookup for, so it stays raw SQL on the tx.
func seedMenu(ctx context.Context, q *database.Queries, tx pgx.Tx) error {
	items := []struct {
		name     string
		price    string
		category string
	}{
		{"Chicken Machboos", "4.50", "Mains"},
		{"Grilled Hammour", "6.00", "Mains"},
		{"Hummus", "1.80", "Starters"},
		{"Fattoush", "2.20", "Starters"},
		{"Karak Tea", "0.50", "Drinks"},
		{"Fresh Lemon Mint", "1.50", "Drinks"},
		{"Umm Ali", "2.00", "Desserts"},
	}

	for _, it := range items {
		var existingID int64
		err := tx.QueryRow(ctx, `SELECT menu_id FROM menu WHERE name = $1 LIMIT 1`, it.name).Scan(&existingID)
		if err == nil {
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("check menu item: %w", err)
		}

		if _, err := q.CreateMenuItem(ctx, database.CreateMenuItemParams{
			Name:     it.name,
			Price:    it.price,
			Category: it.category,
			Status:   enum.MenuStatusAvailable,
		}); err != nil {
			return fmt.Errorf("insert menu item '%s': %w", it.name, err)
		}
		log.Printf("Created menu item '%s'", it.name)
	}
	return nil
}
