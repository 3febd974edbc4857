// seed creates the demo account and resets its sample tasks.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ErlanBelekov/todo-api/internal/auth"
	"github.com/ErlanBelekov/todo-api/internal/infrastructure/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "demo123"
	demoName     = "Demo User"
)

type taskSpec struct {
	title       string
	description string
	completed   bool
}

var tasks = []taskSpec{
	{"Complete project documentation", "Write comprehensive README and API documentation", false},
	{"Review pull requests", "Check and approve pending PRs from the team", true},
	{"Setup CI/CD pipeline", "Configure GitHub Actions for automated testing", false},
	{"Buy groceries", "Milk, eggs, bread, and vegetables", false},
}

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	if err := postgres.Migrate(dbURL); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	hash, err := auth.NewHasher(10).Hash(demoPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	var userID int64
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		// Re-running the seed resets the password and the task list.
		err := tx.QueryRow(ctx, `
			INSERT INTO users (email, password_hash, name)
			VALUES ($1, $2, $3)
			ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
			RETURNING id`,
			demoEmail, hash, demoName,
		).Scan(&userID)
		if err != nil {
			return fmt.Errorf("upsert user: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("clear tasks: %w", err)
		}

		for _, t := range tasks {
			_, err := tx.Exec(ctx,
				`INSERT INTO tasks (user_id, title, description, is_completed) VALUES ($1, $2, $3, $4)`,
				userID, t.title, t.description, t.completed,
			)
			if err != nil {
				return fmt.Errorf("insert task %q: %w", t.title, err)
			}
		}
		return nil
	})
	if err != nil {
		pool.Close()
		log.Fatalf("seed: %v", err)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:     %s (id %d)\n", demoEmail, userID)
	fmt.Printf("  Password: %s\n", demoPassword)
	fmt.Printf("  Tasks:    %d\n", len(tasks))
	fmt.Println()
	fmt.Println("Try it:")
	fmt.Println()
	fmt.Println("  curl -s -X POST http://localhost:8080/api/v1/auth/login \\")
	fmt.Println("    -H 'Content-Type: application/json' \\")
	fmt.Printf("    -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", demoEmail, demoPassword)
	fmt.Println()
	fmt.Println("  export JWT=eyJ...")
	fmt.Println("  curl -s http://localhost:8080/api/v1/tasks -H \"Authorization: Bearer $JWT\"")
}
