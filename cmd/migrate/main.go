// migrate applies or rolls back the embedded schema migrations.
// Run: go run ./cmd/migrate [up|down|version]
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ErlanBelekov/todo-api/internal/infrastructure/postgres"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		if err := postgres.Migrate(dbURL); err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Println("migrations applied")
	case "down":
		if err := postgres.MigrateDown(dbURL); err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Println("migrations rolled back")
	case "version":
		version, dirty, err := postgres.MigrationVersion(dbURL)
		if err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)
	default:
		log.Fatalf("unknown command %q, want up, down or version", cmd)
	}
}
