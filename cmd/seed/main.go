// seed inserts a test user and a handful of todos into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/thiagodsaraujo/todo-auth-api/internal/infrastructure/postgres"
)

const (
	seedEmail    = "seed@test.local"
	seedUsername = "seeduser"
	seedPassword = "secret1"
)

type todoSpec struct {
	title       string
	description string
	done        bool
	dueInHours  int // 0 = no due date
}

var todos = []todoSpec{
	{"Buy groceries", "Milk, eggs, bread", false, 6},
	{"Write weekly report", "Summarize sprint progress", false, 20},
	{"Renew gym membership", "", false, 48},
	{"Call the bank", "Ask about the card limit", true, 0},
	{"Plan weekend trip", "Check train tickets", false, 0},
	{"Water the plants", "", false, 2},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set — run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	var userID string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (id, username, email, password_hash, disabled)
		VALUES ($1, $2, $3, $4, FALSE)
		ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
		RETURNING id`,
		uuid.NewString(), seedUsername, seedEmail, string(hash),
	).Scan(&userID)
	if err != nil {
		log.Fatalf("upsert user: %v", err)
	}

	inserted := 0
	for _, spec := range todos {
		var dueAt *time.Time
		if spec.dueInHours > 0 {
			t := time.Now().Add(time.Duration(spec.dueInHours) * time.Hour)
			dueAt = &t
		}
		var desc *string
		if spec.description != "" {
			desc = &spec.description
		}

		_, err := pool.Exec(ctx, `
			INSERT INTO todos (id, owner_id, title, description, done, due_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.NewString(), userID, spec.title, desc, spec.done, dueAt,
		)
		if err != nil {
			log.Fatalf("insert todo %q: %v", spec.title, err)
		}
		inserted++
	}

	fmt.Printf("seeded user %s (password %q) with %d todos\n", seedEmail, seedPassword, inserted)
}
