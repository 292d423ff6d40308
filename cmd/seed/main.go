package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/userhub/user-service/config"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	seed := []struct {
		name  string
		email string
		age   int
	}{
		{"John Doe", "john@example.com", 30},
		{"Jane Roe", "jane@example.com", 27},
		{"Max Mustermann", "max@example.com", 41},
	}

	for _, s := range seed {
		var id int64
		err := db.QueryRow(`
			INSERT INTO users (name, email, age, created_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, age = EXCLUDED.age
			RETURNING id
		`, s.name, s.email, s.age).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", s.email, err)
		}
		fmt.Printf("seeded user: id=%d email=%s name=%s\n", id, s.email, s.name)
	}
}
