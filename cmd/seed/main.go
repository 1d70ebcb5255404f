package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/identityhub/auth-service/config"
	"github.com/identityhub/auth-service/internal/infrastructure/hash"
)

// Seeds the initial superuser. No lifecycle operation grants the superuser
// flag, so the first admin account has to be bootstrapped out of band.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@example.com"
	username := "admin"
	password := "change_me_please"

	hasher := hash.NewArgon2(uint32(cfg.Argon2Time))
	hashed, err := hasher.Hash(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	var id string
	err = db.QueryRow(`
		INSERT INTO users (id, name, surname, birth_date, email, username, password, is_superuser, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, TRUE, $8, $8)
		ON CONFLICT (email) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id
	`, uuid.NewString(), "Admin", "User", now, email, username, hashed, now).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed superuser: %v", err)
	}
	fmt.Printf("seeded superuser: id=%s email=%s username=%s\n", id, email, username)
}
