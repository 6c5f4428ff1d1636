package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/shoply/shoply-api/config"
	"github.com/shoply/shoply-api/internal/domain/entity"
	"github.com/shoply/shoply-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@shoply.dev"
	password := "password123"
	name := "Shoply Admin"
	hash, err := helpers.HashSecret(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name, roles)
		VALUES ($1, $2, $3, ARRAY[$4, $5])
		ON CONFLICT (lower(email)) DO UPDATE SET roles = EXCLUDED.roles, updated_at = now()
		RETURNING id
	`, email, hash, name, entity.RoleUser, entity.RoleAdmin).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", id, email, password)
}
