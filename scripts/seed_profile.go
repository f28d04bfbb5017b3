package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/khoahotran/profile-builder/adapters/persistence"
	"github.com/khoahotran/profile-builder/internal/domain/profile"
	"github.com/khoahotran/profile-builder/pkg/logger"
)

func main() {
	fmt.Println("seeding profile into database...")

	err := godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use system environment variables.")
	}

	dsn := os.Getenv("DB_DSN")
	fullName := os.Getenv("PROFILE_FULL_NAME")
	email := os.Getenv("PROFILE_EMAIL")

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	repo := persistence.NewPostgresProfileRepo(pool, logger.NewNop())
	p, err := repo.FindOrCreate(ctx, profile.CurrentKey)
	if err != nil {
		log.Fatalf("cannot load profile: %v", err)
	}

	p.Apply(profile.Patch{FullName: &fullName, Email: &email})
	if err := repo.Save(ctx, profile.CurrentKey, p); err != nil {
		log.Fatalf("cannot save profile: %v", err)
	}

	fmt.Printf("seeded profile '%s' <%s> successfully!\n", p.FullName, p.Email)
}
