package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"gazi-tiles/internal/config"
	"gazi-tiles/internal/repository"
	"gazi-tiles/pkg/database"
	"gazi-tiles/pkg/jwt"
)

// issue-token mints a bearer token for a user already on record, for scripts
// and gazictl.
func main() {
	envFile := flag.String("env", "", "path to an .env file")
	email := flag.String("email", "", "email of the user to issue the token for")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: issue-token -email user@example.com [-env .env]")
		os.Exit(2)
	}

	// 1. Load Env
	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.Database, nil)
	if err != nil {
		log.Fatalf("❌ Failed to connect database: %v", err)
	}

	// 3. Find User
	user, err := repository.NewUserRepo(db).FindByEmail(context.Background(), *email)
	if err != nil {
		log.Fatalf("❌ User %s not found in database: %v", *email, err)
	}
	if !user.IsActive {
		log.Fatalf("❌ User %s is disabled", user.Email)
	}

	// 4. Sign
	signer := jwt.NewSigner(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	token, err := signer.GenerateToken(user.ID.String(), user.Email, user.Name, user.Role)
	if err != nil {
		log.Fatalf("❌ Failed to sign token: %v", err)
	}

	log.Printf("✅ Token for %s (%s), valid for %s", user.Email, user.Role, cfg.Auth.TokenTTL)
	fmt.Println(token)
}
