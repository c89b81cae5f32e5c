// Command createsuperuser creates an active staff account with superuser rights.
//
//	go run ./cmd/createsuperuser -email admin@example.com -password secret
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"recipe_backend/internal/app/di"
	"recipe_backend/internal/platform/config"
	"recipe_backend/internal/platform/db"
	"recipe_backend/internal/platform/logging"
)

func main() {
	email := flag.String("email", "", "email address of the new superuser")
	password := flag.String("password", "", "password of the new superuser")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := logging.Setup(os.Stderr, cfg.Log.Level); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenDB(cfg.DB)
	if err != nil {
		log.Fatal(err)
	}

	user, err := di.NewUserUsecase(gdb).CreateSuperuser(context.Background(), *email, *password)
	if err != nil {
		log.Fatalf("failed to create superuser: %v", err)
	}
	fmt.Printf("Superuser %s created (id=%d)\n", user.Email, user.ID)
}
