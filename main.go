package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"quill/app/auth"
	"quill/app/repositories"
	"quill/app/routes"
	"quill/app/services"
	"quill/app/web"
	"quill/config"

	"github.com/dgraph-io/badger/v4"
	"golang.org/x/crypto/bcrypt"

	"quill/app/models"
)

const cliVersion = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("quill version %s\n", cliVersion)
	case "serve":
		serve()
	case "create-admin":
		createAdmin()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	helpText := `Usage: quill <command> [options]
Commands:
  help                           Display this help message.
  version                        Show version information.
  serve                          Run the blog server (settings from quill.yaml / QUILL_* env).
  create-admin --email <email> --password <password>
                                 Create an admin account for the dashboard.
`
	fmt.Println(helpText)
}

func serve() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := badger.Open(badger.DefaultOptions(cfg.DataDir))
	if err != nil {
		log.Fatalf("Failed to open Badger DB: %v", err)
	}
	defer db.Close()

	posts := repositories.NewBadgerPostRepository(db)
	users := repositories.NewBadgerUserRepository(db)
	svc := services.NewPostService(posts)
	backend := auth.NewRepoBackend(users)
	sessions := auth.NewTokenStore()
	view := web.NewView(cfg.ViewsDir, cfg.SiteTitle)
	logger := log.New(os.Stderr, "", log.LstdFlags)

	handlers := web.NewHandlers(svc, posts, backend, sessions, view, logger)
	router := routes.Setup(handlers)

	log.Printf("Starting %s on %s", cfg.SiteTitle, cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, router); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func createAdmin() {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)
	email := fs.String("email", "", "admin email address")
	password := fs.String("password", "", "admin password")
	username := fs.String("username", "admin", "display name")
	fs.Parse(os.Args[2:])

	if *email == "" || *password == "" {
		fmt.Println("Error: --email and --password are required")
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := badger.Open(badger.DefaultOptions(cfg.DataDir))
	if err != nil {
		log.Fatalf("Failed to open Badger DB: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	users := repositories.NewBadgerUserRepository(db)
	user := &models.User{Email: *email, PasswordHash: hash}
	if err := users.CreateUser(user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}
	profile := &models.Profile{UserID: user.ID, Username: *username, IsAdmin: true}
	if err := users.PutProfile(profile); err != nil {
		log.Fatalf("Failed to store profile: %v", err)
	}

	fmt.Printf("Admin account %s created (%s)\n", *email, user.ID)
}
