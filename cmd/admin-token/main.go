package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	httpmiddleware "github.com/hpsconstructions/hps-platform/internal/http/middleware"
)

// Prints a bearer token for the /admin/leads endpoints.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	subject := flag.String("sub", "owner", "token subject")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	token, err := httpmiddleware.IssueAdminToken(os.Getenv("ADMIN_JWT_SECRET"), *subject, *ttl)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	fmt.Println(token)
}
