package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cmlabs-hris/tenant-invitation-go/internal/fixtures"
	"github.com/cmlabs-hris/tenant-invitation-go/internal/pkg/jwt"
	"github.com/joho/godotenv"
)

// devtoken prints an access token for calling the API locally.
func main() {
	_ = godotenv.Load()

	secret := flag.String("secret", os.Getenv("JWT_SECRET_KEY"), "HMAC secret, defaults to JWT_SECRET_KEY")
	expiration := flag.String("exp", "24h", "token lifetime")
	userID := flag.String("user", fixtures.DevAdminUserID, "user_id claim")
	email := flag.String("email", "admin@acme.test", "email claim")
	tenants := flag.String("tenants", fixtures.DevTenantID, "comma separated tenants the user administers")
	isAdmin := flag.Bool("admin", false, "grant platform admin")
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "JWT secret is required (-secret or JWT_SECRET_KEY)")
		os.Exit(1)
	}

	var adminTenants []string
	for _, t := range strings.Split(*tenants, ",") {
		if t = strings.TrimSpace(t); t != "" {
			adminTenants = append(adminTenants, t)
		}
	}

	token, expiresAt, err := jwt.NewJWTService(*secret, *expiration).GenerateAccessToken(jwt.Claims{
		UserID:       *userID,
		Email:        *email,
		IsAdmin:      *isAdmin,
		AdminTenants: adminTenants,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "expires at %d\n", expiresAt)
	fmt.Println(token)
}
