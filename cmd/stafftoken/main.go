// Command stafftoken prints a bearer token for the staff-only endpoints,
// signed with the configured secret.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"example.com/storefront/config"
	"example.com/storefront/internal/infra/security"
	authuc "example.com/storefront/internal/usecase/auth"
)

func main() {
	flags := pflag.NewFlagSet("stafftoken", pflag.ExitOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	subject := flags.String("subject", "", "staff member the token is issued to")
	_ = flags.String("config", "", "path to a YAML config file")
	_ = flags.Parse(os.Args[1:])

	if *subject == "" {
		log.Fatal("--subject: required")
	}

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("auth.jwt_secret is empty")
	}

	token, err := security.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).GenerateToken(*subject, authuc.RoleStaff)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(token)
}
