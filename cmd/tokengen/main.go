// Command tokengen issues bearer tokens for local development against the
// agency service. It signs with the same key the server loads, so tokens made
// with the dev key are useless anywhere JWT_SIGNING_KEY is set.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	jwttoken "tripmatch/internal/jwt_token"
	"tripmatch/internal/platform/config"
	id "tripmatch/pkg/domain"
)

type tokenOutput struct {
	Token     string            `json:"token"`
	UserID    string            `json:"user_id"`
	Role      string            `json:"role"`
	ExpiresIn string            `json:"expires_in"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	userID := flag.String("user-id", "", "Agency user id. Generated if empty.")
	role := flag.String("role", jwttoken.RoleAgency, "Role claim")
	ttl := flag.Duration("ttl", 0, "Token time-to-live (defaults to TOKEN_TTL)")
	jsonOutput := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fail("invalid configuration: %v", err)
	}
	if *ttl <= 0 {
		*ttl = cfg.Auth.TokenTTL
	}

	uid := id.UserID(*userID)
	if uid.IsNil() {
		uid = id.UserID(uuid.NewString())
	}

	svc := jwttoken.NewJWTService(cfg.Auth.SigningKey, cfg.Auth.Issuer, *ttl)
	token, err := svc.Issue(uid, *role)
	if err != nil {
		fail("issue token: %v", err)
	}

	if *jsonOutput {
		printJSON(tokenOutput{
			Token:     token,
			UserID:    uid.String(),
			Role:      *role,
			ExpiresIn: ttl.String(),
			Usage: map[string]string{
				"header": "Authorization: Bearer <token>",
			},
		})
		return
	}

	fmt.Println("Access Token (JWT)")
	fmt.Println("==================")
	fmt.Printf("User ID:    %s\n", uid)
	fmt.Printf("Role:       %s\n", *role)
	fmt.Printf("Expires In: %s\n", ttl.Round(time.Second))
	if cfg.Auth.SigningKey == config.DevSigningKey {
		fmt.Println("Signing:    dev key")
	}
	fmt.Println()
	fmt.Println(token)
	fmt.Println()
	fmt.Printf("  curl -H \"Authorization: Bearer %s\" http://localhost%s/agency/dashboard\n", token, cfg.Addr)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fail("encode JSON: %v", err)
	}
}
