package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/johnquangdev/keynotes/pkg/config"
	"github.com/johnquangdev/keynotes/pkg/jwt"
)

// Issues a bearer token for the /v1 API using JWT_SECRET and JWT_ISSUER
func main() {
	subject := flag.String("subject", "", "client the token is issued to")
	scope := flag.String("scope", jwt.ScopeNotesRead, "token scope")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "token lifetime (0 = never expires)")
	flag.Parse()

	if *subject == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET is not set; the API runs without authentication")
	}

	token, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer).GenerateAccessToken(*subject, *scope, *ttl)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
}
