// Command issue-token creates an access token for a caller and prints it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Anggit1/Toko-baju/internal/domain/entity"
	"github.com/Anggit1/Toko-baju/internal/infrastructure/auth"
	"github.com/Anggit1/Toko-baju/internal/infrastructure/config"
	"github.com/Anggit1/Toko-baju/internal/infrastructure/logger"
)

func main() {
	var (
		userID  = flag.Int64("user", 0, "user id the token is issued to")
		isAdmin = flag.Bool("admin", false, "grant administrator access")
		ttl     = flag.Duration("ttl", 0, "token lifetime, 0 never expires")
		revoke  = flag.String("revoke", "", "revoke this token instead of issuing one")
	)
	flag.Parse()

	// stdout carries only the token
	logger.SetDefaultLogger(logger.NewJSONLogger(os.Stderr, logger.InfoLevel))

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", map[string]interface{}{"error": err.Error()})
	}

	ctx := context.Background()
	client, err := auth.Connect(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
	}
	defer client.Close()

	provider := auth.NewRedisIdentityProvider(client, cfg.TokenPrefix)

	if *revoke != "" {
		if err := provider.RevokeToken(ctx, *revoke); err != nil {
			logger.Fatal("Failed to revoke token", map[string]interface{}{"error": err.Error()})
		}
		logger.Info("Token revoked", nil)
		return
	}

	if *userID <= 0 {
		fmt.Fprintln(os.Stderr, "-user must be a positive id")
		flag.Usage()
		os.Exit(2)
	}

	token, err := provider.IssueToken(ctx, entity.Caller{ID: *userID, IsAdmin: *isAdmin}, *ttl)
	if err != nil {
		logger.Fatal("Failed to issue token", map[string]interface{}{"error": err.Error()})
	}

	logger.Info("Token issued", map[string]interface{}{
		"user_id":  *userID,
		"is_admin": *isAdmin,
		"ttl":      ttl.String(),
	})
	fmt.Println(token)
}
