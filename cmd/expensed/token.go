package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"expensed/internal/auth"
	"expensed/internal/config"
)

var (
	tokenUserID int64
	tokenTTL    time.Duration
)

// tokenCmd mints a JWT for a user, for operators calling protected routes.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a JWT for the given user",
	Long: `Mints an HS256 token signed with the configured secret.

Example:
  expensed token --user 1 --ttl 24h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		ttl := tokenTTL
		if ttl == 0 {
			ttl = cfg.GetTokenTTL()
		}

		token, err := auth.NewManager(cfg.Auth.SecretKey).Generate(tokenUserID, ttl)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Int64Var(&tokenUserID, "user", 0, "user ID the token is issued for")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default from config)")
	_ = tokenCmd.MarkFlagRequired("user")
}
