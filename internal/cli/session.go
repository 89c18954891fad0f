package cli

import (
	"fmt"
	"time"

	"arena-quiz-service/internal/config"
	"arena-quiz-service/internal/domain"
	"arena-quiz-service/internal/infra/token"
	"github.com/spf13/cobra"
)

// NewSessionCmd mints a token for local testing against the configured auth mode.
func NewSessionCmd(configPath *string) *cobra.Command {
	var (
		userID string
		name   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Create a session token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			caller := domain.Caller{ID: userID, DisplayName: name}
			if !caller.Authenticated() {
				return fmt.Errorf("--user-id is required")
			}

			var raw string
			switch cfg.Auth.Mode {
			case config.AuthJWT:
				if cfg.Auth.JWTSecret == "" {
					return fmt.Errorf("auth mode jwt requires auth.jwt_secret")
				}
				raw, err = token.NewVerifier(cfg.Auth.JWTSecret).Issue(caller, ttl)
			case config.AuthSession:
				client := newRedisClient(cfg)
				if client == nil {
					return errNoSessionStore
				}
				defer client.Close()
				raw, err = newSessionStore(cfg, client).CreateSession(cmd.Context(), caller)
			default:
				return fmt.Errorf("auth mode %q does not use tokens", cfg.Auth.Mode)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), raw)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "user id")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "jwt lifetime")
	return cmd
}
