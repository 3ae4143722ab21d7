package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/mashangjie/taskmarket/internal/core/domain"
)

var estimateFlags struct {
	min         float64
	max         float64
	description string
	techStack   []string
}

// taskmarket estimate: run the price estimator locally.
var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Print the suggested price for a task",
	Example: `  taskmarket estimate --min 1000 --max 5000 --tech go,vue --description "Shop mini program"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		est, err := domain.EstimatePrice(
			estimateFlags.description,
			domain.BudgetRange{Min: estimateFlags.min, Max: estimateFlags.max},
			len(estimateFlags.techStack),
		)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(est)
	},
}

var tokenFlags struct {
	subject string
	secret  string
	ttl     time.Duration
}

// taskmarket token: sign an identity token for local testing.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign a bearer token carrying the given identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenFlags.subject == "" || tokenFlags.secret == "" {
			return fmt.Errorf("--sub and --secret are required")
		}
		now := time.Now()
		claims := jwt.RegisteredClaims{
			Subject:   tokenFlags.subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenFlags.ttl)),
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(tokenFlags.secret))
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), signed)
		return nil
	},
}

func init() {
	f := estimateCmd.Flags()
	f.Float64Var(&estimateFlags.min, "min", 0, "budget minimum")
	f.Float64Var(&estimateFlags.max, "max", 0, "budget maximum")
	f.StringVar(&estimateFlags.description, "description", "", "task description")
	f.StringSliceVar(&estimateFlags.techStack, "tech", nil, "comma separated tech stack")

	t := tokenCmd.Flags()
	t.StringVar(&tokenFlags.subject, "sub", "", "caller identity")
	t.StringVar(&tokenFlags.secret, "secret", "", "JWT signing secret (JWT_SECRET)")
	t.DurationVar(&tokenFlags.ttl, "ttl", 24*time.Hour, "token lifetime")
}
