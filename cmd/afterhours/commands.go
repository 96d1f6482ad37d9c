package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kidcare/afterhours/internal/protocol"
	"github.com/kidcare/afterhours/internal/shared/auth"
	"github.com/kidcare/afterhours/internal/triage"
	"github.com/spf13/cobra"
)

func newProtocolsCmd(env envFunc) *cobra.Command {
	var symptom, ageGroup string

	cmd := &cobra.Command{
		Use:   "protocols",
		Short: "Print protocols from the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := env()
			ctx := cmd.Context()

			s, err := openStores(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer s.Close()

			if cfg.Storage.SeedProtocols {
				if err := seedProtocols(ctx, s, logger); err != nil {
					return err
				}
			}

			if symptom != "" || ageGroup != "" {
				sym, age, err := protocol.ParsePair(symptom, ageGroup)
				if err != nil {
					return err
				}
				p, ok, err := s.Protocols.Get(ctx, sym, age)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no guidance available for %s", triage.ProtocolKey(sym, age))
				}
				return printJSON(cmd.OutOrStdout(), p)
			}

			protocols, err := s.Protocols.List(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, p := range protocols {
				fmt.Fprintf(w, "%-28s %d questions\n", p.Key(), len(p.Questions))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&symptom, "symptom", "", "Symptom to show (requires --age)")
	cmd.Flags().StringVar(&ageGroup, "age", "", "Age group to show (requires --symptom)")

	return cmd
}

func newClassifyCmd() *cobra.Command {
	var symptom, ageGroup string
	var answers []string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Run the urgency engine over answers given on the command line",
		Example: `  afterhours classify --symptom fever --age newborn -r fever_temp=100.6
  afterhours classify --symptom rash --age child -r spreading="Rapidly spreading"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sym, age, err := protocol.ParsePair(symptom, ageGroup)
			if err != nil {
				return err
			}

			responses := make(triage.Responses, 0, len(answers))
			for _, a := range answers {
				resp, err := parseAnswer(a)
				if err != nil {
					return err
				}
				responses = append(responses, resp)
			}

			result := triage.Classify(sym, age, responses.Normalize())
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&symptom, "symptom", "", "Symptom being assessed")
	cmd.Flags().StringVar(&ageGroup, "age", "", "Age group of the child")
	cmd.Flags().StringArrayVarP(&answers, "response", "r", nil, "Answer as questionId=value (repeatable)")
	cmd.MarkFlagRequired("symptom")
	cmd.MarkFlagRequired("age")

	return cmd
}

// parseAnswer reads "questionId=value". true/false become booleans and
// numeric values become numbers; anything else is kept as text.
func parseAnswer(s string) (triage.SymptomResponse, error) {
	id, raw, ok := strings.Cut(s, "=")
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return triage.SymptomResponse{}, fmt.Errorf("invalid response %q: want questionId=value", s)
	}

	var value triage.ResponseValue
	if raw == "true" || raw == "false" {
		value = triage.Bool(raw == "true")
	} else if n, err := strconv.ParseFloat(raw, 64); err == nil {
		value = triage.Number(n)
	} else {
		value = triage.Text(raw)
	}
	return triage.SymptomResponse{QuestionID: id, Value: value}, nil
}

func newMigrateCmd(env envFunc) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema to the configured store and optionally seed protocols",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := env()
			ctx := cmd.Context()

			s, err := openStores(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer s.Close()

			if seed {
				if err := seedProtocols(ctx, s, logger); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s store is up to date\n", cfg.Storage.Driver)
			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", true, "Load reference protocols into an empty store")

	return cmd
}

func newTokenCmd(env envFunc) *cobra.Command {
	var subject string
	var roles []string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed bearer token for the admin API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := env()
			token, err := auth.IssueToken(cfg.Auth, subject, roles, time.Now())
			if err != nil {
				return fmt.Errorf("issuing token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Token subject (who is acting)")
	cmd.Flags().StringSliceVar(&roles, "role", []string{auth.RoleAdmin}, "Roles to grant")
	cmd.MarkFlagRequired("subject")

	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
