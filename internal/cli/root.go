package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"math-operations-api/internal/client"

	"github.com/spf13/cobra"
)

const defaultBaseURL = "http://localhost:8000/api/v1"

type rootOptions struct {
	baseURL string
	token   string
	timeout time.Duration
}

func (o *rootOptions) client() *client.Client {
	return client.New(o.baseURL, o.token, nil)
}

// NewRootCmd creates the root Cobra command for the mathctl CLI.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithEnv(os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env lookup for testability.
func NewRootCmdWithEnv(lookupEnv func(string) (string, bool)) *cobra.Command {
	opts := &rootOptions{}

	baseURL := defaultBaseURL
	if v, ok := lookupEnv("MATHCTL_URL"); ok && v != "" {
		baseURL = v
	}
	token, _ := lookupEnv("MATHCTL_TOKEN")

	cmd := &cobra.Command{
		Use:           "mathctl",
		Short:         "Math Operations CLI",
		Long:          "mathctl: command line interface for the math operations microservice",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.baseURL, "url", baseURL, "API base URL (env MATHCTL_URL)")
	cmd.PersistentFlags().StringVar(&opts.token, "token", token, "admin token for protected commands (env MATHCTL_TOKEN)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "request timeout")

	cmd.AddCommand(
		newPowerCmd(opts),
		newFibonacciCmd(opts),
		newFactorialCmd(opts),
		newHistoryCmd(opts),
		newCacheStatsCmd(opts),
		newClearCacheCmd(opts),
		newLoginCmd(opts),
	)
	return cmd
}

func newPowerCmd(opts *rootOptions) *cobra.Command {
	var base, exponent int64
	cmd := &cobra.Command{
		Use:   "power",
		Short: "Calculate base raised to the power of exponent",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalculate(cmd, opts, "power", base, &exponent)
		},
	}
	cmd.Flags().Int64VarP(&base, "base", "b", 0, "base number")
	cmd.Flags().Int64VarP(&exponent, "exponent", "e", 0, "exponent")
	_ = cmd.MarkFlagRequired("base")
	_ = cmd.MarkFlagRequired("exponent")
	return cmd
}

func newFibonacciCmd(opts *rootOptions) *cobra.Command {
	var n int64
	cmd := &cobra.Command{
		Use:   "fibonacci",
		Short: "Calculate the n-th Fibonacci number",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalculate(cmd, opts, "fibonacci", n, nil)
		},
	}
	cmd.Flags().Int64VarP(&n, "number", "n", 0, "position in the Fibonacci sequence")
	_ = cmd.MarkFlagRequired("number")
	return cmd
}

func newFactorialCmd(opts *rootOptions) *cobra.Command {
	var n int64
	cmd := &cobra.Command{
		Use:   "factorial",
		Short: "Calculate the factorial of a number",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalculate(cmd, opts, "factorial", n, nil)
		},
	}
	cmd.Flags().Int64VarP(&n, "number", "n", 0, "number to calculate the factorial of")
	_ = cmd.MarkFlagRequired("number")
	return cmd
}

func runCalculate(cmd *cobra.Command, opts *rootOptions, op string, value int64, exponent *int64) error {
	ctx, cancel := withTimeout(cmd, opts)
	defer cancel()

	res, err := opts.client().Calculate(ctx, op, value, exponent)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Calculation completed successfully!")
	fmt.Fprintf(out, "Operation: %s\n", res.Operation)
	fmt.Fprintf(out, "Input: %d\n", res.InputValue)
	if res.Exponent != nil {
		fmt.Fprintf(out, "Exponent: %d\n", *res.Exponent)
	}
	fmt.Fprintf(out, "Result: %s\n", res.Result)
	fmt.Fprintf(out, "Cached: %s\n", yesNo(res.Cached))
	fmt.Fprintf(out, "Computation time: %.3f ms\n", res.ComputationTimeMs)
	return nil
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var (
		limit     int
		operation string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "View operation history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch operation {
			case "", "power", "fibonacci", "factorial":
			default:
				return fmt.Errorf("invalid operation %q: want power, fibonacci or factorial", operation)
			}

			ctx, cancel := withTimeout(cmd, opts)
			defer cancel()

			page, err := opts.client().History(ctx, limit, operation)
			if err != nil {
				return err
			}
			items := page.Items
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No operations found in history.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tOPERATION\tINPUT\tEXPONENT\tRESULT\tCACHED\tTIME\tCREATED AT")
			for _, it := range items {
				exp := "-"
				if it.Exponent != nil {
					exp = fmt.Sprintf("%d", *it.Exponent)
				}
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\t%.3f ms\t%s\n",
					it.ID, it.Operation, it.InputValue, exp, truncate(it.Result.String(), 20),
					yesNo(it.Cached), it.ComputationTimeMs, it.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Showing %d of %d operations\n", len(items), page.Total)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "number of records to show")
	cmd.Flags().StringVarP(&operation, "operation", "o", "", "filter by operation type (power, fibonacci, factorial)")
	return cmd
}

func newCacheStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cache-stats",
		Short: "View cache statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := withTimeout(cmd, opts)
			defer cancel()

			st, err := opts.client().CacheStats(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Cache Statistics:")
			fmt.Fprintf(out, "  Current size: %d\n", st.Size)
			fmt.Fprintf(out, "  Maximum size: %d\n", st.MaxSize)
			fmt.Fprintf(out, "  TTL: %g seconds\n", st.TTLSeconds)
			fmt.Fprintf(out, "  Hits: %d  Misses: %d  Evictions: %d  Expirations: %d\n",
				st.Hits, st.Misses, st.Evictions, st.Expirations)
			return nil
		},
	}
}

func newClearCacheCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear-cache",
		Short: "Clear the cache (requires --token)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to clear the cache without --yes")
			}
			if opts.token == "" {
				return errors.New("clear-cache requires --token or MATHCTL_TOKEN (see mathctl login)")
			}

			ctx, cancel := withTimeout(cmd, opts)
			defer cancel()

			if err := opts.client().ClearCache(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared successfully!")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm clearing the cache")
	return cmd
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Obtain an admin token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := withTimeout(cmd, opts)
			defer cancel()

			token, err := opts.client().Login(ctx, username, password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
