package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	venmo "github.com/venmo-go/venmo-client"
)

var (
	debugFlag bool
	rootCmd   = &cobra.Command{
		Use:           "venmoctl",
		Short:         "Command line client for the Venmo API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func main() {
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "Log every API call to stderr")

	rootCmd.AddCommand(
		identityCmd(),
		balanceCmd(),
		transactionsCmd(),
		paymentMethodsCmd(),
		handlesCmd(),
		lookupCmd(),
		payCmd(),
		requestCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("venmoctl failed")
		os.Exit(1)
	}
}

func initLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	})

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if debugFlag {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// connect loads VENMO_* configuration and returns a connected client.
func connect(ctx context.Context) (*venmo.Client, error) {
	cfg, err := venmo.LoadConfig()
	if err != nil {
		return nil, err
	}

	initLogger(cfg.LogLevel)
	log.Debug().Object("config", cfg).Msg("configuration loaded")

	client := venmo.NewFromConfig(cfg, venmo.WithRequestLogger(venmo.NewZerologLogger(log.Logger)))
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}

	return client, nil
}

// run connects, calls fn and prints its result as indented JSON.
func run(cmd *cobra.Command, fn func(context.Context, *venmo.Client) (any, error)) error {
	ctx := cmd.Context()

	client, err := connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	result, err := fn(ctx, client)
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), result)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func identityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "identity",
		Short: "Show the authenticated account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, c *venmo.Client) (any, error) {
				return c.GetIdentity(ctx)
			})
		},
	}
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the Venmo balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, c *venmo.Client) (any, error) {
				balance, err := c.GetBalance(ctx)
				if err != nil {
					return nil, err
				}
				return map[string]float64{"balance": balance}, nil
			})
		},
	}
}

func transactionsCmd() *cobra.Command {
	var (
		filter     venmo.TransactionFilter
		limitTotal int
	)

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, c *venmo.Client) (any, error) {
				if limitTotal <= 0 {
					return c.GetTransactions(ctx, filter)
				}

				txs := make([]venmo.Transaction, 0, limitTotal)
				for tx, err := range c.Transactions(ctx, filter) {
					if err != nil {
						return nil, err
					}
					txs = append(txs, tx)
					if len(txs) == limitTotal {
						break
					}
				}
				return txs, nil
			})
		},
	}

	cmd.Flags().StringVarP(&filter.UserID, "user", "u", "", "User ID whose feed to read (defaults to the account)")
	cmd.Flags().IntVarP(&filter.Limit, "limit", "l", 0, "Page size, 1-50")
	cmd.Flags().StringVarP(&filter.BeforeID, "before", "b", "", "Only transactions older than this id")
	cmd.Flags().IntVarP(&limitTotal, "max", "m", 0, "Follow pagination until this many transactions are collected")

	return cmd
}

func paymentMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "payment-methods",
		Short: "List wallet funding instruments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, c *venmo.Client) (any, error) {
				return c.GetPaymentMethods(ctx)
			})
		},
	}
}

func handlesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "handles",
		Short: "List identities available to the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, c *venmo.Client) (any, error) {
				return c.GetHandles(ctx)
			})
		},
	}
}

func lookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup QUERY",
		Short: "Find a user by username, id, email or phone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, c *venmo.Client) (any, error) {
				return c.LookupUser(ctx, args[0])
			})
		},
	}
}

type paymentFlags struct {
	note          string
	audience      string
	fundingSource string
}

// paymentCmd builds the pay and request subcommands. The recipient argument
// is resolved with LookupUser before submitting.
func paymentCmd(use, short string, submit func(*venmo.Client, context.Context, venmo.PaymentRequest) (*venmo.Transaction, error), withFunding bool) *cobra.Command {
	var flags paymentFlags

	cmd := &cobra.Command{
		Use:   use + " RECIPIENT AMOUNT",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			return run(cmd, func(ctx context.Context, c *venmo.Client) (any, error) {
				recipient, err := c.LookupUser(ctx, args[0])
				if err != nil {
					return nil, err
				}

				return submit(c, ctx, venmo.PaymentRequest{
					RecipientID:     recipient.ID,
					Amount:          amount,
					Note:            flags.note,
					Audience:        venmo.Audience(flags.audience),
					FundingSourceID: flags.fundingSource,
				})
			})
		},
	}

	cmd.Flags().StringVarP(&flags.note, "note", "n", "", "Payment note (required)")
	cmd.Flags().StringVarP(&flags.audience, "audience", "a", string(venmo.AudiencePrivate), "Visibility: private, friends or public")
	_ = cmd.MarkFlagRequired("note")

	if withFunding {
		cmd.Flags().StringVarP(&flags.fundingSource, "funding-source", "f", "", "Funding instrument id (picked automatically when empty)")
	}

	return cmd
}

func payCmd() *cobra.Command {
	return paymentCmd("pay", "Send money to a user", (*venmo.Client).SendMoney, true)
}

func requestCmd() *cobra.Command {
	return paymentCmd("request", "Request money from a user", (*venmo.Client).RequestMoney, false)
}
