package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iliyamo/cinemavault/internal/apiclient"
	"github.com/iliyamo/cinemavault/internal/model"
	"github.com/iliyamo/cinemavault/internal/wallet"
)

type globalOpts struct {
	api     string
	token   string
	timeout time.Duration
	verbose bool
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (g *globalOpts) client() *apiclient.Client {
	c := apiclient.New([]string{g.api}, g.timeout)
	if g.token != "" {
		c.SetToken(g.token)
	}
	return c
}

func newRootCommand() *cobra.Command {
	g := &globalOpts{}
	cmd := &cobra.Command{
		Use:           "vaultctl",
		Short:         "Browse and rent movies from a CinemaVault storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	cmd.PersistentFlags().StringVar(&g.api, "api", envOr("VAULT_API", "http://localhost:8080"), "Storefront base URL")
	cmd.PersistentFlags().StringVar(&g.token, "token", os.Getenv("VAULT_TOKEN"), "Session token from login")
	cmd.PersistentFlags().DurationVar(&g.timeout, "timeout", 10*time.Second, "Per-request timeout")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Debug logging")

	cmd.AddCommand(newLoginCommand(g))
	cmd.AddCommand(newMoviesCommand(g))
	cmd.AddCommand(newRentCommand(g))
	cmd.AddCommand(newRentalsCommand(g))
	cmd.AddCommand(newExtendCommand(g))
	return cmd
}

func newLoginCommand(g *globalOpts) *cobra.Command {
	var username, password, kind string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind == "wallet" && password == "" {
				password = username
			}
			c := g.client()
			p, err := c.Login(cmd.Context(), username, password, kind)
			if err != nil {
				return err
			}
			_, exp := c.Session()
			fmt.Fprintf(cmd.ErrOrStderr(), "logged in as %s (%s), token expires %s\n", p.Username, p.Type, exp.Format(time.RFC3339))
			fmt.Fprintln(cmd.OutOrStdout(), c.Token())
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Staff username or wallet address")
	cmd.Flags().StringVar(&password, "password", "", "Password (defaults to the address for wallets)")
	cmd.Flags().StringVar(&kind, "type", "wallet", "Login type: staff or wallet")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newMoviesCommand(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "movies",
		Short: "List the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := g.client().Movies(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "source: %s\n", list.Meta.Source)
			printMovies(cmd.OutOrStdout(), list.Movies)
			return nil
		},
	}
}

func printMovies(w io.Writer, movies []model.Movie) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tRATING\tPRICE")
	for _, m := range movies {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f\t%.3f ETH\n", m.ID, m.Title, m.Year, m.Rating, m.Price)
	}
	_ = tw.Flush()
}

func newRentCommand(g *globalOpts) *cobra.Command {
	var rpcURL, contract, account string
	cmd := &cobra.Command{
		Use:   "rent MOVIE_ID",
		Short: "Pay for a movie from a wallet and record the rental",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := g.client()
			movie, err := c.Movie(ctx, args[0])
			if err != nil {
				return err
			}
			provider, err := wallet.DialProvider(ctx, rpcURL, g.timeout)
			if err != nil {
				return err
			}
			defer provider.Close()
			o := wallet.NewOrchestrator(provider, c, nil, wallet.Options{
				Contract: contract,
				Wallet:   account,
			})
			res, err := o.Rent(ctx, movie.Movie)
			if res.Hash == "" && err != nil {
				return errors.New(wallet.Message(err))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "transaction %s submitted for %q (%.3f ETH)\n", res.Hash, movie.Title, movie.Price)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "rental not recorded: %v\n", err)
			} else {
				fmt.Fprintf(out, "rental %s active until %s\n", res.Rental.ID, res.Rental.EndTime.Format(time.RFC3339))
			}

			fmt.Fprintln(out, "waiting for confirmation...")
			outcome := <-res.Outcome
			switch outcome.Status {
			case wallet.TxSuccess:
				fmt.Fprintln(out, "Transaction confirmed!")
				return err
			case wallet.TxFailed:
				return fmt.Errorf("transaction %s failed", outcome.Hash)
			}
			return fmt.Errorf("error tracking transaction: %s", wallet.Message(outcome.Err))
		},
	}
	cmd.Flags().StringVar(&rpcURL, "rpc", envOr("VAULT_RPC", "http://localhost:8545"), "Wallet JSON-RPC endpoint")
	cmd.Flags().StringVar(&contract, "contract", os.Getenv("VAULT_CONTRACT"), "Rental contract address")
	cmd.Flags().StringVar(&account, "wallet", os.Getenv("VAULT_WALLET"), "Paying wallet address")
	return cmd
}

func newRentalsCommand(g *globalOpts) *cobra.Command {
	var (
		owner string
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "rentals",
		Short: "List rentals, optionally watching countdowns and expiry warnings",
		RunE: func(cmd *cobra.Command, args []string) error {
			rentals, err := g.client().Rentals(cmd.Context(), owner)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printRentals(out, rentals)
			if !watch {
				return nil
			}
			return watchRentals(cmd.Context(), out, rentals)
		},
	}
	cmd.Flags().StringVar(&owner, "wallet", "", "Only rentals paid by this wallet")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep printing countdowns until interrupted")
	return cmd
}

func printRentals(w io.Writer, rentals []model.Rental) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMOVIE\tSTATUS\tENDS\tTX")
	for _, r := range rentals {
		title := r.MovieID
		if r.Movie != nil && r.Movie.Title != "" {
			title = r.Movie.Title
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, title, r.Status, r.EndTime.Format(time.RFC3339), r.TransactionHash)
	}
	_ = tw.Flush()
}

func watchRentals(ctx context.Context, w io.Writer, rentals []model.Rental) error {
	m := wallet.NewMirror()
	titles := map[string]string{}
	for _, r := range rentals {
		e := wallet.MirrorEntry{MovieID: r.MovieID, Title: r.MovieID, TransactionHash: r.TransactionHash, EndTime: r.EndTime}
		if r.Movie != nil && r.Movie.Title != "" {
			e.Title = r.Movie.Title
		}
		m.Add(e)
		titles[e.Key()] = e.Title
	}

	n := wallet.NewNotifier(m, wallet.DefaultCheckInterval, nil, func(nt wallet.Notification) {
		fmt.Fprintf(w, "warning: %s\n", nt.Message)
	})
	n.Start(ctx)
	defer n.Stop()

	m.Watch(ctx, time.Second, time.Now, func(cd map[string]string) {
		keys := make([]string, 0, len(cd))
		for k := range cd {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "%s: %s\n", titles[k], cd[k])
		}
	})
	return nil
}

func newExtendCommand(g *globalOpts) *cobra.Command {
	var (
		end    string
		txHash string
	)
	cmd := &cobra.Command{
		Use:   "extend RENTAL_ID",
		Short: "Extend a rental by one window or to --end",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var t time.Time
			if end != "" {
				var err error
				if t, err = time.Parse(time.RFC3339, end); err != nil {
					return fmt.Errorf("--end: %w", err)
				}
			}
			r, err := g.client().ExtendRental(cmd.Context(), args[0], t, txHash)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rental %s now ends %s (%s)\n", r.ID, r.EndTime.Format(time.RFC3339), r.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&end, "end", "", "New end time (RFC 3339); default extends by 48h")
	cmd.Flags().StringVar(&txHash, "tx", "", "Payment transaction hash for the extension")
	return cmd
}
