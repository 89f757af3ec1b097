package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TobiSchelling/dailybrief/internal/archive"
	"github.com/TobiSchelling/dailybrief/internal/brief"
	"github.com/TobiSchelling/dailybrief/internal/config"
	"github.com/TobiSchelling/dailybrief/internal/database"
	"github.com/TobiSchelling/dailybrief/internal/ingest"
	"github.com/TobiSchelling/dailybrief/internal/server"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "dailybrief",
	Short:   "Daily exam-prep briefings",
	Long:    "dailybrief receives daily briefing payloads over a webhook, archives them and serves them as pages, JSON and RSS.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		config.LoadDotEnv()

		path, err := config.ResolveConfigPath(configPath)
		switch {
		case err == nil:
			cfg, err = config.Load(path)
		case configPath == "":
			log.Printf("No config file found, using built-in defaults")
			cfg, err = config.Default()
		}
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if strings.EqualFold(cfg.Logging.Level, "DEBUG") {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(showCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("dailybrief", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/dailybrief/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to point the store at SQLite or PostgreSQL.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store and archive status",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, db, err := openArchive(cfg.Store.WriteFallback)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
		}

		ctx := cmd.Context()
		stats, err := a.Stats(ctx)
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Println("Daily Brief Status")
		fmt.Println("==================")
		if db != nil {
			fmt.Printf("Store:       %s (%s)\n", db.Dialect(), db.Target())
			if err := db.Ping(ctx); err != nil {
				fmt.Printf("Reachable:   no (%v)\n", err)
			} else {
				fmt.Println("Reachable:   yes")
			}
		} else {
			fmt.Println("Store:       session fallback (not durable)")
		}
		fmt.Printf("Briefs:      %d\n", stats.Briefs)
		fmt.Printf("Months:      %d\n", stats.Months)
		if stats.Latest != "" {
			fmt.Printf("Latest:      %s\n", brief.FormatDateDisplay(stats.Latest))
		}
		return nil
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server and webhook",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, db, err := openArchive(cfg.Store.WriteFallback)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
		}

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Starting server at http://%s:%d\n", cfg.Server.Host, port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(ctx, a, server.Options{
			Host:     cfg.Server.Host,
			Port:     port,
			FeedSize: cfg.Server.FeedSize,
		})
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to run server on")
}

// --- ingest command ---

var ingestCmd = &cobra.Command{
	Use:   "ingest <file|->",
	Short: "Store a brief from a JSON file or stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// The session store dies with this process, so the CLI only writes durably.
		a, db, err := openArchive(false)
		if err != nil {
			return err
		}
		if db == nil {
			return fmt.Errorf("no durable store available; configure store.url")
		}
		defer db.Close()

		data, err := readInput(args[0])
		if err != nil {
			return err
		}

		raw, err := ingest.ParseFile(data)
		if err != nil {
			return err
		}

		res, err := ingest.NewService(a).Ingest(cmd.Context(), raw)
		if err != nil {
			var ve *ingest.ValidationError
			if errors.As(err, &ve) {
				fmt.Println("Validation failed:")
				for _, e := range ve.Errors {
					fmt.Printf("  - %s\n", e)
				}
				return fmt.Errorf("%d validation errors", len(ve.Errors))
			}
			return err
		}

		fmt.Printf("Stored brief for %s\n", res.Date)
		return nil
	},
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// --- read commands ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived briefs by month",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, db, err := openArchive(cfg.Store.WriteFallback)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
		}

		months, err := a.GroupByMonth(cmd.Context())
		if err != nil {
			return err
		}
		if len(months) == 0 {
			fmt.Println("No briefs archived yet. Send one with: dailybrief ingest <file>")
			return nil
		}

		for _, m := range months {
			fmt.Printf("%s (%d)\n\n", m.Month, m.Count)
			for _, line := range briefTable(m.Briefs) {
				fmt.Println(line)
			}
			fmt.Println()
		}
		return nil
	},
}

var (
	searchCategory string
	searchRange    string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search briefs by title and primary focus",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		rng, err := archive.ParseRange(searchRange)
		if err != nil {
			return err
		}

		a, db, err := openArchive(cfg.Store.WriteFallback)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
		}

		results, err := a.SearchRange(cmd.Context(), query, searchCategory, rng)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No matching briefs.")
			return nil
		}

		for _, line := range briefTable(results) {
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "Only briefs with this primary focus category or section id")
	searchCmd.Flags().StringVar(&searchRange, "range", "all", "Date range: today, week, month or all")
}

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <date>",
	Short: "Show one brief",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, db, err := openArchive(cfg.Store.WriteFallback)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
		}

		b, err := a.GetByDate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if b == nil {
			return fmt.Errorf("%s: %w", args[0], archive.ErrNotFound)
		}

		if showJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(b)
		}
		printBrief(os.Stdout, b)
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print the stored JSON")
}

func printBrief(w io.Writer, b *brief.DailyBrief) {
	fmt.Fprintf(w, "%s\n%s\n\n", b.Title, brief.FormatDateDisplay(b.Date))

	is := b.ImpactSummary
	fmt.Fprintf(w, "Impact: %d policy, %d international, %d economic, %d science\n\n",
		is.PolicyDevelopments, is.InternationalUpdates, is.EconomicIndicators, is.ScientificAdvances)

	pf := b.PrimaryFocus
	fmt.Fprintf(w, "Primary focus [%s]: %s\n  %s\n\n", pf.Category, pf.Title, pf.Summary)

	for _, s := range b.Sections {
		fmt.Fprintf(w, "%s (%d articles)\n", s.Title, len(s.Articles))
		for _, art := range s.Articles {
			fmt.Fprintf(w, "  - %s\n", art.Title)
		}
	}
	if len(b.RapidUpdates) > 0 {
		fmt.Fprintln(w, "\nRapid updates")
		for _, u := range b.RapidUpdates {
			fmt.Fprintf(w, "  - [%s] %s\n", u.Category, u.Content)
		}
	}
}

// openArchive builds the archive over the configured durable store. A
// missing or unreachable store is not fatal: the archive runs on the session
// fallback and db is nil.
func openArchive(writeFallback bool) (*archive.Archive, *database.DB, error) {
	opts := archive.Options{WriteFallback: writeFallback}

	if !cfg.StoreConfigured() {
		log.Printf("No durable store configured, using session storage")
		return archive.New(nil, nil, opts), nil, nil
	}

	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := database.Open(cfg.StoreURL(), cfg.Store.AccessKey)
	if err != nil {
		log.Printf("Durable store unavailable, using session storage: %v", err)
		return archive.New(nil, nil, opts), nil, nil
	}
	return archive.New(db, nil, opts), db, nil
}
