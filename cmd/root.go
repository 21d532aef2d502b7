package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/naguirre11/gamesync/config"
	"github.com/naguirre11/gamesync/filter"
	"github.com/naguirre11/gamesync/overlap"
	"github.com/naguirre11/gamesync/steam"
)

var (
	cfgFile     string
	cfg         *config.Config
	logger      zerolog.Logger
	steamClient *steam.Client
	engine      *overlap.Engine

	// Command flags
	filterExpr string
	preset     string
	noCache    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gamesync",
	Short: "A tool to inspect and compare Steam game libraries",
	Long: `gamesync is a CLI tool that fetches Steam game libraries, filters them
with expressions, and finds the games a group of friends all own.
Fetches are cached and rate limited to respect the Steam Web API quota.`,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "bypass the library cache and fetch fresh data")

	// Add subcommands
	rootCmd.AddCommand(libraryCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(testCmd)
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Create Steam client
	steamClient, err = steam.NewClient(cfg.Steam.BaseURL, cfg.Steam.APIKey, logger,
		steam.WithEndpoints(cfg.Steam.OwnedGamesPath, cfg.Steam.PlayerSummariesPath),
		steam.WithRequestsPerSecond(cfg.Steam.RequestsPerSecond),
		steam.WithCacheTTL(cfg.Steam.CacheTTL),
	)
	if err != nil {
		return fmt.Errorf("failed to create Steam client: %w", err)
	}

	engine = overlap.NewEngine(steamClient, logger)

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; color only when writing to a terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// libraryCmd represents the library command
var libraryCmd = &cobra.Command{
	Use:   "library <steamid>",
	Short: "List a user's game library",
	Long: `Fetch and display the game library of a Steam user, optionally narrowed
by a filter expression such as 'Playtime > hours(10)'.`,
	Args: cobra.ExactArgs(1),
	RunE: runLibrary,
}

func init() {
	libraryCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	libraryCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
}

func runLibrary(cmd *cobra.Command, args []string) error {
	steamID := args[0]

	ctx := context.Background()
	snapshot, err := steamClient.GetOwnedGames(ctx, steamID, !noCache)
	if err != nil {
		return err
	}

	games := snapshot.Games

	// Narrow by filter if one was requested
	if expression := getFilterExpression(); expression != "" {
		logger.Info().Str("filter", expression).Msg("Filtering library")

		compiler := filter.NewCompiler(filter.WithCache(32))
		compiled, err := compiler.Compile(expression)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}

		games = filter.Apply(compiled, games)
	}

	if len(games) == 0 {
		fmt.Println("No games found.")
		return nil
	}

	fmt.Printf("\n%d of %d games (fetched %s):\n", len(games), snapshot.GameCount,
		snapshot.FetchedAt.Format(time.RFC3339))
	fmt.Println(strings.Repeat("-", 80))

	for _, game := range games {
		fmt.Printf("• %s [%d]", game.Name, game.AppID)
		if game.Playtime > 0 {
			fmt.Printf("  %.1fh total", game.Hours())
		}
		if game.RecentPlaytime > 0 {
			fmt.Printf(", %.1fh recent", float64(game.RecentPlaytime)/60)
		}
		fmt.Println()
	}

	return nil
}

// getFilterExpression determines the filter expression to use
func getFilterExpression() string {
	// Priority: command line filter > preset > config default
	if filterExpr != "" {
		return filterExpr
	}

	if preset != "" {
		if expression, ok := cfg.Filter.Presets[preset]; ok {
			return expression
		}
		logger.Warn().Str("preset", preset).Msg("Preset not found in config, listing unfiltered")
		return ""
	}

	return cfg.Filter.DefaultExpression
}

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile <steamid>",
	Short: "Show a user's profile summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfile,
}

func runProfile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	player, err := steamClient.GetPlayerSummary(ctx, args[0], !noCache)
	if err != nil {
		return err
	}

	fmt.Printf("\n%s\n", player.PersonaName)
	fmt.Printf("- SteamID: %s\n", player.SteamID)
	fmt.Printf("- Profile: %s\n", player.ProfileURL)
	fmt.Printf("- Visibility: %s\n", visibilityLabel(player.CommunityVisibilityState))

	return nil
}

func visibilityLabel(state int) string {
	switch state {
	case steam.VisibilityPublic:
		return "Public"
	case steam.VisibilityFriendsOnly:
		return "Friends only"
	case steam.VisibilityPrivate:
		return "Private"
	}
	return "Unknown"
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test <steamid>",
	Short: "Test the Steam API connection",
	Long:  `Verify the configured API key by fetching the profile summary of a Steam user.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to Steam at %s...\n", cfg.Steam.BaseURL)

	ctx := context.Background()
	player, err := steamClient.GetPlayerSummary(ctx, args[0], false)
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}

	fmt.Println("✓ Connection successful!")
	fmt.Printf("- Resolved profile: %s\n", player.PersonaName)

	stats := steamClient.Stats()
	fmt.Printf("\nClient statistics:\n")
	fmt.Printf("- Requests made: %d\n", stats.RequestCount)
	fmt.Printf("- Cached libraries: %d\n", stats.Games.Entries)
	fmt.Printf("- Cached profiles: %d\n", stats.Profiles.Entries)
	fmt.Printf("- Cache TTL: %s\n", stats.Games.TTL)

	return nil
}
