package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/webdevtodayjason/bookpeek/internal/cache"
	"github.com/webdevtodayjason/bookpeek/internal/config"
	"github.com/webdevtodayjason/bookpeek/internal/fetch"
	"github.com/webdevtodayjason/bookpeek/internal/googlebooks"
	"github.com/webdevtodayjason/bookpeek/internal/ratelimit"
	"github.com/webdevtodayjason/bookpeek/internal/server"
)

// CLI represents the complete command structure for the bookpeek application
type CLI struct {
	// Global flags
	APIKey   string `help:"Google Books API key (falls back to GOOGLE_BOOKS_API_KEY)"`
	CacheTTL string `help:"Cache time-to-live duration (e.g., 15m)" default:"15m"`

	Serve  ServeCmd  `cmd:"" help:"Start the BookPeek API server"`
	Search SearchCmd `cmd:"" help:"Search for books from the command line"`
}

// ServeCmd represents the serve command
type ServeCmd struct {
	Addr string `help:"HTTP listen address" default:":8000"`
}

// SearchCmd represents the one-shot search command
type SearchCmd struct {
	Query      []string `arg:"" help:"Search query"`
	MaxResults int      `short:"n" help:"Maximum number of results (1-40)" default:"10"`
	OrderBy    string   `help:"Sort order (relevance or newest)" default:"relevance"`
	Lang       string   `help:"Restrict results to a language code"`
}

// Execute runs the Kong-based CLI
func Execute() {
	// A missing .env file is fine
	_ = godotenv.Load()

	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("bookpeek"),
		kong.Description("A backend proxy for searching the Google Books catalog."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)

	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("server.addr", ":8000")
	viper.SetDefault("cache.ttl", config.DefaultCacheTTL.String())
	viper.SetDefault("ratelimit.delay", config.DefaultRateLimitDelay.String())
	viper.SetDefault("upstream.timeout", config.DefaultRequestTimeout.String())

	viper.AutomaticEnv()
	if err := viper.BindEnv("GoogleBooksAPIKey", "GOOGLE_BOOKS_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Debug("Config file not found, using defaults")
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	if cli.APIKey != "" {
		viper.Set("GoogleBooksAPIKey", cli.APIKey)
	}
	if cli.CacheTTL != "" {
		viper.Set("cache.ttl", cli.CacheTTL)
	}

	config.InitConfig()
}

// newService builds the search service from the global configuration.
func newService() *googlebooks.Service {
	client := fetch.NewClient(
		fetch.WithTimeout(config.RequestTimeout),
		fetch.WithCache(cache.NewStore(config.CacheTTL)),
		fetch.WithRateLimiter(ratelimit.New("google-books", config.RateLimitDelay)),
	)
	return googlebooks.NewService(config.GoogleBooksAPIKey, googlebooks.WithClient(client))
}

// Run methods for each command

func (s *ServeCmd) Run() error {
	if s.Addr != "" {
		config.SetListenAddr(s.Addr)
	}

	service := newService()
	defer service.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(service).ListenAndServe(ctx, config.ListenAddr)
}

func (s *SearchCmd) Run() error {
	query := strings.Join(s.Query, " ")
	if !googlebooks.ValidateQuery(query) {
		return fmt.Errorf("invalid search query: %q", query)
	}

	service := newService()
	defer service.Close()

	result := service.SearchBooks(context.Background(), query, googlebooks.SearchOptions{
		MaxResults:   s.MaxResults,
		OrderBy:      s.OrderBy,
		LangRestrict: s.Lang,
	})
	if !result.Success {
		return fmt.Errorf("search failed: %s", result.Error)
	}

	slog.Info("Search complete", "query", query, "total_items", result.TotalItems, "returned", len(result.Books))
	for _, book := range result.Books {
		line := book.Title
		if len(book.Authors) > 0 {
			line += " by " + strings.Join(book.Authors, ", ")
		}
		if book.ISBN13 != "" {
			line += " (ISBN " + book.ISBN13 + ")"
		}
		fmt.Println(line)
	}
	return nil
}

func initLogging() {
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: slog.LevelInfo,
	})

	slog.SetDefault(slog.New(handler))
}
