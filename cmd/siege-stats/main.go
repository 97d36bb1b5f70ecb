package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/ramonehamilton/siege-stats/internal/config"
	"github.com/ramonehamilton/siege-stats/internal/credentials"
	"github.com/ramonehamilton/siege-stats/internal/display"
	"github.com/ramonehamilton/siege-stats/internal/version"
)

var (
	configPath      = flag.String("config", "", "Path to config.toml (default: ~/.siege-stats/config.toml)")
	credentialsPath = flag.String("credentials", "", "Path to the credentials JSON file (overrides config)")
	team            = flag.String("team", "", "Team name used as the report file prefix (overrides config)")
	users           = flag.String("users", "", "Comma separated usernames (overrides config)")
	outDir          = flag.String("out", "", "Output directory (overrides config)")
	format          = flag.String("format", "", "Report format: csv or json (overrides config)")
	chart           = flag.Bool("chart", false, "Render the MMR by season chart")
	openChart       = flag.Bool("open", false, "Open the chart in the default browser after rendering")
	encryptCreds    = flag.String("encrypt-credentials", "", "Encrypt the credentials file into this path and exit")
	showVersion     = flag.Bool("version", false, "Print the version and exit")
	summary         = flag.Bool("summary", true, "Print a team summary to stdout after the run")

	debugMode      = flag.Bool("debug-mode", false, "Enable verbose debug logging")
	debugModeShort = flag.Bool("d", false, "Enable debug logging (shorthand for -debug-mode)")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetVersion())
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	applyFlags(cfg)

	logger := newLogger(cfg.App.DebugMode)
	slog.SetDefault(logger)

	passphrase := os.Getenv(credentials.PassphraseEnv)

	if *encryptCreds != "" {
		if passphrase == "" {
			log.Fatalf("Set %s to encrypt credentials", credentials.PassphraseEnv)
		}
		if err := credentials.EncryptFile(cfg.Run.CredentialsFile, *encryptCreds, passphrase); err != nil {
			log.Fatalf("Error encrypting credentials: %v", err)
		}
		logger.Info("Encrypted credentials written", "path", *encryptCreds)
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	creds, err := credentials.Load(cfg.Run.CredentialsFile, passphrase)
	if err != nil {
		log.Fatalf("Error loading credentials: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := run(ctx, cfg, creds, logger)
	if err != nil {
		stop()
		log.Fatalf("Run failed: %v", err)
	}

	if *summary {
		if err := display.WriteTeamSummary(os.Stdout, cfg.Run.Team, result.Roster); err != nil {
			logger.Warn("Could not print summary", "error", err)
		}
	}

	if *openChart && result.Chart != "" {
		if err := openInBrowser(result.Chart); err != nil {
			logger.Warn("Could not open chart", "error", err)
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

// applyFlags overrides config values with flags set on the command line.
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "credentials":
			cfg.Run.CredentialsFile = *credentialsPath
		case "team":
			cfg.Run.Team = *team
		case "users":
			cfg.Run.Usernames = parseUsernames(*users)
		case "out":
			cfg.Output.Dir = *outDir
		case "format":
			cfg.Output.Format = *format
		case "chart":
			cfg.Chart.Enabled = *chart
		case "debug-mode":
			cfg.App.DebugMode = *debugMode
		case "d":
			cfg.App.DebugMode = cfg.App.DebugMode || *debugModeShort
		}
	})
}

// parseUsernames splits a comma separated list, dropping blanks.
func parseUsernames(s string) []string {
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("run_id", uuid.NewString())
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: siege-stats [flags]\n\n")
	fmt.Fprintf(flag.CommandLine.Output(), "Collects player and operator stats for a team and writes CSV reports.\n\n")
	flag.PrintDefaults()
}

func init() {
	flag.Usage = usage
}
