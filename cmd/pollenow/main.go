package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pollenow/pollenow/cmd/pollenow/settings"
	"github.com/pollenow/pollenow/cmd/pollenow/ui"
	"github.com/pollenow/pollenow/internal/cache"
	"github.com/pollenow/pollenow/internal/config"
	"github.com/pollenow/pollenow/internal/geocoding"
	"github.com/pollenow/pollenow/internal/pollen"
)

// Version is set at build time via ldflags.
var Version = "dev"

const requestTimeout = 15 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		ui.RenderError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pollenow [ZIP]",
		Short: "Pollen forecast in your terminal",
		Long:  "Get pollen forecasts for any US ZIP code right in your terminal.",
		// Without a subcommand the root behaves like "forecast"
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runForecast,
	}
	rootCmd.PersistentFlags().String("config", settings.DefaultPath(), "Config file path")
	rootCmd.PersistentFlags().String("cache-dir", cache.DefaultFileCacheDir(), "Forecast cache directory (empty disables caching)")
	addForecastFlags(rootCmd)

	forecastCmd := &cobra.Command{
		Use:   "forecast [ZIP]",
		Short: "Get pollen forecast",
		Long:  "Get pollen forecast for a US ZIP code. Defaults to the ZIP code in your config.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runForecast,
	}
	addForecastFlags(forecastCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pollenow %s (%s/%s)\n", Version, runtime.GOOS, runtime.GOARCH)
		},
	}

	rootCmd.AddCommand(forecastCmd, newConfigCmd(), versionCmd)
	return rootCmd
}

func addForecastFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("days", "d", 0, "Number of forecast days (1-5)")
	cmd.Flags().BoolP("today", "t", false, "Show today only (shortcut for -d 1)")
	cmd.Flags().BoolP("compact", "c", false, "One-line summary output")
}

func settingsPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}

func runForecast(cmd *cobra.Command, args []string) error {
	s, err := settings.Load(settingsPath(cmd))
	if err != nil {
		return err
	}

	google := config.LoadGoogleConfig()
	apiKey, err := resolveAPIKey(s, google)
	if err != nil {
		return err
	}

	zip, err := resolveZIP(args, s)
	if err != nil {
		return err
	}

	flagDays, _ := cmd.Flags().GetInt("days")
	today, _ := cmd.Flags().GetBool("today")
	days, err := resolveDays(flagDays, today, s)
	if err != nil {
		return err
	}

	f := &forecaster{
		geocoder: geocoding.NewGoogleGeocoder(apiKey, google.Timeout),
		client:   pollen.NewGoogleClient(apiKey, google.Timeout),
		now:      time.Now,
	}
	if dir, _ := cmd.Flags().GetString("cache-dir"); dir != "" {
		f.cache = cache.NewFileCache(dir)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	result, err := f.lookup(ctx, zip, days)
	if err != nil {
		return err
	}

	if compact, _ := cmd.Flags().GetBool("compact"); compact {
		ui.RenderCompact(cmd.OutOrStdout(), result)
	} else {
		ui.RenderForecast(cmd.OutOrStdout(), result)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  "View and manage pollenow configuration.",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a config value",
			Long:  "Set a configuration value. Keys: api_key, default_zip, days",
			Args:  cobra.ExactArgs(2),
			RunE:  runConfigSet,
		},
		&cobra.Command{
			Use:   "init",
			Short: "Interactive setup",
			Args:  cobra.NoArgs,
			RunE:  runConfigInit,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print config file path",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), settingsPath(cmd))
			},
		},
	)
	return configCmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path := settingsPath(cmd)
	s, err := settings.Load(path)
	if err != nil {
		return err
	}

	zip := s.DefaultZIP
	if zip == "" {
		zip = "(not set)"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  api_key:     %s\n", s.RedactedAPIKey())
	fmt.Fprintf(out, "  default_zip: %s\n", zip)
	fmt.Fprintf(out, "  days:        %d\n", s.Days)
	fmt.Fprintf(out, "  config file: %s\n", path)
	if !settings.Exists(path) {
		fmt.Fprintln(out, "  (not created yet, run: pollenow config init)")
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path := settingsPath(cmd)
	s, err := settings.Read(path)
	if err != nil {
		return err
	}

	key := strings.ToLower(args[0])
	if err := s.Set(key, args[1]); err != nil {
		return err
	}
	if err := settings.Save(path, s); err != nil {
		return err
	}

	value := args[1]
	if key == settings.KeyAPIKey {
		value = s.RedactedAPIKey()
	}
	ui.RenderSuccess(cmd.OutOrStdout(), fmt.Sprintf("%s set to %s", key, value))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := settingsPath(cmd)
	s, err := settings.Read(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	in := bufio.NewReader(cmd.InOrStdin())
	prompt := func(label string) string {
		fmt.Fprint(out, label)
		line, _ := in.ReadString('\n')
		return strings.TrimSpace(line)
	}

	fmt.Fprintln(out, "Welcome to pollenow! Let's get you set up.")

	apiKey := prompt("Enter your Google API key: ")
	if apiKey == "" {
		return fmt.Errorf("API key is required")
	}
	if err := s.Set(settings.KeyAPIKey, apiKey); err != nil {
		return err
	}

	if zip := prompt("Enter your default ZIP code (optional): "); zip != "" {
		if err := s.Set(settings.KeyDefaultZIP, zip); err != nil {
			return err
		}
	}

	if err := settings.Save(path, s); err != nil {
		return err
	}
	ui.RenderSuccess(out, "Config saved to "+path)
	return nil
}
