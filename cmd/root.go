package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/jblievremont/sonarqube/internal/contract"
	"github.com/jblievremont/sonarqube/internal/logging"
	"github.com/jblievremont/sonarqube/internal/outwriter"
	"github.com/jblievremont/sonarqube/internal/store"
	"github.com/jblievremont/sonarqube/internal/telemetry"
	"github.com/jblievremont/sonarqube/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// metrics collects the telemetry of the current process.
var metrics = telemetry.New()

// profilePrefix is set when profiling is enabled.
var profilePrefix string

// startProfiling starts CPU profiling if enabled.
func startProfiling() error {
	profilePrefix = viper.GetString("profile")
	if profilePrefix == "" {
		return nil
	}

	cpuFile, err := os.Create(profilePrefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}
	logging.Default().Info("Profiling enabled", "cpu", profilePrefix+".cpu.prof", "mem", profilePrefix+".mem.prof")
	return nil
}

// stopProfiling stops profiling and writes memory profile.
func stopProfiling() error {
	if profilePrefix == "" {
		return nil
	}

	pprof.StopCPUProfile()

	memFile, err := os.Create(profilePrefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}
	return nil
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "ce",
	Short:              "Compute engine for batch analysis reports.",
	Long:               `ce loads an extracted batch report, resolves its components and measures, and persists the merged source of every file.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".ce")   // Name of config file (without extension)
		viper.SetConfigType("yaml")  // We'll use YAML format
		viper.AddConfigPath(".")     // Look in the current directory
		viper.AddConfigPath("$HOME") // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("CE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("db-backend", schema.SQLiteBackend)
	viper.SetDefault("db-connect", "")
	viper.SetDefault("log-level", contract.DefaultLogLevel)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("color", "yes")
	viper.SetDefault("target-version", contract.DefaultTargetVersion)
}

// loadConfig merges defaults, file, env and flags, then validates them into cfg.
func loadConfig(args []string) error {
	// 1. Read config file.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	input.ReportDirStr = ""
	if len(args) == 1 {
		input.ReportDirStr = args[0]
	}

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	logging.SetLevel(cfg.LogLevel)
	outwriter.ConfigureColors(cfg)
	return nil
}

// sharedSetup validates the configuration and opens the global store.
func sharedSetup(ctx context.Context, _ *cobra.Command, args []string) error {
	if err := startProfiling(); err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}
	if err := loadConfig(args); err != nil {
		return err
	}
	if err := store.InitStore(ctx, cfg.Backend, cfg.DBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// configOnlySetup validates the configuration without opening the store. Commands that
// manage the schema itself must not trigger the automatic migration of store.Open.
func configOnlySetup(_ *cobra.Command, args []string) error {
	return loadConfig(args)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Shutdown flushes the process-wide state: profiles, metrics textfile and the store.
func Shutdown() error {
	defer store.CloseStore()
	err := stopProfiling()
	if metricsErr := metrics.WriteTextfile(cfg.MetricsFile); metricsErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to write metrics: %w", metricsErr))
	}
	return err
}
