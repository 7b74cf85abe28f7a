// Package skinpad holds the skinpad command line.
package skinpad

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/skinpad/skinpad/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile     string
	logLevel    string
	writeConfig bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "skinpad",
	Short: "On-screen calculator keypad",
	Long: `skinpad lays calculator skins out on a screen, turns multitouch input into
key presses for an emulation engine, and journals the presses for later
inspection.`,
	PersistentPreRunE: preRun,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.skinpad.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&writeConfig, "write-config", false,
		"Write an example .skinpad.toml to the working directory when no config file is found")
}

func initConfig() {
	if cfgFile != "" {
		slog.Debug("Using config file", "path", cfgFile)
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("toml")
		viper.SetConfigName(".skinpad")
	}

	viper.SetEnvPrefix("skinpad")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			slog.Error("Error reading config file", "error", err)
			os.Exit(1)
		}

		slog.Debug("No config file found")

		if writeConfig {
			createExampleConfig()
		}
	}
}

func createExampleConfig() {
	exampleConfig := `model = "ti86"
width = 480
height = 800
port = 9000
`
	configPath := "./.skinpad.toml"

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		slog.Error("Error creating example config file", "error", err)

		return
	}

	slog.Info("Example config file created", "path", configPath)
}

func preRun(cmd *cobra.Command, args []string) error {
	bindFlags(cmd, args)

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("bad log level %q: %w", logLevel, err)
	}

	slog.SetDefault(logging.NewLogger(os.Stderr, level))

	return nil
}

// set values to the PFlag variables from config, if they are set. Priority is still given to explicitly provided CLI flags.
func bindFlags(cmd *cobra.Command, _ []string) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		configName, ok := configKey(f.Name)

		if !f.Changed && ok {
			val := viper.Get(configName)

			if err := cmd.Flags().Set(f.Name, flagValue(val)); err != nil {
				slog.Error("Error setting flag from config", "flag", f.Name, "error", err)
				panic(err)
			}

			slog.Debug("Flag set from config", "flag", f.Name, "value", val)
		}
	})
}

// configKey finds the config key set for a flag. Viper compares keys
// case-insensitively, so "log-level" matches logLevel and loglevel in the
// file and SKINPAD_LOGLEVEL in the environment. The hyphenated name matches
// log-level in the file and SKINPAD_LOG_LEVEL.
func configKey(flagName string) (string, bool) {
	for _, key := range []string{strings.ReplaceAll(flagName, "-", ""), flagName} {
		if viper.IsSet(key) {
			return key, true
		}
	}

	return "", false
}

// flagValue renders a config value the way pflag parses it; lists become
// comma separated.
func flagValue(val any) string {
	if list, ok := val.([]any); ok {
		parts := make([]string, len(list))
		for i, v := range list {
			parts[i] = fmt.Sprintf("%v", v)
		}

		return strings.Join(parts, ",")
	}

	return fmt.Sprintf("%v", val)
}
