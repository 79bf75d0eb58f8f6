package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var wmonCmd = &cobra.Command{
	Use:   "wmon",
	Short: "Copy data and watch how many bytes have been written",
	Run:   wmonF,
}

func wmonF(cmd *cobra.Command, args []string) {
	cmd.Usage()
}

// Flags are the persistent flags shared by every command.
type Flags struct {
	config   string
	logLevel string
	host     string
}

var flags Flags

func init() {
	cobra.OnInitialize(initConfig)

	fs := wmonCmd.PersistentFlags()
	fs.StringVar(&flags.config, "config", "", "config file (yaml, toml or json)")
	fs.StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	fs.StringVar(&flags.host, "host", "http://localhost:9977", "address of a running wmon copy")
	viper.BindPFlag("log-level", fs.Lookup("log-level"))
	viper.BindPFlag("host", fs.Lookup("host"))

	wmonCmd.AddCommand(copyCmd)
	wmonCmd.AddCommand(statusCmd)
	wmonCmd.AddCommand(versionCmd)
}

// initConfig layers WMON_* environment variables and an optional config
// file under the command line flags.
func initConfig() {
	viper.SetEnvPrefix("wmon")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if flags.config == "" {
		return
	}
	viper.SetConfigFile(flags.config)
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrapf(err, "reading config %s", flags.config))
		os.Exit(1)
	}
}

// newLogger builds a console logger writing to stderr, so stdout stays
// free for copies to "-".
func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", level)
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stderr"}
	config.DisableStacktrace = true
	return config.Build()
}

func main() {
	if err := wmonCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
