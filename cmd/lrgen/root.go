package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootFlags = struct {
	config   *string
	logLevel *string
}{}

// These are set up before a subcommand runs.
var (
	config *Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "lrgen",
	Short: "Generate a lexer DFA and an LR parsing table from a grammar",
	Long: `lrgen provides the following features:
- Compiles a grammar into a portable lexer DFA and an LR(k)/LALR(k) parsing table.
- Prints the parser states of a compiled grammar in readable format.
- Parses a text stream according to a compiled grammar.
  This feature is primarily aimed at debugging the grammar.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setUp,
}

func init() {
	rootFlags.config = rootCmd.PersistentFlags().String("config", "", "config file path (TOML)")
	rootFlags.logLevel = rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, or error (default warn)")
}

func setUp(cmd *cobra.Command, args []string) error {
	c := NewConfig()
	if *rootFlags.config != "" {
		err := c.Load(*rootFlags.config)
		if err != nil {
			return fmt.Errorf("Cannot load the config file %s: %w", *rootFlags.config, err)
		}
	}
	if cmd.Flags().Changed("log-level") {
		c.LogLevel = *rootFlags.logLevel
	}
	l, err := newLogger(c.LogLevel)
	if err != nil {
		return err
	}
	config = c
	logger = l
	return nil
}

func Execute() error {
	defer func() {
		_ = logger.Sync()
	}()

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
