package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nihei9/lrgen/grammar"
	"github.com/pingcap/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the content of a config file. Command line flags take precedence over it.
type Config struct {
	// Lookahead is the number of tokens a parser peeks at.
	Lookahead int `toml:"lookahead"`

	// ParserType is either `lr` or `lalr`.
	ParserType string `toml:"parser_type"`

	LogLevel string `toml:"log_level"`

	// Output is the default output path of the compile command.
	Output string `toml:"output"`
}

func NewConfig() *Config {
	return &Config{
		Lookahead:  1,
		ParserType: grammar.ParserTypeLALR.String(),
		LogLevel:   "warn",
	}
}

// Load loads config options from a toml file. Unknown keys are errors.
func (c *Config) Load(confFile string) error {
	meta, err := toml.DecodeFile(confFile, c)
	if err != nil {
		return errors.Trace(err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.Errorf("unknown config keys: %v", strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) grammarOptions() []grammar.Option {
	return []grammar.Option{
		grammar.WithLogger(logger),
		grammar.WithParserType(grammar.ParserType(c.ParserType)),
		grammar.WithLookahead(c.Lookahead),
	}
}

// newLogger returns a logger writing to stderr in a console format.
func newLogger(level string) (*zap.Logger, error) {
	var lv zapcore.Level
	err := lv.UnmarshalText([]byte(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %v", level)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lv)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = lv > zapcore.DebugLevel
	return cfg.Build()
}
