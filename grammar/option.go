package grammar

import "go.uber.org/zap"

type config struct {
	logger     *zap.Logger
	parserType ParserType
	lookahead  int
}

func newConfig(opts ...Option) *config {
	c := &config{
		logger:     zap.NewNop(),
		parserType: ParserTypeLALR,
		lookahead:  1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type Option func(c *config)

func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithParserType selects the parser table a Compile call generates. The default is LALR.
func WithParserType(t ParserType) Option {
	return func(c *config) {
		c.parserType = t
	}
}

// WithLookahead sets the number of tokens a Compile call looks ahead. The default is 1.
func WithLookahead(k int) Option {
	return func(c *config) {
		c.lookahead = k
	}
}
