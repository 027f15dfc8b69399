package main

import (
	"strings"
	"sync"

	"github.com/bastiangx/wordguard/internal/logger"
	"github.com/bastiangx/wordguard/pkg/config"
	"github.com/bastiangx/wordguard/pkg/dictionary"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type commandContext struct {
	configFlag string
	dictFlag   string
	censorFlag string
	debug      bool

	configOnce sync.Once
	config     *config.Config
	configPath string
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           AppName,
		Short:         "Spell check and censor plain text files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.Setup(ctx.debug)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&ctx.configFlag, "config", "", "Configuration file path")
	flags.BoolVarP(&ctx.debug, "debug", "d", false, "Toggle debug mode")
	flags.StringVar(&ctx.dictFlag, "dict", "", "Spelling dictionary file (overrides config)")
	flags.StringVar(&ctx.censorFlag, "censor-dict", "", "Forbidden-term list file (overrides config)")

	rootCmd.AddCommand(
		newWordCommand(ctx, addSpec),
		newWordCommand(ctx, removeSpec),
		newWordCommand(ctx, banSpec),
		newWordCommand(ctx, unbanSpec),
		newSuggestCommand(ctx),
		newCheckCommand(ctx),
		newCensorCommand(ctx),
		newCompleteCommand(ctx),
		newServeCommand(ctx),
		newConfigCommand(ctx),
		newVersionCommand(),
	)
	return rootCmd
}

func (c *commandContext) ensureConfig() *config.Config {
	c.configOnce.Do(func() {
		// LoadConfigWithPriority always falls back to defaults.
		c.config, c.configPath, _ = config.LoadConfigWithPriority(strings.TrimSpace(c.configFlag))
	})
	return c.config
}

func (c *commandContext) openSpelling() (*dictionary.WordSet, error) {
	cfg := c.ensureConfig()
	return c.open(pick(c.dictFlag, cfg.Dict.SpellingPath), cfg.Dict.Lock)
}

func (c *commandContext) openBanned() (*dictionary.WordSet, error) {
	cfg := c.ensureConfig()
	return c.open(pick(c.censorFlag, cfg.Dict.CensorPath), cfg.Dict.Lock)
}

func (c *commandContext) open(path string, lock bool) (*dictionary.WordSet, error) {
	var opts []dictionary.Option
	if !lock {
		opts = append(opts, dictionary.WithoutLock())
	}
	ws, err := dictionary.Open(path, opts...)
	if err != nil {
		return nil, err
	}
	log.Debugf("Opened %s with %d words", ws.Path(), ws.Len())
	return ws, nil
}

func pick(flag, fallback string) string {
	if f := strings.TrimSpace(flag); f != "" {
		return f
	}
	return fallback
}
