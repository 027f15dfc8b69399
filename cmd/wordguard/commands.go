package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/bastiangx/wordguard/internal/cli"
	"github.com/bastiangx/wordguard/internal/logger"
	"github.com/bastiangx/wordguard/pkg/config"
	"github.com/bastiangx/wordguard/pkg/dictionary"
	"github.com/bastiangx/wordguard/pkg/rewrite"
	"github.com/bastiangx/wordguard/pkg/server"
	"github.com/bastiangx/wordguard/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// wordSpec describes one of the four list editing commands.
type wordSpec struct {
	use     string
	short   string
	banned  bool
	remove  bool
	changed string
	same    string
}

var (
	addSpec = wordSpec{
		use: "add <word>...", short: "Add words to the spelling dictionary",
		changed: "Added word", same: "Word already in dictionary",
	}
	removeSpec = wordSpec{
		use: "remove <word>...", short: "Remove words from the spelling dictionary", remove: true,
		changed: "Removed word", same: "Word not found in dictionary",
	}
	banSpec = wordSpec{
		use: "ban <word>...", short: "Add words to the forbidden-term list", banned: true,
		changed: "Added expletive", same: "Expletive already exists",
	}
	unbanSpec = wordSpec{
		use: "unban <word>...", short: "Remove words from the forbidden-term list", banned: true, remove: true,
		changed: "Removed expletive", same: "Expletive not found",
	}
)

func newWordCommand(ctx *commandContext, spec wordSpec) *cobra.Command {
	return &cobra.Command{
		Use:   spec.use,
		Short: spec.short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			open := ctx.openSpelling
			if spec.banned {
				open = ctx.openBanned
			}
			ws, err := open()
			if err != nil {
				return err
			}
			edit := ws.Add
			if spec.remove {
				edit = ws.Remove
			}

			out := cmd.OutOrStdout()
			for _, word := range args {
				changed, err := edit(word)
				if err != nil {
					return fmt.Errorf("%q: %w", word, err)
				}
				msg := spec.same
				if changed {
					msg = spec.changed
				}
				fmt.Fprintf(out, "%s: %s\n", msg, strings.TrimSpace(word))
			}
			return nil
		},
	}
}

func newSuggestCommand(ctx *commandContext) *cobra.Command {
	var maxDistance int
	cmd := &cobra.Command{
		Use:   "suggest <word>...",
		Short: "Show dictionary words close to each word",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := ctx.openSpelling()
			if err != nil {
				return err
			}
			if maxDistance < 1 {
				maxDistance = ctx.ensureConfig().Suggest.MaxDistance
			}
			sg := suggest.NewSuggester(ws, maxDistance)

			rows := make([][]string, 0, len(args))
			for _, word := range args {
				suggestions := sg.Suggest(word)
				rows = append(rows, []string{
					word,
					yesNo(ws.Contains(word)),
					strings.Join(suggestions, ", "),
					strconv.Itoa(len(suggestions)),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Word", "Known", "Suggestions", "Count"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().IntVar(&maxDistance, "max-distance", 0, "Maximum edit distance (default from config)")
	return cmd
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var scan, addUnknown bool
	cmd := &cobra.Command{
		Use:   "check <in> [out]",
		Short: "Correct the spelling of a file, asking about each unknown word",
		Long: `Correct the spelling of <in> and write the result to <out>.

Answers are read from stdin: "y" accepts the first suggestion, "c" reads a
replacement from the next line, anything else keeps the word. With --scan
nothing is rewritten and only a report is printed.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := ctx.openSpelling()
			if err != nil {
				return err
			}
			cfg := ctx.ensureConfig()
			checker := rewrite.NewChecker(ws, suggest.NewSuggester(ws, cfg.Suggest.MaxDistance))

			if scan {
				return runScan(cmd, checker, ws, args[0], addUnknown)
			}
			if len(args) != 2 {
				return errors.New("check needs an output file unless --scan is set")
			}

			out := cmd.OutOrStdout()
			rv := cli.NewReviewer(cmd.InOrStdin(), out, stdinIsTerminal(cmd), cfg.CLI.Color)
			stats, err := checker.CorrectFile(args[0], args[1], rv)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Processed file written to %s\n", args[1])
			fmt.Fprintf(out, "%d words on %d lines: %d misspelled, %d corrected\n",
				stats.Words, stats.Lines, stats.Misspelled, stats.Corrected)
			return nil
		},
	}
	cmd.Flags().BoolVar(&scan, "scan", false, "Only report misspellings")
	cmd.Flags().BoolVar(&addUnknown, "add-unknown", false, "With --scan, add every unknown word to the dictionary")
	return cmd
}

func runScan(cmd *cobra.Command, checker *rewrite.Checker, ws *dictionary.WordSet, path string, addUnknown bool) error {
	f, err := os.Open(path)
	if err != nil {
		return &dictionary.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	result, err := checker.Scan(f)
	if err != nil {
		return &dictionary.IOError{Op: "read", Path: path, Err: err}
	}

	out := cmd.OutOrStdout()
	if len(result.Misspellings) > 0 {
		rows := make([][]string, 0, len(result.Misspellings))
		for _, m := range result.Misspellings {
			rows = append(rows, []string{
				strconv.Itoa(m.Pos.Line),
				strconv.Itoa(m.Pos.Column + 1),
				m.Word,
				strings.Join(m.Suggestions, ", "),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Line", "Col", "Word", "Suggestions"},
			rows,
			[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft},
		))
	}
	unknown := result.Unknown()
	fmt.Fprintf(out, "%d misspelled words, %d distinct\n", len(result.Misspellings), len(unknown))

	if !addUnknown {
		return nil
	}
	added := 0
	for _, word := range unknown {
		changed, err := ws.Add(word)
		if err != nil {
			return fmt.Errorf("%q: %w", word, err)
		}
		if changed {
			added++
		}
	}
	fmt.Fprintf(out, "Added %d words to %s\n", added, ws.Path())
	return nil
}

func newCensorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "censor <in> <out>",
		Short: "Replace forbidden words in a file with the censor marker",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			banned, err := ctx.openBanned()
			if err != nil {
				return err
			}
			cen := rewrite.NewCensor(banned, ctx.ensureConfig().Censor.Marker)
			stats, err := cen.CensorFile(args[0], args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Censored file written to %s\n", args[1])
			fmt.Fprintf(out, "%d of %d words replaced\n", stats.Censored, stats.Words)
			return nil
		},
	}
}

func newCompleteCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "complete [prefix...]",
		Short: "List dictionary words starting with a prefix",
		Long: `List dictionary words starting with each prefix.

Without arguments prefixes are read from stdin one per line, and spelling
suggestions are shown next to the completions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := ctx.openSpelling()
			if err != nil {
				return err
			}
			cfg := ctx.ensureConfig()
			if limit < 1 {
				limit = cfg.Suggest.Limit
			}
			completer := suggest.NewCompleter(ws)

			if len(args) == 0 {
				h := cli.NewInputHandler(completer,
					suggest.NewSuggester(ws, cfg.Suggest.MaxDistance),
					logger.NewPlain(cmd.OutOrStdout()),
					limit, cfg.Server.MaxWordLen)
				return h.Start(cmd.InOrStdin(), stdinIsTerminal(cmd))
			}

			out := cmd.OutOrStdout()
			for _, prefix := range args {
				fmt.Fprintf(out, "%s: %s\n", prefix, strings.Join(completer.Complete(prefix, limit), ", "))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Number of completions to return (default from config)")
	return cmd
}

func newServeCommand(ctx *commandContext) *cobra.Command {
	var noWatch bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MessagePack IPC server on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spelling, err := ctx.openSpelling()
			if err != nil {
				return err
			}
			banned, err := ctx.openBanned()
			if err != nil {
				return err
			}
			cfg := ctx.ensureConfig()
			if noWatch {
				cfg.Server.Watch = false
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Infof("wordguard %s serving (pid %d): %d words, %d expletives",
				Version, os.Getpid(), spelling.Len(), banned.Len())
			srv := server.NewServer(spelling, banned, cfg, cmd.InOrStdin(), cmd.OutOrStdout())
			return srv.Start(runCtx)
		},
	}
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload dictionaries when their files change")
	return cmd
}

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or reset the configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the active configuration sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.ensureConfig()
			rows := [][]string{
				{"config", config.GetActiveConfigPath(ctx.configPath)},
				{"spelling", pick(ctx.dictFlag, cfg.Dict.SpellingPath)},
				{"censor", pick(ctx.censorFlag, cfg.Dict.CensorPath)},
				{"marker", cfg.Censor.Marker},
				{"max distance", strconv.Itoa(cfg.Suggest.MaxDistance)},
				{"lock", yesNo(cfg.Dict.Lock)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Setting", "Value"}, rows, nil))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Rewrite the default config file with built-in defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.RebuildConfigFile(); err != nil {
				return err
			}
			path, _ := config.GetDefaultConfigPath()
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote defaults to %s\n", path)
			return nil
		},
	})
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show current version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			banner := log.NewWithOptions(cmd.OutOrStdout(), log.Options{
				ReportCaller:    false,
				ReportTimestamp: false,
			})

			styles := log.DefaultStyles()
			styles.Values["version"] = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
			styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
			banner.SetStyles(styles)

			banner.Print("[ WordGuard ] spell checks and censors plain text")
			banner.Print("", "version", Version)
			banner.Print("Github Repo", "gh", gh)
		},
	}
}

// stdinIsTerminal reports whether cmd reads from an interactive stdin.
func stdinIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	return ok && cli.IsInteractive(f)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
