package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ttyrew/ttyrew/internal/config"
	"github.com/ttyrew/ttyrew/internal/logging"
	"github.com/ttyrew/ttyrew/internal/tui"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg *config.Config
)

// Playback flags. The config file supplies defaults; a flag the user set
// explicitly wins.
var (
	sizeFlag     string
	termSizeFlag string
	speedFlag    float64
	uiFlag       bool
	noUIFlag     bool

	encodingFlag string
	timestepFlag int64
	timecapFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "ttyrew [flags] <recording>",
	Short: "Play ttyrec recordings in your terminal",
	Long: `Ttyrew plays ttyrec terminal session recordings interactively: pause,
seek by frames or by time, change speed, and skip idle stretches without
waiting them out. Recordings may be local files or http(s) URLs, optionally
gzip- or bzip2-compressed.`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runPlay(cmd, args[0])
	},
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ~/.ttyrewrc)")
	pf.BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.StringVarP(&encodingFlag, "encoding", "e", "",
		"payload encoding: utf8, cp437 or ascii (default: autodetect)")
	pf.Int64VarP(&timestepFlag, "timestep", "t", config.DefaultTimestepUS,
		"merge window in microseconds, 0 disables merging")
	pf.StringVarP(&timecapFlag, "timecap", "c", config.DefaultTimecap,
		"longest gap playback will wait out, e.g. 1s or 500ms")

	f := rootCmd.Flags()
	f.StringVarP(&sizeFlag, "size", "s",
		fmt.Sprintf("%dx%d", config.DefaultWidth, config.DefaultHeight),
		"emulated terminal grid as WxH")
	f.StringVar(&termSizeFlag, "terminal-size", "",
		"crop the display to WxH (default: window size)")
	f.Float64Var(&speedFlag, "speed", config.DefaultSpeed, "initial speed multiplier")
	f.BoolVar(&uiFlag, "ui", true, "show the status bar")
	f.BoolVar(&noUIFlag, "no-ui", false, "hide the status bar")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// applyFlagOverrides folds explicitly-set flags into the loaded config and
// re-validates the result. Works for subcommands too: flags they never
// registered report unchanged.
func applyFlagOverrides(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("timestep") {
		cfg.Playback.TimestepUS = timestepFlag
	}
	if flags.Changed("timecap") {
		cfg.Playback.Timecap = timecapFlag
	}
	if flags.Changed("encoding") {
		cfg.Terminal.Encoding = encodingFlag
	}
	if flags.Changed("speed") {
		cfg.Playback.Speed = speedFlag
	}
	if flags.Changed("size") {
		w, h, err := parseSize(sizeFlag)
		if err != nil {
			return err
		}
		cfg.Terminal.Width, cfg.Terminal.Height = w, h
	}
	if flags.Changed("ui") {
		cfg.UI.Enabled = uiFlag
	}
	if flags.Changed("no-ui") && noUIFlag {
		cfg.UI.Enabled = false
	}
	return cfg.Validate()
}

func runPlay(cmd *cobra.Command, target string) error {
	if err := applyFlagOverrides(cmd); err != nil {
		return err
	}

	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return fmt.Errorf("interactive playback needs a terminal; try 'ttyrew cat %s'", target)
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	timecap, err := cfg.Playback.ParseTimecap()
	if err != nil {
		return err
	}

	var dispCols, dispRows int
	if termSizeFlag != "" {
		dispCols, dispRows, err = parseSize(termSizeFlag)
		if err != nil {
			return err
		}
	}

	return tui.Run(tui.Options{
		Target:        target,
		Timestep:      uint64(cfg.Playback.TimestepUS),
		Timecap:       uint64(timecap.Microseconds()),
		CapEnabled:    true,
		Speed:         cfg.Playback.Speed,
		Cols:          cfg.Terminal.Width,
		Rows:          cfg.Terminal.Height,
		DisplayCols:   dispCols,
		DisplayRows:   dispRows,
		Encoding:      cfg.Terminal.Encoding,
		ShowUI:        cfg.UI.Enabled,
		ProgressWidth: cfg.UI.ProgressWidth,
		Logger:        logger,
	})
}

// parseSize parses a WxH geometry such as "500x200".
func parseSize(s string) (w, h int, err error) {
	a, b, ok := strings.Cut(strings.ToLower(s), "x")
	if ok {
		w, err = strconv.Atoi(strings.TrimSpace(a))
		if err == nil {
			h, err = strconv.Atoi(strings.TrimSpace(b))
		}
	}
	if !ok || err != nil || w < 1 || h < 1 {
		return 0, 0, fmt.Errorf("invalid geometry %q (want WxH, e.g. 80x24)", s)
	}
	return w, h, nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
