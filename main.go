// Package main provides the entry point for the vocalize CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/vocalize/internal/convert"
	"github.com/dgnsrekt/vocalize/internal/input"
	"github.com/dgnsrekt/vocalize/segment"
	"github.com/dgnsrekt/vocalize/tts"
	"github.com/dgnsrekt/vocalize/tts/engines"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile   string
	textFlag     string
	useClipboard bool
	engineName   string
	voice        string
	outputDir    string
	baseName     string
	title        string
	noAudio      bool
	preview      bool
	watchMode    bool
	compress     bool
	maxSegment   int
	minSegment   int
	wpm          float64

	rootCmd = &cobra.Command{
		Use:   "vocalize [SOURCE]",
		Short: "Turn text into narrated audio with synced transcripts",
		Long: paragraph(
			fmt.Sprintf("\nConvert text into %s: audio narration plus subtitles, a transcript, and an interactive viewer, all sharing the same timing.", keyword("spoken artifacts")),
		),
		Example:          paragraph("vocalize article.md\nvocalize --clipboard --engine gtts\ncat notes.txt | vocalize --no-audio --preview"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveDefault
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return validateOptions(cmd, args)
		},
		RunE: execute,
	}
)

// validateOptions pulls config values from Viper and checks flag
// combinations before anything runs.
func validateOptions(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("engine") {
		engineName = viper.GetString("engine")
	}
	if !cmd.Flags().Changed("voice") {
		voice = viper.GetString("voice")
	}
	if !cmd.Flags().Changed("out") {
		outputDir = viper.GetString("output")
	}
	if !cmd.Flags().Changed("wpm") {
		wpm = viper.GetFloat64("wpm")
	}
	if !cmd.Flags().Changed("max-segment") {
		maxSegment = viper.GetInt("max_segment")
	}
	if !cmd.Flags().Changed("min-segment") {
		minSegment = viper.GetInt("min_segment")
	}
	if !cmd.Flags().Changed("compress") {
		compress = viper.GetBool("compress")
	}

	if watchMode && (textFlag != "" || useClipboard || len(args) != 1) {
		return errors.New("watch mode needs a file source")
	}
	// Watch mode estimates timings unless synthesis was asked for
	// explicitly; resynthesizing on every save gets expensive fast.
	if watchMode && !cmd.Flags().Changed("no-audio") && !cmd.Flags().Changed("engine") {
		noAudio = true
	}
	if textFlag != "" && useClipboard {
		return errors.New("cannot use both --text and --clipboard")
	}

	opts := segmentOptions()
	if err := opts.Validate(); err != nil {
		return err
	}
	return nil
}

// segmentOptions assembles the segmentation settings from flags and
// config.
func segmentOptions() segment.Options {
	opts := segment.DefaultOptions()
	if maxSegment > 0 {
		opts.MaxSegmentLength = maxSegment
	}
	if minSegment > 0 {
		opts.MinSegmentLength = minSegment
	}
	if wpm > 0 {
		opts.WordsPerMinute = wpm
	}
	return opts
}

// engineConfig builds the synthesis configuration: defaults, then
// environment, then config file and flags.
func engineConfig() (tts.Config, error) {
	cfg, err := tts.ConfigFromEnv()
	if err != nil {
		return cfg, err
	}

	if viper.IsSet("openai.api_key") {
		cfg.OpenAI.APIKey = viper.GetString("openai.api_key")
	}
	if viper.IsSet("openai.model") {
		cfg.OpenAI.Model = viper.GetString("openai.model")
	}
	if viper.IsSet("gtts.language") {
		cfg.GTTS.Language = viper.GetString("gtts.language")
	}
	if viper.IsSet("gtts.slow") {
		cfg.GTTS.Slow = viper.GetBool("gtts.slow")
	}
	if viper.IsSet("mock.words_per_minute") {
		cfg.Mock.WordsPerMinute = viper.GetInt("mock.words_per_minute")
	}

	if engineName != "" {
		cfg.Engine = engineName
	}
	if voice != "" {
		cfg.OpenAI.Voice = voice
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// resolveInput picks the text source: --text, --clipboard, piped
// stdin, or the source argument.
func resolveInput(args []string) (input.Text, error) {
	if textFlag != "" {
		return input.FromString(textFlag)
	}
	if useClipboard {
		return input.FromClipboard()
	}

	if piped, err := input.StdinIsPipe(); err != nil {
		return input.Text{}, err
	} else if piped && len(args) == 0 {
		return input.FromStdin()
	}

	if len(args) == 1 {
		return input.FromArg(args[0])
	}
	return input.Text{}, errors.New("no input: pass a file, pipe text, or use --text / --clipboard")
}

func execute(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var engine tts.Engine
	if !noAudio {
		cfg, err := engineConfig()
		if err != nil {
			return err
		}
		engine, err = engines.New(cfg)
		if err != nil {
			return err
		}
		if !engine.Available() {
			return fmt.Errorf("engine %s is not available: %w", engine.Name(), tts.ErrEngineNotAvailable)
		}
		if voice == "" {
			voice = cfg.Voice()
		}
	}

	writer, err := convert.NewWriter(outputDir)
	if err != nil {
		return err
	}
	pipeline := convert.New(engine, writer)

	run := func(ctx context.Context) error {
		text, err := resolveInput(args)
		if err != nil {
			return err
		}

		req := convert.Request{
			Text:     text,
			Title:    title,
			Voice:    voice,
			BaseName: baseName,
			NoAudio:  noAudio,
			Compress: compress,
			Options:  segmentOptions(),
		}

		outcome, err := pipeline.Convert(ctx, req)
		if err != nil {
			return err
		}

		reportOutcome(outcome)
		if preview {
			return renderPreview(outcome.Transcript)
		}
		return nil
	}

	if err := run(ctx); err != nil {
		return err
	}

	if watchMode {
		err := convert.Watch(ctx, args[0], run)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return nil
}

// reportOutcome prints what was written.
func reportOutcome(outcome *convert.Outcome) {
	fmt.Printf("%s %d segments, %s\n",
		keyword("Converted:"),
		outcome.Metadata.SegmentCount,
		clockLabel(outcome.Metadata.Duration),
	)
	for _, path := range outcome.Artifacts {
		fmt.Println("  " + path)
	}
}

// clockLabel formats a duration in seconds for terminal output.
func clockLabel(seconds float64) string {
	if seconds <= 0 {
		return "timing unavailable"
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// renderPreview renders the transcript markdown to the terminal.
func renderPreview(doc []byte) error {
	width := 80
	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	if isTerminal {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
			if width > 100 {
				width = 100
			}
		}
	}

	opts := []glamour.TermRendererOption{
		glamour.WithColorProfile(lipgloss.ColorProfile()),
		glamour.WithWordWrap(width),
	}
	if isTerminal {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return fmt.Errorf("unable to create renderer: %w", err)
	}

	out, err := r.Render(string(doc))
	if err != nil {
		return fmt.Errorf("unable to render transcript: %w", err)
	}
	fmt.Print(out)
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().StringVarP(&textFlag, "text", "t", "", "convert the given text directly")
	rootCmd.Flags().BoolVarP(&useClipboard, "clipboard", "c", false, "convert the clipboard contents")
	rootCmd.Flags().StringVarP(&engineName, "engine", "e", "", "TTS engine (openai/gtts/mock)")
	rootCmd.Flags().StringVar(&voice, "voice", "", "voice for the selected engine")
	rootCmd.Flags().StringVarP(&outputDir, "out", "o", ".", "output directory for artifacts")
	rootCmd.Flags().StringVar(&baseName, "name", "", "artifact basename (default derived from the text)")
	rootCmd.Flags().StringVar(&title, "title", "", "document title for transcript and viewer")
	rootCmd.Flags().BoolVar(&noAudio, "no-audio", false, "skip synthesis and estimate timings instead")
	rootCmd.Flags().BoolVarP(&preview, "preview", "p", false, "render the transcript in the terminal")
	rootCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "reconvert when the source file changes (estimate-only unless an engine is set)")
	rootCmd.Flags().BoolVar(&compress, "compress", false, "also write the viewer payload gzipped")
	rootCmd.Flags().IntVar(&maxSegment, "max-segment", 0, "maximum segment length in characters")
	rootCmd.Flags().IntVar(&minSegment, "min-segment", 0, "minimum segment length in characters")
	rootCmd.Flags().Float64Var(&wpm, "wpm", 0, "words-per-minute rate for estimated timings")

	_ = viper.BindPFlag("engine", rootCmd.Flags().Lookup("engine"))
	_ = viper.BindPFlag("voice", rootCmd.Flags().Lookup("voice"))
	_ = viper.BindPFlag("output", rootCmd.Flags().Lookup("out"))
	_ = viper.BindPFlag("wpm", rootCmd.Flags().Lookup("wpm"))
	_ = viper.BindPFlag("max_segment", rootCmd.Flags().Lookup("max-segment"))
	_ = viper.BindPFlag("min_segment", rootCmd.Flags().Lookup("min-segment"))
	_ = viper.BindPFlag("compress", rootCmd.Flags().Lookup("compress"))

	viper.SetDefault("engine", "openai")
	viper.SetDefault("output", ".")
	viper.SetDefault("wpm", 150)
	viper.SetDefault("max_segment", 300)
	viper.SetDefault("min_segment", 20)
	viper.SetDefault("compress", false)

	rootCmd.AddCommand(configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "vocalize")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "vocalize")}, dirs...)
	}

	if c := os.Getenv("VOCALIZE_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("vocalize")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("vocalize")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("openai.api_key", "OPENAI_API_KEY")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "vocalize.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
