package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Bahjat/page-palette/internal/analyzer"
	"github.com/Bahjat/page-palette/internal/model"
	"github.com/Bahjat/page-palette/internal/pageinsight"
	"github.com/Bahjat/page-palette/internal/palette"
	"github.com/Bahjat/page-palette/internal/platform/config"
	"github.com/Bahjat/page-palette/internal/platform/logger"
)

var (
	errNoInput       = errors.New("give at least one URL, or --html or --snapshot")
	errMixedInput    = errors.New("--html and --snapshot cannot be combined with URL arguments or each other")
	errAnalysisFault = errors.New("analysis failed")
)

// analyzeOptions holds the analyze command's flags. Zero values defer to
// the loaded configuration.
type analyzeOptions struct {
	htmlFile     string
	snapshotFile string
	location     string
	concurrency  int
	timeout      time.Duration
	allowPrivate bool
	logLevel     string
	pretty       bool
}

func newAnalyzeCommand() *cobra.Command {
	o := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze [url...]",
		Short: "Analyse pages and print their palettes as JSON",
		Long: `Analyze fetches each URL and prints its palette. Several URLs are analysed
concurrently and printed as one batch. Local markup (--html) and browser
render snapshots (--snapshot) are analysed without network access.

Examples:
  palette analyze https://example.com --pretty
  palette analyze https://a.example.com https://b.example.com --concurrency 2
  palette analyze --html page.html --url https://example.com
  palette analyze --snapshot render.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}
	o.addFlags(cmd.Flags())
	return cmd
}

func (o *analyzeOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.htmlFile, "html", "", "Analyse a local HTML file (\"-\" for stdin)")
	fs.StringVar(&o.snapshotFile, "snapshot", "", "Analyse a render snapshot JSON file (\"-\" for stdin)")
	fs.StringVar(&o.location, "url", "", "URL reported for --html input")
	fs.IntVar(&o.concurrency, "concurrency", 0, "Parallel analyses for several URLs (default BATCH_CONCURRENCY)")
	fs.DurationVar(&o.timeout, "timeout", 0, "Fetch timeout per request (default FETCH_TIMEOUT)")
	fs.BoolVar(&o.allowPrivate, "allow-private", false, "Allow fetching private and loopback addresses")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level on stderr (default LOG_LEVEL)")
	fs.BoolVar(&o.pretty, "pretty", false, "Indent the JSON output")
}

func (o *analyzeOptions) validate(args []string) error {
	inputs := 0
	if len(args) > 0 {
		inputs++
	}
	if o.htmlFile != "" {
		inputs++
	}
	if o.snapshotFile != "" {
		inputs++
	}
	switch {
	case inputs == 0:
		return errNoInput
	case inputs > 1:
		return errMixedInput
	}
	return nil
}

// merge fills unset options from cfg.
func (o *analyzeOptions) merge(cfg config.Config) {
	if o.concurrency <= 0 {
		o.concurrency = cfg.BatchConcurrency
	}
	if o.timeout <= 0 {
		o.timeout = cfg.FetchTimeout
	}
	if o.logLevel == "" {
		o.logLevel = cfg.LogLevel
	}
	o.allowPrivate = o.allowPrivate || cfg.AllowPrivateNetworks
}

func (o *analyzeOptions) run(cmd *cobra.Command, args []string) error {
	if err := o.validate(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	o.merge(cfg)

	log := logger.NewWriter(cmd.ErrOrStderr(), o.logLevel)
	sources := pageinsight.DefaultSources(pageinsight.ClientOptions{
		UserAgent:            cfg.UserAgent,
		Timeout:              o.timeout,
		MaxBodyBytes:         cfg.MaxBodyBytes,
		AllowPrivateNetworks: o.allowPrivate,
	})
	svc := analyzer.NewService(pageinsight.NewEngine(sources, palette.NewAnalyzer()), log)
	ctx := cmd.Context()

	switch {
	case o.htmlFile != "":
		markup, err := readInput(cmd, o.htmlFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "mode: %s\n", palette.ModeStatic)
		result, err := svc.AnalyzeHTML(ctx, string(markup), o.location)
		return o.printResult(cmd, result, err)

	case o.snapshotFile != "":
		data, err := readInput(cmd, o.snapshotFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "mode: %s\n", palette.ModeLive)
		result, err := svc.AnalyzeSnapshot(ctx, bytes.NewReader(data))
		return o.printResult(cmd, result, err)

	case len(args) == 1:
		fmt.Fprintf(cmd.ErrOrStderr(), "mode: %s\n", palette.ModeStatic)
		result, err := svc.Analyze(ctx, args[0])
		return o.printResult(cmd, result, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "mode: %s\n", palette.ModeStatic)
	items, err := pageinsight.NewBatchAnalyzer(svc, o.concurrency).AnalyzeAll(ctx, args)
	if err != nil {
		return err
	}
	if err := o.printJSON(cmd.OutOrStdout(), model.BatchResponse{Items: items}); err != nil {
		return err
	}
	for _, item := range items {
		if item.Failure != nil {
			return errAnalysisFault
		}
	}
	return nil
}

// printResult prints the result, or the failure record for err, which is
// then reported as the command's error.
func (o *analyzeOptions) printResult(cmd *cobra.Command, result *model.AnalysisResult, err error) error {
	if err != nil {
		if perr := o.printJSON(cmd.OutOrStdout(), model.FailureFromError(err)); perr != nil {
			return perr
		}
		return fmt.Errorf("%w: %w", errAnalysisFault, err)
	}
	return o.printJSON(cmd.OutOrStdout(), result)
}

func (o *analyzeOptions) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if o.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// readInput reads a file, or stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
