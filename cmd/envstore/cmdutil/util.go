// Package cmdutil holds the state and helpers shared by envstore commands.
package cmdutil

import (
	"context"
	"fmt"
	"io"
	"os"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/term"

	"github.com/marmos91/envstore/internal/cli/output"
	"github.com/marmos91/envstore/internal/cli/prompt"
	"github.com/marmos91/envstore/internal/logger"
	"github.com/marmos91/envstore/internal/telemetry"
	"github.com/marmos91/envstore/pkg/bootstrap"
	"github.com/marmos91/envstore/pkg/config"
	"github.com/marmos91/envstore/pkg/metrics"
	_ "github.com/marmos91/envstore/pkg/metrics/prometheus"
	"github.com/marmos91/envstore/pkg/store"
	"github.com/marmos91/envstore/pkg/store/codec"
)

// GlobalFlags holds the persistent flags of the root command.
type GlobalFlags struct {
	ConfigFile string
	Output     string
	LogLevel   string
	NoColor    bool
}

// Flags is populated by the root command before any subcommand runs.
var Flags = &GlobalFlags{}

// LoadConfig loads the configuration selected by --config and applies the
// --log-level override.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.MustLoad(Flags.ConfigFile)
	if err != nil {
		return nil, err
	}
	if Flags.LogLevel != "" {
		if _, ok := logger.ParseLevel(Flags.LogLevel); !ok {
			return nil, fmt.Errorf("invalid log level: %q (valid: DEBUG, INFO, WARN, ERROR)", Flags.LogLevel)
		}
		cfg.Logging.Level = Flags.LogLevel
	}
	return cfg, nil
}

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// Session is an open store together with the instrumentation configured for
// it. Close it when the command is done.
type Session struct {
	Config *config.Config
	Store  *store.GORMStore

	provider *sdktrace.TracerProvider
}

// OpenSession loads the configuration, sets up logging, metrics and tracing,
// and opens the store.
func OpenSession(ctx context.Context) (*Session, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return OpenSessionWithConfig(ctx, cfg)
}

// OpenSessionWithConfig is OpenSession for an already loaded configuration.
func OpenSessionWithConfig(ctx context.Context, cfg *config.Config) (*Session, error) {
	if err := InitLogger(cfg); err != nil {
		return nil, err
	}

	sess := &Session{Config: cfg}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}
	if cfg.Telemetry.Enabled {
		sess.provider = telemetry.NewProvider(cfg.Telemetry.SampleRate)
		telemetry.Init(sess.provider)
	}

	s, err := store.New(&cfg.Database, store.WithMetrics(metrics.NewStoreMetrics()))
	if err != nil {
		sess.shutdownTelemetry(ctx)
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	sess.Store = s

	logger.DebugCtx(ctx, "store opened",
		logger.KeyBackend, string(cfg.Database.Type),
		"metrics", cfg.Metrics.Enabled,
		"telemetry", cfg.Telemetry.Enabled)
	return sess, nil
}

// Close releases the store, writes the metrics textfile when configured and
// flushes tracing.
func (s *Session) Close(ctx context.Context) error {
	var firstErr error
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			firstErr = fmt.Errorf("failed to close store: %w", err)
		}
	}

	if s.Config.Metrics.Enabled && s.Config.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(s.Config.Metrics.Textfile); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	s.shutdownTelemetry(ctx)
	return firstErr
}

func (s *Session) shutdownTelemetry(ctx context.Context) {
	if s.provider == nil {
		return
	}
	if err := s.provider.Shutdown(ctx); err != nil {
		logger.Warn("failed to shut down tracer provider", logger.Err(err))
	}
	telemetry.Init(nil)
	s.provider = nil
}

// WithStore opens a session, runs fn against its store and closes it.
func WithStore(ctx context.Context, fn func(store.Store) error) (err error) {
	sess, err := OpenSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(sess.Store)
}

// GetOutputFormatParsed returns the parsed --output format.
func GetOutputFormatParsed() (output.Format, error) {
	return output.ParseFormat(Flags.Output)
}

// NewPrinter returns a printer for w honoring --output and --no-color.
func NewPrinter(w io.Writer) (*output.Printer, error) {
	format, err := GetOutputFormatParsed()
	if err != nil {
		return nil, err
	}
	return output.NewPrinter(w, format, useColor(w)), nil
}

func useColor(w io.Writer) bool {
	if Flags.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// PrintOutput prints data in the selected format. In table mode an empty
// result prints emptyMsg instead of an empty table.
func PrintOutput(w io.Writer, data any, isEmpty bool, emptyMsg string, renderer output.TableRenderer) error {
	printer, err := NewPrinter(w)
	if err != nil {
		return err
	}
	if printer.Format() == output.FormatTable {
		if isEmpty {
			printer.Println(emptyMsg)
			return nil
		}
		return printer.Print(renderer)
	}
	return printer.Print(data)
}

// PrintSuccess prints a status line in table mode only.
func PrintSuccess(w io.Writer, format string, args ...any) error {
	printer, err := NewPrinter(w)
	if err != nil {
		return err
	}
	printer.Success(fmt.Sprintf(format, args...))
	return nil
}

// RunDeleteWithConfirmation asks before running fn unless force is set.
func RunDeleteWithConfirmation(w io.Writer, kind, name string, force bool, fn func() error) error {
	confirmed, err := prompt.ConfirmWithForce(fmt.Sprintf("Delete %s '%s'", kind, name), force)
	if err != nil {
		return err
	}
	if !confirmed {
		_, _ = fmt.Fprintln(w, "Aborted.")
		return nil
	}
	if err := fn(); err != nil {
		return err
	}
	return PrintSuccess(w, "%s '%s' deleted", kind, name)
}

// ParseValue interprets a value given on the command line. Text that is
// valid JSON keeps its type (8080 is an integer, [1,2] a list); anything else
// is a string. raw forces a string.
func ParseValue(arg string, raw bool) any {
	if raw {
		return arg
	}
	return codec.Decode(arg).Value
}

// EmptyOr returns s, or fallback when s is empty.
func EmptyOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// BoolToEnabled renders a module status.
func BoolToEnabled(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

// ImportResult renders a bootstrap result as a table, one row per name.
type ImportResult bootstrap.Result

// Headers implements TableRenderer.
func (r ImportResult) Headers() []string {
	return []string{"NAME", "RESULT"}
}

// Rows implements TableRenderer.
func (r ImportResult) Rows() [][]string {
	rows := make([][]string, 0, len(r.Imported)+len(r.Skipped))
	for _, name := range r.Imported {
		rows = append(rows, []string{name, "imported"})
	}
	for _, s := range r.Skipped {
		rows = append(rows, []string{s.Name, "skipped: " + s.Reason})
	}
	return rows
}

// PrintImportResult prints result, or a notice when the source was absent.
func PrintImportResult(w io.Writer, result *bootstrap.Result) error {
	if !result.Found {
		return PrintOutput(w, result, true, fmt.Sprintf("No definitions found at %s.", result.Source), nil)
	}
	isEmpty := len(result.Imported) == 0 && len(result.Skipped) == 0
	return PrintOutput(w, result, isEmpty, fmt.Sprintf("%s defines nothing.", result.Source), ImportResult(*result))
}
