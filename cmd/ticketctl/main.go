// ticketctl resolves QDN tickets from the terminal and seeds local document
// mirrors.
//
// Usage:
//
//	ticketctl resolve --name NAME --identifier ID [--source http|postgres|sqlite]
//	ticketctl import --sqlite PATH --name NAME --identifier ID --file FILE
//	ticketctl hash-password [--cost N] < password
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/qdn-tickets/ticket-service/internal/api/dto"
	"github.com/qdn-tickets/ticket-service/internal/auth"
	"github.com/qdn-tickets/ticket-service/internal/config"
	"github.com/qdn-tickets/ticket-service/internal/observability"
	"github.com/qdn-tickets/ticket-service/internal/qdn"
	"github.com/qdn-tickets/ticket-service/internal/repository"
	"github.com/qdn-tickets/ticket-service/internal/service"
	"github.com/qdn-tickets/ticket-service/internal/store"
)

const (
	exitFailure  = 1
	exitNotFound = 2
)

// exitError carries a process exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return e.code }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		os.Exit(exitFailure)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: ticketctl resolve|import|hash-password [flags]")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch args[0] {
	case "resolve":
		return runResolve(ctx, cfg, args[1:], stdout)
	case "import":
		return runImport(ctx, cfg, args[1:], stdin, stdout)
	case "hash-password":
		return runHashPassword(cfg, args[1:], stdin, stdout)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runResolve(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	var name, identifier string
	var verbose bool

	flagSet := pflag.NewFlagSet("resolve", pflag.ContinueOnError)
	flagSet.StringVar(&name, "name", "", "QDN name the ticket was published under")
	flagSet.StringVar(&identifier, "identifier", "", "QDN identifier of the ticket")
	flagSet.StringVar(&cfg.QDN.Source, "source", cfg.QDN.Source, "document store: http, postgres or sqlite")
	flagSet.StringVar(&cfg.QDN.BaseURL, "base-url", cfg.QDN.BaseURL, "QDN node URL for the http source")
	flagSet.StringVar(&cfg.SQLite.Path, "sqlite", cfg.SQLite.Path, "mirror path for the sqlite source")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log fetches to stderr")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if name == "" || identifier == "" {
		return errors.New("--name and --identifier are required")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cliLogger(cfg, verbose)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	backend, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	resolver := service.NewTicketResolver(service.TicketResolverDependencies{
		Store:  backend.Store,
		Logger: logger,
	})
	ticket, err := resolver.Resolve(ctx, name, identifier)
	if errors.Is(err, service.ErrTicketNotFound) {
		return &exitError{code: exitNotFound, err: fmt.Errorf("no ticket at %s/%s", name, identifier)}
	}
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(dto.NewTicketResponse(ticket))
}

func runImport(ctx context.Context, cfg *config.Config, args []string, stdin io.Reader, stdout io.Writer) error {
	var name, identifier, file string
	var created, updated int64

	flagSet := pflag.NewFlagSet("import", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.SQLite.Path, "sqlite", cfg.SQLite.Path, "mirror database path")
	flagSet.StringVar(&name, "name", "", "QDN name to store the document under")
	flagSet.StringVar(&identifier, "identifier", "", "QDN identifier to store the document under")
	flagSet.StringVar(&file, "file", "", "JSON document to import, - for stdin")
	flagSet.Int64Var(&created, "created", 0, "resource creation time in ms since epoch")
	flagSet.Int64Var(&updated, "updated", 0, "resource update time in ms since epoch")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if name == "" || identifier == "" || file == "" {
		return errors.New("--name, --identifier and --file are required")
	}
	if cfg.SQLite.Path == "" {
		return errors.New("--sqlite is required")
	}

	body, err := readInput(file, stdin)
	if err != nil {
		return err
	}

	cfg.QDN.Source = config.SourceSQLite
	logger, err := cliLogger(cfg, false)
	if err != nil {
		return err
	}
	backend, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	doc := repository.StoredDocument{
		Ref:     qdn.DocumentRef(name, identifier),
		Body:    body,
		Created: optionalTimestamp(created),
		Updated: optionalTimestamp(updated),
	}
	if err := backend.Mirror.Put(ctx, doc); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "imported %s into %s\n", doc.Ref, cfg.SQLite.Path)
	return nil
}

func runHashPassword(cfg *config.Config, args []string, stdin io.Reader, stdout io.Writer) error {
	cost := cfg.Auth.BcryptCost
	flagSet := pflag.NewFlagSet("hash-password", pflag.ContinueOnError)
	flagSet.IntVar(&cost, "cost", cost, "bcrypt cost")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return errors.New("empty password on stdin")
	}

	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, hash)
	return nil
}

func cliLogger(cfg *config.Config, verbose bool) (*zap.Logger, error) {
	loggerCfg := cfg.Logger
	loggerCfg.Output = "stderr"
	if verbose {
		loggerCfg.Level = "debug"
	} else {
		loggerCfg.Level = "warn"
	}
	return observability.NewLogger(loggerCfg)
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		if stdin == nil {
			return nil, errors.New("no stdin to read from")
		}
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func optionalTimestamp(ms int64) *int64 {
	if ms <= 0 {
		return nil
	}
	return &ms
}
