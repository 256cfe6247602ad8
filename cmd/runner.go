package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/muse/internal/services"
	"github.com/desertthunder/muse/internal/shared"
	"github.com/desertthunder/muse/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	interpreter services.Interpreter
	fallback    services.Interpreter
	searchers   []services.Searcher
	resolver    services.LinkResolver
	logger      *log.Logger
	output      io.Writer

	// Test seams: commands fall back to config-driven construction when nil
	engine tasks.RecommendEngine
	db     *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	Interpreter services.Interpreter
	Fallback    services.Interpreter
	Searchers   []services.Searcher
	Resolver    services.LinkResolver
	Logger      *log.Logger
	Output      io.Writer
	Engine      tasks.RecommendEngine
	DB          *sql.DB
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:      opts.Config,
		interpreter: opts.Interpreter,
		fallback:    opts.Fallback,
		searchers:   opts.Searchers,
		resolver:    opts.Resolver,
		logger:      opts.Logger,
		output:      opts.Output,
		engine:      opts.Engine,
		db:          opts.DB,
	}
}

// SetLogger swaps the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, recommendCommand, trendingCommand, sessionsCommand, historyCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openDatabase returns the runner's database, opening one from config when unset.
//
// The returned closer is a no-op for injected databases.
func (r *Runner) openDatabase() (*sql.DB, func(), error) {
	if r.db != nil {
		return r.db, func() {}, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	return db, func() { db.Close() }, nil
}

// newEngine returns the runner's engine, building one from config when unset.
func (r *Runner) newEngine(recorder tasks.HistoryRecorder) tasks.RecommendEngine {
	if r.engine != nil {
		return r.engine
	}

	return tasks.NewMoodEngine(r.interpreter, r.fallback, r.searchers, r.resolver, recorder, tasks.EngineOpts{
		CandidateLimit:  r.config.Recommender.CandidateLimit,
		PopularityFloor: r.config.Recommender.PopularityFloor,
		NumWorkers:      r.config.Recommender.Workers,
		RateLimit:       float64(r.config.Recommender.RateLimit),
		Seed:            r.config.Recommender.Seed,
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
