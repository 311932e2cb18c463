package cmd

import (
	"fmt"
	"io"
	"os"
	"sync"

	"moth/internal/config"
	"moth/internal/configservice"
	"moth/internal/hooks"
	"moth/internal/issuestorage/filesystem"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ExitError ends the process with Code without printing anything.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// AppProvider lazily initializes the App on first use.
type AppProvider struct {
	once sync.Once
	app  *App
	err  error

	// Config captured from flags before Execute()
	MothPath   string
	JSONOutput bool
	Verbose    bool
	In         io.Reader
	Out        io.Writer
	Err        io.Writer
	Logger     *zap.Logger
}

// Get returns the App, initializing it on first call.
func (p *AppProvider) Get() (*App, error) {
	p.once.Do(func() {
		if p.app == nil {
			p.app, p.err = p.init()
		}
	})
	return p.app, p.err
}

// NewTestProvider creates a provider pre-initialized with the given App.
// Used for testing commands with a test App.
func NewTestProvider(app *App) *AppProvider {
	return &AppProvider{
		app:        app,
		JSONOutput: app.JSON,
		In:         app.In,
		Out:        app.Out,
		Err:        app.Err,
		Logger:     app.Logger,
	}
}

func (p *AppProvider) init() (*App, error) {
	paths, err := p.resolvePaths()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(paths.ConfigFile)
	if err != nil {
		return nil, err
	}

	logger := p.logger()
	store := filesystem.New(paths.ConfigDir, cfg.StatusDefs(),
		filesystem.WithIDLength(cfg.IDLength),
		filesystem.WithAutoCompact(cfg.Priority.AutoCompact),
		filesystem.WithLogger(logger),
	)

	logger.Debug("resolved project",
		zap.String("root", paths.ProjectRoot),
		zap.Strings("statuses", cfg.StatusNames()))

	return &App{
		Store:  store,
		Config: cfg,
		Paths:  paths,
		Hooks:  hooks.NewRunner(paths.HooksDir(), p.out(), p.errOut(), logger),
		Logger: logger,
		In:     p.in(),
		Out:    p.out(),
		Err:    p.errOut(),
		JSON:   p.JSONOutput,
	}, nil
}

// resolvePaths locates the project: --path first, then MOTH_DIR, then a
// walk up from the working directory.
func (p *AppProvider) resolvePaths() (config.Paths, error) {
	if p.MothPath != "" {
		dir, err := configservice.FindRoot(p.MothPath)
		if err != nil {
			return config.Paths{}, err
		}
		return config.PathsFor(dir), nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return config.Paths{}, fmt.Errorf("getting current directory: %w", err)
	}
	return configservice.ResolvePaths(cwd)
}

func (p *AppProvider) in() io.Reader {
	if p.In == nil {
		return os.Stdin
	}
	return p.In
}

func (p *AppProvider) out() io.Writer {
	if p.Out == nil {
		return os.Stdout
	}
	return p.Out
}

func (p *AppProvider) errOut() io.Writer {
	if p.Err == nil {
		return os.Stderr
	}
	return p.Err
}

func (p *AppProvider) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

// newLogger builds the diagnostic logger. Only warnings reach the terminal
// unless --verbose or MOTH_DEBUG is set.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose || config.EnvBool(config.EnvDebug) {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core)
}

// Execute runs the CLI.
func Execute() error {
	provider := &AppProvider{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
	}

	rootCmd := newRootCmd(provider)
	return rootCmd.Execute()
}

// newRootCmd creates the root command with all subcommands.
func newRootCmd(provider *AppProvider) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "moth",
		Short: "A simple file-based issue tracker",
		Long: `Moth keeps issues as markdown files inside your repository.

Each issue is one file under .moth/<status>/ whose name carries its ID,
severity, title and optional priority rank, so 'ls' and 'git log' show the
state of the project without any tooling.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if provider.Logger == nil {
				provider.Logger = newLogger(provider.errOut(), provider.Verbose)
			}
			if !provider.JSONOutput {
				provider.JSONOutput = config.EnvBool(config.EnvJSON)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if provider.Logger != nil {
				_ = provider.Logger.Sync()
			}
		},
	}

	// Global flags - these populate the provider config
	rootCmd.PersistentFlags().BoolVar(&provider.JSONOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&provider.MothPath, "path", "", "Path to project or .moth directory (default: search from cwd)")
	rootCmd.PersistentFlags().BoolVarP(&provider.Verbose, "verbose", "v", false, "Log debug diagnostics to stderr")

	// Register all commands
	rootCmd.AddCommand(newInitCmd(provider))
	rootCmd.AddCommand(newCreateCmd(provider))
	rootCmd.AddCommand(newListCmd(provider))
	rootCmd.AddCommand(newShowCmd(provider))
	rootCmd.AddCommand(newStartCmd(provider))
	rootCmd.AddCommand(newDoneCmd(provider))
	rootCmd.AddCommand(newMoveCmd(provider))
	rootCmd.AddCommand(newEditCmd(provider))
	rootCmd.AddCommand(newDeleteCmd(provider))
	rootCmd.AddCommand(newSeverityCmd(provider))
	rootCmd.AddCommand(newPriorityCmd(provider))
	rootCmd.AddCommand(newCompactCmd(provider))
	rootCmd.AddCommand(newDoctorCmd(provider))
	rootCmd.AddCommand(newHookCmd(provider))
	rootCmd.AddCommand(newPrefixCmd(provider))
	rootCmd.AddCommand(newReportCmd(provider))
	rootCmd.AddCommand(newGuideCmd(provider))
	rootCmd.AddCommand(newVersionCmd(provider))

	return rootCmd
}
