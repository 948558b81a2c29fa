package main

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/sysidle/sysidle/pkg/config"
	flag "github.com/spf13/pflag"
)

func main() {
	// Separate our flags from the wrapped command's arguments
	ourArgs, childArgs := splitArgs(os.Args[1:])

	var (
		configPath string
		backend    string
		format     string
		watchMode  bool
		interval   time.Duration
		threshold  time.Duration
		onIdle     string
		onResume   string
		wrapMode   bool
		doctorMode bool
		help       bool
	)

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&backend, "backend", "", "Backend selection: auto or fallback")
	flag.StringVar(&format, "format", "", "Output format: seconds or duration")
	flag.BoolVar(&watchMode, "watch", false, "Poll and display idle time until interrupted")
	flag.DurationVar(&interval, "interval", 0, "Polling interval for watch mode")
	flag.DurationVar(&threshold, "threshold", 0, "Idle threshold for transition commands (implies --watch)")
	flag.StringVar(&onIdle, "on-idle", "", "Command to run when idle time crosses the threshold (implies --watch)")
	flag.StringVar(&onResume, "on-resume", "", "Command to run when input returns (implies --watch)")
	flag.BoolVar(&wrapMode, "wrap", false, "Run COMMAND under a PTY and track its input as activity")
	flag.BoolVar(&doctorMode, "doctor", false, "Print an environment report and exit")
	flag.BoolVar(&help, "help", false, "Show help message")

	flag.CommandLine.Parse(ourArgs)

	if help {
		printUsage()
		os.Exit(0)
	}

	// The override must be in place before Load resolves the path
	if configPath != "" {
		if err := os.Setenv("SYSIDLE_CONFIG", configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error setting config path: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Flags override file and environment settings
	if backend != "" {
		cfg.Backend = backend
	}
	if format != "" {
		cfg.Format = format
	}
	if interval > 0 {
		cfg.Interval = interval
	}
	if threshold > 0 {
		cfg.Threshold = threshold
	}
	if onIdle != "" {
		cfg.OnIdle = onIdle
	}
	if onResume != "" {
		cfg.OnResume = onResume
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	deps, err := NewDependencies(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	app := NewApplication(deps)

	if os.Getenv("SYSIDLE_DEBUG") == "true" {
		fmt.Fprintf(os.Stderr, "sysidle: config: backend=%s format=%s interval=%s threshold=%s\n",
			cfg.Backend, cfg.Format, cfg.Interval, cfg.Threshold)
	}

	switch {
	case doctorMode:
		app.Doctor(os.Stdout)
	case wrapMode:
		runWrap(app, childArgs)
	case watchMode || threshold > 0 || onIdle != "" || onResume != "":
		runWatch(app)
	default:
		if err := app.QueryOnce(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "sysidle: %v\n", err)
			os.Exit(1)
		}
	}
}

// splitArgs separates sysidle's own arguments from the wrapped
// command. Everything after --wrap, minus an optional -- separator,
// belongs to the child.
func splitArgs(args []string) (ourArgs, childArgs []string) {
	ourArgs = []string{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--wrap" || arg == "-wrap" {
			ourArgs = append(ourArgs, "--wrap")
			rest := args[i+1:]
			if len(rest) > 0 && rest[0] == "--" {
				rest = rest[1:]
			}
			childArgs = rest
			return ourArgs, childArgs
		}
		ourArgs = append(ourArgs, arg)
	}
	return ourArgs, nil
}

// runWatch polls until interrupted.
func runWatch(app *Application) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		app.deps.Close()
	}()

	if err := app.Watch(os.Stdout, isatty(os.Stdout.Fd())); err != nil {
		fmt.Fprintf(os.Stderr, "sysidle: %v\n", err)
		os.Exit(1)
	}
}

// runWrap runs the wrapped command and exits with its code.
func runWrap(app *Application, childArgs []string) {
	if len(childArgs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: --wrap requires a command to run")
		os.Exit(1)
	}

	// Restore the terminal before propagating any panic
	defer func() {
		if r := recover(); r != nil {
			_ = app.Stop()
			panic(r)
		}
	}()

	if err := app.Wrap(childArgs[0], childArgs[1:]); err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			fmt.Fprintf(os.Stderr, "Error running %s: %v\n", childArgs[0], err)
			os.Exit(1)
		}
	}

	// Exit with the same code as the wrapped process
	os.Exit(app.ExitCode())
}

func printUsage() {
	fmt.Println("sysidle - report how long the machine has been free of user input")
	fmt.Println()
	fmt.Println("Usage: sysidle [OPTIONS]")
	fmt.Println("       sysidle [OPTIONS] --wrap [--] COMMAND [ARGS...]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("With no options, prints the current idle time once.")
	fmt.Println("on-idle and on-resume commands run in watch and wrap modes.")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  SYSIDLE_BACKEND    Backend selection: auto or fallback")
	fmt.Println("  SYSIDLE_FORMAT     Output format: seconds or duration")
	fmt.Println("  SYSIDLE_INTERVAL   Watch polling interval (default: 2s)")
	fmt.Println("  SYSIDLE_THRESHOLD  Idle threshold (default: 2m)")
	fmt.Println("  SYSIDLE_ON_IDLE    Command to run when the threshold is crossed")
	fmt.Println("  SYSIDLE_ON_RESUME  Command to run when input returns")
	fmt.Println("  SYSIDLE_CONFIG     Path to config file")
	fmt.Println("  SYSIDLE_DEBUG      Verbose diagnostics when set to true")
	fmt.Println()
	fmt.Println("Configuration file: ~/.config/sysidle/config.yaml")
}
