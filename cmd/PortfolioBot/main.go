package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mdp/qrterminal/v3"

	"github.com/BTreeMap/PortfolioBot/internal/flow"
	"github.com/BTreeMap/PortfolioBot/internal/knowledge"
	"github.com/BTreeMap/PortfolioBot/internal/metrics"
	"github.com/BTreeMap/PortfolioBot/internal/resolver"
	"github.com/BTreeMap/PortfolioBot/internal/session"
	"github.com/BTreeMap/PortfolioBot/internal/util"
)

// Default configuration constants
const (
	// DefaultLogLevel keeps debug chatter out of the conversation.
	DefaultLogLevel = "info"
	// DefaultBotName is shown in front of bot messages when the profile has no name.
	DefaultBotName = "assistant"
)

func main() {
	// Load environment configuration
	config := loadEnvironmentConfig()

	// Parse command line flags
	flags, err := parseCommandLineFlags(config, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Initialize structured logger
	initializeLogger(os.Stderr, flags.logLevel)

	if flags.dumpKnowledge {
		if err := dumpKnowledge(os.Stdout, flags.knowledgeFile); err != nil {
			slog.Error("Failed to dump knowledge table", "error", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting PortfolioBot", "knowledge_file", flags.knowledgeFile, "reply_delay", flags.replyDelay, "metrics_file", flags.metricsFile)
	if err := run(ctx, os.Stdin, os.Stdout, flags); err != nil {
		slog.Error("PortfolioBot failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("PortfolioBot exited successfully")
}

// Config holds environment configuration
type Config struct {
	KnowledgeFile string
	ReplyDelay    time.Duration
	MetricsFile   string
	LogLevel      string
	ShowQR        bool
}

// Flags holds command line flag values
type Flags struct {
	knowledgeFile string
	replyDelay    time.Duration
	metricsFile   string
	logLevel      string
	showQR        bool
	dumpKnowledge bool
}

// initializeLogger sets up structured logging at the requested level
func initializeLogger(w io.Writer, level string) {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLogLevel(level)}))
	slog.SetDefault(logger)
}

// parseLogLevel maps debug/info/warn/error to a slog level, defaulting to info
func parseLogLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		KnowledgeFile: os.Getenv("PORTFOLIOBOT_KNOWLEDGE_FILE"),
		ReplyDelay:    util.ParseDurationEnv("PORTFOLIOBOT_REPLY_DELAY", session.DefaultReplyDelay),
		MetricsFile:   os.Getenv("PORTFOLIOBOT_METRICS_FILE"),
		LogLevel:      os.Getenv("PORTFOLIOBOT_LOG_LEVEL"),
		ShowQR:        util.ParseBoolEnv("PORTFOLIOBOT_SHOW_QR", false),
	}

	if config.LogLevel == "" {
		config.LogLevel = DefaultLogLevel
	}

	slog.Debug("environment variables loaded",
		"PORTFOLIOBOT_KNOWLEDGE_FILE", config.KnowledgeFile,
		"PORTFOLIOBOT_REPLY_DELAY", config.ReplyDelay,
		"PORTFOLIOBOT_METRICS_FILE", config.MetricsFile,
		"PORTFOLIOBOT_LOG_LEVEL", config.LogLevel,
		"PORTFOLIOBOT_SHOW_QR", config.ShowQR)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config, args []string) (Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("PortfolioBot", flag.ContinueOnError)
	fs.StringVar(&flags.knowledgeFile, "knowledge", config.KnowledgeFile, "YAML knowledge table to answer from (overrides $PORTFOLIOBOT_KNOWLEDGE_FILE; built-in table when empty)")
	fs.DurationVar(&flags.replyDelay, "reply-delay", config.ReplyDelay, "simulated typing delay before each reply (overrides $PORTFOLIOBOT_REPLY_DELAY)")
	fs.StringVar(&flags.metricsFile, "metrics-file", config.MetricsFile, "write Prometheus textfile metrics here on exit (overrides $PORTFOLIOBOT_METRICS_FILE)")
	fs.StringVar(&flags.logLevel, "log-level", config.LogLevel, "log level: debug, info, warn or error (overrides $PORTFOLIOBOT_LOG_LEVEL)")
	fs.BoolVar(&flags.showQR, "qr", config.ShowQR, "print the WhatsApp contact QR code on start (overrides $PORTFOLIOBOT_SHOW_QR)")
	fs.BoolVar(&flags.dumpKnowledge, "dump-knowledge", false, "print the knowledge table as YAML and exit")

	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}
	if flags.replyDelay < 0 {
		return Flags{}, fmt.Errorf("reply delay must not be negative: %v", flags.replyDelay)
	}

	slog.Debug("flags parsed",
		"knowledge", flags.knowledgeFile,
		"replyDelay", flags.replyDelay,
		"metricsFile", flags.metricsFile,
		"logLevel", flags.logLevel,
		"showQR", flags.showQR,
		"dumpKnowledge", flags.dumpKnowledge)

	return flags, nil
}

// loadKnowledge returns the table from path, or the built-in table when path is empty
func loadKnowledge(path string) (*knowledge.Table, error) {
	if path == "" {
		slog.Debug("No knowledge file configured, using built-in table")
		return knowledge.Default(), nil
	}
	return knowledge.LoadFile(path)
}

// dumpKnowledge writes the configured table as YAML, a starting point for localized tables
func dumpKnowledge(w io.Writer, path string) error {
	table, err := loadKnowledge(path)
	if err != nil {
		return err
	}
	data, err := knowledge.Marshal(table)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// run opens one chat session and drives it from in until EOF, /quit or ctx is done
func run(ctx context.Context, in io.Reader, out io.Writer, flags Flags) error {
	table, err := loadKnowledge(flags.knowledgeFile)
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder()
	timer := flow.NewSimpleTimer()
	defer timer.Stop()
	sess := session.New(
		resolver.New(table),
		session.WithTimer(timer),
		session.WithReplyDelay(flags.replyDelay),
		session.WithRecorder(recorder),
		session.WithWelcome(table.Welcome),
	)

	botName := DefaultBotName
	if table.Profile.Name != "" {
		botName = table.Profile.Name
	}
	view := newTerminalView(out, botName)
	view.renderInitial(sess.Transcript())
	sess.Subscribe(view)
	if flags.showQR {
		showContactQR(view, table)
	}
	showQuickActions(view, table, sess)

	chatErr := chat(ctx, in, view, table, sess)

	sess.Close()
	if pending := timer.ListActive(); len(pending) > 0 {
		slog.Warn("Reply timers still pending after close", "count", len(pending))
	}
	if flags.metricsFile != "" {
		if err := recorder.WriteTextfile(flags.metricsFile); err != nil {
			return errors.Join(chatErr, err)
		}
	}
	return chatErr
}

// chat reads commands line by line. Input is read on its own goroutine so an
// interrupt is not stuck behind a blocking read.
func chat(ctx context.Context, in io.Reader, view *terminalView, table *knowledge.Table, sess *session.Session) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
		close(lines)
	}()

	for {
		var line string
		select {
		case <-ctx.Done():
			slog.Info("Chat interrupted")
			return nil
		case l, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				return nil
			}
			line = l
		}

		if quit := handleLine(view, table, sess, line); quit {
			view.printf("Bye!\n")
			return nil
		}
		if !waitForReply(ctx, view) {
			return nil
		}
	}
}

// handleLine applies one line of input and reports whether the user asked to quit
func handleLine(view *terminalView, table *knowledge.Table, sess *session.Session, line string) bool {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		sess.SubmitPending()
	case trimmed == "/quit" || trimmed == "/exit":
		return true
	case trimmed == "/qr":
		showContactQR(view, table)
	case trimmed == "/actions":
		listQuickActions(view, table)
	case strings.HasPrefix(trimmed, "/"):
		action, ok := table.QuickAction(strings.TrimPrefix(trimmed, "/"))
		if !ok {
			view.printf("Unknown command %s. Try /actions, /qr or /quit.\n", trimmed)
			return false
		}
		sess.QuickAction(action.Query)
		view.printf("> %s (press Enter to send)\n", sess.PendingInput())
	default:
		sess.Submit(line)
	}
	return false
}

// waitForReply blocks until the view has rendered the pending reply, so the
// next prompt never interleaves with it. It returns false if ctx ended first.
func waitForReply(ctx context.Context, view *terminalView) bool {
	for view.isComposing() {
		select {
		case <-view.idle:
		case <-ctx.Done():
			return false
		}
	}
	return true
}

func showQuickActions(view *terminalView, table *knowledge.Table, sess *session.Session) {
	if !sess.QuickActionsVisible() || len(table.QuickActions) == 0 {
		return
	}
	labels := make([]string, 0, len(table.QuickActions))
	for _, action := range table.QuickActions {
		labels = append(labels, "/"+strings.ToLower(action.Label))
	}
	view.printf("Quick actions: %s\n", strings.Join(labels, "  "))
}

func listQuickActions(view *terminalView, table *knowledge.Table) {
	if len(table.QuickActions) == 0 {
		view.printf("No quick actions configured.\n")
		return
	}
	for _, action := range table.QuickActions {
		view.printf("/%s  %s\n", strings.ToLower(action.Label), action.Query)
	}
}

func showContactQR(view *terminalView, table *knowledge.Table) {
	link := table.Profile.WhatsAppLink
	if link == "" {
		view.printf("No WhatsApp link configured.\n")
		return
	}
	view.printf("Scan to chat on WhatsApp (%s):\n", link)
	qrterminal.GenerateHalfBlock(link, qrterminal.L, view.writer())
}
