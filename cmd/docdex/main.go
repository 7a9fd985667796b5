package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mfaulds/docdex/internal/builder"
	"github.com/mfaulds/docdex/internal/config"
	"github.com/mfaulds/docdex/internal/dataset"
	"github.com/mfaulds/docdex/internal/engine"
	"github.com/mfaulds/docdex/internal/server"
	"github.com/mfaulds/docdex/internal/tui"
)

func main() {
	query := flag.String("q", "", "one-shot search query")
	doBuild := flag.Bool("build", false, "build the search dataset")
	doWatch := flag.Bool("watch", false, "watch for file changes and rebuild")
	doServe := flag.Bool("serve", false, "serve the search widget over HTTP")
	doFind := flag.Bool("find", false, "interactive search")
	doSetup := flag.Bool("setup", false, "run setup wizard")
	addr := flag.String("addr", ":8080", "listen address (use with -serve)")
	docsDir := flag.String("docs", "", "documentation directory (overrides config)")
	dataPath := flag.String("data", "", "dataset file path (overrides config)")
	baseURL := flag.String("base", "", "site base URL (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *docsDir != "" {
		cfg.DocsDir = *docsDir
	}
	if *dataPath != "" {
		cfg.DataPath = *dataPath
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}

	if *doSetup {
		if err := runSetup(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Setup failed: %v\n", err)
			os.Exit(1)
		}
	}

	switch {
	case *doBuild:
		if err := runBuild(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Build failed: %v\n", err)
			os.Exit(1)
		}

	case *doWatch:
		if err := runWatch(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Watch mode failed: %v\n", err)
			os.Exit(1)
		}

	case *doServe:
		if err := runServe(cfg, *addr); err != nil {
			fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
			os.Exit(1)
		}

	case *query != "":
		if err := runQuery(cfg, *query); err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}

	case *doFind:
		if err := runFind(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}

	default:
		if !*doSetup {
			printUsage()
		}
	}
}

func runSetup(cfg *config.Config) error {
	model := newSetupRunner()
	program := tea.NewProgram(model)

	finalModel, err := program.Run()
	if err != nil {
		return err
	}

	if runner, ok := finalModel.(setupRunner); ok {
		if runner.docsDir != "" {
			cfg.DocsDir = runner.docsDir
			cfg.BaseURL = runner.baseURL
			return cfg.Save()
		}
	}

	return fmt.Errorf("setup cancelled")
}

type setupRunner struct {
	setupModel tui.SetupModel
	docsDir    string
	baseURL    string
}

func newSetupRunner() setupRunner {
	return setupRunner{setupModel: tui.NewSetupModel()}
}

func (m setupRunner) Init() tea.Cmd {
	return tea.Batch(m.setupModel.Init(), tea.EnableBracketedPaste)
}

func (m setupRunner) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tui.SetupSubmitMsg:
		info, err := os.Stat(msg.DocsDir)
		if err != nil || !info.IsDir() {
			newModel, _ := m.setupModel.Update(tui.SetupErrorMsg{Error: "Directory does not exist"})
			if sm, ok := newModel.(tui.SetupModel); ok {
				m.setupModel = sm
			}
			return m, nil
		}

		m.docsDir = msg.DocsDir
		m.baseURL = msg.BaseURL
		return m, tea.Quit

	default:
		newModel, cmd := m.setupModel.Update(msg)
		if sm, ok := newModel.(tui.SetupModel); ok {
			m.setupModel = sm
		}
		return m, cmd
	}
}

func (m setupRunner) View() string {
	return m.setupModel.View()
}

func runBuild(cfg *config.Config) error {
	if cfg.DocsDir == "" {
		return fmt.Errorf("no documentation directory configured, run: docdex -setup")
	}

	b := builder.New(cfg.DocsDir, cfg.Boosts, cfg.NumResults)

	progress := func(p builder.Progress) {
		if p.Total > 0 {
			// Clear line and print progress (truncate long messages)
			msg := p.Message
			if len(msg) > 60 {
				msg = msg[:57] + "..."
			}
			fmt.Printf("\r\033[K[%d/%d] %s", p.Current, p.Total, msg)
		} else if p.Message != "" {
			fmt.Println(p.Message)
		}
	}

	if err := b.BuildFile(cfg.DataPath, progress); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", cfg.DataPath)
	return nil
}

func runWatch(cfg *config.Config) error {
	if cfg.DocsDir == "" {
		return fmt.Errorf("no documentation directory configured, run: docdex -setup")
	}

	b := builder.New(cfg.DocsDir, cfg.Boosts, cfg.NumResults)
	if err := b.BuildFile(cfg.DataPath, nil); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", cfg.DataPath)

	watcher, err := builder.NewWatcher(b, cfg.DataPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nStopping watcher...")
		cancel()
	}()

	return watcher.Start(ctx)
}

func runServe(cfg *config.Config, addr string) error {
	eng, err := engine.New(&dataset.FileSource{Path: cfg.DataPath})
	if err != nil {
		return err
	}
	defer eng.Close() //nolint:errcheck

	srv, err := server.New(eng, cfg.DataPath, cfg.BaseURL)
	if err != nil {
		return err
	}

	fmt.Printf("Serving documentation search on %s\n", addr)
	return http.ListenAndServe(addr, srv.Handler())
}

func runQuery(cfg *config.Config, query string) error {
	if strings.TrimSpace(query) == "" {
		fmt.Println("No results found")
		return nil
	}

	eng, err := engine.New(&dataset.FileSource{Path: cfg.DataPath})
	if err != nil {
		return err
	}
	defer eng.Close() //nolint:errcheck

	matches := eng.Search(query)

	switch eng.Status() {
	case engine.StatusFailed:
		return fmt.Errorf("failed to load dataset: %w", eng.Err())
	case engine.StatusLoading:
		return fmt.Errorf("no dataset at %s, run: docdex -build", cfg.DataPath)
	}

	if len(matches) == 0 {
		fmt.Println("No results found")
		return nil
	}

	ds := eng.Dataset()
	for _, m := range matches {
		name := m.Row.Name
		if m.Row.Parent != "" {
			name = m.Row.Parent + "." + name
		}
		fmt.Printf("%-12s %-40s %s\n", ds.KindLabel(m.Row.Kind), name, cfg.BaseURL+m.Row.URL)
	}
	return nil
}

func runFind(cfg *config.Config) error {
	eng, err := engine.New(&dataset.FileSource{Path: cfg.DataPath})
	if err != nil {
		return err
	}
	defer eng.Close() //nolint:errcheck

	model, err := tui.NewApp(eng, cfg.BaseURL, time.Duration(cfg.DebounceMS)*time.Millisecond)
	if err != nil {
		return err
	}

	program := tea.NewProgram(model, tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

func printUsage() {
	fmt.Println("docdex - Documentation Site Search")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  docdex -build             Build the search dataset from your docs")
	fmt.Println("  docdex -watch             Watch for changes and rebuild")
	fmt.Println("  docdex -serve             Serve the search widget over HTTP")
	fmt.Println("  docdex -find              Interactive search")
	fmt.Println("  docdex -q \"query\"         One-shot search")
	fmt.Println("  docdex -setup             Run setup wizard")
	fmt.Println()
	fmt.Println("Flags -docs, -data and -base override the saved config.")
	fmt.Println()
}
