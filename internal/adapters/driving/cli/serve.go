package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfpanel/internal/adapters/driven/filesystem"
	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/panelhost"
	"github.com/custodia-labs/pdfpanel/internal/adapters/driving/statusbar"
	"github.com/custodia-labs/pdfpanel/internal/core/ports/driving"
	"github.com/custodia-labs/pdfpanel/internal/core/services"
	"github.com/custodia-labs/pdfpanel/internal/logger"
	"github.com/custodia-labs/pdfpanel/internal/panel"
)

// headlessTimeout bounds the wait for the first full status of a headless panel.
var headlessTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve <file>...",
	Short: "Open PDF files in browser panels",
	Long: `Start the panel server and open one panel per file.

Each panel is served on 127.0.0.1 and talks to pdfpanel over a websocket.
The status line of the focused panel is printed whenever it changes.

Use --headless to open each file in an in-process viewer instead, print
its status and exit. This checks the settings, the stored view state and
the document without a browser.

Examples:
  pdfpanel serve paper.pdf --open
  pdfpanel serve paper.pdf slides.pdf --tui
  pdfpanel serve paper.pdf --headless`,
	Args: cobra.MinimumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", panelhost.DefaultPort, "First port to try for the panel server")
	serveCmd.Flags().Bool("open", false, "Open each panel in the default browser")
	serveCmd.Flags().Bool("headless", false, "Print the status of each file from an in-process viewer and exit")
	serveCmd.Flags().Bool("tui", false, "Drive the focused panel from the interactive remote")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if documentHost == nil || fileSystem == nil {
		return errors.New("document provider not configured")
	}

	flags := cmd.Flags()
	headless, _ := flags.GetBool("headless")
	if headless {
		return runHeadless(cmd.Context(), cmd.OutOrStdout(), args)
	}

	if panelHost == nil {
		return errors.New("panel host not configured")
	}
	start, _ := flags.GetInt("port")
	openBrowser, _ := flags.GetBool("open")
	useTUI, _ := flags.GetBool("tui")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	stopHost, err := startPanels(ctx, out, start, openBrowser, args)
	if err != nil {
		return err
	}
	defer stopHost()

	bar := statusbar.NewBar(documentHost.Presenters().Lookup())
	unsubscribe := documentHost.OnDidChangePresenter(func(*services.Presenter) {
		bar.Refresh()
	})
	defer unsubscribe()

	if useTUI {
		return runRemote(ctx, bar)
	}

	printer := &statusPrinter{out: out, width: terminalWidth(out)}
	bar.OnDidRefresh(func() { printer.print(bar.String()) })

	<-ctx.Done()
	fmt.Fprintln(out, "Stopping panel server")
	return nil
}

// startPanels starts the panel host on the first free port from start and
// opens one browser panel per file, printing each URL to out.
func startPanels(ctx context.Context, out io.Writer, start int, openBrowser bool, files []string) (func(), error) {
	port, err := panelhost.FindAvailablePort(start, start+panelhost.DefaultPortEnd-panelhost.DefaultPort)
	if err != nil {
		return nil, err
	}
	if err := panelHost.Start(port); err != nil {
		return nil, err
	}
	stopHost := func() {
		if err := panelHost.Stop(); err != nil {
			logger.Warn("stop panel host: %v", err)
		}
	}

	for _, arg := range files {
		path, err := documentPath(arg)
		if err != nil {
			stopHost()
			return nil, err
		}
		url, err := openPanel(ctx, path)
		if err != nil {
			stopHost()
			return nil, err
		}
		fmt.Fprintf(out, "%s\n  %s\n", path, url)
		if openBrowser {
			if err := panelhost.OpenBrowser(url); err != nil {
				logger.Warn("open browser: %v", err)
			}
		}
	}
	return stopHost, nil
}

// documentPath resolves a command line argument to an absolute file path.
func documentPath(arg string) (string, error) {
	path, err := filepath.Abs(filesystem.ResolvePath(arg))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", arg, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	return path, nil
}

// openPanel opens path in a new browser panel and returns the panel URL.
func openPanel(ctx context.Context, path string) (string, error) {
	doc, err := documentHost.OpenDocument(ctx, path, "")
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}

	p := panelHost.NewPanel()
	if _, err := documentHost.ResolvePanel(ctx, doc, p); err != nil {
		p.Close()
		return "", fmt.Errorf("resolve panel for %s: %w", path, err)
	}
	logger.Info("panel %s serves %s", p.ID(), path)
	return panelHost.URL(p.ID()), nil
}

func runHeadless(ctx context.Context, out io.Writer, args []string) error {
	for _, arg := range args {
		path, err := documentPath(arg)
		if err != nil {
			return err
		}
		line, err := headlessStatus(ctx, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s  %s\n", path, line)
	}
	return nil
}

// headlessStatus opens path in an in-process viewer and renders the status
// line once the viewer reported its pages and rotation.
func headlessStatus(ctx context.Context, path string) (string, error) {
	doc, err := documentHost.OpenDocument(ctx, path, "")
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}

	local, _ := panel.NewHeadlessPanel(uuid.NewString(), fileSystem)
	defer local.Close()
	local.SetActive(true)

	presenter, err := documentHost.ResolvePanel(ctx, doc, local)
	if err != nil {
		return "", fmt.Errorf("resolve panel for %s: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(ctx, headlessTimeout)
	defer cancel()
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		if status := presenter.Status(); status != nil && status.Pages != nil && status.PagesRotation != nil {
			bar := statusbar.NewBar(func() driving.PanelController { return presenter })
			bar.Refresh()
			return bar.String(), nil
		}
		if presenter.State() == services.PresenterDisposed {
			return "", fmt.Errorf("%s: viewer closed before reporting a status", path)
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%s: no status from viewer: %w", path, ctx.Err())
		case <-ticker.C:
		}
	}
}

// statusPrinter writes the status line whenever it changes.
type statusPrinter struct {
	mu    sync.Mutex
	out   io.Writer
	width int
	last  string
}

func (p *statusPrinter) print(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if line == p.last {
		return
	}
	p.last = line
	if line == "" {
		line = "(no focused panel)"
	}
	fmt.Fprintln(p.out, truncate(line, p.width))
}
