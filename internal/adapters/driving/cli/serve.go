package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	filehost "github.com/custodia-labs/facet/internal/adapters/driven/host/file"
	"github.com/custodia-labs/facet/internal/adapters/driven/notify"
	"github.com/custodia-labs/facet/internal/adapters/driving/web"
	"github.com/custodia-labs/facet/internal/core/domain"
	"github.com/custodia-labs/facet/internal/core/services"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve <document>...",
	Short: "Host browser surfaces for one or more documents",
	Long: `Serves an interactive surface for each listed document. Surfaces
connect over websockets; edits made in a surface are written back to
the file, and edits made by any other program show up in every
connected surface.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	settingsService, _, err := loadSettings()
	if err != nil {
		return err
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	addr := settings.Server.Addr
	if flagAddr != "" {
		addr = flagAddr
	}

	documents := make([]domain.DocumentID, 0, len(args))
	for _, arg := range args {
		path, err := filepath.Abs(arg)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", arg, err)
		}
		documents = append(documents, domain.DocumentID(path))
	}

	host := filehost.NewDocumentHost()
	manager := services.NewSessionManager(host, notify.New())
	server := web.NewServer(addr, manager, settings.Surface, documents)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	cmd.Printf("Serving %d document(s) on http://%s\n", len(documents), addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	cmd.Println("Server stopped.")
	return nil
}
