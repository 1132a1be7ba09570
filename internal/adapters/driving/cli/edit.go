package cli

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	filehost "github.com/custodia-labs/facet/internal/adapters/driven/host/file"
	"github.com/custodia-labs/facet/internal/adapters/driven/notify"
	"github.com/custodia-labs/facet/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/facet/internal/adapters/driving/tui"
	"github.com/custodia-labs/facet/internal/core/domain"
	"github.com/custodia-labs/facet/internal/core/services"
)

var editCmd = &cobra.Command{
	Use:   "edit <document>",
	Short: "Edit a document in a terminal surface",
	Long: `Opens the document in a terminal surface connected to the sync
controller over an in-process channel pair. The file stays the source
of truth: edits are written back to it, and concurrent changes by
other programs refresh the view.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", args[0], err)
	}
	docID := domain.DocumentID(path)

	host := filehost.NewDocumentHost()
	manager := services.NewSessionManager(host, notify.New())
	defer manager.Close()

	controllerEnd, surfaceEnd := memory.NewChannelPair()
	session, err := manager.Create(cmd.Context(), docID, controllerEnd)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer session.Dispose()

	program := tea.NewProgram(tui.NewModel(docID, surfaceEnd), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("surface: %w", err)
	}
	return nil
}
