package terminal

import (
	"fmt"
	"strings"
	"time"

	"github.com/0xcro3dile/ragctl/internal/domain/entities"
	"github.com/0xcro3dile/ragctl/internal/domain/usecases"
)

// WelcomeText is shown until the first message arrives.
const WelcomeText = "👋 Welcome! Upload some documents, then ask me anything about them."

const (
	emptyDocumentsText = "No documents uploaded yet"
	errorDocumentsText = "Error loading documents"
	loadingDocsText    = "Loading documents..."
)

// FormatMessage renders one transcript entry.
func FormatMessage(m entities.Message) string {
	var sb strings.Builder

	author := "AI Assistant"
	if m.Role == entities.RoleUser {
		author = "You"
	}
	fmt.Fprintf(&sb, "%s • %s", author, m.CreatedAt.Local().Format("3:04:05 PM"))
	if m.Metadata != nil && m.Metadata.Cached {
		fmt.Fprintf(&sb, "  ⚡ Cached (%s)", m.Metadata.Source)
	}
	sb.WriteString("\n")
	sb.WriteString(m.Content)
	sb.WriteString("\n")

	if m.Metadata != nil && len(m.Metadata.Sources) > 0 {
		sb.WriteString("📚 Sources:\n")
		for _, s := range m.Metadata.Sources {
			fmt.Fprintf(&sb, "  • %s\n", FormatSource(s))
		}
	}
	return sb.String()
}

// FormatSource renders a source as "name (87.7% match)".
func FormatSource(s entities.SourceRef) string {
	return fmt.Sprintf("%s (%.1f%% match)", s.Filename, s.Similarity*100)
}

// FormatDocuments renders the registry: a row per document, or a single
// placeholder line when there is nothing to list.
func FormatDocuments(snap usecases.RegistrySnapshot) string {
	switch snap.State {
	case usecases.RegistryPending:
		return loadingDocsText + "\n"
	case usecases.RegistryFailed:
		return errorDocumentsText + "\n"
	case usecases.RegistryEmpty:
		return emptyDocumentsText + "\n"
	}

	var sb strings.Builder
	for _, d := range snap.Documents {
		sb.WriteString(FormatDocument(d))
	}
	return sb.String()
}

// FormatDocument renders one document row.
func FormatDocument(d entities.Document) string {
	return fmt.Sprintf("📄 %s\n   Type: %s | Uploaded: %s\n",
		d.Filename, strings.ToUpper(d.FileType), formatTimestamp(d.CreatedAt))
}

// FormatStatus renders the status line, or "" when it is hidden.
func FormatStatus(s entities.Status, visible bool) string {
	if !visible {
		return ""
	}
	return fmt.Sprintf("[%s] %s", s.Kind, s.Text)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "Invalid Date"
	}
	return t.Local().Format("1/2/2006, 3:04:05 PM")
}
