package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/forgeservicelab/forge.combined-log-parser/accesslog"
)

// Renderer writes parsed records to an output stream.
type Renderer interface {
	Render(rec *accesslog.LogRecord) error
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleOK       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")) // gray
	styleRedirect = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleClient   = lipgloss.NewStyle().Foreground(lipgloss.Color("220")) // yellow
	styleServer   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true) // red bold
	styleRemote   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Faint(true) // cyan
)

// TextRenderer prints records with status-based colors.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer that writes colorized text.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) Render(rec *accesslog.LogRecord) error {
	status := styleStatusTag(rec)
	remote := styleRemote.Render(rec.RemoteIP.String())
	ts := rec.Timestamp.Format("02/Jan 15:04:05")

	line := fmt.Sprintf("%s %s %s %s %dB", ts, status, remote, rec.RequestLine(), rec.Size)
	_, err := fmt.Fprintln(r.w, line)
	return err
}

func styleStatusTag(rec *accesslog.LogRecord) string {
	code := fmt.Sprintf("%3d", rec.Status)
	switch rec.StatusClass() {
	case "3xx":
		return styleRedirect.Render(code)
	case "4xx":
		return styleClient.Render(code)
	case "5xx":
		return styleServer.Render(code)
	default:
		return styleOK.Render(code)
	}
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints each record as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

func (r *JSONRenderer) Render(rec *accesslog.LogRecord) error {
	return r.enc.Encode(rec)
}
