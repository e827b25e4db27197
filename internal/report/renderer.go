package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wjt/sms-query/internal/logger"
	"github.com/wjt/sms-query/internal/storage"
)

// column widths of the report body
const (
	phoneWidth = 12
	nameWidth  = 15
)

// Renderer formats event rows as one report line each, with a
// deterministic per-number color assignment.
//
// A renderer owns the color assignment table for one invocation: the Nth
// distinct remote number seen gets palette color N mod palette size, and
// keeps it for every later row.
type Renderer struct {
	out      io.Writer
	colors   *ColorFormatter
	assigned map[string]string
	logger   *logger.Logger

	headerStyle    lipgloss.Style
	separatorStyle lipgloss.Style
}

// NewRenderer creates a renderer writing to out
func NewRenderer(out io.Writer, colors *ColorFormatter) *Renderer {
	return &Renderer{
		out:      out,
		colors:   colors,
		assigned: make(map[string]string),
		logger:   logger.GetLogger().Render(),

		headerStyle:    lipgloss.NewStyle().Bold(true),
		separatorStyle: lipgloss.NewStyle().Faint(true),
	}
}

// RenderHeader writes the report header block. filterDescs are the
// human-readable descriptions of the active filters; with none, the
// report covers the entire event log.
func (r *Renderer) RenderHeader(filterDescs []string) {
	title := "* Voice/SMS activity"
	if len(filterDescs) > 0 {
		title += " filtered by " + strings.Join(filterDescs, ", ")
	}
	title += ":"

	columns := "Date & Time (UTC)   Dir      Phone # Name            Contents"
	rule := "-------------------+---+------------+---------------+--------"

	if r.colors.IsEnabled() {
		title = r.headerStyle.Render(title)
		rule = r.separatorStyle.Render(rule)
	}

	fmt.Fprintln(r.out, title)
	fmt.Fprintln(r.out, columns)
	fmt.Fprintln(r.out, rule)
}

// Render streams the cursor to the output, one line per event, and
// returns the number of rows rendered
func (r *Renderer) Render(cursor *storage.EventCursor) (int, error) {
	count := 0
	for cursor.Next() {
		r.RenderRow(cursor.Event())
		count++
	}
	if err := cursor.Err(); err != nil {
		return count, fmt.Errorf("failed to read event rows: %w", err)
	}
	return count, nil
}

// RenderRow writes one formatted report line for the event
func (r *Renderer) RenderRow(ev storage.Event) {
	timestamp := time.Unix(ev.StorageTime, 0).UTC().Format("2006-01-02 15:04:05")

	arrow := r.colors.Colorize(Red, "<<<")
	if ev.Outgoing {
		arrow = r.colors.Colorize(Green, ">>>")
	}

	phone := r.colors.Colorize(r.colorFor(ev.RemoteUID),
		fmt.Sprintf("%*s", phoneWidth, ev.RemoteUID))
	name := r.colors.Colorize(Blue, fmt.Sprintf("%-*s", nameWidth, ev.Name()))

	fmt.Fprintln(r.out, timestamp, arrow, phone, name, r.contentsFor(ev))
}

// contentsFor maps an event to its display text
func (r *Renderer) contentsFor(ev storage.Event) string {
	text := ev.Text()

	switch ev.TypeName {
	case storage.EventTypeCall:
		marker := r.colors.Colorize(Green, "<Voice call>")
		return marker + r.flagUnexpectedText(ev, text)
	case storage.EventTypeCallMissed:
		marker := r.colors.Colorize(Yellow, "<Missed voice call>")
		return marker + r.flagUnexpectedText(ev, text)
	case storage.EventTypeSMS:
		if text == "" {
			return r.colors.Colorize(Red, "<No contents>")
		}
		return text
	default:
		return r.colors.Colorize(Red, fmt.Sprintf("<Unknown event type: %s>", ev.TypeName)) + text
	}
}

// flagUnexpectedText marks free text on an event type that should not
// carry any. This signals corrupt upstream data; the row is still
// rendered and the invocation continues.
func (r *Renderer) flagUnexpectedText(ev storage.Event, text string) string {
	if text == "" {
		return ""
	}

	r.logger.Warn().
		Str("event_type", ev.TypeName).
		Str("remote_uid", ev.RemoteUID).
		Str("free_text", text).
		Msg("Voice event carries unexpected free text")

	return " " + r.colors.Colorize(Red, fmt.Sprintf("<Unexpected contents: %s>", text))
}

// colorFor returns the color assigned to a remote number, assigning the
// next palette color on first sight
func (r *Renderer) colorFor(remoteUID string) string {
	if color, ok := r.assigned[remoteUID]; ok {
		return color
	}
	color := PaletteColor(len(r.assigned))
	r.assigned[remoteUID] = color
	return color
}
