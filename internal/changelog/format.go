package changelog

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/ariel-frischer/fraglog/internal/fragment"
)

// categoryKey is the header key whose text value selects an entry's style.
const categoryKey = "type"

// CategoryStyle defines the color and icon for a change category.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

// categoryStyles maps common "type" header values to their terminal styling.
var categoryStyles = map[string]CategoryStyle{
	"added":      {Color: color.New(color.FgGreen), Icon: "✓"},
	"changed":    {Color: color.New(color.FgBlue), Icon: "~"},
	"deprecated": {Color: color.New(color.FgRed), Icon: "⚠"},
	"removed":    {Color: color.New(color.FgRed), Icon: "✗"},
	"fixed":      {Color: color.New(color.FgYellow), Icon: "⚡"},
	"security":   {Color: color.New(color.FgMagenta), Icon: "🔒"},
}

var defaultStyle = CategoryStyle{Color: color.New(color.Reset), Icon: "-"}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatTerminal writes releases newest first with terminal styling.
func FormatTerminal(versions []VersionData, w io.Writer, opts FormatOptions) error {
	for i, v := range NewestFirst(versions) {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := FormatVersion(&v, w, opts); err != nil {
			return fmt.Errorf("formatting version %s: %w", v.Version, err)
		}
	}
	return nil
}

// FormatVersion writes a single release's fragments to the writer.
func FormatVersion(v *VersionData, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	if err := writeVersionHeader(v, w, opts); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, f := range v.Entries {
		if err := writeEntry(f, w, opts, width); err != nil {
			return err
		}
	}
	return nil
}

// writeVersionHeader writes the version header line.
func writeVersionHeader(v *VersionData, w io.Writer, opts FormatOptions) error {
	header := fmt.Sprintf("v%s", v.Version)
	count := fmt.Sprintf("(%d %s)", v.Count(), plural(v.Count(), "change", "changes"))

	if opts.Plain {
		_, err := fmt.Fprintf(w, "## %s %s\n", header, count)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	_, err := fmt.Fprintf(w, "## %s %s\n", bold(header), faint(count))
	return err
}

// writeEntry writes one fragment: its first body line, wrapped, followed by
// its header fields.
func writeEntry(f fragment.Fragment, w io.Writer, opts FormatOptions, width int) error {
	style := styleFor(f)
	text := Summary(f)
	meta := formatMeta(f)

	if opts.Plain {
		line := "  - " + text
		if meta != "" {
			line += " " + meta
		}
		_, err := fmt.Fprintln(w, line)
		return err
	}

	prefix := fmt.Sprintf("  %s ", style.Icon)
	wrapped := wrapText(text, width-len(prefix), "    ")
	colored := style.Color.SprintFunc()
	line := prefix + colored(wrapped)
	if meta != "" {
		line += " " + color.New(color.Faint).Sprint(meta)
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

func styleFor(f fragment.Fragment) CategoryStyle {
	v, ok := f.Get(categoryKey)
	if !ok {
		return defaultStyle
	}
	s, ok := v.Text()
	if !ok {
		return defaultStyle
	}
	if style, ok := categoryStyles[strings.ToLower(s)]; ok {
		return style
	}
	return defaultStyle
}

// formatMeta renders non-null header fields as "[k=v k=v]" in key order.
func formatMeta(f fragment.Fragment) string {
	header := f.Header()
	keys := make([]string, 0, len(header))
	for k, v := range header {
		if !v.IsNull() {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	slices.Sort(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + header[k].String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Summary returns the first non-blank line of a fragment's body.
func Summary(f fragment.Fragment) string {
	for line := range strings.Lines(f.Text()) {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return ""
}

// FormatEntrySummary returns a brief one-line summary of a fragment.
func FormatEntrySummary(f fragment.Fragment, opts FormatOptions) string {
	text := truncateText(Summary(f), 60)

	if opts.Plain {
		return text
	}

	style := styleFor(f)
	colored := style.Color.SprintFunc()
	return fmt.Sprintf("%s %s", colored(style.Icon), text)
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		// Find the last space within maxWidth
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}

// truncateText truncates text to maxLen, adding ellipsis if needed.
func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen-3] + "..."
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
