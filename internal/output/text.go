package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// TextFormatter renders one matched path per line, optionally colorized by
// file type. Grounded on the teacher's TextFormatter, simplified from
// per-match-position highlighting down to whole-line file-type coloring —
// the unit of output here is a path, not a line within a file.
type TextFormatter struct {
	styles   Styles
	useColor bool
}

// NewTextFormatter creates a TextFormatter.
func NewTextFormatter(styles Styles, useColor bool) *TextFormatter {
	return &TextFormatter{styles: styles, useColor: useColor}
}

func (f *TextFormatter) Format(buf []byte, result Result) []byte {
	if result.Err != nil {
		return buf
	}
	path := result.Entry.Path
	if !f.useColor {
		buf = append(buf, path...)
		buf = append(buf, '\n')
		return buf
	}
	buf = append(buf, f.styleFor(result).Render(path)...)
	buf = append(buf, '\n')
	return buf
}

func (f *TextFormatter) styleFor(result Result) lipgloss.Style {
	e := result.Entry
	switch {
	case e.Dir:
		return f.styles.Dir
	case e.Info != nil && e.Info.Mode()&os.ModeSymlink != 0:
		return f.styles.Symlink
	case e.Info != nil && e.Info.Mode()&0o111 != 0:
		return f.styles.Exec
	default:
		return f.styles.File
	}
}

// Ensure TextFormatter implements Formatter.
var _ Formatter = (*TextFormatter)(nil)
