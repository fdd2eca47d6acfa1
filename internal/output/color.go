package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sys/unix"
)

// Styles holds the lipgloss styles for one matched path's rendering,
// varied by the entry's kind the way `ls --color`/fd color their
// listings. Grounded on the teacher's own Styles (match/linenum/filename),
// retargeted from highlighting a line's match offsets to highlighting a
// path's file-type.
type Styles struct {
	Dir     lipgloss.Style
	Symlink lipgloss.Style
	Exec    lipgloss.Style
	File    lipgloss.Style
}

// NewStyles creates the default color styles.
func NewStyles() Styles {
	return Styles{
		Dir:     lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true), // blue
		Symlink: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),            // cyan
		Exec:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),            // green
		File:    lipgloss.NewStyle(),
	}
}

// NoStyles returns styles with no coloring.
func NoStyles() Styles {
	return Styles{
		Dir:     lipgloss.NewStyle(),
		Symlink: lipgloss.NewStyle(),
		Exec:    lipgloss.NewStyle(),
		File:    lipgloss.NewStyle(),
	}
}

// IsTerminal checks if the given file descriptor is a terminal using ioctl.
func IsTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}

// StdoutIsTerminal returns true if stdout is a terminal.
func StdoutIsTerminal() bool {
	return IsTerminal(os.Stdout.Fd())
}
