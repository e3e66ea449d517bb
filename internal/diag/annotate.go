package diag

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Rendering knobs for source annotations. The CLI sets these once at startup
// from configuration; library callers may leave the defaults.
var (
	// ContextLines is the number of source lines shown above and below the
	// annotated line.
	ContextLines = 1

	// LineNumbers toggles the line-number gutter.
	LineNumbers = true

	// ColorOutput toggles terminal colors on the annotated line and caret.
	ColorOutput = false
)

var caretStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

// Annotate renders a caret-annotated excerpt of source around the given
// position:
//
//	  1 total: uint256
//	---> 2 FEE: constant(uint256) = 2 / 0
//	-------------------------------^
//	  3 owner: address
func Annotate(source string, lineno, colOffset int) string {
	lines := strings.Split(source, "\n")
	if lineno < 1 || lineno > len(lines) {
		return ""
	}

	start := lineno - 1 - ContextLines
	if start < 0 {
		start = 0
	}

	end := lineno + ContextLines
	if end > len(lines) {
		end = len(lines)
	}

	numWidth := len(fmt.Sprintf("%d", end))

	var b strings.Builder

	for i := start; i < end; i++ {
		marked := i == lineno-1

		gutter := ""
		if LineNumbers {
			gutter = fmt.Sprintf("%*d ", numWidth, i+1)
		}

		prefix := strings.Repeat(" ", 5)
		if marked {
			prefix = "---> "
		}

		line := prefix + gutter + lines[i]
		if marked && ColorOutput {
			line = caretStyle.Render(line)
		}

		b.WriteString(line)
		b.WriteByte('\n')

		if marked && colOffset >= 0 {
			caret := strings.Repeat("-", len(prefix)+len(gutter)+colOffset) + "^"
			if ColorOutput {
				caret = caretStyle.Render(caret)
			}

			b.WriteString(caret)
			b.WriteByte('\n')
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
