package render

import (
	"strings"

	"github.com/fatih/color"
)

var (
	zeroCell  = color.New(color.FgGreen)
	oneCell   = color.New(color.FgHiYellow)
	otherCell = color.New(color.FgBlue)
)

// ColorizeMap renders a generated map: 0 cells green, 1 cells yellow, anything else blue
func ColorizeMap(m string) string {
	var b strings.Builder
	for _, c := range m {
		switch c {
		case '0':
			b.WriteString(zeroCell.Sprint("█"))
		case '1':
			b.WriteString(oneCell.Sprint("█"))
		default:
			b.WriteString(otherCell.Sprint("█"))
		}
	}
	return b.String()
}
