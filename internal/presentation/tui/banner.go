package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the waymark banner with the given version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{` __      __                             __    `, "#818cf8"},
		{`/  \    /  \_____  ___.__. _____ _____ _______|  | __`, "#a78bfa"},
		{`\   \/\/   /\__  \<   |  |/     \\__  \\_  __ \  |/ /`, "#c084fc"},
		{` \        /  / __ \\___  |  Y Y  \/ __ \|  | \/    < `, "#e879f9"},
		{`  \__/\  /  (____  / ____|__|_|  (____  /__|  |__|_ \`, "#f472b6"},
		{`       \/        \/\/          \/     \/           \/`, "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
