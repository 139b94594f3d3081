package dockerutil

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/YaLTeR/vapoursynth-rs/cargoutil"
)

// prefixWriter prepends a computed prefix to each line of output. Used to
// colorize and prefix Docker build output in verbose mode.
type prefixWriter struct {
	lvl   cargoutil.Verb
	scope string
	w     io.Writer
	col   *color.Color
}

func (pw *prefixWriter) Write(p []byte) (n int, err error) {
	s := string(p)
	if !strings.Contains(s, "\n") {
		return pw.w.Write(p)
	}

	pfx := cargoutil.Prefix(pw.lvl, pw.scope)
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for _, line := range lines {
		if pw.col != nil {
			fmt.Fprintf(pw.w, "%s %s\n", pw.col.Sprint(pfx), line)
		} else {
			fmt.Fprintf(pw.w, "%s %s\n", pfx, line)
		}
	}
	return len(p), nil
}
