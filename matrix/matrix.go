// Package matrix enumerates cargo feature combinations and drives one
// external test invocation per combination.
package matrix

import (
	"fmt"
	"strings"
)

// FlagGroup is one axis of mutually exclusive feature selections. During
// enumeration every group is implicitly extended with an empty "none
// selected" option, appended after the listed ones.
type FlagGroup struct {
	Name    string
	Options []string
}

// Config describes the full test matrix plus the external command surface
// used to drive it. The zero value is not usable; build one with
// DefaultConfig or fill every field explicitly.
type Config struct {
	Groups []FlagGroup

	// External command surface. Defaults match the crate's CI driver:
	// cargo test --verbose --features "<combination>".
	Command      string
	Subcommand   string
	ExtraArgs    []string
	FeaturesFlag string
}

// Size returns the number of combinations the matrix will produce,
// the product of (len(options)+1) over all groups.
func (c Config) Size() int {
	n := 1
	for _, g := range c.Groups {
		n *= len(g.Options) + 1
	}
	return n
}

// CommandLine renders the invocation template for logs and summaries.
func (c Config) CommandLine() string {
	parts := []string{c.Command, c.Subcommand}
	parts = append(parts, c.ExtraArgs...)
	parts = append(parts, c.FeaturesFlag, "<features>")
	return strings.Join(parts, " ")
}

// Combination is one selection per group, in group order. An empty element
// means the corresponding group contributed nothing.
type Combination []string

// Features joins the selected options with single spaces. Unselected groups
// are skipped so the result carries no redundant whitespace.
func (c Combination) Features() string {
	sel := make([]string, 0, len(c))
	for _, s := range c {
		if s != "" {
			sel = append(sel, s)
		}
	}
	return strings.Join(sel, " ")
}

// Feature axes of the vapoursynth-rs crate. Numbered axes are API version
// gates, the rest toggle optional bindings.
const (
	vsAPIFirst = 31
	vsAPILast  = 36

	vsscriptAPIFirst = 31
	vsscriptAPILast  = 32
)

// versioned builds "<prefix>-<n>" option lists for sequential API versions,
// first..last inclusive.
func versioned(prefix string, first, last int) []string {
	var opts []string
	for v := first; v <= last; v++ {
		opts = append(opts, fmt.Sprintf("%s-%d", prefix, v))
	}
	return opts
}

// DefaultConfig returns the matrix for the given platform identifier
// (runtime.GOOS or an override). The Windows CI image ships without the
// VSScript library, so its API axis is pruned to "none only" there. The
// branch is evaluated once, before any enumeration happens.
func DefaultConfig(platform string) Config {
	vsscriptAPIs := versioned("vsscript-api", vsscriptAPIFirst, vsscriptAPILast)
	if platform == "windows" {
		vsscriptAPIs = nil
	}
	return Config{
		Groups: []FlagGroup{
			{Name: "vapoursynth-api", Options: versioned("vapoursynth-api", vsAPIFirst, vsAPILast)},
			{Name: "vsscript-api", Options: vsscriptAPIs},
			{Name: "vapoursynth-functions", Options: []string{"vapoursynth-functions"}},
			{Name: "vsscript-functions", Options: []string{"vsscript-functions"}},
			{Name: "f16-pixel-type", Options: []string{"f16-pixel-type"}},
		},
		Command:      "cargo",
		Subcommand:   "test",
		ExtraArgs:    []string{"--verbose"},
		FeaturesFlag: "--features",
	}
}
