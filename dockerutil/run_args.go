package dockerutil

import (
	"fmt"
	"path/filepath"
	"strings"
)

// RunOptions encapsulates configuration to construct `docker run` args for
// one matrix invocation.
type RunOptions struct {
	Tag     string
	RootDir string
	EnvVars []string
	// KeepContainer omits --rm so the container survives for inspection.
	KeepContainer bool
	// RunID is an optional, stable identifier for this matrix run. When
	// set it is appended to the computed container name so names stay
	// deterministic per-run without colliding across runs.
	RunID string
	// CmdArgs is the command executed inside the container, normally the
	// cargo invocation for one feature combination.
	CmdArgs []string
}

// bindMount is one host/container bind pair, kept structured so callers
// never have to recover the host path from a joined "host:container"
// string.
type bindMount struct {
	host      string
	container string
}

// cacheMounts returns the bind mounts that persist cargo state between
// invocations. The matrix runs the same crate dozens of times, so without
// these every combination rebuilds the dependency tree from scratch.
func cacheMounts(rootDir string) []bindMount {
	cacheRoot := filepath.Join(rootDir, ".cache", "vs-test-matrix")
	return []bindMount{
		{host: filepath.Join(cacheRoot, "cargo", "registry"), container: "/root/.cargo/registry"},
		{host: filepath.Join(cacheRoot, "cargo", "git"), container: "/root/.cargo/git"},
		{host: filepath.Join(cacheRoot, "target"), container: "/workspace/target"},
	}
}

// BuildRunArgs assembles the argument list for `docker run` and returns it
// together with the computed container name. Pure; directory creation is
// left to the caller.
func BuildRunArgs(opts RunOptions) (args []string, containerName string) {
	tagNorm := strings.ReplaceAll(opts.Tag, ":", "-")
	tagNorm = strings.ReplaceAll(tagNorm, "/", "-")
	if opts.RunID != "" {
		containerName = fmt.Sprintf("vs-test-%s-%s", tagNorm, opts.RunID)
	} else {
		containerName = fmt.Sprintf("vs-test-%s", tagNorm)
	}

	args = []string{"run"}
	if !opts.KeepContainer {
		args = append(args, "--rm")
	}
	for _, env := range opts.EnvVars {
		args = append(args, "-e", env)
	}
	args = append(args, "-v", fmt.Sprintf("%s:/workspace", opts.RootDir))
	for _, m := range cacheMounts(opts.RootDir) {
		args = append(args, "-v", fmt.Sprintf("%s:%s", m.host, m.container))
	}
	args = append(args, "--workdir", "/workspace")
	args = append(args, "--name", containerName)
	args = append(args, opts.Tag)
	args = append(args, opts.CmdArgs...)
	return args, containerName
}
