package dockerutil

import (
	"context"
	"errors"
	"log"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/YaLTeR/vapoursynth-rs/cargoutil"
	"github.com/YaLTeR/vapoursynth-rs/matrix"
)

// ContainerInvoker is the container-backed matrix.Invoker. Each combination
// runs as one `docker run` of the toolchain image with the crate mounted at
// /workspace. Invocations are strictly sequential, so a single container
// name per run is safe.
type ContainerInvoker struct {
	Tag     string
	RootDir string
	RunID   string

	Command      string
	Subcommand   string
	ExtraArgs    []string
	FeaturesFlag string

	EnvVars       []string
	KeepContainer bool

	Selected cargoutil.Verb
	Col      *color.Color
}

// Invoke runs one combination inside the container and blocks until it
// exits. Output streams from the container are passed through unmodified.
func (c *ContainerInvoker) Invoke(ctx context.Context, features string) (matrix.Result, error) {
	cmdArgs := append([]string{c.Command}, cargoutil.BuildArgs(c.Subcommand, c.ExtraArgs, c.FeaturesFlag, features)...)
	args, containerName := BuildRunArgs(RunOptions{
		Tag:           c.Tag,
		RootDir:       c.RootDir,
		EnvVars:       c.EnvVars,
		KeepContainer: c.KeepContainer,
		RunID:         c.RunID,
		CmdArgs:       cmdArgs,
	})
	for _, m := range cacheMounts(c.RootDir) {
		_ = os.MkdirAll(m.host, 0o755)
	}
	if cargoutil.Allowed(c.Selected, cargoutil.V2) {
		pfx := cargoutil.Prefix(cargoutil.V2, "HOST")
		if c.Col != nil {
			pfx = c.Col.Sprint(pfx)
		}
		log.Printf("%s RUN> docker %s", pfx, strings.Join(args, " "))
	}

	// Remove any leftover container from an aborted earlier run.
	_ = exec.Command("docker", "rm", "-f", containerName).Run()

	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err == nil {
		return matrix.Result{}, nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		res := matrix.Result{ExitCode: ee.ExitCode()}
		if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			res.Signal = ws.Signal().String()
		}
		return res, nil
	}
	return matrix.Result{ExitCode: -1}, err
}
