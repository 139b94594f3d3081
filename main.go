package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/docker/docker/client"
	"github.com/fatih/color"

	"github.com/YaLTeR/vapoursynth-rs/cargoutil"
	"github.com/YaLTeR/vapoursynth-rs/dockerutil"
	"github.com/YaLTeR/vapoursynth-rs/matrix"
)

// Test matrix driver for the vapoursynth-rs crate. Enumerates every
// combination of optional cargo features and runs the test suite once per
// combination, either with the host toolchain or inside a Docker image.
//
// Usage examples:
//   go run .
//   go run . --list
//   go run . --fail-fast -v
//   go run . --docker --docker-context ci/docker
//   go run . --summary logs/matrix.json

func main() {
	var (
		cargoCmd    = flag.String("cargo", "", "Cargo command to invoke (defaults to 'cargo')")
		platform    = flag.String("platform", runtime.GOOS, "Platform identifier used to prune feature axes unavailable there")
		rootDirFlag = flag.String("root-dir", "", "Crate root to run in (defaults to the git root or the nearest Cargo.toml)")
		list        = flag.Bool("list", false, "Print every feature combination without running anything")
		failFast    = flag.Bool("fail-fast", false, "Stop after the first failing combination")
		timeout     = flag.Duration("timeout", 0, "Per-combination timeout (0 disables)")
		summaryPath = flag.String("summary", "", "Write a JSON run summary to this path")
		useDocker   = flag.Bool("docker", false, "Run each combination inside a Docker container")
		dockerCtx   = flag.String("docker-context", "ci/docker", "Docker build context directory (relative to the crate root)")
		baseImage   = flag.String("base-image", "", "Override the FROM image for the Docker build")
		noCache     = flag.Bool("no-cache", false, "Build the Docker image without using cache")
		pullBase    = flag.Bool("pull", false, "Always attempt to pull a newer base image during build")
		keepCtr     = flag.Bool("keep-container", false, "Do not remove containers after each run (omit --rm)")
		verbose     = flag.Bool("v", false, "Verbose output")
		veryVerbose = flag.Bool("vv", false, "Very verbose (trace) output")
		quiet       = flag.Bool("q", false, "Quiet output (only critical errors and final summary)")
	)
	flag.Parse()
	log.SetFlags(0)

	var selected cargoutil.Verb
	switch {
	case *quiet:
		selected = cargoutil.V0
	case *veryVerbose:
		selected = cargoutil.V3
	case *verbose:
		selected = cargoutil.V2
	default:
		selected = cargoutil.V1
	}
	setSelectedVerb(selected)
	setQuiet(*quiet)

	cfg := matrix.DefaultConfig(*platform)
	if *cargoCmd != "" {
		cfg.Command = *cargoCmd
	}

	if *list {
		combos := matrix.Combinations(cfg.Groups)
		for _, c := range combos {
			fmt.Println(c.Features())
		}
		hostLog(cargoutil.V1, "%d combinations", len(combos))
		return
	}

	rootDir := *rootDirFlag
	if rootDir == "" {
		root, err := detectCrateRoot()
		if err != nil {
			warn("could not detect crate root: ", err, "; falling back to the working directory. Set --root-dir to override.")
			root, _ = os.Getwd()
		}
		rootDir = root
	}

	runID := time.Now().UTC().Format("20060102-150405Z")
	var invoker matrix.Invoker

	if *useDocker {
		// The image build goes through the Docker SDK, the per-combination
		// runs through the docker CLI.
		if !have("docker") {
			hostLog(cargoutil.V0, "'docker' is not installed or not in your PATH.")
			os.Exit(1)
		}
		ctxDir := *dockerCtx
		if !filepath.IsAbs(ctxDir) {
			ctxDir = filepath.Join(rootDir, ctxDir)
		}
		// Tag images by a content hash of the build context so existing
		// images are reused until the inputs change.
		tag := "vs-test:latest"
		if h, err := computeBuildHash(ctxDir); err == nil && h != "" {
			tag = "vs-test:" + h
		}
		col := color.New(color.FgCyan)

		cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
		if err != nil {
			log.Fatalf("docker client: %v", err)
		}
		exists, err := dockerutil.ImageExists(context.Background(), cli, tag)
		if err != nil {
			log.Fatalf("docker image lookup: %v", err)
		}
		if !exists || *noCache {
			hostLog(cargoutil.V1, "Building test image %s...", tag)
			if err := dockerutil.BuildImage(tag, ctxDir, *baseImage, *noCache, *pullBase, selected, col); err != nil {
				log.Fatalf("docker build failed: %v", err)
			}
		}
		invoker = &dockerutil.ContainerInvoker{
			Tag:           tag,
			RootDir:       rootDir,
			RunID:         runID,
			Command:       cfg.Command,
			Subcommand:    cfg.Subcommand,
			ExtraArgs:     cfg.ExtraArgs,
			FeaturesFlag:  cfg.FeaturesFlag,
			KeepContainer: *keepCtr,
			Selected:      selected,
			Col:           col,
		}
	} else {
		cargo := &cargoutil.Runner{
			Command:      cfg.Command,
			Subcommand:   cfg.Subcommand,
			ExtraArgs:    cfg.ExtraArgs,
			FeaturesFlag: cfg.FeaturesFlag,
			Dir:          rootDir,
			Selected:     selected,
		}
		// A missing test driver is a startup error, not a combination
		// failure. Check once before the matrix starts.
		if !cargo.Available() {
			hostLog(cargoutil.V0, "'%s' is not installed or not in your PATH.", cfg.Command)
			os.Exit(1)
		}
		invoker = cargo
	}

	runner := matrix.Runner{
		Config:   cfg,
		Invoker:  invoker,
		Out:      os.Stdout,
		FailFast: *failFast,
		Timeout:  *timeout,
	}
	rep := runner.Run(context.Background())

	if *summaryPath != "" {
		sum := matrix.Summary{
			RunID:    runID,
			Platform: *platform,
			Command:  cfg.CommandLine(),
			Report:   rep,
		}
		if err := matrix.WriteSummary(*summaryPath, sum); err != nil {
			warn("write summary: ", err)
		} else {
			hostLog(cargoutil.V1, "Run summary written to %s", *summaryPath)
		}
	}

	if rep.Failed > 0 {
		hostLog(cargoutil.V0, "==> %d of %d feature combinations failed.", rep.Failed, len(rep.Results))
		os.Exit(1)
	}
	hostLog(cargoutil.V0, "==> All %d feature combinations passed.", len(rep.Results))
}
