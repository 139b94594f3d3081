// Package dockerutil runs feature-matrix test invocations inside a Docker
// container so the matrix exercises a clean, pinned toolchain image.
package dockerutil

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/fatih/color"
	"github.com/moby/term"

	"github.com/YaLTeR/vapoursynth-rs/cargoutil"
)

// BuildImage builds the test toolchain image from contextDir, which must
// contain a Dockerfile at its root. baseImage overrides the FROM image via
// the BASE_IMAGE build arg when non-empty.
func BuildImage(tag, contextDir, baseImage string, noCache, pull bool, selected cargoutil.Verb, col *color.Color) error {
	if cargoutil.Allowed(selected, cargoutil.V2) {
		log.Printf("%s RUN> docker build -t %s %s", cargoutil.Prefix(cargoutil.V2, "HOST"), tag, contextDir)
	}
	ctx := context.Background()
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return fmt.Errorf("docker client: %w", err)
	}
	buildCtx, err := TarDirectory(contextDir)
	if err != nil {
		return fmt.Errorf("create build context: %w", err)
	}
	defer buildCtx.Close()
	opts := types.ImageBuildOptions{
		Tags:       []string{tag},
		Remove:     true,
		NoCache:    noCache,
		PullParent: pull,
		Dockerfile: "Dockerfile",
	}
	if baseImage != "" {
		opts.BuildArgs = map[string]*string{"BASE_IMAGE": &baseImage}
	}
	resp, err := cli.ImageBuild(ctx, buildCtx, opts)
	if err != nil {
		return fmt.Errorf("image build: %w", err)
	}
	defer resp.Body.Close()
	// Always parse the JSON message stream so build errors are detected
	// even when the output itself is discarded.
	fd, isTerm := term.GetFdInfo(os.Stdout)
	var out io.Writer = io.Discard
	if cargoutil.Allowed(selected, cargoutil.V2) {
		out = &prefixWriter{lvl: cargoutil.V2, scope: "BUILD", w: os.Stdout, col: col}
	}
	if err := jsonmessage.DisplayJSONMessagesStream(resp.Body, out, fd, isTerm, nil); err != nil {
		return fmt.Errorf("render build output: %w", err)
	}
	return nil
}

// TarDirectory streams dir as an uncompressed tar archive, rooted at the
// directory itself, for use as a docker build context.
func TarDirectory(dir string) (io.ReadCloser, error) {
	pr, pw := io.Pipe()
	tw := tar.NewWriter(pw)
	go func() {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			if rel == "." {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			hdr, err := tar.FileInfoHeader(info, "")
			if err != nil {
				return err
			}
			hdr.Name = filepath.ToSlash(rel)
			if d.IsDir() {
				hdr.Name += "/"
			}
			if err := tw.WriteHeader(hdr); err != nil {
				return err
			}
			if info.Mode().IsRegular() {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				if _, err := io.Copy(tw, f); err != nil {
					return err
				}
			}
			return nil
		})
		tw.Close()
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.Close()
	}()
	return pr, nil
}
