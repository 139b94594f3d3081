package main

import (
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/YaLTeR/vapoursynth-rs/cargoutil"
)

var (
	quietMode    bool
	selectedVerb = cargoutil.V1
)

func setQuiet(q bool) { quietMode = q }

func setSelectedVerb(v cargoutil.Verb) { selectedVerb = v }

// hostLog prints a host-side lifecycle line when the selected verbosity
// admits it.
func hostLog(lvl cargoutil.Verb, format string, args ...interface{}) {
	if !cargoutil.Allowed(selectedVerb, lvl) {
		return
	}
	log.Printf(format, args...)
}

func warn(v ...interface{}) {
	if quietMode {
		return
	}
	log.Println("WARN:", fmt.Sprint(v...))
}

func have(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// detectCrateRoot finds the git repository root, or falls back to searching
// upwards for a Cargo.toml.
func detectCrateRoot() (string, error) {
	out, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err == nil && len(out) > 0 {
		return strings.TrimSpace(string(out)), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	dir := wd
	for i := 0; i < 6; i++ { // don't traverse indefinitely
		if _, err := os.Stat(filepath.Join(dir, "Cargo.toml")); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("could not detect crate root")
}

// computeBuildHash walks the docker context directory and returns a short
// sha256 hex digest over file names and contents. Any change to the inputs
// yields a new image tag, so existing images are reused only when the
// context is unchanged.
func computeBuildHash(ctxDir string) (string, error) {
	var files []string
	err := filepath.WalkDir(ctxDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(ctxDir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return "", err
	}
	sort.Strings(files)

	h := sha256.New()
	for _, rel := range files {
		_, _ = io.WriteString(h, rel+"|")
		f, err := os.Open(filepath.Join(ctxDir, rel))
		if err != nil {
			return "", err
		}
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", err
		}
	}
	sum := fmt.Sprintf("%x", h.Sum(nil))
	if len(sum) > 12 {
		sum = sum[:12]
	}
	return sum, nil
}
