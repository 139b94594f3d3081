package dockerutil

import (
	"reflect"
	"strings"
	"testing"
)

func TestBuildRunArgs(t *testing.T) {
	opts := RunOptions{
		Tag:     "vs-test:abc123",
		RootDir: "/home/ci/vapoursynth-rs",
		EnvVars: []string{"RUST_BACKTRACE=1"},
		RunID:   "20260829-120000Z",
		CmdArgs: []string{"cargo", "test", "--verbose", "--features", "f16-pixel-type"},
	}
	args, name := BuildRunArgs(opts)

	if name != "vs-test-vs-test-abc123-20260829-120000Z" {
		t.Fatalf("unexpected container name %q", name)
	}
	if args[0] != "run" || args[1] != "--rm" {
		t.Fatalf("expected 'run --rm' prefix, got %v", args[:2])
	}
	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-e RUST_BACKTRACE=1",
		"-v /home/ci/vapoursynth-rs:/workspace",
		"--workdir /workspace",
		"--name " + name,
		"vs-test:abc123 cargo test --verbose --features f16-pixel-type",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q:\n%s", want, joined)
		}
	}
	// Cargo caches persist across the matrix run.
	if !strings.Contains(joined, "/root/.cargo/registry") || !strings.Contains(joined, "/workspace/target") {
		t.Fatalf("cache mounts missing:\n%s", joined)
	}
}

func TestBuildRunArgs_KeepContainer(t *testing.T) {
	args, _ := BuildRunArgs(RunOptions{Tag: "vs-test:x", RootDir: "/r", KeepContainer: true})
	for _, a := range args {
		if a == "--rm" {
			t.Fatalf("--rm present despite KeepContainer")
		}
	}
}

func TestBuildRunArgs_Deterministic(t *testing.T) {
	opts := RunOptions{Tag: "vs-test:x", RootDir: "/r", RunID: "id", CmdArgs: []string{"cargo", "test"}}
	a1, n1 := BuildRunArgs(opts)
	a2, n2 := BuildRunArgs(opts)
	if n1 != n2 || !reflect.DeepEqual(a1, a2) {
		t.Fatalf("arg assembly is not deterministic")
	}
}

func TestCacheMounts_HostPathsKeptIntact(t *testing.T) {
	// Host roots may themselves contain colons; the mount pairs must keep
	// the full host path rather than splitting on the separator.
	root := "/mnt/ci:runner/vapoursynth-rs"
	for _, m := range cacheMounts(root) {
		if !strings.HasPrefix(m.host, root+"/.cache/vs-test-matrix") {
			t.Fatalf("host path mangled: %q", m.host)
		}
		if !strings.HasPrefix(m.container, "/") {
			t.Fatalf("container path not absolute: %q", m.container)
		}
	}
}

func TestBuildRunArgs_NoRunID(t *testing.T) {
	_, name := BuildRunArgs(RunOptions{Tag: "vs-test:x", RootDir: "/r"})
	if name != "vs-test-vs-test-x" {
		t.Fatalf("unexpected container name %q", name)
	}
}
