package matrix

import (
	"reflect"
	"strings"
	"testing"
)

func TestDefaultConfig_Axes(t *testing.T) {
	cfg := DefaultConfig("linux")
	if len(cfg.Groups) != 5 {
		t.Fatalf("expected 5 feature axes, got %d", len(cfg.Groups))
	}

	api := cfg.Groups[0]
	if api.Name != "vapoursynth-api" || len(api.Options) != 6 {
		t.Fatalf("unexpected vapoursynth-api axis: %+v", api)
	}
	if api.Options[0] != "vapoursynth-api-31" || api.Options[5] != "vapoursynth-api-36" {
		t.Fatalf("unexpected api version range: %v", api.Options)
	}

	vss := cfg.Groups[1]
	if !reflect.DeepEqual(vss.Options, []string{"vsscript-api-31", "vsscript-api-32"}) {
		t.Fatalf("unexpected vsscript-api axis: %v", vss.Options)
	}

	// 7 * 3 * 2 * 2 * 2
	if cfg.Size() != 168 {
		t.Fatalf("expected 168 combinations, got %d", cfg.Size())
	}
	if got := len(Combinations(cfg.Groups)); got != 168 {
		t.Fatalf("enumeration produced %d combinations, want 168", got)
	}
}

func TestDefaultConfig_WindowsPrunesVSScriptAPI(t *testing.T) {
	cfg := DefaultConfig("windows")
	if len(cfg.Groups[1].Options) != 0 {
		t.Fatalf("expected vsscript-api axis pruned on windows, got %v", cfg.Groups[1].Options)
	}
	// Only the pruned axis shrinks: 7 * 1 * 2 * 2 * 2.
	if cfg.Size() != 56 {
		t.Fatalf("expected 56 combinations on windows, got %d", cfg.Size())
	}
}

func TestDefaultConfig_Pure(t *testing.T) {
	a := DefaultConfig("linux")
	b := DefaultConfig("linux")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("DefaultConfig is not deterministic")
	}
}

func TestDefaultConfig_BoundaryCombinations(t *testing.T) {
	cfg := DefaultConfig("linux")
	combos := Combinations(cfg.Groups)

	first := combos[0].Features()
	want := "vapoursynth-api-31 vsscript-api-31 vapoursynth-functions vsscript-functions f16-pixel-type"
	if first != want {
		t.Fatalf("first combination = %q, want %q", first, want)
	}
	last := combos[len(combos)-1].Features()
	if last != "" {
		t.Fatalf("last combination should select nothing, got %q", last)
	}
	// The rightmost axis varies fastest.
	second := combos[1].Features()
	if second != strings.TrimSuffix(want, " f16-pixel-type") {
		t.Fatalf("second combination = %q", second)
	}
}

func TestConfig_CommandLine(t *testing.T) {
	cfg := DefaultConfig("linux")
	if got := cfg.CommandLine(); got != "cargo test --verbose --features <features>" {
		t.Fatalf("CommandLine() = %q", got)
	}
}
