package shared_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"steam_reviews/internal/shared"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SNAPSHOT_APPS", "")
	t.Setenv("CACHE_TTL_SECONDS", "")
	cfg := shared.Load()
	if cfg.HTTPAddr != ":8080" || cfg.CacheTTL != 900*time.Second || cfg.ReviewCount != 40 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.Apps) != 0 {
		t.Fatalf("expected no apps, got %v", cfg.Apps)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SNAPSHOT_APPS", "Portal 2, 257850 ,,https://store.steampowered.com/app/620/")
	t.Setenv("SNAPSHOT_WORKERS", "2")
	t.Setenv("STEAM_RPS", "not-a-number")

	cfg := shared.Load()

	if len(cfg.Apps) != 3 || cfg.Apps[0] != "Portal 2" || cfg.Apps[1] != "257850" {
		t.Fatalf("unexpected apps: %q", cfg.Apps)
	}
	if cfg.Workers != 2 || cfg.SteamRPS != 5 {
		t.Fatalf("unexpected ints: workers=%d rps=%d", cfg.Workers, cfg.SteamRPS)
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadPolicy(t *testing.T) {
	p, err := shared.LoadPolicy(writeFile(t, `
strata:
  - {name: Casual, min_hours: 1, max_hours: 50, share: 0.5}
  - {name: Core, min_hours: 50, max_hours: .inf, share: 0.5}
veteran_hours: 300
tail_veterans: 3
`))
	if err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}
	if len(p.Strata) != 2 || !math.IsInf(p.Strata[1].MaxHours, 1) || !p.Strata[1].Unbounded() {
		t.Fatalf("unexpected strata: %+v", p.Strata)
	}
	if p.VeteranHours != 300 || p.TailVeterans != 3 {
		t.Fatalf("overrides not applied: %+v", p)
	}
	if p.MinTextLength != 100 || p.FetchBufferSize != 300 {
		t.Fatalf("defaults not kept: %+v", p)
	}
}

func TestLoadPolicy_Empty(t *testing.T) {
	p, err := shared.LoadPolicy("")
	if err != nil || len(p.Strata) != 4 {
		t.Fatalf("expected defaults, got %+v %v", p, err)
	}
}

func TestLoadPolicy_Invalid(t *testing.T) {
	if _, err := shared.LoadPolicy(writeFile(t, "strata:\n  - {name: x, share: 2}\n")); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := shared.LoadPolicy(writeFile(t, "strata: [")); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := shared.LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected read error")
	}
}
