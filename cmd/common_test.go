package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mod-manifest-resolver/config"
	"mod-manifest-resolver/db"
	"mod-manifest-resolver/moddef"
	"mod-manifest-resolver/resolver"
)

func writeModFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	modsDir := t.TempDir()
	return config.Config{
		HostVersion:  "1.9.1",
		ModsDir:      modsDir,
		ManifestName: "mod.json",
		DatabasePath: filepath.Join(t.TempDir(), "registry.db"),
	}
}

func TestRunPassAndApply(t *testing.T) {
	cfg := testConfig(t)
	writeModFile(t, filepath.Join(cfg.ModsDir, "Addon", "mod.json"), `{
		"Name": "Addon",
		"DependsOn": ["Base"],
		"Manifest": [{"Path": "weapons", "Type": "WeaponDef"}],
		"RemoveManifestEntries": ["old_laser"]
	}`)
	writeModFile(t, filepath.Join(cfg.ModsDir, "Addon", "weapons", "laser.json"), "{}")
	writeModFile(t, filepath.Join(cfg.ModsDir, "Addon", "weapons", "gauss.json"), "{}")
	writeModFile(t, filepath.Join(cfg.ModsDir, "Base", "mod.json"), `{"Name": "Base", "VersionMin": "1.9"}`)
	writeModFile(t, filepath.Join(cfg.ModsDir, "Future", "mod.json"), `{"Name": "Future", "VersionMin": "2.0"}`)
	writeModFile(t, filepath.Join(cfg.ModsDir, "Broken", "mod.json"), `{"Name": `)

	plan, err := runPass(cfg)
	if err != nil {
		t.Fatalf("runPass() unexpected error: %v", err)
	}
	if got := strings.Join(plan.Accepted, ","); got != "Base,Addon" {
		t.Errorf("Accepted = %s, want Base,Addon", got)
	}
	if o, _ := plan.Outcome("Future"); o.Status != resolver.StatusRejected {
		t.Errorf("Future = %+v, want rejected by min version", o)
	}
	if _, _, failed := plan.Counts(); failed != 1 {
		t.Errorf("failed = %d, want 1 for the broken manifest", failed)
	}
	if len(plan.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2", len(plan.Records))
	}

	// seed a record the plan removes
	reg, err := db.Open(cfg.DatabasePath)
	if err != nil {
		t.Fatalf("db.Open() unexpected error: %v", err)
	}
	ctx := context.Background()
	if err := reg.Add(ctx, []moddef.ContentRecord{{ID: "old_laser", Path: "x.json"}}); err != nil {
		t.Fatalf("Add() unexpected error: %v", err)
	}
	reg.Close()

	if err := applyPlan(ctx, cfg, plan); err != nil {
		t.Fatalf("applyPlan() unexpected error: %v", err)
	}

	reg, err = db.Open(cfg.DatabasePath)
	if err != nil {
		t.Fatalf("db.Open() unexpected error: %v", err)
	}
	defer reg.Close()
	stored, err := reg.List(ctx)
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	var ids []string
	for _, r := range stored {
		ids = append(ids, r.ID+"="+r.Path)
	}
	if got := strings.Join(ids, ","); got != "gauss=weapons/gauss.json,laser=weapons/laser.json" {
		t.Errorf("stored records = %s", got)
	}
}

func TestRunPassMissingModsDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.ModsDir = filepath.Join(cfg.ModsDir, "missing")
	if _, err := runPass(cfg); err == nil {
		t.Error("runPass() should fail when the mods directory is gone")
	}
}

func TestCheckManifest(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		path := filepath.Join(dir, "good", "mod.json")
		writeModFile(t, path, `{"Name": "Good", "Manifest": [{"Path": "a.json"}]}`)
		mod, err := checkManifest(path)
		if err != nil {
			t.Fatalf("checkManifest() unexpected error: %v", err)
		}
		if mod.Name != "Good" || !mod.Manifest[0].AddToDB {
			t.Errorf("checkManifest() = %+v", mod)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		path := filepath.Join(dir, "noname", "mod.json")
		writeModFile(t, path, `{"Description": "x"}`)
		if _, err := checkManifest(path); !errors.Is(err, moddef.ErrParse) {
			t.Errorf("checkManifest() error = %v, want ErrParse", err)
		}
	})

	t.Run("bad version", func(t *testing.T) {
		path := filepath.Join(dir, "badver", "mod.json")
		writeModFile(t, path, `{"Name": "Bad", "VersionMax": "latest"}`)
		if _, err := checkManifest(path); !errors.Is(err, moddef.ErrConfig) {
			t.Errorf("checkManifest() error = %v, want ErrConfig", err)
		}
	})
}
