package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mod-manifest-resolver/moddef"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestFind(t *testing.T) {
	modsDir := t.TempDir()
	writeFile(t, filepath.Join(modsDir, "Zeta", "mod.json"), `{"Name": "Zeta"}`)
	writeFile(t, filepath.Join(modsDir, "Alpha", "mod.json"), `{"Name": "Alpha", "DependsOn": ["Zeta"]}`)
	writeFile(t, filepath.Join(modsDir, "Broken", "mod.json"), `{"Description": "no name"}`)
	writeFile(t, filepath.Join(modsDir, ".git", "mod.json"), `{"Name": "Hidden"}`)
	writeFile(t, filepath.Join(modsDir, "_disabled", "mod.json"), `{"Name": "Underscore"}`)
	writeFile(t, filepath.Join(modsDir, "Alpha", "Nested", "mod.json"), `{"Name": "Nested"}`)
	writeFile(t, filepath.Join(modsDir, "NoManifest", "readme.txt"), "hi")
	writeFile(t, filepath.Join(modsDir, "loose.json"), `{"Name": "Loose"}`)

	sources, err := Find(modsDir, "")
	if err != nil {
		t.Fatalf("Find() unexpected error: %v", err)
	}

	var got []string
	for _, s := range sources {
		got = append(got, filepath.Base(filepath.Dir(s.Path)))
	}
	if strings.Join(got, ",") != "Alpha,Broken,Zeta" {
		t.Fatalf("Find() dirs = %v, want [Alpha Broken Zeta]", got)
	}

	if sources[0].Err != nil || sources[0].Mod.Name != "Alpha" {
		t.Errorf("Alpha source = %+v", sources[0])
	}
	if sources[0].Mod.Directory != filepath.Join(modsDir, "Alpha") {
		t.Errorf("Alpha Directory = %q", sources[0].Mod.Directory)
	}
	if !errors.Is(sources[1].Err, moddef.ErrParse) {
		t.Errorf("Broken error = %v, want ErrParse", sources[1].Err)
	}
}

func TestFindCustomManifestName(t *testing.T) {
	modsDir := t.TempDir()
	writeFile(t, filepath.Join(modsDir, "A", "mod.json"), `{"Name": "A"}`)
	writeFile(t, filepath.Join(modsDir, "B", "manifest.json"), `{"Name": "B"}`)

	sources, err := Find(modsDir, "manifest.json")
	if err != nil {
		t.Fatalf("Find() unexpected error: %v", err)
	}
	if len(sources) != 1 || sources[0].Mod.Name != "B" {
		t.Errorf("Find() = %+v, want only B", sources)
	}
}

func TestFindMissingDir(t *testing.T) {
	if _, err := Find(filepath.Join(t.TempDir(), "nope"), ""); err == nil {
		t.Error("Find() should fail for a missing mods directory")
	}
}

func TestExpandEntry(t *testing.T) {
	modDir := t.TempDir()
	writeFile(t, filepath.Join(modDir, "weapons", "laser.json"), "{}")
	writeFile(t, filepath.Join(modDir, "weapons", "heavy", "gauss.json"), "{}")
	writeFile(t, filepath.Join(modDir, "weapons", ".DS_Store"), "")
	writeFile(t, filepath.Join(modDir, "chassis.json"), "{}")
	mod := moddef.New("M")
	mod.Directory = modDir

	t.Run("directory", func(t *testing.T) {
		dir := moddef.NewModEntry("weapons")
		dir.Type = "WeaponDef"
		dir.ShouldMergeJSON = true

		entries, err := ExpandEntry(mod, dir)
		if err != nil {
			t.Fatalf("ExpandEntry() unexpected error: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("len(entries) = %d, want 2", len(entries))
		}
		want := []struct{ path, id string }{
			{"weapons/heavy/gauss.json", "gauss"},
			{"weapons/laser.json", "laser"},
		}
		for i, w := range want {
			e := entries[i]
			if e.Path != w.path || e.ID != w.id {
				t.Errorf("entries[%d] = %s/%s, want %s/%s", i, e.Path, e.ID, w.path, w.id)
			}
			if e.Type != "WeaponDef" || !e.ShouldMergeJSON || !e.AddToDB {
				t.Errorf("entries[%d] did not inherit settings: %+v", i, e)
			}
		}
	})

	t.Run("file without id", func(t *testing.T) {
		entries, err := ExpandEntry(mod, moddef.NewModEntry("chassis.json"))
		if err != nil {
			t.Fatalf("ExpandEntry() unexpected error: %v", err)
		}
		if len(entries) != 1 || entries[0].ID != "chassis" {
			t.Errorf("ExpandEntry() = %+v, want id chassis", entries)
		}
	})

	t.Run("file with id", func(t *testing.T) {
		e := moddef.NewModEntry("chassis.json")
		e.ID = "custom"
		entries, err := ExpandEntry(mod, e)
		if err != nil {
			t.Fatalf("ExpandEntry() unexpected error: %v", err)
		}
		if entries[0].ID != "custom" {
			t.Errorf("ID = %q, want custom", entries[0].ID)
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, err := ExpandEntry(mod, moddef.NewModEntry("nope")); err == nil {
			t.Error("ExpandEntry() should fail for a missing path")
		}
	})
}

func TestExpandEntryStaysInModDir(t *testing.T) {
	root := t.TempDir()
	modDir := filepath.Join(root, "M")
	writeFile(t, filepath.Join(modDir, "chassis.json"), "{}")
	writeFile(t, filepath.Join(root, "Other", "secret.json"), "{}")
	mod := moddef.New("M")
	mod.Directory = modDir

	for _, path := range []string{"../Other/secret.json", "..", "data/../../Other", filepath.Join(root, "Other", "secret.json")} {
		t.Run(path, func(t *testing.T) {
			entries, err := ExpandEntry(mod, moddef.NewModEntry(path))
			if !errors.Is(err, ErrOutsideMod) {
				t.Errorf("ExpandEntry(%q) = %v, %v; want ErrOutsideMod", path, entries, err)
			}
		})
	}

	t.Run("dot segments inside the mod", func(t *testing.T) {
		entries, err := ExpandEntry(mod, moddef.NewModEntry("data/../chassis.json"))
		if err != nil {
			t.Fatalf("ExpandEntry() unexpected error: %v", err)
		}
		if len(entries) != 1 || entries[0].ID != "chassis" {
			t.Errorf("ExpandEntry() = %+v", entries)
		}
	})
}

func TestIDFromFile(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a/b/weapon_laser.json", "weapon_laser"},
		{"noext", "noext"},
		{"archive.tar.gz", "archive.tar"},
	}
	for _, tt := range tests {
		if got := idFromFile(tt.input); got != tt.expected {
			t.Errorf("idFromFile(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
