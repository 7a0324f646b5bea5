package material

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFollowsIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cells/sand.yaml", `
materials:
  - name: sand
    behavior: sand
    color: "#e2c275"
    density: 3
`)
	root := writeFile(t, dir, "materials.yaml", `
include:
  - cells/sand.yaml
materials:
  - name: sand_tap
    behavior: tap
    target: sand
    color: "#a0522d"
  - name: stone
    behavior: static
    color: "#777777"
`)

	tbl, err := Load(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("expected 3 materials, got %d", tbl.Len())
	}
	sandID, _ := tbl.ResolveByName("sand")
	sand, _ := tbl.Resolve(sandID)
	if sand.Density != 3 || sand.Behavior.Kind != Sand {
		t.Fatalf("unexpected sand %+v", sand)
	}
	tapID, _ := tbl.ResolveByName("sand_tap")
	tap, _ := tbl.Resolve(tapID)
	if tap.Behavior.Target != sandID {
		t.Fatalf("tap targets %d, want %d", tap.Behavior.Target, sandID)
	}
}

func TestLoadReportsPathOnError(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yaml", "materials: [ {name: x, behavior: sand, color: \"#ffffff\"")
	_, err := Load(bad)
	if err == nil || !strings.Contains(err.Error(), "bad.yaml") {
		t.Fatalf("expected a parse error naming the file, got %v", err)
	}

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected a read error naming the file, got %v", err)
	}
}

func TestLoadDetectsIncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "include: [b.yaml]\n")
	writeFile(t, dir, "b.yaml", "include: [a.yaml]\n")
	if _, err := Load(filepath.Join(dir, "a.yaml")); err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("expected an include cycle error, got %v", err)
	}
}

func TestBundledMaterialSet(t *testing.T) {
	tbl, err := Load(filepath.Join("..", "..", "assets", "materials", "index.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, name := range []string{"stone", "sand", "water", "sand_tap", "water_tap", "oil_tap"} {
		if _, ok := tbl.ResolveByName(name); !ok {
			t.Fatalf("bundled set lacks %q", name)
		}
	}
	tapID, _ := tbl.ResolveByName("oil_tap")
	oilID, _ := tbl.ResolveByName("oil")
	tap, _ := tbl.Resolve(tapID)
	if tap.Behavior.Kind != Tap || tap.Behavior.Target != oilID {
		t.Fatalf("oil_tap behavior %+v", tap.Behavior)
	}
}
