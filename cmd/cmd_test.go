package cmd

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/lehigh-university-libraries/collager/internal/pool"
)

func writeFixture(t *testing.T) (configPath, dir string) {
	t.Helper()
	dir = t.TempDir() + string(filepath.Separator)
	for _, name := range []string{"a.png", "b.png"} {
		if err := imaging.Save(imaging.New(240, 160, color.RGBA{R: 200, A: 255}), dir+name); err != nil {
			t.Fatal(err)
		}
	}
	configPath = filepath.Join(t.TempDir(), "config.yaml")
	body := "width: 160\nheight: 100\nimageDirectories:\n  - " + dir + "\n"
	if err := os.WriteFile(configPath, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return configPath, dir
}

func TestIndexCommandExport(t *testing.T) {
	configPath, _ := writeFixture(t)
	snapshot := filepath.Join(t.TempDir(), "pool.parquet")

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"index", "--config", configPath, "--export", snapshot})
	if err := root.ExecuteContext(t.Context()); err != nil {
		t.Fatalf("index failed: %v", err)
	}

	if !strings.Contains(out.String(), "2 images in 1 directories") {
		t.Errorf("Unexpected output %q", out.String())
	}
	p, err := pool.LoadSnapshot(snapshot)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if p.Total != 2 {
		t.Errorf("Expected 2 images in snapshot, got %d", p.Total)
	}
}

func TestRenderCommand(t *testing.T) {
	configPath, _ := writeFixture(t)
	out := filepath.Join(t.TempDir(), "collage.jpg")

	root := NewRootCmd()
	root.SetArgs([]string{"render", "--config", configPath, "--out", out, "--seed", "3"})
	if err := root.ExecuteContext(t.Context()); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	img, err := imaging.Open(out)
	if err != nil {
		t.Fatalf("Failed to open collage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 100 {
		t.Errorf("Expected 160x100, got %v", b)
	}
}

func TestRenderCommandRejectsFormat(t *testing.T) {
	configPath, _ := writeFixture(t)

	root := NewRootCmd()
	root.SetArgs([]string{"render", "--config", configPath, "--out", filepath.Join(t.TempDir(), "collage.webp")})
	root.SilenceUsage = true
	root.SilenceErrors = true
	if err := root.ExecuteContext(t.Context()); err == nil {
		t.Error("Expected error for unsupported output format")
	}
}
