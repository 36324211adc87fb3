package render

import (
	"image/color"
	"os"
	"testing"

	"github.com/disintegration/imaging"
)

func writeImage(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := imaging.Encode(f, imaging.New(w, h, c), imaging.PNG); err != nil {
		t.Fatal(err)
	}
}
