package services

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestShopInitials(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Corner Store", "CS"},
		{"The Daily Grind Cafe", "TC"},
		{"bodega", "B"},
		{"  ", "?"},
	}
	for _, tc := range cases {
		if got := shopInitials(tc.name); got != tc.want {
			t.Fatalf("shopInitials(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestPickLogoColor_Deterministic(t *testing.T) {
	a := pickLogoColor("Corner Store")
	b := pickLogoColor("corner store  ")
	if a != b {
		t.Fatalf("color must be stable under case and whitespace, got %v vs %v", a, b)
	}
}

func TestLogoService_GenerateAndSave(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewLogoService(testLogger(t), dir, "http://localhost:8080", "")
	if err != nil {
		t.Fatalf("NewLogoService: %v", err)
	}

	buf, err := svc.GenerateShopLogo("Corner Store")
	if err != nil {
		t.Fatalf("GenerateShopLogo: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("generated logo is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 512 || img.Bounds().Dy() != 512 {
		t.Fatalf("expected 512x512, got %v", img.Bounds())
	}

	key, url, err := svc.SaveLogo("owner-1", buf)
	if err != nil {
		t.Fatalf("SaveLogo: %v", err)
	}
	if !strings.HasPrefix(key, "shop_logo/owner-1/") || !strings.HasSuffix(key, ".png") {
		t.Fatalf("unexpected key %q", key)
	}
	if !strings.HasPrefix(url, "http://localhost:8080/media/shop_logo/") {
		t.Fatalf("unexpected url %q", url)
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(key))); err != nil {
		t.Fatalf("logo file missing: %v", err)
	}

	svc.DeleteLogo(key)
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(key))); !os.IsNotExist(err) {
		t.Fatalf("expected logo gone after delete")
	}
}

func TestLogoService_ProcessUploadedLogo(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewLogoService(testLogger(t), dir, "http://localhost:8080", "")
	if err != nil {
		t.Fatalf("NewLogoService: %v", err)
	}

	// Use a generated logo as the upload payload; any decodable image works.
	src, err := svc.GenerateShopLogo("Seed")
	if err != nil {
		t.Fatalf("GenerateShopLogo: %v", err)
	}
	out, err := svc.ProcessUploadedLogo(src.Bytes())
	if err != nil {
		t.Fatalf("ProcessUploadedLogo: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("processed logo is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 512 || img.Bounds().Dy() != 512 {
		t.Fatalf("expected 512x512, got %v", img.Bounds())
	}

	if _, err := svc.ProcessUploadedLogo([]byte("not an image")); err == nil {
		t.Fatalf("expected decode error for junk input")
	}
}
