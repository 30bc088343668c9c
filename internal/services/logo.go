package services

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/shopscribe/shopscribe-backend/internal/pkg/logger"
)

// Background palette for generated logos. The color for a given shop is
// picked by hashing its name, so regenerating yields the same logo.
var logoPalette = []color.NRGBA{
	{R: 0x2E, G: 0x86, B: 0xAB, A: 0xFF},
	{R: 0xF2, G: 0x6D, B: 0x21, A: 0xFF},
	{R: 0x4C, G: 0xAF, B: 0x50, A: 0xFF},
	{R: 0x7E, G: 0x57, B: 0xC2, A: 0xFF},
	{R: 0xC2, G: 0x18, B: 0x5B, A: 0xFF},
	{R: 0x00, G: 0x89, B: 0x7B, A: 0xFF},
	{R: 0x5D, G: 0x40, B: 0x37, A: 0xFF},
	{R: 0x45, G: 0x5A, B: 0x64, A: 0xFF},
}

// LogoService renders and stores shop logos under a local media directory.
// Generated logos are square PNGs with the shop's initials; uploaded images
// are center-cropped and resized before storage.
type LogoService interface {
	GenerateShopLogo(shopName string) (bytes.Buffer, error)
	SaveLogo(shopID string, png bytes.Buffer) (key string, url string, err error)
	ProcessUploadedLogo(raw []byte) (bytes.Buffer, error)
	DeleteLogo(key string)
}

type logoService struct {
	log      *logger.Logger
	mediaDir string
	baseURL  string
	fontFace font.Face
}

func NewLogoService(log *logger.Logger, mediaDir, baseURL, fontPath string) (LogoService, error) {
	serviceLog := log.With("service", "LogoService")

	if strings.TrimSpace(mediaDir) == "" {
		return nil, fmt.Errorf("media dir is empty")
	}
	if err := os.MkdirAll(filepath.Join(mediaDir, "shop_logo"), 0o755); err != nil {
		return nil, fmt.Errorf("could not create media dir: %w", err)
	}

	var face font.Face
	if strings.TrimSpace(fontPath) != "" {
		serviceLog.Info("Loading logo font", "font", fontPath)
		loaded, err := loadFontFace(fontPath, 206)
		if err != nil {
			return nil, fmt.Errorf("could not load logo font: %w", err)
		}
		face = loaded
	}

	return &logoService{
		log:      serviceLog,
		mediaDir: mediaDir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		fontFace: face,
	}, nil
}

func (ls *logoService) GenerateShopLogo(shopName string) (bytes.Buffer, error) {
	const size = 512

	dc := gg.NewContext(size, size)

	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()

	dc.SetColor(pickLogoColor(shopName))
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	initials := shopInitials(shopName)

	if ls.fontFace != nil {
		dc.SetFontFace(ls.fontFace)
	}
	tw, th := dc.MeasureString(initials)
	cx, cy := float64(size)/2, float64(size)/2

	dc.SetColor(color.White)
	dc.DrawString(initials, cx-(tw/2), cy+(th/2))

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

// SaveLogo writes the PNG under a versioned key so browsers never serve a
// stale cached logo after a change.
func (ls *logoService) SaveLogo(shopID string, png bytes.Buffer) (string, string, error) {
	key := fmt.Sprintf("shop_logo/%s/%d.png", shopID, time.Now().UnixNano())

	path := filepath.Join(ls.mediaDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create logo dir: %w", err)
	}
	if err := os.WriteFile(path, png.Bytes(), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write logo file: %w", err)
	}

	url := ls.baseURL + "/media/" + key
	return key, url, nil
}

func (ls *logoService) ProcessUploadedLogo(raw []byte) (bytes.Buffer, error) {
	const size = 512
	var out bytes.Buffer

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return out, fmt.Errorf("decode image: %w", err)
	}

	// Center-crop to square
	b := img.Bounds()
	w := b.Dx()
	h := b.Dy()
	side := w
	if h < w {
		side = h
	}
	x0 := b.Min.X + (w-side)/2
	y0 := b.Min.Y + (h-side)/2

	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(size, size)
	dc.DrawImage(dst, 0, 0)

	if err := dc.EncodePNG(&out); err != nil {
		return out, fmt.Errorf("encode png: %w", err)
	}
	return out, nil
}

func (ls *logoService) DeleteLogo(key string) {
	key = strings.TrimSpace(key)
	if key == "" || strings.Contains(key, "..") {
		return
	}
	path := filepath.Join(ls.mediaDir, filepath.FromSlash(key))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		ls.log.Warn("failed to delete old logo (ignored)", "key", key, "error", err)
	}
}

func pickLogoColor(shopName string) color.NRGBA {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(shopName))))
	return logoPalette[int(h.Sum32())%len(logoPalette)]
}

func shopInitials(name string) string {
	words := strings.Fields(strings.TrimSpace(name))
	if len(words) == 0 {
		return "?"
	}
	if len(words) == 1 {
		r := []rune(words[0])
		return strings.ToUpper(string(r[0]))
	}
	first := []rune(words[0])
	last := []rune(words[len(words)-1])
	return strings.ToUpper(string(first[0]) + string(last[0]))
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	face := truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return face, nil
}
