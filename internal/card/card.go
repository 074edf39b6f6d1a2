// Package card renders the digital membership card: a fixed-layout PNG
// with the member's identity and a QR code resolving to the member id.
// Rendering is entirely local.
package card

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Card dimensions in pixels.
const (
	Width  = 384
	Height = 224
)

const qrSide = 96

// QRPrefix is prepended to the member id in the QR payload so scanners can
// tell a membership card from an arbitrary id.
const QRPrefix = "ACML:"

// Data is everything the card displays.
type Data struct {
	MemberID  string
	FirstName string
	LastName  string
	Status    string
	ValidThru string // e.g. "31 DEC 2026"
}

// QRPayload returns the string encoded in the card's QR code.
func (d Data) QRPayload() string {
	return QRPrefix + d.MemberID
}

// ShortID returns the truncated member id printed on the card.
func (d Data) ShortID() string {
	if len(d.MemberID) <= 8 {
		return d.MemberID
	}
	return d.MemberID[:8]
}

// FileName returns the download name for the rendered card.
func (d Data) FileName() string {
	first := sanitizeName(d.FirstName)
	last := sanitizeName(d.LastName)
	return fmt.Sprintf("ACML-Carte-%s-%s.png", first, last)
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Membre"
	}
	return strings.ReplaceAll(name, " ", "-")
}

// Renderer produces the card image bytes.
type Renderer interface {
	Render(d Data) ([]byte, error)
}

// PNGRenderer renders the card as a PNG.
type PNGRenderer struct{}

// NewPNGRenderer creates the standard card renderer.
func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{}
}

var (
	cardGreen = color.RGBA{R: 0x1b, G: 0x5e, B: 0x20, A: 0xff}
	cardInk   = color.RGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xff}
	cardGrey  = color.RGBA{R: 0x61, G: 0x61, B: 0x61, A: 0xff}
)

// Render draws the fixed 384x224 layout: header band with the organization
// name, the QR code top-right under it, then the holder's identity lines.
func (r *PNGRenderer) Render(d Data) ([]byte, error) {
	if d.MemberID == "" {
		return nil, fmt.Errorf("card requires a member id")
	}

	qr, err := qrcode.New(d.QRPayload(), qrcode.Highest)
	if err != nil {
		return nil, fmt.Errorf("encoding qr: %w", err)
	}
	qr.DisableBorder = true
	qrImg := qr.Image(qrSide)

	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	// Header band.
	header := image.Rect(0, 0, Width, 40)
	draw.Draw(img, header, image.NewUniform(cardGreen), image.Point{}, draw.Src)
	drawText(img, 12, 25, "ACML - Carte de membre", color.White)

	// QR code, top-right under the band.
	qrAt := image.Rect(Width-qrSide-16, 56, Width-16, 56+qrSide)
	draw.Draw(img, qrAt, qrImg, qrImg.Bounds().Min, draw.Src)

	name := strings.TrimSpace(d.FirstName + " " + d.LastName)
	drawText(img, 16, 80, name, cardInk)
	drawText(img, 16, 104, fmt.Sprintf("No %s  %s", d.ShortID(), d.Status), cardGrey)
	if d.ValidThru != "" {
		drawText(img, 16, 200, "Valide jusqu'au "+d.ValidThru, cardGrey)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawText(dst draw.Image, x, y int, text string, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
