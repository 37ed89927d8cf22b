package imaging

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// Geometry of the composite, matching the look of the app's own
// memory images. Exposed as named constants so the algorithm stays
// testable independent of tuning.
const (
	// CornerRadius is the corner radius of the overlay frame, in pixels.
	CornerRadius = 60

	// OutlineSize is the thickness of the outline drawn behind the
	// overlay, in pixels.
	OutlineSize = 7

	// PasteOffsetX and PasteOffsetY position the overlay's top-left
	// corner on the base image.
	PasteOffsetX = 55
	PasteOffsetY = 55

	// OverlayScale is the factor the overlay photo is scaled by
	// before pasting.
	OverlayScale = 0.3
)

// Compose builds the composite "memory" image from a moment's two
// photos.
//
// rearPhotoLarge selects the roles: when true the primary (rear
// camera) photo is the base and the secondary photo is the scaled
// overlay; when false the roles swap. The algorithm itself does not
// change.
//
// Steps, all deterministic:
//  1. Scale the overlay by OverlayScale using Catmull-Rom resampling.
//  2. Build a rounded-rectangle alpha mask of the scaled size with
//     CornerRadius corners.
//  3. Paste the base onto a canvas of its own size at the origin.
//  4. Draw a solid black rounded rectangle, OutlineSize larger than
//     the overlay box with radius CornerRadius+OutlineSize, behind the
//     overlay position.
//  5. Paste the masked overlay at (PasteOffsetX, PasteOffsetY).
//
// The result has the base's dimensions.
func Compose(primary, secondary image.Image, rearPhotoLarge bool) *image.RGBA {
	base, overlay := primary, secondary
	if !rearPhotoLarge {
		base, overlay = secondary, primary
	}

	scaledW := int(float64(overlay.Bounds().Dx()) * OverlayScale)
	scaledH := int(float64(overlay.Bounds().Dy()) * OverlayScale)
	scaled := image.NewRGBA(image.Rect(0, 0, scaledW, scaledH))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), overlay, overlay.Bounds(), xdraw.Src, nil)

	mask := roundedMask(scaledW, scaledH, CornerRadius)

	canvas := image.NewRGBA(image.Rect(0, 0, base.Bounds().Dx(), base.Bounds().Dy()))
	xdraw.Draw(canvas, canvas.Bounds(), base, base.Bounds().Min, xdraw.Src)

	outlineBox := image.Rect(
		PasteOffsetX-OutlineSize,
		PasteOffsetY-OutlineSize,
		PasteOffsetX+scaledW+OutlineSize,
		PasteOffsetY+scaledH+OutlineSize,
	)
	outlineMask := roundedMask(outlineBox.Dx(), outlineBox.Dy(), CornerRadius+OutlineSize)
	xdraw.DrawMask(canvas, outlineBox, image.NewUniform(color.Black), image.Point{}, outlineMask, image.Point{}, xdraw.Over)

	overlayBox := image.Rect(PasteOffsetX, PasteOffsetY, PasteOffsetX+scaledW, PasteOffsetY+scaledH)
	xdraw.DrawMask(canvas, overlayBox, scaled, image.Point{}, mask, image.Point{}, xdraw.Over)

	return canvas
}

// roundedMask builds a single-channel mask of the given size: fully
// opaque inside a rounded rectangle with the given corner radius,
// fully transparent outside.
func roundedMask(w, h, radius int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	r2 := radius * radius

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Nearest point of the inner rectangle (the rectangle
			// inset by radius); pixels within radius of it are inside.
			cx, cy := x, y
			if cx < radius {
				cx = radius
			} else if cx > w-1-radius {
				cx = w - 1 - radius
			}
			if cy < radius {
				cy = radius
			} else if cy > h-1-radius {
				cy = h - 1 - radius
			}
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r2 {
				mask.SetAlpha(x, y, color.Alpha{A: 0xFF})
			}
		}
	}
	return mask
}
