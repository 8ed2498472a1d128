package render

import (
	"image"

	"golang.org/x/image/draw"
)

// Downscale resizes img to w×h with Catmull-Rom resampling. Used to
// turn supersampled renders into the requested output size.
func Downscale(img image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
