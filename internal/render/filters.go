package render

import (
	"image"

	"github.com/disintegration/gift"
)

// Smooth applies a Gaussian blur with the given sigma. sigma <= 0
// returns the image unchanged.
func Smooth(img image.Image, sigma float32) image.Image {
	if sigma <= 0 {
		return img
	}
	g := gift.New(gift.GaussianBlur(sigma))
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}
