package imgutil

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// FitWithin は縦横比を保ったまま maxWidth x maxHeight の枠に収まるサイズを返します。
// 両辺が枠内に収まっている画像は拡大せず、そのままのサイズを返します。
func FitWithin(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}

	if width*maxHeight >= height*maxWidth {
		// 幅が支配的
		return maxWidth, scaleSide(height, maxWidth, width)
	}
	return scaleSide(width, maxHeight, height), maxHeight
}

// scaleSide は side * num / den を四捨五入し、最低 1 を保証します。
func scaleSide(side, num, den int) int {
	v := (side*num*2 + den) / (den * 2)
	if v < 1 {
		return 1
	}
	return v
}

// Render は白背景のキャンバスに画像を width x height で描画します。
// JPEG はアルファを持たないため、透過部分は白になります。
func Render(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	sb := src.Bounds()
	if sb.Dx() == width && sb.Dy() == height {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Over)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)
	return dst
}
