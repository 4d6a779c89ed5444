package view

import (
	"fmt"
	"html/template"
	"math/rand"
)

const starCount = 150

// Star is one twinkling dot of the background.
type Star struct {
	Style template.CSS
}

// Stars scatters n stars with random position, size and pulse timing.
func Stars(n int) []Star {
	stars := make([]Star, n)
	for i := range stars {
		size := rand.Float64()*3 + 1
		stars[i].Style = template.CSS(fmt.Sprintf(
			"left: %.2f%%; top: %.2f%%; width: %.2fpx; height: %.2fpx; animation-delay: %.2fs; animation-duration: %.2fs",
			rand.Float64()*100,
			rand.Float64()*100,
			size,
			size,
			rand.Float64()*5,
			rand.Float64()*4+3,
		))
	}
	return stars
}
