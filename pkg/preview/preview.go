// Package preview draws wireframe PNG previews of hulls in any dimension.
// Points are flattened onto the page with an oblique projection: x and y
// map straight through, each further axis is drawn at its own angle.
package preview

import (
	"image"
	"math"
	"sort"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
)

const padding = 24

// axis returns the page direction of coordinate k.
func axis(k int) (dx, dy float64) {
	switch k {
	case 0:
		return 1, 0
	case 1:
		return 0, 1
	}
	// Remaining axes fan out between the diagonals, shrinking slightly so
	// they stay distinguishable.
	theta := math.Pi/4 + float64(k-2)*math.Pi/7
	scale := 0.5 / (1 + 0.25*float64(k-2))
	return scale * math.Cos(theta), scale * math.Sin(theta)
}

// Project maps a point of any dimension onto the page plane.
func Project(p []float64) (x, y float64) {
	for k, v := range p {
		dx, dy := axis(k)
		x += v * dx
		y += v * dy
	}
	return x, y
}

// Edges returns the unique undirected edges of a flat triangle list, two
// indices per edge, sorted.
func Edges(triangles []int) []int {
	seen := make(map[[2]int]bool)
	var keys [][2]int
	for t := 0; t+2 < len(triangles); t += 3 {
		for j := 0; j < 3; j++ {
			a, b := triangles[t+j], triangles[t+(j+1)%3]
			if a > b {
				a, b = b, a
			}
			k := [2]int{a, b}
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	out := make([]int, 0, 2*len(keys))
	for _, k := range keys {
		out = append(out, k[0], k[1])
	}
	return out
}

// Render draws the edges (index pairs into points) and every point onto a
// size by size image.
func Render(points [][]float64, edges []int, size int) (image.Image, error) {
	c, err := draw(points, edges, size)
	if err != nil {
		return nil, err
	}
	return c.Image(), nil
}

// SavePNG renders like Render and writes the result to path.
func SavePNG(path string, points [][]float64, edges []int, size int) error {
	c, err := draw(points, edges, size)
	if err != nil {
		return err
	}
	if err := c.SavePNG(path); err != nil {
		return errors.Wrapf(err, "preview: save %s", path)
	}
	return nil
}

func draw(points [][]float64, edges []int, size int) (*gg.Context, error) {
	if size <= 2*padding {
		return nil, errors.Errorf("preview: image size %d too small", size)
	}
	if len(edges)%2 != 0 {
		return nil, errors.Errorf("preview: odd edge list length %d", len(edges))
	}
	for _, i := range edges {
		if i < 0 || i >= len(points) {
			return nil, errors.Errorf("preview: edge index %d out of range", i)
		}
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, p := range points {
		xs[i], ys[i] = Project(p)
		minX = math.Min(minX, xs[i])
		minY = math.Min(minY, ys[i])
		maxX = math.Max(maxX, xs[i])
		maxY = math.Max(maxY, ys[i])
	}
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 || math.IsInf(span, 0) {
		span = 1
	}
	scale := float64(size-2*padding) / span

	// Flip y so the origin is at the bottom left.
	px := func(i int) (float64, float64) {
		return padding + (xs[i]-minX)*scale, float64(size) - padding - (ys[i]-minY)*scale
	}

	c := gg.NewContext(size, size)
	c.SetRGB(0, 0, 0)
	c.DrawRectangle(0, 0, float64(size), float64(size))
	c.Fill()

	c.SetLineWidth(1.5)
	c.SetRGB(0, 1, 1)
	for e := 0; e+1 < len(edges); e += 2 {
		x0, y0 := px(edges[e])
		x1, y1 := px(edges[e+1])
		c.MoveTo(x0, y0)
		c.LineTo(x1, y1)
	}
	c.Stroke()

	c.SetRGB(1, 0.6, 0)
	for i := range points {
		x, y := px(i)
		c.DrawCircle(x, y, 2.5)
	}
	c.Fill()
	return c, nil
}
