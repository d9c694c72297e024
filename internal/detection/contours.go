package detection

import (
	"image"
)

// ContourNode is one region of a binary mask in the contour hierarchy.
//
// Outer nodes are 8-connected ink components; hole nodes are 4-connected
// background components fully enclosed by ink. The tree alternates between
// the two: the root stands for the background touching the mask border, its
// children are top-level ink components, their children are the holes inside
// them, and so on. Children are ordered by the raster position (top to
// bottom, then left to right) of their first pixel.
type ContourNode struct {
	// Hole is true for enclosed background regions.
	Hole bool

	// Bounds is the bounding box of Pixels; Max is exclusive.
	Bounds image.Rectangle

	// Pixels lists every pixel of the region. The first entry is the
	// region's raster-first pixel. The root carries no pixels.
	Pixels []image.Point

	Parent   *ContourNode
	Children []*ContourNode
}

// Area returns the number of pixels in the region itself.
func (n *ContourNode) Area() int {
	return len(n.Pixels)
}

// EnclosedArea returns the area bounded by the region's outer border:
// its own pixels plus everything nested inside it.
func (n *ContourNode) EnclosedArea() int {
	total := len(n.Pixels)
	for _, c := range n.Children {
		total += c.EnclosedArea()
	}
	return total
}

// IsRectangle reports whether an ink region's outer border is an
// axis-aligned quadrilateral: the region together with its holes fills its
// bounding box exactly. Regions thinner than two pixels never qualify since
// their border degenerates to a line.
func (n *ContourNode) IsRectangle() bool {
	if n.Hole || n.Parent == nil {
		return false
	}
	w, h := n.Bounds.Dx(), n.Bounds.Dy()
	if w < 2 || h < 2 {
		return false
	}
	return n.EnclosedArea() == w*h
}

// Corners returns the four inclusive corner pixels of the bounding box in
// clockwise order starting at the top-left.
func (n *ContourNode) Corners() []image.Point {
	b := n.Bounds
	return []image.Point{
		{X: b.Min.X, Y: b.Min.Y},
		{X: b.Max.X - 1, Y: b.Min.Y},
		{X: b.Max.X - 1, Y: b.Max.Y - 1},
		{X: b.Min.X, Y: b.Max.Y - 1},
	}
}

// Centroid returns the centre of mass of the filled region (own pixels plus
// holes), i.e. the first-order image moments divided by the zeroth.
func (n *ContourNode) Centroid() (float64, float64) {
	var sx, sy, m00 float64
	var walk func(*ContourNode)
	walk = func(c *ContourNode) {
		for _, p := range c.Pixels {
			sx += float64(p.X)
			sy += float64(p.Y)
		}
		m00 += float64(len(c.Pixels))
		for _, child := range c.Children {
			walk(child)
		}
	}
	walk(n)
	if m00 == 0 {
		return 0, 0
	}
	return sx / m00, sy / m00
}

// Walk visits n and every descendant depth-first, parents before children.
// Returning false from fn skips the node's subtree.
func (n *ContourNode) Walk(fn func(*ContourNode) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// BuildContourTree labels every region of mask and links them into a tree.
//
// Parameters:
//   - mask: Binary image; pixels brighter than 127 are ink.
//
// Returns the root node. Its Bounds cover the whole mask.
//
// # Algorithm
//
//  1. Labelling: a raster scan starts an iterative flood fill at every
//     unlabelled pixel. Ink uses 8-connectivity, background 4-connectivity,
//     which keeps diagonal ink strokes closed around their holes.
//  2. Parents: the pixel left of an ink region's raster-first pixel is
//     background of the region that surrounds it; the pixel above a hole's
//     raster-first pixel is ink of the region that encloses it. Background
//     touching the mask border belongs to the root.
func BuildContourTree(mask *image.Gray) *ContourNode {
	b := mask.Bounds()
	width, height := b.Dx(), b.Dy()
	root := &ContourNode{Hole: true, Bounds: b}

	ink := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			ink[y*width+x] = mask.Pix[y*mask.Stride+x] > 127
		}
	}

	// labels hold node index + 1; 0 means unvisited.
	labels := make([]int, width*height)
	var nodes []*ContourNode
	outside := map[int]bool{}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if labels[y*width+x] != 0 {
				continue
			}
			id := len(nodes) + 1
			node := &ContourNode{Hole: !ink[y*width+x]}
			touchesBorder := floodFill(ink, labels, width, height, x, y, id, node)
			if node.Hole && touchesBorder {
				outside[id] = true
				node.Pixels = nil
			}
			nodes = append(nodes, node)
		}
	}

	for i, node := range nodes {
		if outside[i+1] {
			continue
		}
		first := node.Pixels[0]

		var parent *ContourNode
		if !node.Hole {
			if first.X == 0 {
				parent = root
			} else if l := labels[first.Y*width+first.X-1]; outside[l] {
				parent = root
			} else {
				parent = nodes[l-1]
			}
		} else {
			parent = nodes[labels[(first.Y-1)*width+first.X]-1]
		}

		node.Parent = parent
		parent.Children = append(parent.Children, node)
	}

	if b.Min != (image.Point{}) {
		for _, node := range nodes {
			for i := range node.Pixels {
				node.Pixels[i] = node.Pixels[i].Add(b.Min)
			}
			node.Bounds = node.Bounds.Add(b.Min)
		}
	}

	return root
}

// floodFill labels the region containing (startX, startY) with id, records
// its pixels and bounds on node, and reports whether it touches the border.
//
// Uses an explicit stack so large background regions cannot overflow the
// goroutine stack.
func floodFill(ink []bool, labels []int, width, height, startX, startY, id int, node *ContourNode) bool {
	want := ink[startY*width+startX]
	touches := false
	minX, minY, maxX, maxY := startX, startY, startX, startY

	stack := []image.Point{{X: startX, Y: startY}}
	labels[startY*width+startX] = id

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node.Pixels = append(node.Pixels, p)
		if p.X == 0 || p.Y == 0 || p.X == width-1 || p.Y == height-1 {
			touches = true
		}
		minX, minY = min(minX, p.X), min(minY, p.Y)
		maxX, maxY = max(maxX, p.X), max(maxY, p.Y)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				// Background only spreads through edges, not corners.
				if !want && dx != 0 && dy != 0 {
					continue
				}
				nx, ny := p.X+dx, p.Y+dy
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				i := ny*width + nx
				if labels[i] != 0 || ink[i] != want {
					continue
				}
				labels[i] = id
				stack = append(stack, image.Point{X: nx, Y: ny})
			}
		}
	}

	node.Bounds = image.Rect(minX, minY, maxX+1, maxY+1)
	return touches
}
