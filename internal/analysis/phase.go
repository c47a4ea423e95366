package analysis

import "github.com/san-kum/hawkmoth/internal/dynamo"

// Point is one (x_n, x_{n+1}) pair.
type Point struct{ X, Y float64 }

// ReturnMap holds the first-return plot of a trajectory. For a
// one-dimensional map it traces the graph of the transition itself.
type ReturnMap struct {
	Label  string
	Points []Point
}

// GenerateReturnMap pairs every state of tr with its successor.
func GenerateReturnMap(label string, tr dynamo.Trajectory) *ReturnMap {
	rm := &ReturnMap{Label: label}
	if len(tr) < 2 {
		return rm
	}
	rm.Points = make([]Point, 0, len(tr)-1)
	for i := 0; i+1 < len(tr); i++ {
		rm.Points = append(rm.Points, Point{X: tr[i], Y: tr[i+1]})
	}
	return rm
}

// ReturnMapToASCII plots the pairs on the unit square with the diagonal
// x_{n+1} = x_n drawn underneath; fixed points sit on the diagonal.
func ReturnMapToASCII(rm *ReturnMap, width, height int) string {
	if rm == nil || len(rm.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	canvas := newCanvas(width, height)

	for col := 0; col < width; col++ {
		x := float64(col) / float64(width-1)
		row := height - 1 - int(x*float64(height-1))
		canvas[row][col] = '·'
	}

	for _, p := range rm.Points {
		col := int(dynamo.Clamp(p.X) * float64(width-1))
		row := height - 1 - int(dynamo.Clamp(p.Y)*float64(height-1))
		canvas[row][col] = '•'
	}

	return renderCanvas(canvas)
}
