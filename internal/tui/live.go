package tui

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	liveWidth   = 60
	trailLength = 8
	clearLine   = "\r\033[2K"
)

// LiveRenderer draws the state of a running simulation as a moving marker
// on the unit interval. It satisfies dynamo.Observer.
type LiveRenderer struct {
	out       io.Writer
	label     string
	frameRate int
	lastFrame time.Time
	trail     []int
	frames    int
}

// NewLiveRenderer writes one frame per step to out, paced at frameRate
// frames per second. A frameRate of zero draws as fast as the caller steps.
func NewLiveRenderer(out io.Writer, label string, frameRate int) *LiveRenderer {
	return &LiveRenderer{
		out:       out,
		label:     label,
		frameRate: frameRate,
		trail:     make([]int, 0, trailLength),
	}
}

func (r *LiveRenderer) OnStep(step int, x float64) {
	if r.frameRate > 0 {
		if wait := time.Second/time.Duration(r.frameRate) - time.Since(r.lastFrame); wait > 0 {
			time.Sleep(wait)
		}
		r.lastFrame = time.Now()
	}

	pos := column(x)
	r.trail = append(r.trail, pos)
	if len(r.trail) > trailLength {
		r.trail = r.trail[1:]
	}
	r.frames++

	fmt.Fprintf(r.out, "%s%s %4d %s %s", clearLine, dim.Render(r.label), step, r.strip(), white.Render(fmt.Sprintf("%.4f", x)))
}

// Done terminates the line of the last frame.
func (r *LiveRenderer) Done() {
	if r.frames > 0 {
		fmt.Fprintln(r.out)
	}
}

func (r *LiveRenderer) strip() string {
	row := []rune("│" + strings.Repeat(" ", liveWidth) + "│")
	for i, pos := range r.trail {
		c := '·'
		if i == len(r.trail)-1 {
			c = '●'
		}
		row[pos+1] = c
	}
	return cyan.Render(string(row))
}

func column(x float64) int {
	c := int(x * float64(liveWidth-1))
	return min(max(c, 0), liveWidth-1)
}
