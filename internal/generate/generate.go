package generate

import (
	"fmt"
	"io"
	"math"

	"codeberg.org/mutker/crayontools/internal/errors"
	"codeberg.org/mutker/crayontools/internal/logger"
)

const (
	minSpikeStep   = 2
	DefaultMaxStep = 15
	DefaultStep    = 15
)

// Point is a single signal sample.
type Point struct {
	Time  int
	Value int
}

// Generator produces spike trains and signals from a random Source.
type Generator struct {
	src Source
}

func New(src Source) *Generator {
	return &Generator{src: src}
}

// SpikeTrain advances from start by random steps in [2, maxStep] and emits
// every new timestamp until the running time reaches stop.
func (g *Generator) SpikeTrain(start, stop, maxStep int, emit func(t int) error) error {
	errFactory := errors.New()

	if maxStep < minSpikeStep {
		return errFactory.WithData(ErrInvalidRange, fmt.Sprintf("max step %d < %d", maxStep, minSpikeStep))
	}
	if overflows(stop, maxStep) {
		return errFactory.WithData(ErrInvalidRange, fmt.Sprintf("stop %d + max step %d overflows", stop, maxStep))
	}

	logger.Debug().
		Int("start", start).
		Int("stop", stop).
		Int("max_step", maxStep).
		Msg("Generating spike train")

	for t := start; t < stop; {
		t += g.src.IntRange(minSpikeStep, maxStep)
		if err := emit(t); err != nil {
			return errFactory.Wrap(ErrEmit, err)
		}
	}

	return nil
}

// Signal advances from start by a fixed step and emits a point with a value
// drawn from [yMin, yMax] until the running time reaches stop.
func (g *Generator) Signal(start, stop, yMin, yMax, step int, emit func(p Point) error) error {
	errFactory := errors.New()

	if yMin > yMax {
		return errFactory.WithData(ErrInvalidRange, fmt.Sprintf("y min %d > y max %d", yMin, yMax))
	}
	if step <= 0 {
		return errFactory.WithData(ErrInvalidRange, fmt.Sprintf("step %d <= 0", step))
	}
	if overflows(stop, step) {
		return errFactory.WithData(ErrInvalidRange, fmt.Sprintf("stop %d + step %d overflows", stop, step))
	}

	logger.Debug().
		Int("start", start).
		Int("stop", stop).
		Int("y_min", yMin).
		Int("y_max", yMax).
		Int("step", step).
		Msg("Generating signal")

	for t := start; t < stop; {
		t += step
		if err := emit(Point{Time: t, Value: g.src.IntRange(yMin, yMax)}); err != nil {
			return errFactory.Wrap(ErrEmit, err)
		}
	}

	return nil
}

// overflows reports whether a step of up to maxStep taken from below stop
// can pass math.MaxInt.
func overflows(stop, maxStep int) bool {
	return stop > math.MaxInt-maxStep+1
}

// Printer writes samples as comma terminated lines.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Spike(t int) error {
	_, err := fmt.Fprintf(p.w, "%d,\n", t)
	return err
}

func (p *Printer) Point(pt Point) error {
	_, err := fmt.Fprintf(p.w, "%d, %d,\n", pt.Time, pt.Value)
	return err
}
