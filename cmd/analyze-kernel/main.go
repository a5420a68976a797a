// Command analyze-kernel tabulates the SOQAH blending functions and their
// derivatives for a range of shape parameters and reports how well the
// kernel keeps its defining identities.
//
// Usage:
//
//	analyze-kernel                      # α = 0.1, 0.5, 1, 2, 5
//	analyze-kernel -alpha 1.5 -samples 21 -table
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/tphakala/go-cagd/internal/mathutil"
	"github.com/tphakala/go-cagd/internal/simdops"
	"gonum.org/v1/gonum/floats"
)

// Analysis defaults
const (
	defaultSamples = 101
	defaultAlphas  = "0.1,0.5,1,2,5"
	tableColumns   = mathutil.KernelCount
)

// report collects the worst residuals of one kernel over its samples.
type report struct {
	alpha      float64
	c2, c3, c4 float64

	partition  float64 // max |ΣBᵢ − 1|
	derivative [mathutil.KernelMaxOrder]float64
	mirror     float64 // max |B0(u) − B3(α−u)| and |B1(u) − B2(α−u)|
	minValue   float64 // smallest Bᵢ(u) seen
	endTangent float64 // max |B2'(0)|, |B3'(0)|
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	alphas := flag.String("alpha", defaultAlphas, "Comma-separated shape parameters")
	samples := flag.Int("samples", defaultSamples, "Samples per blending function")
	table := flag.Bool("table", false, "Print the sampled values")
	flag.Parse()

	values, err := parseAlphas(*alphas)
	if err != nil {
		return err
	}
	if *samples < 2 {
		return fmt.Errorf("samples must be at least 2, got %d", *samples)
	}

	fmt.Println("=== SOQAH Blending Kernel ===")
	for _, alpha := range values {
		k, err := mathutil.NewKernel(alpha)
		if err != nil {
			return err
		}
		if *table {
			if err := writeTable(os.Stdout, k, *samples); err != nil {
				return err
			}
		}
		r, err := analyze(k, *samples)
		if err != nil {
			return err
		}
		r.print(os.Stdout)
	}
	return nil
}

func parseAlphas(s string) ([]float64, error) {
	var out []float64
	for field := range strings.SplitSeq(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid alpha %q: %w", field, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no alpha given")
	}
	return out, nil
}

// sampleAt returns the parameter of sample i of n over [0, α].
func sampleAt(alpha float64, i, n int) float64 {
	if i == n-1 {
		return alpha
	}
	return alpha * float64(i) / float64(n-1)
}

func analyze(k *mathutil.Kernel, samples int) (report, error) {
	alpha := k.Alpha()
	r := report{alpha: alpha, minValue: math.Inf(1)}
	r.c2, r.c3, r.c4 = k.Constants()

	ops := simdops.Float64Ops()
	var b [mathutil.KernelMaxOrder + 1][tableColumns]float64
	for i := range samples {
		u := sampleAt(alpha, i, samples)
		for order := range b {
			if err := k.Eval(order, u, b[order][:]); err != nil {
				return r, err
			}
		}

		r.partition = max(r.partition, math.Abs(ops.Sum(b[0][:])-1))
		for order := 1; order <= mathutil.KernelMaxOrder; order++ {
			r.derivative[order-1] = max(r.derivative[order-1], math.Abs(ops.Sum(b[order][:])))
		}
		r.minValue = min(r.minValue, floats.Min(b[0][:]))

		mirrored := alpha - u
		b3, _ := k.Value(0, 3, mirrored)
		b2, _ := k.Value(0, 2, mirrored)
		r.mirror = max(r.mirror, math.Abs(b[0][0]-b3), math.Abs(b[0][1]-b2))
	}

	var start [tableColumns]float64
	if err := k.Eval(1, 0, start[:]); err != nil {
		return r, err
	}
	r.endTangent = max(math.Abs(start[2]), math.Abs(start[3]))
	return r, nil
}

func (r report) print(w io.Writer) {
	fmt.Fprintf(w, "\nα = %g\n", r.alpha)
	fmt.Fprintf(w, "  C2 = %.12g  C3 = %.12g  C4 = %.12g\n", r.c2, r.c3, r.c4)
	fmt.Fprintf(w, "  Partition of unity:  %.3e\n", r.partition)
	for order, d := range r.derivative {
		fmt.Fprintf(w, "  Σ order-%d residual:  %.3e\n", order+1, d)
	}
	fmt.Fprintf(w, "  Mirror identity:     %.3e\n", r.mirror)
	fmt.Fprintf(w, "  B2'(0), B3'(0):      %.3e\n", r.endTangent)
	fmt.Fprintf(w, "  Smallest value:      %.6g\n", r.minValue)
}

// writeTable prints every order of every blending function at each sample.
func writeTable(w io.Writer, k *mathutil.Kernel, samples int) error {
	fmt.Fprintf(w, "\nα = %g\n", k.Alpha())
	fmt.Fprintf(w, "%10s %5s %14s %14s %14s %14s\n", "u", "order", "B0", "B1", "B2", "B3")

	var b [tableColumns]float64
	for i := range samples {
		u := sampleAt(k.Alpha(), i, samples)
		for order := range mathutil.KernelMaxOrder + 1 {
			if err := k.Eval(order, u, b[:]); err != nil {
				return err
			}
			fmt.Fprintf(w, "%10.6f %5d %14.9f %14.9f %14.9f %14.9f\n", u, order, b[0], b[1], b[2], b[3])
		}
	}
	return nil
}
