// Command soqah-sample builds composite SOQAH curves and surfaces from a
// YAML job file, samples them and writes the result as Wavefront OBJ.
//
// Usage:
//
//	soqah-sample -out demo.obj                      # Demo scene: joined arcs and patches
//	soqah-sample -in scene.yaml -out scene.obj
//	soqah-sample -in scene.yaml -snapshot out.yaml  # Also save the edited scene
//	soqah-sample -arcs 4 -patches 0 -order 1 -alpha 2
//
// A job file holds a scene, as written by -snapshot, and a list of
// operations applied to it before sampling:
//
//	curve:
//	  arcs:
//	    - alpha: 1
//	      points: [[1, 0, 0], [1, 1, 0], [-1, 1, 0], [-1, -1, 0]]
//	ops:
//	  - {op: continue-arc, node: 0, side: right}
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/tphakala/go-cagd"
)

// CLI defaults
const (
	defaultDemoArcs        = 3
	defaultDemoPatches     = 2
	defaultDerivativeScale = 0.25 // Length factor of derivative segments
	outputBufferSize       = 256 * 1024
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	defaults := cagd.DefaultConfig()

	in := flag.String("in", "", "Job file (YAML); empty builds a demo scene")
	out := flag.String("out", "", "OBJ output file (default stdout)")
	snapshot := flag.String("snapshot", "", "Write the edited scene to this YAML file")
	arcs := flag.Int("arcs", defaultDemoArcs, "Number of demo arcs")
	patches := flag.Int("patches", defaultDemoPatches, "Number of demo patches")
	alpha := flag.Float64("alpha", defaults.Alpha, "Shape parameter of new arcs and patches")
	order := flag.Int("order", defaults.MaxOrder, "Highest arc derivative order to write (0-2)")
	samples := flag.Int("samples", defaults.SampleCount, "Samples per arc")
	div := flag.Int("div", defaults.PatchDivCount, "Mesh and iso line resolution")
	iso := flag.Int("iso", defaults.IsoLineCount, "Iso lines per direction")
	interpolate := flag.Bool("interpolate", false, "Also write the mesh interpolating each control net")
	controls := flag.Bool("controls", true, "Write control polygons and nets")
	scale := flag.Float64("scale", defaultDerivativeScale, "Length factor of derivative segments")
	parallel := flag.Bool("parallel", true, "Sample nodes concurrently")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}

	config := cagd.DefaultConfig()
	config.Alpha = *alpha
	config.MaxOrder = *order
	config.SampleCount = *samples
	config.PatchDivCount = *div
	config.IsoLineCount = *iso
	config.Interpolate = *interpolate
	config.EnableParallel = *parallel
	config.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if err := config.Validate(); err != nil {
		return err
	}

	var j *job
	if *in != "" {
		var err error
		if j, err = loadJob(*in); err != nil {
			return err
		}
	} else {
		j = demoJob(*arcs, *patches, *alpha)
	}

	start := time.Now()
	cc, cs, err := j.build(config)
	if err != nil {
		return err
	}
	if err := j.apply(cc, cs); err != nil {
		return err
	}

	if res := cc.Update(); !res.OK() {
		return fmt.Errorf("sampling arcs: %w", res.Err())
	}
	if res := cs.UpdatePatches(); !res.OK() {
		return fmt.Errorf("sampling patches: %w", res.Err())
	}
	if *verbose {
		log.Printf("Sampled %d arcs and %d patches in %v", cc.ArcCount(), cs.PatchCount(), time.Since(start))
	}

	stats, err := writeOBJ(*out, cc, cs, *order, *controls, *scale)
	if err != nil {
		return err
	}

	if *snapshot != "" {
		if err := writeSnapshot(*snapshot, cc, cs); err != nil {
			return err
		}
	}

	if *out != "" {
		fmt.Printf("Wrote %s\n", *out)
		fmt.Printf("  %d arcs, %d patches\n", cc.ArcCount(), cs.PatchCount())
		fmt.Printf("  %d vertices in %d objects\n", stats.vertices, stats.objects)
	}
	return nil
}

type objStats struct {
	vertices int
	objects  int
}

// writeOBJ renders both composites to path, or to stdout if path is empty.
func writeOBJ(path string, cc *cagd.CompositeCurve, cs *cagd.CompositeSurface, order int, controls bool, scale float64) (stats objStats, err error) {
	var w io.Writer = os.Stdout
	if path != "" {
		f, createErr := os.Create(path)
		if createErr != nil {
			return stats, fmt.Errorf("failed to create output file: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
		}()
		w = f
	}

	bw := bufio.NewWriterSize(w, outputBufferSize)
	ow := newOBJWriter(bw, scale)
	ow.printf("# soqah-sample\n")

	if cc.ArcCount() > 0 {
		if err := cc.Render(ow, order, controls); err != nil {
			return stats, fmt.Errorf("rendering arcs: %w", err)
		}
	}
	if cs.PatchCount() > 0 {
		if err := cs.RenderPatches(ow, controls); err != nil {
			return stats, fmt.Errorf("rendering patches: %w", err)
		}
	}
	if err := ow.Err(); err != nil {
		return stats, err
	}
	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("failed to flush output: %w", err)
	}

	stats.vertices, stats.objects = ow.Stats()
	return stats, nil
}

// writeSnapshot saves the current state of both composites as a job file
// without operations, so it can be fed back through -in.
func writeSnapshot(path string, cc *cagd.CompositeCurve, cs *cagd.CompositeSurface) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	return cagd.WriteScene(f, &cagd.Scene{Curve: cc.Snapshot(), Surface: cs.Snapshot()})
}
