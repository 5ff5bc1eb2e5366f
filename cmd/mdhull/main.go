// Command mdhull computes convex hulls from the command line.
//
// Points are read one per line as whitespace separated coordinates, from
// the file named by the first argument or from stdin:
//
//	mdhull [flags] [points.txt]
//	mdhull [flags] -script scene.mdim
//
// Triangles are printed one per line as three point indices. With -script
// every polytope of the scene is hulled and printed under its name.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/chazu/mdimension/pkg/config"
	"github.com/chazu/mdimension/pkg/engine"
	"github.com/chazu/mdimension/pkg/flat"
	"github.com/chazu/mdimension/pkg/hull"
	"github.com/chazu/mdimension/pkg/kernel"
	"github.com/chazu/mdimension/pkg/kernel/sdfx"
	"github.com/chazu/mdimension/pkg/preview"
	"github.com/chazu/mdimension/pkg/scene"
	"github.com/chazu/mdimension/pkg/tessellate"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("mdhull: ")
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

type outputs struct {
	stl  string
	png  string
	size int
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("mdhull", flag.ContinueOnError)
	script := fs.String("script", "", "evaluate a scene script instead of reading points")
	var out outputs
	fs.StringVar(&out.stl, "stl", "", "write the hull mesh as binary STL")
	fs.StringVar(&out.png, "png", "", "write a wireframe preview as PNG")
	fs.IntVar(&out.size, "size", 512, "preview image size in pixels")

	cfg, err := config.ParseFlags(fs, args)
	if err != nil {
		return err
	}

	if *script != "" {
		src, err := os.ReadFile(*script)
		if err != nil {
			return err
		}
		return runScript(cfg, string(src), stdout, out)
	}

	in := stdin
	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	points, err := parsePoints(in)
	if err != nil {
		return err
	}
	return runPoints(cfg, points, stdout, out)
}

// parsePoints reads one point per line. Blank lines and lines starting
// with # are skipped.
func parsePoints(r io.Reader) ([][]float64, error) {
	var points [][]float64
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		p := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			p[i] = v
		}
		points = append(points, p)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := flat.Validate(points); err != nil {
		return nil, err
	}
	return points, nil
}

func runPoints(cfg config.Config, points [][]float64, w io.Writer, out outputs) error {
	if err := cfg.CheckPoints(len(points)); err != nil {
		return err
	}
	if len(points) == 0 {
		return nil
	}
	if len(points) < len(points[0])+1 {
		log.Printf("%d points cannot enclose a %d-dimensional volume; printing them as is", len(points), len(points[0]))
		writeIndices(w, flat.Identity(len(points)))
		return nil
	}
	opts, err := cfg.HullOptions(log.Default())
	if err != nil {
		return err
	}
	res, err := engine.RunWithTimeout(cfg.HullTimeout, func() (*hull.Result, error) {
		return hull.Solve(points, opts...)
	})
	if err != nil {
		return err
	}

	if res.Trivial {
		writeIndices(w, res.Triangles)
		return nil
	}
	if cfg.Verbose {
		log.Printf("dim %d, %d facets, %d triangles, stats %+v", res.Dim, len(res.Facets), res.TriangleCount(), res.Stats)
	}
	writeTriangles(w, res.Triangles)

	edges := res.Edges
	if len(edges) == 0 {
		edges = preview.Edges(res.Triangles)
	}
	return writeOutputs(out, kernel.NewMesh(points, res.Triangles), points, edges)
}

func runScript(cfg config.Config, src string, w io.Writer, out outputs) error {
	eng := engine.NewEngine()
	eng.Timeout = cfg.EvalTimeout
	s, evalErrs, err := eng.Evaluate(src)
	if err != nil {
		return err
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			log.Printf("%d:%d: %s", e.Line, e.Col, e.Message)
		}
		return errors.Errorf("%d evaluation errors", len(evalErrs))
	}

	v := scene.ValidateAll(s)
	for _, warn := range v.Warnings {
		log.Print(warn.Error())
	}
	if !v.OK() {
		for _, e := range v.Errors {
			log.Print(e.Error())
		}
		return errors.Errorf("%d validation errors", len(v.Errors))
	}
	if err := cfg.CheckPoints(s.PointCount()); err != nil {
		return err
	}

	k, err := cfg.NewKernel(log.Default())
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	parts, err := engine.RunWithTimeout(cfg.HullTimeout, func() ([]tessellate.Part, error) {
		return tessellate.Tessellate(ctx, s, k, cfg.Workers)
	})
	if err != nil {
		return err
	}

	var (
		points [][]float64
		edges  []int
	)
	for _, p := range parts {
		tris := p.Solid.Triangles()
		fmt.Fprintf(w, "# %s dim=%d triangles=%d\n", p.Polytope.Name, p.Solid.Dimension(), len(tris)/3)
		writeTriangles(w, tris)

		base := len(points)
		for _, e := range preview.Edges(tris) {
			edges = append(edges, base+e)
		}
		points = append(points, p.Solid.Points()...)
	}
	return writeOutputs(out, mergeMeshes(parts), points, edges)
}

// mergeMeshes concatenates the meshes of parts into one, offsetting
// vertex indices and hull point sources.
func mergeMeshes(parts []tessellate.Part) *kernel.Mesh {
	merged := &kernel.Mesh{}
	points := 0
	for _, p := range parts {
		m := p.Mesh
		base := uint32(merged.VertexCount())
		merged.Vertices = append(merged.Vertices, m.Vertices...)
		merged.Normals = append(merged.Normals, m.Normals...)
		for _, i := range m.Indices {
			merged.Indices = append(merged.Indices, base+i)
		}
		for _, src := range m.Source {
			merged.Source = append(merged.Source, uint32(points)+src)
		}
		points += len(p.Solid.Points())
	}
	return merged
}

func writeOutputs(out outputs, mesh *kernel.Mesh, points [][]float64, edges []int) error {
	if out.stl != "" {
		if err := sdfx.SaveSTL(out.stl, mesh); err != nil {
			return err
		}
		log.Printf("wrote %s (%d triangles)", out.stl, mesh.TriangleCount())
	}
	if out.png != "" {
		if err := preview.SavePNG(out.png, points, edges, out.size); err != nil {
			return err
		}
		log.Printf("wrote %s", out.png)
	}
	return nil
}

func writeTriangles(w io.Writer, tris []int) {
	for k := 0; k+2 < len(tris); k += 3 {
		fmt.Fprintf(w, "%d %d %d\n", tris[k], tris[k+1], tris[k+2])
	}
}

func writeIndices[T int | uint32](w io.Writer, indices []T) {
	s := make([]string, len(indices))
	for i, v := range indices {
		s[i] = strconv.Itoa(int(v))
	}
	fmt.Fprintln(w, strings.Join(s, " "))
}
