// Package fusion estimates a radius for every skeleton vertex from the
// surface meshes that enclose it.
//
// Each vertex is assigned to the closest point on any mesh surface. The first
// corner of the triangle holding that point anchors a ray cast into the mesh
// along the inward vertex normal, and the distance to the opposite wall
// becomes the vertex radius.
package fusion

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/AllenInstitute/pycilium/pkg/geometry"
	"github.com/AllenInstitute/pycilium/pkg/mesh"
	"github.com/AllenInstitute/pycilium/pkg/skeleton"
)

var (
	// ErrNilTree is returned when no skeleton is given
	ErrNilTree = errors.New("fusion: nil skeleton")
	// ErrNoMeshes is returned for an empty mesh set
	ErrNoMeshes = errors.New("fusion: no meshes")
	// ErrNoSurface is returned when no mesh has a single face
	ErrNoSurface = errors.New("fusion: no mesh surface")
)

// Config holds the fusion settings
type Config struct {
	// Workers bounds the number of vertices processed concurrently.
	// Zero or less means runtime.NumCPU().
	Workers int
	// Trace is the ray retry schedule. Nil means mesh.DefaultTraceOptions().
	Trace *mesh.TraceOptions
}

// FilterConfig restricts meshes to the neighbourhood of the skeleton before
// fusion
type FilterConfig struct {
	Radius       float64
	EndcapBuffer float64
}

// DefaultFilterConfig returns the neighbourhood used when none is configured
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{Radius: 600, EndcapBuffer: 300}
}

// Assignment is the fusion result for one skeleton vertex
type Assignment struct {
	// Mesh is the index of the mesh holding the closest surface point
	Mesh int
	// Triangle is the face of that mesh holding the closest surface point
	Triangle int
	// Closest is the closest surface point
	Closest geometry.Vector3
	// Distance is the distance from the vertex to Closest
	Distance float64
	// Anchor is the mesh vertex the radius ray starts from
	Anchor int
	// Radius is the traced radius, nil when every ray escaped the mesh
	Radius *float64
}

// Assignments holds one Assignment per skeleton vertex in vertex order
type Assignments []Assignment

// Radii returns the per-vertex radii
func (a Assignments) Radii() []*float64 {
	radii := make([]*float64, len(a))
	for i := range a {
		radii[i] = a[i].Radius
	}
	return radii
}

// Unresolved returns the vertices without a radius
func (a Assignments) Unresolved() []int {
	var missing []int
	for i := range a {
		if a[i].Radius == nil {
			missing = append(missing, i)
		}
	}
	return missing
}

// Fuser runs radius fusion. A Fuser holds no per-run state and may be used
// from several goroutines.
type Fuser struct {
	workers int
	trace   mesh.TraceOptions
}

// New creates a Fuser, filling unset configuration with defaults
func New(cfg Config) *Fuser {
	f := &Fuser{workers: cfg.Workers, trace: mesh.DefaultTraceOptions()}
	if f.workers <= 0 {
		f.workers = runtime.NumCPU()
	}
	if cfg.Trace != nil {
		f.trace = *cfg.Trace
	}
	return f
}

// Trace returns the ray retry schedule in use
func (f *Fuser) Trace() mesh.TraceOptions {
	return f.trace
}

// Fuse assigns every vertex of tree to its closest mesh surface and traces a
// radius from there.
//
// Meshes are searched in order and a later mesh replaces the current
// assignment only when strictly closer, so ties go to the lowest mesh index.
// A ray that escapes the mesh leaves the vertex radius nil without failing
// the run. Cancelling ctx aborts the run with ctx.Err().
func (f *Fuser) Fuse(ctx context.Context, tree *skeleton.Tree, meshes []*mesh.Mesh) (Assignments, error) {
	if tree == nil {
		return nil, ErrNilTree
	}
	if len(meshes) == 0 {
		return nil, ErrNoMeshes
	}

	indices := make([]*mesh.Index, len(meshes))
	surfaces := 0
	for i, m := range meshes {
		if m == nil || m.Empty() {
			continue
		}
		indices[i] = mesh.NewIndex(m)
		surfaces++
	}
	if surfaces == 0 {
		return nil, fmt.Errorf("%w: all %d meshes are empty", ErrNoSurface, len(meshes))
	}

	start := time.Now()
	positions := tree.Positions()
	results := make(Assignments, len(positions))

	workers := min(f.workers, max(len(positions), 1))
	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					continue
				}
				results[idx] = f.assign(idx, positions[idx], indices)
			}
		}()
	}

send:
	for i := range positions {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break send
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	Logger().Info("fusion complete",
		"vertices", len(results),
		"meshes", surfaces,
		"unresolved", len(results.Unresolved()),
		"elapsed", time.Since(start))
	return results, nil
}

// assign resolves a single vertex. indices holds nil for face-less meshes.
func (f *Fuser) assign(vertex int, p geometry.Vector3, indices []*mesh.Index) Assignment {
	best := Assignment{Mesh: -1}
	for i, ix := range indices {
		if ix == nil {
			continue
		}
		c, ok := ix.ClosestPoint(p)
		if !ok {
			continue
		}
		if best.Mesh < 0 || c.Distance < best.Distance {
			best = Assignment{Mesh: i, Triangle: c.Triangle, Closest: c.Point, Distance: c.Distance}
		}
	}

	ix := indices[best.Mesh]
	best.Anchor = ix.Mesh().Faces[best.Triangle][0]
	if r, ok := ix.TraceFromVertex(best.Anchor, f.trace); ok {
		best.Radius = &r
	} else {
		Logger().Debug("radius ray escaped mesh",
			"vertex", vertex,
			"mesh", best.Mesh,
			"anchor", best.Anchor,
			"attempts", f.trace.Attempts+1)
	}
	return best
}

// FuseTree runs Fuse and returns a copy of tree annotated with the radii
func (f *Fuser) FuseTree(ctx context.Context, tree *skeleton.Tree, meshes []*mesh.Mesh) (*skeleton.Tree, Assignments, error) {
	assignments, err := f.Fuse(ctx, tree, meshes)
	if err != nil {
		return nil, nil, err
	}
	annotated, err := tree.WithRadii(assignments.Radii())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to annotate skeleton: %w", err)
	}
	return annotated, assignments, nil
}

// FuseFiltered restricts every mesh to the neighbourhood of the skeleton
// before running FuseTree. Meshes left empty by the filter are skipped;
// Assignment.Mesh still refers to the position in meshes while Triangle and
// Anchor index into the filtered mesh. When every mesh is filtered away the
// error wraps ErrNoSurface.
func (f *Fuser) FuseFiltered(ctx context.Context, tree *skeleton.Tree, meshes []*mesh.Mesh, filter FilterConfig) (*skeleton.Tree, Assignments, error) {
	if tree == nil {
		return nil, nil, ErrNilTree
	}
	if len(meshes) == 0 {
		return nil, nil, ErrNoMeshes
	}

	filtered, sources := mesh.FilterMeshes(meshes, tree.Segments(), filter.Radius, filter.EndcapBuffer)
	Logger().Info("meshes filtered",
		"kept", len(filtered),
		"dropped", len(meshes)-len(filtered),
		"radius", filter.Radius,
		"endcap_buffer", filter.EndcapBuffer)
	if len(filtered) == 0 {
		return nil, nil, fmt.Errorf("%w: no mesh within %g of the skeleton", ErrNoSurface, filter.Radius)
	}

	annotated, assignments, err := f.FuseTree(ctx, tree, filtered)
	if err != nil {
		return nil, nil, err
	}
	for i := range assignments {
		assignments[i].Mesh = sources[assignments[i].Mesh]
	}
	return annotated, assignments, nil
}
