package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/philipparndt/gocarve/pkg/cache"
	"github.com/philipparndt/gocarve/pkg/mesh"
	"github.com/philipparndt/gocarve/pkg/meshio"
	"github.com/philipparndt/gocarve/pkg/watcher"
)

// clipJob is one clip invocation shared by the plane and bore commands:
// load the input, apply the clip (or serve it from the cache), write the
// result.
type clipJob struct {
	input    string
	output   string
	cacheDir string
	watch    bool

	// apply runs the clip in place and reports whether geometry survived
	apply func(m *mesh.Mesh) bool
	// key derives the cache key from the mesh identity
	key func(meshID string) string
}

// run executes the job once, and again on every input change when
// watching is enabled.
func (job *clipJob) run() error {
	if err := job.runOnce(); err != nil {
		return err
	}
	if !job.watch {
		return nil
	}

	fw, err := watcher.New(300 * time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to start watch mode: %w", err)
	}
	defer fw.Close()

	err = fw.Watch(job.input, func(path string) {
		fmt.Printf("Input changed: %s\n", path)
		if err := job.runOnce(); err != nil {
			fmt.Printf("Warning: re-clip failed: %v\n", err)
		}
	})
	if err != nil {
		return err
	}

	fmt.Printf("Watching %s for changes (Ctrl+C to stop)\n", job.input)
	select {}
}

func (job *clipJob) runOnce() error {
	if job.cacheDir != "" {
		return job.runCached()
	}

	m, err := meshio.Parse(job.input)
	if err != nil {
		return fmt.Errorf("failed to load mesh: %w", err)
	}
	before := m.TriangleCount()

	survived := job.apply(m)
	if !survived {
		fmt.Println("Nothing survived the clip; writing empty mesh")
	} else {
		fmt.Printf("Clipped %d -> %d triangles, %d vertices\n",
			before, m.TriangleCount(), m.VertexCount())
	}

	if err := meshio.Write(job.output, m); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	fmt.Printf("Wrote %s\n", job.output)
	return nil
}

// runCached consults the content-addressed cache before clipping and
// records the ownership state in the registry sidecar.
func (job *clipJob) runCached() error {
	store, err := cache.New(job.cacheDir)
	if err != nil {
		return err
	}
	registry, err := cache.LoadRegistry(filepath.Join(job.cacheDir, "registry.json"))
	if err != nil {
		return err
	}

	meshID, err := cache.MeshID(job.input)
	if err != nil {
		return err
	}
	key := job.key(meshID)

	id := registry.Find(job.input)
	if id == 0 {
		id = registry.Register(job.input)
	}

	var result *mesh.Mesh
	if store.Has(key) {
		result, err = store.Load(key)
		if err != nil {
			return err
		}
		fmt.Printf("Cache hit: %d triangles\n", result.TriangleCount())
	} else {
		result, err = meshio.Parse(job.input)
		if err != nil {
			return fmt.Errorf("failed to load mesh: %w", err)
		}
		before := result.TriangleCount()
		if !job.apply(result) {
			fmt.Println("Nothing survived the clip; writing empty mesh")
		} else {
			fmt.Printf("Clipped %d -> %d triangles, %d vertices\n",
				before, result.TriangleCount(), result.VertexCount())
		}
		if err := store.Store(key, result); err != nil {
			return err
		}
	}
	registry.SetCut(id, key)

	result.Name = meshName(job.output)
	if err := meshio.Write(job.output, result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	registry.MarkApplied(id)
	if err := registry.Save(); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", job.output)
	return nil
}

func meshName(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	return base
}
