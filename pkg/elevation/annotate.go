package elevation

import (
	"context"
	"fmt"

	"github.com/paveroute/paveroute/pkg/concurrent"
	"github.com/paveroute/paveroute/pkg/datastructure"
	"github.com/paveroute/paveroute/pkg/geo"
	"github.com/paveroute/paveroute/pkg/util"

	"go.uber.org/zap"
)

const (
	annotateWorkers   = 4
	annotateBatchSize = 256
)

type annotateJob struct {
	indexes []datastructure.Index
	points  []geo.Coordinate
}

type annotateResult struct {
	indexes []datastructure.Index
	elevs   []float64
	err     error
}

// AnnotateGraph resolves an elevation for every vertex and recomputes
// per-edge elevation gains. Vertex batches are fanned out to a worker
// pool since each batch is an independent provider call.
func AnnotateGraph(ctx context.Context, g *datastructure.Graph, provider Provider, log *zap.Logger) error {
	jobs := make([]annotateJob, 0)
	current := annotateJob{}
	g.ForVertices(func(v *datastructure.Vertex) {
		current.indexes = append(current.indexes, v.GetID())
		current.points = append(current.points, geo.Coordinate{Lat: v.GetLat(), Lon: v.GetLon()})
		if len(current.indexes) == annotateBatchSize {
			jobs = append(jobs, current)
			current = annotateJob{}
		}
	})
	if len(current.indexes) > 0 {
		jobs = append(jobs, current)
	}
	if len(jobs) == 0 {
		return util.WrapErrorf(fmt.Errorf("graph has no vertices"),
			util.ErrBadParamInput, "elevation.AnnotateGraph")
	}

	pool := concurrent.NewWorkerPool[annotateJob, annotateResult](annotateWorkers, len(jobs))
	pool.Start(func(job annotateJob) annotateResult {
		elevs, err := provider.Elevations(ctx, job.points)
		return annotateResult{indexes: job.indexes, elevs: elevs, err: err}
	})
	for _, job := range jobs {
		pool.AddJob(job)
	}
	pool.Close()
	pool.Wait()

	annotated := 0
	for res := range pool.CollectResults() {
		if res.err != nil {
			return util.WrapErrorf(res.err, util.ErrInternalServerError, "elevation.AnnotateGraph")
		}
		for i, idx := range res.indexes {
			g.GetVertex(idx).SetElevation(res.elevs[i])
			annotated++
		}
	}

	g.ComputeElevationGains()

	log.Info("annotated graph elevations", zap.Int("vertices", annotated))
	return nil
}
