// Package costfunction defines the edge costs the router can optimize.
package costfunction

import (
	"github.com/paveroute/paveroute/pkg"
	"github.com/paveroute/paveroute/pkg/datastructure"
)

// CostFunction maps an edge to a non-negative cost for the shortest
// path search.
type CostFunction interface {
	Cost(e *datastructure.Edge) float64
	Name() string
}

// CompositeCostFunction blends pavement quality, climbing, and
// distance with rank-order-centroid weights. It reads the normalized
// edge fields, so routing.Normalize must have run on the graph first.
type CompositeCostFunction struct {
	alpha float64 // pavement
	beta  float64 // uphill gain
	gamma float64 // distance
}

func NewCompositeCostFunction() *CompositeCostFunction {
	return &CompositeCostFunction{
		alpha: pkg.ROC_ALPHA_PASER,
		beta:  pkg.ROC_BETA_ELEVATION,
		gamma: pkg.ROC_GAMMA_DISTANCE,
	}
}

func (f *CompositeCostFunction) Cost(e *datastructure.Edge) float64 {
	return f.alpha*e.GetNormPaser() + f.beta*e.GetNormElev() + f.gamma*e.GetNormDist()
}

func (f *CompositeCostFunction) Name() string { return "composite" }

// FastestCostFunction minimizes pavement-weighted travel time.
type FastestCostFunction struct{}

func NewFastestCostFunction() *FastestCostFunction { return &FastestCostFunction{} }

func (f *FastestCostFunction) Cost(e *datastructure.Edge) float64 {
	// graphs that never went through the score updater have no
	// weighted travel times yet
	if wtt := e.GetWeightedTravelTime(); wtt > 0 {
		return wtt
	}
	return e.GetTravelTime()
}

func (f *FastestCostFunction) Name() string { return "fastest" }

// ShortestCostFunction minimizes distance.
type ShortestCostFunction struct{}

func NewShortestCostFunction() *ShortestCostFunction { return &ShortestCostFunction{} }

func (f *ShortestCostFunction) Cost(e *datastructure.Edge) float64 {
	return e.GetLength()
}

func (f *ShortestCostFunction) Name() string { return "shortest" }
