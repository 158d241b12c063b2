package routing

import (
	"fmt"

	"github.com/paveroute/paveroute/pkg"
	"github.com/paveroute/paveroute/pkg/costfunction"
	"github.com/paveroute/paveroute/pkg/datastructure"
	"github.com/paveroute/paveroute/pkg/util"
)

// Router runs shortest path searches over a normalized graph with a
// pluggable cost function.
type Router struct {
	graph *datastructure.Graph
}

func NewRouter(graph *datastructure.Graph) *Router {
	return &Router{graph: graph}
}

// Route is one found path: the vertices visited in order and the edges
// between them.
type Route struct {
	Vertices []datastructure.Index
	Edges    []*datastructure.Edge
	Cost     float64
}

// ShortestPath runs dijkstra from source to target under cf. Returns
// ErrNotFound when target is unreachable.
func (r *Router) ShortestPath(source, target datastructure.Index,
	cf costfunction.CostFunction) (*Route, error) {
	n := r.graph.NumberOfVertices()
	if int(source) >= n || int(target) >= n {
		return nil, util.WrapErrorf(
			fmt.Errorf("vertex out of range, graph has %d vertices", n),
			util.ErrBadParamInput, "routing.ShortestPath")
	}

	dist := make([]float64, n)
	for i := range dist {
		dist[i] = pkg.INF_WEIGHT
	}
	dist[source] = 0

	cameFrom := make([]datastructure.Index, n)       // predecessor vertex
	cameFromEdge := make([]datastructure.Index, n)   // edge taken into the vertex
	for i := range cameFrom {
		cameFrom[i] = datastructure.INVALID_INDEX
		cameFromEdge[i] = datastructure.INVALID_INDEX
	}

	visited := make([]bool, n)
	nodes := make(map[datastructure.Index]*datastructure.PriorityQueueNode[datastructure.Index], n)

	pq := datastructure.NewFourAryHeap[datastructure.Index]()
	pq.Preallocate(n)
	sourceNode := datastructure.NewPriorityQueueNode(0, source)
	nodes[source] = sourceNode
	pq.Insert(sourceNode)

	for !pq.IsEmpty() {
		node, err := pq.ExtractMin()
		if err != nil {
			break
		}
		u := node.GetItem()
		if visited[u] {
			continue
		}
		visited[u] = true
		if u == target {
			break
		}

		r.graph.ForOutEdgesOf(u, func(e *datastructure.Edge) {
			v := e.GetTo()
			if visited[v] {
				return
			}
			alt := dist[u] + cf.Cost(e)
			if alt >= dist[v] {
				return
			}
			dist[v] = alt
			cameFrom[v] = u
			cameFromEdge[v] = e.GetEdgeId()

			if existing, ok := nodes[v]; ok {
				// ignore the error, alt < the node's current rank here
				_ = pq.DecreaseKey(existing, alt)
			} else {
				vn := datastructure.NewPriorityQueueNode(alt, v)
				nodes[v] = vn
				pq.Insert(vn)
			}
		})
	}

	if dist[target] >= pkg.INF_WEIGHT {
		return nil, util.WrapErrorf(
			fmt.Errorf("no path from %d to %d", source, target),
			util.ErrNotFound, "routing.ShortestPath")
	}

	vertices := make([]datastructure.Index, 0)
	edges := make([]*datastructure.Edge, 0)
	for at := target; at != datastructure.INVALID_INDEX; at = cameFrom[at] {
		vertices = append(vertices, at)
		if eid := cameFromEdge[at]; eid != datastructure.INVALID_INDEX {
			edges = append(edges, r.graph.GetEdge(eid))
		}
	}
	vertices = util.ReverseG(vertices)
	edges = util.ReverseG(edges)

	return &Route{Vertices: vertices, Edges: edges, Cost: dist[target]}, nil
}
