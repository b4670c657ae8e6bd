package nav

import (
	"container/heap"
	"math"
)

// --- A* pathfinding ---

type searchNode struct {
	cx, cy int
	g, h   float64
	parent *searchNode
	seq    int // push order, breaks exact f ties
	index  int // heap index
}

func (n *searchNode) f() float64 { return n.g + n.h }

type openList []*searchNode

func (ol openList) Len() int { return len(ol) }
func (ol openList) Less(i, j int) bool {
	fi, fj := ol[i].f(), ol[j].f()
	if fi != fj {
		return fi < fj
	}
	return ol[i].seq < ol[j].seq
}
func (ol openList) Swap(i, j int) {
	ol[i], ol[j] = ol[j], ol[i]
	ol[i].index = i
	ol[j].index = j
}
func (ol *openList) Push(x any) {
	n := x.(*searchNode)
	n.index = len(*ol)
	*ol = append(*ol, n)
}
func (ol *openList) Pop() any {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

var dirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// octile is the 8-connected distance with unit orthogonal and √2 diagonal steps.
func octile(ax, ay, bx, by int) float64 {
	dx := math.Abs(float64(ax - bx))
	dy := math.Abs(float64(ay - by))
	return math.Max(dx, dy) + (math.Sqrt2-1)*math.Min(dx, dy)
}

// search runs A* between two walkable cells and returns the cell sequence
// start→goal, or nil when the goal is unreachable.
func (g *Grid) search(scx, scy, gcx, gcy int) [][2]int {
	key := func(cx, cy int) int { return cy*g.cols + cx }

	seq := 0
	start := &searchNode{cx: scx, cy: scy, h: octile(scx, scy, gcx, gcy)}
	ol := &openList{start}
	heap.Init(ol)

	closed := make(map[int]bool)
	best := map[int]*searchNode{key(scx, scy): start}

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*searchNode)
		if cur.cx == gcx && cur.cy == gcy {
			return walkBack(cur)
		}
		k := key(cur.cx, cur.cy)
		if closed[k] {
			continue
		}
		closed[k] = true

		for _, d := range dirs {
			nx, ny := cur.cx+d[0], cur.cy+d[1]
			if !g.IsWalkable(nx, ny) {
				continue
			}
			diagonal := d[0] != 0 && d[1] != 0
			// No corner cutting past an unwalkable orthogonal neighbour.
			if diagonal && (!g.IsWalkable(cur.cx+d[0], cur.cy) || !g.IsWalkable(cur.cx, cur.cy+d[1])) {
				continue
			}
			nk := key(nx, ny)
			if closed[nk] {
				continue
			}
			cost := 1.0
			if diagonal {
				cost = math.Sqrt2
			}
			ng := cur.g + cost
			if prev, ok := best[nk]; ok && ng >= prev.g {
				continue
			}
			seq++
			node := &searchNode{cx: nx, cy: ny, g: ng, h: octile(nx, ny, gcx, gcy), parent: cur, seq: seq}
			best[nk] = node
			heap.Push(ol, node)
		}
	}
	return nil
}

func walkBack(end *searchNode) [][2]int {
	var cells [][2]int
	for n := end; n != nil; n = n.parent {
		cells = append(cells, [2]int{n.cx, n.cy})
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}

// FindPath snaps both endpoints to the nearest walkable cell within
// snapRadius and returns cell-centre waypoints start→goal. It returns nil
// when an endpoint cannot be snapped or the goal is unreachable.
func (g *Grid) FindPath(start, goal Vec2, snapRadius int) []Vec2 {
	scx, scy := g.WorldToCell(start)
	gcx, gcy := g.WorldToCell(goal)

	scx, scy, ok := g.nearestWalkable(scx, scy, snapRadius)
	if !ok {
		return nil
	}
	gcx, gcy, ok = g.nearestWalkable(gcx, gcy, snapRadius)
	if !ok {
		return nil
	}

	cells := g.search(scx, scy, gcx, gcy)
	if cells == nil {
		return nil
	}
	path := make([]Vec2, len(cells))
	for i, c := range cells {
		path[i] = g.CellToWorld(c[0], c[1])
	}
	return path
}

// PathLength returns the summed segment length of a waypoint sequence.
func PathLength(path []Vec2) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += path[i].Dist(path[i-1])
	}
	return total
}
