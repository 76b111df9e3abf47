// SPDX-License-Identifier: MIT
package search

import "fmt"

// state is one branch of the search: the current vertex, the cost so far,
// the visited set and (optionally) the path prefix.
//
// Invariants: visited holds exactly the vertices of the branch, and when the
// path is tracked node == path[len(path)-1]. A state is owned by one task; it
// crosses a task boundary only as a clone.
type state struct {
	node    int
	dist    int64
	depth   int
	visited []bool
	path    []int // nil when path tracking is off
}

// newRootState returns the state positioned on source.
func newRootState(n, source int, trackPath bool) *state {
	s := &state{node: source, visited: make([]bool, n)}
	s.visited[source] = true
	if trackPath {
		s.path = make([]int, 1, n)
		s.path[0] = source
	}

	return s
}

// clone returns an independent copy safe to hand to another goroutine.
func (s *state) clone() *state {
	c := &state{
		node:    s.node,
		dist:    s.dist,
		depth:   s.depth,
		visited: make([]bool, len(s.visited)),
	}
	copy(c.visited, s.visited)
	if s.path != nil {
		c.path = make([]int, len(s.path), cap(s.path))
		copy(c.path, s.path)
	}

	return c
}

// enter moves the branch along edge node→v of the given cost.
func (s *state) enter(v int, cost int64) {
	s.visited[v] = true
	s.node = v
	s.dist += cost
	s.depth++
	if s.path != nil {
		s.path = append(s.path, v)
	}
}

// leave undoes enter(v, cost), returning the branch to u.
func (s *state) leave(u, v int, cost int64) {
	s.visited[v] = false
	s.node = u
	s.dist -= cost
	s.depth--
	if s.path != nil {
		s.path = s.path[:len(s.path)-1]
	}
}

// child returns a clone of s advanced along node→v.
func (s *state) child(v int, cost int64) *state {
	c := s.clone()
	c.enter(v, cost)

	return c
}

// TaskState is the lifecycle stage of one search task.
//
//	Created → Running → SpawnedChildren → WaitingForChildren → Completed
//	Created → Running → RecursedInline → Completed
type TaskState uint8

const (
	Created TaskState = iota
	Running
	SpawnedChildren
	WaitingForChildren
	RecursedInline
	Completed
)

var taskStateNames = [...]string{
	Created:            "created",
	Running:            "running",
	SpawnedChildren:    "spawned-children",
	WaitingForChildren: "waiting-for-children",
	RecursedInline:     "recursed-inline",
	Completed:          "completed",
}

func (s TaskState) String() string {
	if int(s) < len(taskStateNames) {
		return taskStateNames[s]
	}

	return fmt.Sprintf("task-state(%d)", uint8(s))
}

// CanTransition reports whether from → to is an edge of the task lifecycle.
// There are no backward edges and no cycles.
func CanTransition(from, to TaskState) bool {
	switch from {
	case Created:
		return to == Running
	case Running:
		return to == SpawnedChildren || to == RecursedInline
	case SpawnedChildren:
		return to == WaitingForChildren
	case WaitingForChildren, RecursedInline:
		return to == Completed
	default:
		return false
	}
}

// task tracks the lifecycle of one unit of concurrent work.
type task struct {
	state TaskState
}

// move advances the task; an illegal edge is an engine bug.
func (t *task) move(to TaskState) {
	if !CanTransition(t.state, to) {
		panic(fmt.Sprintf("search: illegal task transition %s -> %s", t.state, to))
	}
	t.state = to
}
