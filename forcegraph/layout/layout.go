// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layout provides a 3D force-directed graph layout: nodes
// repel each other, links pull their ends together like springs,
// and velocities decay over time so that the layout settles.
package layout

import (
	"fmt"

	"golang.org/x/exp/rand"

	"cogentcore.org/stage/math32"
)

// Options are the parameters of a [Simulation].
type Options struct {

	// Repulsion is the strength of the repulsion between all nodes.
	Repulsion float32

	// Spring is the stiffness of links.
	Spring float32

	// LinkLength is the rest length of links.
	LinkLength float32

	// Damping is the fraction of velocity kept after each step.
	Damping float32

	// Gravity pulls all nodes toward the origin.
	Gravity float32

	// TimeStep is the integration time step.
	TimeStep float32

	// MaxSpeed limits the speed of nodes.
	MaxSpeed float32

	// Spread is the size of the cube in which new nodes are placed.
	Spread float32

	// Seed seeds the random initial positions.
	Seed uint64
}

// Defaults sets the default options.
func (o *Options) Defaults() {
	o.Repulsion = 30
	o.Spring = 0.1
	o.LinkLength = 10
	o.Damping = 0.8
	o.Gravity = 0.01
	o.TimeStep = 1
	o.MaxSpeed = 10
	o.Spread = 20
	o.Seed = 1
}

type node struct {
	id  string
	pos math32.Vector3
	vel math32.Vector3
}

type link struct {
	from, to int
}

// Simulation is a force-directed layout simulation.
// It is not safe for concurrent use.
type Simulation struct {
	opts  Options
	rnd   *rand.Rand
	nodes []node
	index map[string]int
	links []link
	steps int
}

// New returns a new empty simulation.
func New(opts Options) *Simulation {
	s := &Simulation{opts: opts}
	s.Clear()
	return s
}

// Clear removes all nodes and links and reseeds the random source,
// so that rebuilding the same graph gives the same layout.
func (s *Simulation) Clear() {
	s.rnd = rand.New(rand.NewSource(s.opts.Seed))
	s.nodes = nil
	s.index = make(map[string]int)
	s.links = nil
	s.steps = 0
}

// AddNode adds a node at a random position. Adding an existing id
// is an error.
func (s *Simulation) AddNode(id string) error {
	if _, ok := s.index[id]; ok {
		return fmt.Errorf("layout: duplicate node %q", id)
	}
	sp := s.opts.Spread
	r := func() float32 { return (s.rnd.Float32() - 0.5) * sp }
	s.index[id] = len(s.nodes)
	s.nodes = append(s.nodes, node{id: id, pos: math32.Vec3(r(), r(), r())})
	return nil
}

// AddLink adds a link between two existing nodes.
func (s *Simulation) AddLink(from, to string) error {
	fi, ok := s.index[from]
	if !ok {
		return fmt.Errorf("layout: link from unknown node %q", from)
	}
	ti, ok := s.index[to]
	if !ok {
		return fmt.Errorf("layout: link to unknown node %q", to)
	}
	s.links = append(s.links, link{from: fi, to: ti})
	return nil
}

// Len returns the number of nodes.
func (s *Simulation) Len() int {
	return len(s.nodes)
}

// Steps returns the number of steps since the last Clear.
func (s *Simulation) Steps() int {
	return s.steps
}

// Position returns the position of the node.
func (s *Simulation) Position(id string) (math32.Vector3, bool) {
	i, ok := s.index[id]
	if !ok {
		return math32.Vector3{}, false
	}
	return s.nodes[i].pos, true
}

// Step advances the simulation by one time step.
func (s *Simulation) Step() {
	s.steps++
	n := len(s.nodes)
	if n == 0 {
		return
	}
	o := &s.opts
	force := make([]math32.Vector3, n)
	for i := range n {
		for j := i + 1; j < n; j++ {
			d := s.nodes[i].pos.Sub(s.nodes[j].pos)
			dist2 := d.Dot(d)
			if dist2 < 0.01 {
				d = math32.Vec3(0.1, 0, 0)
				dist2 = 0.01
			}
			f := d.Normal().MulScalar(o.Repulsion / dist2)
			force[i] = force[i].Add(f)
			force[j] = force[j].Sub(f)
		}
	}
	for _, l := range s.links {
		if l.from == l.to {
			continue
		}
		d := s.nodes[l.to].pos.Sub(s.nodes[l.from].pos)
		dist := d.Length()
		if dist == 0 {
			continue
		}
		f := d.MulScalar(o.Spring * (dist - o.LinkLength) / dist)
		force[l.from] = force[l.from].Add(f)
		force[l.to] = force[l.to].Sub(f)
	}
	for i := range s.nodes {
		nd := &s.nodes[i]
		f := force[i].Sub(nd.pos.MulScalar(o.Gravity))
		nd.vel = nd.vel.Add(f.MulScalar(o.TimeStep)).MulScalar(o.Damping)
		if sp := nd.vel.Length(); o.MaxSpeed > 0 && sp > o.MaxSpeed {
			nd.vel = nd.vel.MulScalar(o.MaxSpeed / sp)
		}
		nd.pos = nd.pos.Add(nd.vel.MulScalar(o.TimeStep))
	}
}
