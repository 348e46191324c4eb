// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a node that records lifecycle calls into a shared log.
type recorder struct {
	NodeBase
	log  *[]string
	fail bool
}

func (r *recorder) OnAdd() error {
	if r.fail {
		return errors.New("refused")
	}
	*r.log = append(*r.log, "add "+r.Name)
	return nil
}

func (r *recorder) OnRemove() {
	*r.log = append(*r.log, "remove "+r.Name)
}

type registry interface {
	Register(name string)
}

type rootNode struct {
	NodeBase
	names []string
}

func (rn *rootNode) Register(name string) { rn.names = append(rn.names, name) }

func newRecorder(name string, log *[]string) *recorder {
	r := &recorder{log: log}
	r.Name = name
	return r
}

func TestAddChildNaming(t *testing.T) {
	parent := &NodeBase{}
	parent.InitName(parent, "root")
	a := &NodeBase{}
	require.NoError(t, parent.AddChild(a))
	assert.Equal(t, "nodebase-0", a.Name)
	assert.Equal(t, "/root/nodebase-0", a.Path())
	assert.Equal(t, 0, a.IndexInParent())

	b := &NodeBase{Name: "nodebase-0"}
	assert.Error(t, parent.AddChild(b))
	assert.Error(t, parent.AddChild(a))
	assert.False(t, a.IsMounted())
}

func TestMountOrder(t *testing.T) {
	var log []string
	root := &NodeBase{}
	root.SetRoot(root, "root")

	// build a detached subtree first: no lifecycle calls
	sc := newRecorder("scene", &log)
	obj := newRecorder("obj", &log)
	require.NoError(t, sc.AddChild(obj))
	assert.Empty(t, log)

	require.NoError(t, root.AddChild(sc))
	assert.Equal(t, []string{"add scene", "add obj"}, log)
	assert.True(t, obj.IsMounted())

	log = nil
	assert.True(t, root.DeleteChild(sc))
	assert.Equal(t, []string{"remove obj", "remove scene"}, log)
	assert.False(t, sc.IsMounted())
	assert.Nil(t, sc.Parent)
	assert.False(t, root.HasChildren())
	assert.False(t, root.DeleteChild(sc))
}

func TestMountRollback(t *testing.T) {
	var log []string
	root := &NodeBase{}
	root.SetRoot(root, "root")

	sc := newRecorder("scene", &log)
	good := newRecorder("good", &log)
	bad := newRecorder("bad", &log)
	bad.fail = true
	require.NoError(t, sc.AddChild(good))
	require.NoError(t, sc.AddChild(bad))

	err := root.AddChild(sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/root/scene/bad")
	assert.Equal(t, []string{"add scene", "add good", "remove good", "remove scene"}, log)
	assert.Nil(t, sc.Parent)
	assert.False(t, root.HasChildren())

	// a failing late addition only aborts itself
	log = nil
	other := newRecorder("other", &log)
	require.NoError(t, root.AddChild(other))
	bad2 := newRecorder("bad2", &log)
	bad2.fail = true
	assert.Error(t, other.AddChild(bad2))
	assert.True(t, other.IsMounted())
	assert.Equal(t, []string{"add other"}, log)
}

func TestParentOf(t *testing.T) {
	root := &rootNode{}
	root.SetRoot(root, "root")
	mid := &NodeBase{}
	require.NoError(t, root.AddChild(mid))
	leaf := &NodeBase{}
	require.NoError(t, mid.AddChild(leaf))

	reg, ok := ParentOf[registry](leaf)
	require.True(t, ok)
	reg.Register("leaf")
	assert.Equal(t, []string{"leaf"}, root.names)

	_, ok = ParentOf[registry](root)
	assert.False(t, ok)
	assert.True(t, IsRoot(root))
}

func TestWalk(t *testing.T) {
	root := &NodeBase{}
	root.SetRoot(root, "root")
	a := &NodeBase{Name: "a"}
	b := &NodeBase{Name: "b"}
	c := &NodeBase{Name: "c"}
	require.NoError(t, root.AddChild(a))
	require.NoError(t, a.AddChild(b))
	require.NoError(t, root.AddChild(c))

	var names []string
	root.WalkDown(func(n Node) bool {
		names = append(names, n.AsTree().Name)
		return n.AsTree().Name != "a"
	})
	assert.Equal(t, []string{"root", "a", "c"}, names)

	names = nil
	b.WalkUpParent(func(n Node) bool {
		names = append(names, n.AsTree().Name)
		return Continue
	})
	assert.Equal(t, []string{"a", "root"}, names)

	root.Delete()
	assert.False(t, root.HasChildren())
	assert.False(t, a.IsMounted())
}
