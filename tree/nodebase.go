// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// NodeBase implements the [Node] interface and provides the core functionality
// for the stage component tree. You must use NodeBase as an embedded struct
// in all higher-level tree types.
//
// Nodes are initialized when they are added to a parent, or with
// [NodeBase.InitName] for root nodes. This ensures that the [NodeBase.This]
// field is set to the node as its true underlying type.
type NodeBase struct {

	// Name is the name of this node, which is unique relative to other children of
	// the same parent. Cameras and scenes use it as their registry id. If not otherwise
	// set, it defaults to the lowercase name of the node type combined with the total
	// number of children that have ever been added to the node's parent.
	Name string

	// This is the value of this Node as its true underlying type. This allows methods
	// defined on base types to call methods defined on higher-level types.
	This Node

	// Parent is the parent of this node, which is set automatically when this node is
	// added as a child of a parent.
	Parent Node

	// Children is the list of children of this node, in tree order.
	// Use [NodeBase.AddChild] and [NodeBase.DeleteChild] to modify it,
	// so that the lifecycle functions are called.
	Children []Node

	// mounted is whether the node is currently part of a mounted tree.
	mounted bool

	// numLifetimeChildren is the number of children that have ever been added to this
	// node, which is used for automatic unique naming.
	numLifetimeChildren uint64
}

// AsTree returns the [NodeBase] for this Node.
func (n *NodeBase) AsTree() *NodeBase {
	return n
}

// OnAdd is a no-op by default.
func (n *NodeBase) OnAdd() error { return nil }

// OnRemove is a no-op by default.
func (n *NodeBase) OnRemove() {}

// String implements the [fmt.Stringer] interface by returning the path of the node.
func (n *NodeBase) String() string {
	if n == nil || n.This == nil {
		return "nil"
	}
	return n.Path()
}

// InitName initializes this node to the given actual object as a Node interface
// and sets its name. It must be called on root nodes; children are
// initialized by [NodeBase.AddChild].
func (n *NodeBase) InitName(this Node, name ...string) {
	n.This = this
	if len(name) > 0 {
		n.Name = name[0]
	}
}

// SetRoot initializes this node as the mounted root of a tree.
// Children added to it from now on are mounted.
func (n *NodeBase) SetRoot(this Node, name ...string) {
	n.InitName(this, name...)
	n.mounted = true
}

// IsMounted returns whether the node is part of a mounted tree.
func (n *NodeBase) IsMounted() bool {
	return n.mounted
}

// Path returns the path to this node from the tree root,
// using node names separated by / delimiters.
func (n *NodeBase) Path() string {
	if n.Parent != nil {
		return n.Parent.AsTree().Path() + "/" + n.Name
	}
	return "/" + n.Name
}

// HasChildren returns whether this node has any children.
func (n *NodeBase) HasChildren() bool {
	return len(n.Children) > 0
}

// ChildByName returns the first child that has the given name,
// and nil if no such element is found.
func (n *NodeBase) ChildByName(name string) Node {
	for _, c := range n.Children {
		if c.AsTree().Name == name {
			return c
		}
	}
	return nil
}

// IndexInParent returns our index within our parent node,
// and -1 if we don't have a parent.
func (n *NodeBase) IndexInParent() int {
	if n.Parent == nil {
		return -1
	}
	return slices.Index(n.Parent.AsTree().Children, n.This)
}

// AddChild adds given child at end of children list.
// The kid node is assumed to not be on another tree
// and it will be initialized and named if it has no name.
// If this node is mounted, the kid's subtree is mounted,
// and a mount error detaches the kid again and is returned.
func (n *NodeBase) AddChild(kid Node) error {
	kb := kid.AsTree()
	if kb.Parent != nil {
		return fmt.Errorf("tree.NodeBase.AddChild: %q already has parent %q", kb.Name, kb.Parent.AsTree().Path())
	}
	kb.This = kid
	n.numLifetimeChildren++
	if kb.Name == "" {
		kb.Name = typeIDName(kid) + "-" + strconv.FormatUint(n.numLifetimeChildren-1, 10)
	}
	if other := n.ChildByName(kb.Name); other != nil {
		return fmt.Errorf("tree.NodeBase.AddChild: %q already has a child named %q", n.Path(), kb.Name)
	}
	if n.This == nil {
		// a detached parent; mount sets the typed parent
		n.This = n
	}
	kb.Parent = n.This
	n.Children = append(n.Children, kid)
	if !n.mounted {
		return nil
	}
	if err := mount(kid); err != nil {
		n.detach(kid)
		return err
	}
	return nil
}

// DeleteChild unmounts the given child (if mounted) and removes it
// from the children list. It returns false if it is not a child.
func (n *NodeBase) DeleteChild(kid Node) bool {
	if slices.Index(n.Children, kid) < 0 {
		return false
	}
	unmount(kid)
	n.detach(kid)
	return true
}

// DeleteChildByName deletes the child with the given name,
// returning false if there is none.
func (n *NodeBase) DeleteChildByName(name string) bool {
	kid := n.ChildByName(name)
	if kid == nil {
		return false
	}
	return n.DeleteChild(kid)
}

// DeleteChildren deletes all children, last to first.
func (n *NodeBase) DeleteChildren() {
	for i := len(n.Children) - 1; i >= 0; i-- {
		n.DeleteChild(n.Children[i])
	}
}

// Delete deletes this node from its parent's children list,
// or just unmounts its children if it is a root.
func (n *NodeBase) Delete() {
	if n.Parent == nil {
		n.DeleteChildren()
		return
	}
	n.Parent.AsTree().DeleteChild(n.This)
}

func (n *NodeBase) detach(kid Node) {
	if i := slices.Index(n.Children, kid); i >= 0 {
		n.Children = slices.Delete(n.Children, i, i+1)
	}
	kid.AsTree().Parent = nil
}

// mount mounts the subtree rooted at n, parents first.
// If any OnAdd fails, the already mounted nodes are unmounted
// in reverse order and the error is returned.
func mount(n Node) error {
	var done []Node
	var walk func(k Node) error
	walk = func(k Node) error {
		kb := k.AsTree()
		kb.This = k
		kb.mounted = true
		if err := k.OnAdd(); err != nil {
			kb.mounted = false
			return fmt.Errorf("mounting %s: %w", kb.Path(), err)
		}
		done = append(done, k)
		for _, c := range kb.Children {
			c.AsTree().Parent = k
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	err := walk(n)
	if err != nil {
		for i := len(done) - 1; i >= 0; i-- {
			done[i].OnRemove()
			done[i].AsTree().mounted = false
		}
	}
	return err
}

// unmount unmounts the subtree rooted at n, children first.
func unmount(n Node) {
	nb := n.AsTree()
	for i := len(nb.Children) - 1; i >= 0; i-- {
		unmount(nb.Children[i])
	}
	if nb.mounted {
		n.OnRemove()
		nb.mounted = false
	}
}

// typeIDName returns the lowercase type name of the node.
func typeIDName(n Node) string {
	t := reflect.TypeOf(n)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return strings.ToLower(t.Name())
}
