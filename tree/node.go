// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tree provides the component tree that stage scenes are
// composed from, centered on the [Node] interface.
//
// A tree is mounted when its root is marked with [NodeBase.SetRoot].
// Adding a subtree under a mounted parent calls [Node.OnAdd] on every
// node of the subtree, parents first. Deleting a mounted subtree calls
// [Node.OnRemove] on every node, children first, so that resources are
// released bottom-up while ancestors are still alive.
package tree

// Node is an interface that all tree nodes satisfy. The core functionality
// of a tree node is defined on [NodeBase], and all higher-level tree types
// must embed it. This interface only contains the lifecycle functionality
// that higher-level tree types may need to override.
type Node interface {

	// AsTree returns the [NodeBase] of this Node. Most core
	// tree functionality is implemented on [NodeBase].
	AsTree() *NodeBase

	// OnAdd is called when the node is mounted, i.e. when it becomes
	// part of a tree whose root is mounted. Its parent chain is complete
	// at that point, so it is where nodes look up the ancestors they
	// depend on. A non-nil error is a fatal configuration error:
	// the node's subtree is unmounted again and detached, and the
	// error is returned from [NodeBase.AddChild].
	OnAdd() error

	// OnRemove is called when the node is unmounted, after all of its
	// children have been unmounted. It is called exactly once for each
	// successful OnAdd.
	OnRemove()
}

// Walk return values for the WalkDown and WalkUpParent functions.
const (
	// Continue = true can be returned from tree iteration functions to continue
	// processing down the tree, as compared to Break = false which stops this branch.
	Continue = true

	// Break = false can be returned from tree iteration functions to stop processing
	// this branch of the tree.
	Break = false
)

// ParentOf returns the closest ancestor of n (not including n itself)
// that is of type T, which is typically an interface describing a
// capability such as a registry. It returns false if there is none.
func ParentOf[T any](n Node) (T, bool) {
	var zero T
	if n == nil {
		return zero, false
	}
	for p := n.AsTree().Parent; p != nil; p = p.AsTree().Parent {
		if t, ok := p.(T); ok {
			return t, true
		}
	}
	return zero, false
}

// IsRoot returns whether the given node has no parent.
func IsRoot(n Node) bool {
	return n.AsTree().Parent == nil
}
