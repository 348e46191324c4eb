// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

// WalkDown calls the given function on the node and all of its children
// in a depth-first manner over all of the children, sequentially in the
// current goroutine. It stops walking the current branch of the tree if
// the function returns [Break] and keeps walking if it returns [Continue].
func (n *NodeBase) WalkDown(fun func(n Node) bool) {
	if n.This == nil {
		return
	}
	if !fun(n.This) {
		return
	}
	for _, c := range n.Children {
		c.AsTree().WalkDown(fun)
	}
}

// WalkUpParent calls the given function on all parent nodes of
// the node, going up the tree but not including the node itself.
// It stops walking if the function returns [Break] and keeps walking if
// it returns [Continue]. It returns whether walking was finished
// (false if it was aborted with [Break]).
func (n *NodeBase) WalkUpParent(fun func(n Node) bool) bool {
	for p := n.Parent; p != nil; p = p.AsTree().Parent {
		if !fun(p) {
			return false
		}
	}
	return true
}
