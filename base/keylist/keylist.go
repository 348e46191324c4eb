// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package keylist provides an insertion-ordered map. The app registries
// use it so that "first registered" is well defined after deletions.
package keylist

import (
	"iter"
	"slices"
)

// List maps keys to values and remembers the order in which keys were
// first set. Keys and Values are parallel slices in that order and
// must not be modified directly. The zero value is an empty list.
type List[K comparable, V any] struct {
	Keys   []K
	Values []V

	index map[K]int
}

// Reset removes all entries.
func (kl *List[K, V]) Reset() {
	kl.Keys, kl.Values = nil, nil
	clear(kl.index)
}

// Set replaces the value of an existing key in place, or appends
// a new entry.
func (kl *List[K, V]) Set(key K, val V) {
	if i, ok := kl.index[key]; ok {
		kl.Values[i] = val
		return
	}
	if kl.index == nil {
		kl.index = map[K]int{}
	}
	kl.index[key] = len(kl.Keys)
	kl.Keys = append(kl.Keys, key)
	kl.Values = append(kl.Values, val)
}

// AtTry returns the value for the key and whether it is present.
func (kl *List[K, V]) AtTry(key K) (V, bool) {
	if i, ok := kl.index[key]; ok {
		return kl.Values[i], true
	}
	var zero V
	return zero, false
}

func (kl *List[K, V]) Has(key K) bool {
	_, ok := kl.index[key]
	return ok
}

func (kl *List[K, V]) Len() int {
	return len(kl.Keys)
}

// First returns the oldest entry, and false if the list is empty.
func (kl *List[K, V]) First() (K, V, bool) {
	if len(kl.Keys) == 0 {
		var k K
		var v V
		return k, v, false
	}
	return kl.Keys[0], kl.Values[0], true
}

// DeleteByKey removes the entry for the key, keeping the order of the
// others. It returns false if the key is not present.
func (kl *List[K, V]) DeleteByKey(key K) bool {
	i, ok := kl.index[key]
	if !ok {
		return false
	}
	delete(kl.index, key)
	kl.Keys = slices.Delete(kl.Keys, i, i+1)
	kl.Values = slices.Delete(kl.Values, i, i+1)
	for j := i; j < len(kl.Keys); j++ {
		kl.index[kl.Keys[j]] = j
	}
	return true
}

// All iterates over the entries in order. The list must not be
// changed during the iteration.
func (kl *List[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i, k := range kl.Keys {
			if !yield(k, kl.Values[i]) {
				return
			}
		}
	}
}
