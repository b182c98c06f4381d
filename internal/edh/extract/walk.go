// Package extract mines EDHREC-style payloads of unknown shape for cards,
// commander attachments, synergy scores, color identities and links.
//
// Every function degrades to an absent or zero result on malformed input;
// nothing here returns an error.
package extract

import "github.com/ramonehamilton/EDH-Companion/internal/edh/jsonvalue"

// maxDepth bounds every traversal. The root sits at depth 0 and nodes below
// maxDepth are never visited.
const maxDepth = 10

// visitFunc inspects one node with the state inherited from its parent. It
// returns the state handed to the node's children and false to stop the
// whole walk.
type visitFunc[S any] func(node jsonvalue.Value, state S) (S, bool)

// walk visits v and its descendants depth-first in document order: object
// members in the order they were decoded, array elements by position.
// It reports false if visit stopped the walk.
func walk[S any](v jsonvalue.Value, state S, visit visitFunc[S]) bool {
	return walkAt(v, 0, state, visit)
}

func walkAt[S any](v jsonvalue.Value, depth int, state S, visit visitFunc[S]) bool {
	if depth > maxDepth {
		return true
	}

	childState, ok := visit(v, state)
	if !ok {
		return false
	}

	switch v.Kind() {
	case jsonvalue.KindObject:
		for _, m := range v.Members() {
			if !walkAt(m.Value, depth+1, childState, visit) {
				return false
			}
		}
	case jsonvalue.KindArray:
		for _, item := range v.Items() {
			if !walkAt(item, depth+1, childState, visit) {
				return false
			}
		}
	}
	return true
}

// each walks without inherited state.
func each(v jsonvalue.Value, visit func(node jsonvalue.Value) bool) {
	walk(v, struct{}{}, func(node jsonvalue.Value, s struct{}) (struct{}, bool) {
		return s, visit(node)
	})
}
