// Package include parses the include query parameter into a relation tree.
//
//	include=author.posts,author.parent,comments
//
//	author
//	├── posts
//	└── parent
//	comments
//
// The parser only shapes the tree. Which relations exist, and avoiding
// duplicate related resources, is up to whoever expands it.
package include

import (
	"sort"
	"strings"

	"github.com/roach88/listq/internal/metadata"
)

// Wildcard includes every relation of the root entity, one level deep.
const Wildcard = "*"

// Tree maps a relation name to the relations included beneath it.
type Tree map[string]Tree

// Parse builds the include tree for expr. relations lists the root
// entity's relations and is only used to expand Wildcard.
//
// Paths sharing a prefix merge; empty segments are skipped; segment names
// are canonicalised like filter keys. An empty expr yields an empty tree.
func Parse(expr string, relations []string) Tree {
	tree := Tree{}

	expr = strings.TrimSpace(expr)
	switch expr {
	case "":
		return tree
	case Wildcard:
		for _, name := range relations {
			tree[name] = Tree{}
		}
		return tree
	}

	for _, item := range strings.Split(expr, ",") {
		node := tree
		for _, segment := range strings.Split(item, ".") {
			name := metadata.CanonicalKey(segment)
			if name == "" {
				continue
			}
			child, ok := node[name]
			if !ok {
				child = Tree{}
				node[name] = child
			}
			node = child
		}
	}

	return tree
}

// Names returns the relations at this level, sorted.
func (t Tree) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Paths returns every node as a dotted path, sorted.
//
//	{author: {posts: {}}, comments: {}} -> [author author.posts comments]
func (t Tree) Paths() []string {
	var paths []string
	var walk func(prefix string, node Tree)
	walk = func(prefix string, node Tree) {
		for _, name := range node.Names() {
			path := name
			if prefix != "" {
				path = prefix + "." + name
			}
			paths = append(paths, path)
			walk(path, node[name])
		}
	}
	walk("", t)
	return paths
}

// String renders the tree back in include-expression form, leaves only.
func (t Tree) String() string {
	var leaves []string
	for _, path := range t.Paths() {
		if !t.hasChildren(path) {
			leaves = append(leaves, path)
		}
	}
	return strings.Join(leaves, ",")
}

func (t Tree) hasChildren(path string) bool {
	node := t
	for _, name := range strings.Split(path, ".") {
		node = node[name]
	}
	return len(node) > 0
}
