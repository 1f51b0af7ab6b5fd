package search

import (
	"sort"
	"strings"
)

// PrefixTree is an autocomplete trie keyed by lower-cased runes.
// A node at depth d represents every word sharing the same first d runes;
// a word of length L is stored, with its original casing, in the node at depth L.
type PrefixTree struct {
	depth    int
	keys     []rune // sorted keys of children
	children map[rune]*PrefixTree
	words    []string
}

// NewPrefixTree creates an empty root node
func NewPrefixTree() *PrefixTree {
	return newNode(0)
}

func newNode(depth int) *PrefixTree {
	return &PrefixTree{
		depth:    depth,
		children: make(map[rune]*PrefixTree),
	}
}

// AddWord inserts the word, creating child nodes as needed
func (t *PrefixTree) AddWord(word string) {
	t.add(word, foldKey(word))
}

func (t *PrefixTree) add(word string, key []rune) {
	// No more runes to descend by; the word ends here
	if t.depth >= len(key) {
		t.words = append(t.words, word)
		return
	}

	next := key[t.depth]
	child, ok := t.children[next]
	if !ok {
		child = newNode(t.depth + 1)
		t.children[next] = child

		i := sort.Search(len(t.keys), func(i int) bool { return t.keys[i] >= next })
		t.keys = append(t.keys, 0)
		copy(t.keys[i+1:], t.keys[i:])
		t.keys[i] = next
	}
	child.add(word, key)
}

// FuzzyMatches returns the words that start with the given prefix
// (compared case-insensitively).
//
// maxResults is a soft cap: the bound is checked after each child subtree
// is merged, so the result can exceed maxResults by the size of the last
// merged batch. Children are visited in ascending rune order.
func (t *PrefixTree) FuzzyMatches(prefix string, maxResults int) []string {
	return t.matches(foldKey(prefix), maxResults)
}

func (t *PrefixTree) matches(key []rune, maxResults int) []string {
	if t.depth < len(key) {
		child, ok := t.children[key[t.depth]]
		if !ok {
			return []string{}
		}
		return child.matches(key, maxResults)
	}

	// The prefix is exhausted: everything at and below this node matches
	matches := append([]string{}, t.words...)
	for _, r := range t.keys {
		matches = append(matches, t.children[r].matches(key, maxResults)...)
		if len(matches) > maxResults {
			break
		}
	}
	return matches
}

// Len counts the words stored at and below this node
func (t *PrefixTree) Len() int {
	total := len(t.words)
	for _, child := range t.children {
		total += child.Len()
	}
	return total
}

func foldKey(s string) []rune {
	return []rune(strings.ToLower(s))
}
