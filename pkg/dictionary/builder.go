package dictionary

import (
	"fmt"
	"sort"
)

// Builder assembles a packed-trie blob from words, bigrams and shortcuts.
// It exists for tests, tooling and the debug CLI; production dictionaries
// come prebuilt from the host.
type Builder struct {
	root      *buildNode
	bigrams   []attrSpec
	shortcuts []attrSpec
}

type attrSpec struct {
	from string
	to   string
	freq uint8
}

type buildNode struct {
	children map[int32]*buildNode
	terminal bool
	freq     int
}

func newBuildNode() *buildNode {
	return &buildNode{children: make(map[int32]*buildNode)}
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{root: newBuildNode()}
}

// AddWord inserts a word with a frequency clamped to 0..255. Re-adding a
// word overwrites its frequency.
func (bd *Builder) AddWord(word string, freq int) {
	if word == "" {
		return
	}
	if freq < 0 {
		freq = 0
	} else if freq > 255 {
		freq = 255
	}
	n := bd.root
	for _, r := range word {
		child, ok := n.children[r]
		if !ok {
			child = newBuildNode()
			n.children[r] = child
		}
		n = child
	}
	n.terminal = true
	n.freq = freq
}

// AddBigram records that second tends to follow first, with a 4-bit
// strength. Both words must also be added with AddWord before Build.
func (bd *Builder) AddBigram(first, second string, freq uint8) {
	bd.bigrams = append(bd.bigrams, attrSpec{from: first, to: second, freq: freq & MaskAttributeFrequency})
}

// AddShortcut records a shortcut from word to target. Both words must be
// added with AddWord before Build.
func (bd *Builder) AddShortcut(word, target string) {
	bd.shortcuts = append(bd.shortcuts, attrSpec{from: word, to: target})
}

// group is a serialization unit: a compressed character run plus its
// layout state during the offset fixpoint.
type group struct {
	chars    []int32
	terminal bool
	freq     int
	children *groupList

	shortcuts []attrRef
	bigrams   []attrRef

	pos            int
	childAddrBytes int
}

type groupList struct {
	groups []*group
	pos    int
}

type attrRef struct {
	target    *group
	freq      uint8
	addrBytes int
	negative  bool
}

// Build serializes the trie. It fails when an attribute references a word
// that was never added.
func (bd *Builder) Build() (*Blob, error) {
	byWord := make(map[string]*group)
	root := compress(bd.root, "", byWord)

	for _, s := range bd.shortcuts {
		from, to := byWord[s.from], byWord[s.to]
		if from == nil || to == nil {
			return nil, fmt.Errorf("shortcut %q -> %q references an unknown word", s.from, s.to)
		}
		from.shortcuts = append(from.shortcuts, attrRef{target: to, addrBytes: 1})
	}
	for _, s := range bd.bigrams {
		from, to := byWord[s.from], byWord[s.to]
		if from == nil || to == nil {
			return nil, fmt.Errorf("bigram %q -> %q references an unknown word", s.from, s.to)
		}
		from.bigrams = append(from.bigrams, attrRef{target: to, freq: s.freq, addrBytes: 1})
	}

	order := layoutOrder(root)
	for !assignPositions(order) {
	}
	return NewBlob(serialize(order)), nil
}

// compress folds single-child non-terminal chains into multi-character
// groups and records each word's terminal group.
func compress(n *buildNode, prefix string, byWord map[string]*group) *groupList {
	if len(n.children) == 0 {
		return nil
	}
	codes := make([]int32, 0, len(n.children))
	for c := range n.children {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	list := &groupList{}
	for _, c := range codes {
		child := n.children[c]
		g := &group{chars: []int32{c}}
		word := prefix + string(c)
		for !child.terminal && len(child.children) == 1 && len(g.chars) < MaxGroupChars {
			var nc int32
			var next *buildNode
			for k, v := range child.children {
				nc, next = k, v
			}
			g.chars = append(g.chars, nc)
			word += string(nc)
			child = next
		}
		g.terminal = child.terminal
		g.freq = child.freq
		if g.terminal {
			byWord[word] = g
		}
		g.children = compress(child, word, byWord)
		list.groups = append(list.groups, g)
	}
	return list
}

// layoutOrder returns group lists in serialization order: a list, then
// each member's children lists depth-first.
func layoutOrder(root *groupList) []*groupList {
	var order []*groupList
	var walk func(*groupList)
	walk = func(l *groupList) {
		if l == nil {
			return
		}
		order = append(order, l)
		for _, g := range l.groups {
			walk(g.children)
		}
	}
	walk(root)
	return order
}

func charSize(c int32) int {
	if c >= minimalOneByteCharacter && c <= 0xFF {
		return 1
	}
	return 3
}

func (g *group) size() int {
	s := 1
	for _, c := range g.chars {
		s += charSize(c)
	}
	if len(g.chars) > 1 {
		s++ // terminator
	}
	if g.terminal {
		s++
	}
	if g.children != nil {
		s += g.childAddrBytes
	}
	for _, a := range g.shortcuts {
		s += 1 + a.addrBytes
	}
	for _, a := range g.bigrams {
		s += 1 + a.addrBytes
	}
	return s
}

func countSize(n int) int {
	if n < 0x80 {
		return 1
	}
	return 2
}

func offsetBytes(off int) int {
	switch {
	case off < 1<<8:
		return 1
	case off < 1<<16:
		return 2
	default:
		return 3
	}
}

// assignPositions lays out every list at its current widths, then widens
// any address field that no longer fits. It reports whether the layout is
// stable; widths only grow, so iterating it converges.
func assignPositions(order []*groupList) bool {
	pos := 0
	for _, l := range order {
		l.pos = pos
		pos += countSize(len(l.groups))
		for _, g := range l.groups {
			g.pos = pos
			pos += g.size()
		}
	}

	stable := true
	for _, l := range order {
		for _, g := range l.groups {
			if g.children != nil {
				if n := offsetBytes(g.children.pos - g.pos); n > g.childAddrBytes {
					g.childAddrBytes = n
					stable = false
				}
			}
			// Attribute entry positions shift with every preceding field,
			// so widths are judged from the group head; the slack of a few
			// bytes is covered by widening on the next round.
			for i := range g.shortcuts {
				if n := attrOffsetBytes(g, &g.shortcuts[i]); n > g.shortcuts[i].addrBytes {
					g.shortcuts[i].addrBytes = n
					stable = false
				}
			}
			for i := range g.bigrams {
				if n := attrOffsetBytes(g, &g.bigrams[i]); n > g.bigrams[i].addrBytes {
					g.bigrams[i].addrBytes = n
					stable = false
				}
			}
		}
	}
	return stable
}

func attrOffsetBytes(g *group, a *attrRef) int {
	off := a.target.pos - g.pos
	if off < 0 {
		off = -off
	}
	// Entries sit within the group, at most its size past the head; widen
	// for that slack so the final offset always fits.
	return offsetBytes(off + g.size())
}

func serialize(order []*groupList) []byte {
	var out []byte
	for _, l := range order {
		n := len(l.groups)
		if n < 0x80 {
			out = append(out, byte(n))
		} else {
			out = append(out, byte(n>>8)|0x80, byte(n))
		}
		for _, g := range l.groups {
			out = g.append(out)
		}
	}
	return out
}

func (g *group) append(out []byte) []byte {
	start := len(out)
	flags := byte(0)
	if len(g.chars) > 1 {
		flags |= FlagHasMultipleChars
	}
	if g.terminal {
		flags |= FlagIsTerminal
	}
	if len(g.shortcuts) > 0 {
		flags |= FlagHasShortcutTargets
	}
	if len(g.bigrams) > 0 {
		flags |= FlagHasBigrams
	}
	if g.children != nil {
		switch g.childAddrBytes {
		case 1:
			flags |= flagGroupAddressTypeOneByte
		case 2:
			flags |= flagGroupAddressTypeTwoBytes
		default:
			flags |= flagGroupAddressTypeThreeBytes
		}
	}
	out = append(out, flags)

	for _, c := range g.chars {
		out = appendChar(out, c)
	}
	if len(g.chars) > 1 {
		out = append(out, characterArrayTerminator)
	}
	if g.terminal {
		out = append(out, byte(g.freq))
	}
	if g.children != nil {
		out = appendOffset(out, g.children.pos-g.pos, g.childAddrBytes)
	}
	out = appendAttrs(out, g, start, g.shortcuts)
	out = appendAttrs(out, g, start, g.bigrams)
	return out
}

// appendAttrs emits an attribute list; offsets are relative to each
// entry's own flags byte, whose absolute position follows from how much
// of the group has been emitted so far.
func appendAttrs(out []byte, g *group, start int, attrs []attrRef) []byte {
	for i, a := range attrs {
		entryPos := g.pos + (len(out) - start)
		flags := byte(0x10*a.addrBytes) | (a.freq & MaskAttributeFrequency)
		if i < len(attrs)-1 {
			flags |= FlagAttributeHasNext
		}
		off := a.target.pos - entryPos
		if off < 0 {
			flags |= FlagAttributeOffsetNegative
			off = -off
		}
		out = append(out, flags)
		out = appendOffset(out, off, a.addrBytes)
	}
	return out
}

func appendChar(out []byte, c int32) []byte {
	if c >= minimalOneByteCharacter && c <= 0xFF {
		return append(out, byte(c))
	}
	return append(out, byte(c>>16), byte(c>>8), byte(c))
}

func appendOffset(out []byte, off, n int) []byte {
	for i := n - 1; i >= 0; i-- {
		out = append(out, byte(off>>(8*i)))
	}
	return out
}
