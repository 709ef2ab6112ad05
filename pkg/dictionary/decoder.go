package dictionary

import "fmt"

// On-disk node-group layout.
//
// A group list starts with a count: one byte when below 0x80, otherwise
// two bytes with the high bit of the first set
// (count = (b0&0x7F)<<8 | b1). The listed groups follow back to back.
//
// Each group opens with a flags byte:
//
//	0xC0  children address width tag (none / 1 / 2 / 3 bytes)
//	0x20  group carries multiple characters
//	0x10  group is a terminal (word end)
//	0x08  shortcut attribute list present
//	0x04  bigram attribute list present
//
// Characters follow: codes 0x20..0xFF on one byte, anything else on three
// bytes big-endian (the high byte is below 0x20, which disambiguates).
// Multi-character groups are terminated by 0x1F; single-character groups
// carry exactly one character and no terminator. A terminal group then has
// a one-byte frequency. The children address, when present, is an unsigned
// big-endian offset relative to the group's flags byte, always forward.
// Attribute lists close the group, shortcuts before bigrams.
//
// An attribute entry is a flags byte followed by its address:
//
//	0x80  another attribute follows
//	0x40  offset is negative (backward reference)
//	0x30  address width tag (1 / 2 / 3 bytes; 0 is malformed)
//	0x0F  attribute frequency
//
// Attribute targets are relative to the entry's flags byte.
const (
	maskGroupAddressType           = 0xC0
	flagGroupAddressTypeNoAddress  = 0x00
	flagGroupAddressTypeOneByte    = 0x40
	flagGroupAddressTypeTwoBytes   = 0x80
	flagGroupAddressTypeThreeBytes = 0xC0

	// FlagHasMultipleChars marks a group carrying a character run.
	FlagHasMultipleChars = 0x20
	// FlagIsTerminal marks a word-final group.
	FlagIsTerminal = 0x10
	// FlagHasShortcutTargets marks a shortcut attribute list.
	FlagHasShortcutTargets = 0x08
	// FlagHasBigrams marks a bigram attribute list.
	FlagHasBigrams = 0x04

	// FlagAttributeHasNext continues an attribute list.
	FlagAttributeHasNext = 0x80
	// FlagAttributeOffsetNegative negates an attribute offset.
	FlagAttributeOffsetNegative = 0x40

	maskAttributeAddressType = 0x30
	// MaskAttributeFrequency extracts the 4-bit attribute frequency.
	MaskAttributeFrequency = 0x0F

	characterArrayTerminator = 0x1F
	minimalOneByteCharacter  = 0x20

	// MaxGroupChars bounds a single group's character run; longer runs are
	// treated as malformed.
	MaxGroupChars = 48
)

// NoChildren marks a group without a children list.
const NoChildren = -1

// NodeGroup is the transient decode result for one sibling group. It is
// caller-owned scratch; DecodeGroup overwrites every field.
type NodeGroup struct {
	// Pos is the offset of the group's flags byte, the stable identity of
	// this node within the blob.
	Pos   int
	Flags byte

	Chars     [MaxGroupChars]int32
	CharCount int

	// Frequency is valid only for terminal groups.
	Frequency int

	// ChildrenPos is the children group-list offset, NoChildren when the
	// group is a leaf.
	ChildrenPos int

	// ShortcutsPos and BigramsPos are the offsets of the first attribute
	// entry of each list, NoChildren when absent.
	ShortcutsPos int
	BigramsPos   int

	// NextSiblingPos is the offset just past this group's serialized data.
	NextSiblingPos int
}

// Terminal reports whether the group ends a word.
func (g *NodeGroup) Terminal() bool { return g.Flags&FlagIsTerminal != 0 }

// Attribute is one decoded bigram or shortcut entry.
type Attribute struct {
	Frequency uint8
	TargetPos int
	HasNext   bool
	// NextPos is the offset of the following entry, meaningful only while
	// HasNext holds.
	NextPos int
}

// ReadGroupCount decodes the sibling count opening a group list and
// returns the offset of the first group.
func (b *Blob) ReadGroupCount(pos int) (count, groupsPos int, err error) {
	b0, err := b.byteAt(pos)
	if err != nil {
		return 0, 0, err
	}
	if b0 < 0x80 {
		return int(b0), pos + 1, nil
	}
	b1, err := b.byteAt(pos + 1)
	if err != nil {
		return 0, 0, err
	}
	return int(b0&0x7F)<<8 | int(b1), pos + 2, nil
}

// readChar decodes one character at pos, reporting the character, the
// offset past it, and whether it was the multi-char terminator.
func (b *Blob) readChar(pos int) (c int32, next int, terminator bool, err error) {
	b0, err := b.byteAt(pos)
	if err != nil {
		return 0, 0, false, err
	}
	if b0 == characterArrayTerminator {
		return 0, pos + 1, true, nil
	}
	if b0 >= minimalOneByteCharacter {
		return int32(b0), pos + 1, false, nil
	}
	b1, err := b.byteAt(pos + 1)
	if err != nil {
		return 0, 0, false, err
	}
	b2, err := b.byteAt(pos + 2)
	if err != nil {
		return 0, 0, false, err
	}
	return int32(b0)<<16 | int32(b1)<<8 | int32(b2), pos + 3, false, nil
}

// readOffset reads an n-byte big-endian unsigned offset.
func (b *Blob) readOffset(pos, n int) (int, error) {
	v := 0
	for i := 0; i < n; i++ {
		by, err := b.byteAt(pos + i)
		if err != nil {
			return 0, err
		}
		v = v<<8 | int(by)
	}
	return v, nil
}

// DecodeGroup decodes the node group whose flags byte sits at pos into g.
// It validates every offset against the blob bounds; any fault is
// reported as ErrMalformedDictionary and g must not be used.
func (b *Blob) DecodeGroup(pos int, g *NodeGroup) error {
	flags, err := b.byteAt(pos)
	if err != nil {
		return err
	}
	g.Pos = pos
	g.Flags = flags
	g.CharCount = 0
	g.Frequency = 0
	g.ChildrenPos = NoChildren
	g.ShortcutsPos = NoChildren
	g.BigramsPos = NoChildren

	p := pos + 1
	if flags&FlagHasMultipleChars != 0 {
		for {
			c, next, term, err := b.readChar(p)
			if err != nil {
				return err
			}
			p = next
			if term {
				break
			}
			if g.CharCount >= MaxGroupChars {
				return fmt.Errorf("%w: character run exceeds %d at offset %d", ErrMalformedDictionary, MaxGroupChars, pos)
			}
			g.Chars[g.CharCount] = c
			g.CharCount++
		}
		if g.CharCount == 0 {
			return fmt.Errorf("%w: empty character run at offset %d", ErrMalformedDictionary, pos)
		}
	} else {
		c, next, term, err := b.readChar(p)
		if err != nil {
			return err
		}
		if term {
			return fmt.Errorf("%w: terminator in single-char group at offset %d", ErrMalformedDictionary, pos)
		}
		g.Chars[0] = c
		g.CharCount = 1
		p = next
	}

	if flags&FlagIsTerminal != 0 {
		freq, err := b.byteAt(p)
		if err != nil {
			return err
		}
		g.Frequency = int(freq)
		p++
	}

	addrBytes := 0
	switch flags & maskGroupAddressType {
	case flagGroupAddressTypeOneByte:
		addrBytes = 1
	case flagGroupAddressTypeTwoBytes:
		addrBytes = 2
	case flagGroupAddressTypeThreeBytes:
		addrBytes = 3
	}
	if addrBytes > 0 {
		off, err := b.readOffset(p, addrBytes)
		if err != nil {
			return err
		}
		child := pos + off
		if child <= pos || child >= len(b.data) {
			return fmt.Errorf("%w: children offset %d at group %d", ErrMalformedDictionary, off, pos)
		}
		g.ChildrenPos = child
		p += addrBytes
	}

	if flags&FlagHasShortcutTargets != 0 {
		g.ShortcutsPos = p
		p, err = b.skipAttributes(p)
		if err != nil {
			return err
		}
	}
	if flags&FlagHasBigrams != 0 {
		g.BigramsPos = p
		p, err = b.skipAttributes(p)
		if err != nil {
			return err
		}
	}

	g.NextSiblingPos = p
	return nil
}

// ReadAttribute decodes one attribute entry at pos.
func (b *Blob) ReadAttribute(pos int, a *Attribute) error {
	flags, err := b.byteAt(pos)
	if err != nil {
		return err
	}
	addrBytes := 0
	switch flags & maskAttributeAddressType {
	case 0x10:
		addrBytes = 1
	case 0x20:
		addrBytes = 2
	case 0x30:
		addrBytes = 3
	default:
		return fmt.Errorf("%w: attribute without address at offset %d", ErrMalformedDictionary, pos)
	}
	off, err := b.readOffset(pos+1, addrBytes)
	if err != nil {
		return err
	}
	if flags&FlagAttributeOffsetNegative != 0 {
		off = -off
	}
	target := pos + off
	if target < 0 || target >= len(b.data) {
		return fmt.Errorf("%w: attribute target %d at offset %d", ErrMalformedDictionary, target, pos)
	}
	a.Frequency = flags & MaskAttributeFrequency
	a.TargetPos = target
	a.HasNext = flags&FlagAttributeHasNext != 0
	a.NextPos = pos + 1 + addrBytes
	return nil
}

// skipAttributes walks an attribute list and returns the offset past its
// final entry.
func (b *Blob) skipAttributes(pos int) (int, error) {
	var a Attribute
	for {
		if err := b.ReadAttribute(pos, &a); err != nil {
			return 0, err
		}
		pos = a.NextPos
		if !a.HasNext {
			return pos, nil
		}
	}
}
