package dictionary

import "fmt"

// FindWord walks the trie matching word code-for-code and returns the
// offset of its terminal group, or NoChildren when the word is absent.
// Matching is exact; callers fold case before lookup.
func (b *Blob) FindWord(word []int32) (int, error) {
	if len(word) == 0 {
		return NoChildren, nil
	}
	listPos := 0
	i := 0
	var g NodeGroup
	for {
		count, pos, err := b.ReadGroupCount(listPos)
		if err != nil {
			return NoChildren, err
		}
		matched := false
		for n := 0; n < count; n++ {
			if err := b.DecodeGroup(pos, &g); err != nil {
				return NoChildren, err
			}
			if g.Chars[0] == word[i] {
				if g.CharCount > len(word)-i {
					return NoChildren, nil
				}
				for k := 1; k < g.CharCount; k++ {
					if g.Chars[k] != word[i+k] {
						return NoChildren, nil
					}
				}
				i += g.CharCount
				if i == len(word) {
					if g.Terminal() {
						return g.Pos, nil
					}
					return NoChildren, nil
				}
				if g.ChildrenPos == NoChildren {
					return NoChildren, nil
				}
				listPos = g.ChildrenPos
				matched = true
				break
			}
			pos = g.NextSiblingPos
		}
		if !matched {
			return NoChildren, nil
		}
	}
}

// GetFrequency returns the stored frequency of an exact word, zero when
// the word is not in the dictionary.
func (b *Blob) GetFrequency(word []int32) int {
	pos, err := b.FindWord(word)
	if err != nil || pos == NoChildren {
		return 0
	}
	var g NodeGroup
	if err := b.DecodeGroup(pos, &g); err != nil {
		return 0
	}
	return g.Frequency
}

// BigramContext collects the bigram attributes hanging off a word's
// terminal group as a map from target group offset to the 4-bit bigram
// frequency. Search uses it to boost successors of the previous word. The
// map is nil when the word is absent or carries no bigrams.
func (b *Blob) BigramContext(word []int32) (map[int]uint8, error) {
	pos, err := b.FindWord(word)
	if err != nil {
		return nil, err
	}
	if pos == NoChildren {
		return nil, nil
	}
	var g NodeGroup
	if err := b.DecodeGroup(pos, &g); err != nil {
		return nil, err
	}
	if g.BigramsPos == NoChildren {
		return nil, nil
	}
	ctx := make(map[int]uint8)
	var a Attribute
	attrPos := g.BigramsPos
	for {
		if err := b.ReadAttribute(attrPos, &a); err != nil {
			return nil, fmt.Errorf("reading bigrams of group %d: %w", g.Pos, err)
		}
		ctx[a.TargetPos] = a.Frequency
		if !a.HasNext {
			return ctx, nil
		}
		attrPos = a.NextPos
	}
}

// ShortcutTargets returns the shortcut attribute targets of a word's
// terminal group, nil when none exist.
func (b *Blob) ShortcutTargets(word []int32) ([]int, error) {
	pos, err := b.FindWord(word)
	if err != nil {
		return nil, err
	}
	if pos == NoChildren {
		return nil, nil
	}
	var g NodeGroup
	if err := b.DecodeGroup(pos, &g); err != nil {
		return nil, err
	}
	if g.ShortcutsPos == NoChildren {
		return nil, nil
	}
	var targets []int
	var a Attribute
	attrPos := g.ShortcutsPos
	for {
		if err := b.ReadAttribute(attrPos, &a); err != nil {
			return nil, fmt.Errorf("reading shortcuts of group %d: %w", g.Pos, err)
		}
		targets = append(targets, a.TargetPos)
		if !a.HasNext {
			return targets, nil
		}
		attrPos = a.NextPos
	}
}
