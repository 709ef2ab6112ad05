package suggest

import "github.com/softkb/tapserve/pkg/keyboard"

// MaxDigraphSearchDepth bounds how many digraph replacements a single
// input may branch on; deeper occurrences are left unreplaced.
const MaxDigraphSearchDepth = 5

// digraph lets a two-character input sequence match a single dictionary
// character, for locales that type composed letters as pairs.
type digraph struct {
	first, second int32
	replacement   int32
}

var germanUmlautDigraphs = []digraph{
	{'a', 'e', 'ä'},
	{'o', 'e', 'ö'},
	{'u', 'e', 'ü'},
}

var frenchLigatureDigraphs = []digraph{
	{'a', 'e', 'æ'},
	{'o', 'e', 'œ'},
}

func digraphsForLocale(locale string) []digraph {
	switch locale {
	case "de":
		return germanUmlautDigraphs
	case "fr":
		return frenchLigatureDigraphs
	default:
		return nil
	}
}

// inputVariant is one digraph interpretation of the raw input: the
// primary codes with zero or more pairs collapsed, and the touch points
// realigned. Collapsed positions carry no touch point.
type inputVariant struct {
	codes []int32
	xs    []int
	ys    []int
}

// expandDigraphs enumerates the digraph interpretations of an input,
// always including the literal one. Each occurrence branches into
// kept-as-pair and collapsed forms, up to MaxDigraphSearchDepth
// replacements per variant.
func expandDigraphs(codes []int32, xs, ys []int, dgs []digraph, emit func(inputVariant)) {
	if len(dgs) == 0 {
		emit(inputVariant{codes: codes, xs: xs, ys: ys})
		return
	}
	var rec func(i, depth int, v inputVariant)
	rec = func(i, depth int, v inputVariant) {
		for ; i < len(codes); i++ {
			if depth < MaxDigraphSearchDepth && i+1 < len(codes) {
				if d := digraphAt(dgs, codes[i], codes[i+1]); d != nil {
					// Collapsed branch: the composed character replaces
					// the pair and has no touch point of its own.
					collapsed := inputVariant{
						codes: append(append([]int32(nil), v.codes...), d.replacement),
						xs:    append(append([]int(nil), v.xs...), -1),
						ys:    append(append([]int(nil), v.ys...), -1),
					}
					rec(i+2, depth+1, collapsed)
				}
			}
			v.codes = append(v.codes, codes[i])
			v.xs = append(v.xs, xs[i])
			v.ys = append(v.ys, ys[i])
		}
		emit(v)
	}
	rec(0, 0, inputVariant{
		codes: make([]int32, 0, len(codes)),
		xs:    make([]int, 0, len(codes)),
		ys:    make([]int, 0, len(codes)),
	})
}

func digraphAt(dgs []digraph, a, b int32) *digraph {
	fa := keyboard.BaseLowerCode(a)
	fb := keyboard.BaseLowerCode(b)
	for i := range dgs {
		if dgs[i].first == fa && dgs[i].second == fb {
			return &dgs[i]
		}
	}
	return nil
}
