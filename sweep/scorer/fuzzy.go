package scorer

import (
	"bytes"
	"sync"
	"unicode/utf8"
)

const negInf = -(1 << 30)

// FuzzyScorer matches needle as a subsequence of haystack, scoring the
// best of all possible matchings by dynamic programming (spec 4.1.1):
// a base score per matched character, boundary/camelCase bonuses, a flat
// bonus for unbroken consecutive runs, and a gap penalty that grows with
// the distance between matched characters.
type FuzzyScorer struct {
	CaseSensitive bool

	slabs sync.Pool
}

func NewFuzzyScorer() *FuzzyScorer {
	f := &FuzzyScorer{}
	f.slabs.New = func() any { return newSlab() }
	return f
}

func (f *FuzzyScorer) Name() string { return "fuzzy" }

func (f *FuzzyScorer) Score(needle, haystack string) (Result, bool) {
	if needle == "" {
		return Result{}, true
	}
	pat := []rune(needle)
	for i, r := range pat {
		pat[i] = foldRune(r, f.CaseSensitive)
	}
	hay := NewChars(haystack)
	if len(pat) > hay.Len() {
		return Result{}, false
	}
	if hay.IsASCII() {
		for _, r := range pat {
			if r >= utf8.RuneSelf {
				return Result{}, false
			}
		}
		if !asciiFeasible(pat, hay.ascii, f.CaseSensitive) {
			return Result{}, false
		}
	}

	s := f.slabs.Get().(*slab)
	defer f.slabs.Put(s)
	s.reset()

	return f.score(pat, hay, s)
}

// asciiFeasible does a cheap byte-oriented subsequence pre-check over ASCII
// haystacks before paying for the DP pass below, the same cheap-rejection
// role tools/fzf's ascii_fuzzy_index plays ahead of its own DP.
func asciiFeasible(pat []rune, ascii string, caseSensitive bool) bool {
	b := []byte(ascii)
	at := 0
	for _, r := range pat {
		lo := byte(r)
		rest := b[at:]
		idx := bytes.IndexByte(rest, lo)
		if !caseSensitive && lo >= 'a' && lo <= 'z' {
			if uidx := bytes.IndexByte(rest, lo-32); uidx >= 0 && (idx < 0 || uidx < idx) {
				idx = uidx
			}
		}
		if idx < 0 {
			return false
		}
		at += idx + 1
	}
	return true
}

// score runs the DP proper: end[n][h] is the best score of a matching of
// pat[0:n+1] whose n-th character lands on haystack index h (negInf if no
// such matching exists); cons tracks the length of the consecutive run
// ending there; pred records the haystack index the (n-1)-th character
// matched at, for backtracing positions once the best final score is
// found. Gap-bridging candidates (matches separated by an unmatched run)
// are tracked with a single rolling (value, position) pair per row rather
// than re-scanning every earlier position, keeping each row O(haystack).
func (f *FuzzyScorer) score(pat []rune, hay Chars, s *slab) (Result, bool) {
	M, N := len(pat), hay.Len()

	classes := make([]charClass, N)
	chars := make([]rune, N)
	for i := 0; i < N; i++ {
		r := foldRune(hay.At(i), f.CaseSensitive)
		chars[i] = r
		classes[i] = classOf(r)
	}

	end := s.alloc(M * N)
	cons := s.alloc(M * N)
	pred := s.alloc(M * N)

	for n := 0; n < M; n++ {
		row := n * N
		prevRow := row - N
		gapBest, gapBestPos := int32(negInf), int32(-1)
		var prevClass charClass
		for h := 0; h < N; h++ {
			curClass := classes[h]
			bonus := int32(bonusAt(h, prevClass, curClass))
			prevClass = curClass

			if chars[h] != pat[n] {
				end[row+h] = negInf
			} else if n == 0 {
				end[row+h] = scoreMatch + bonus
				cons[row+h] = 1
				pred[row+h] = -1
			} else {
				var candA, candB int32 = negInf, negInf
				if h >= 1 && end[prevRow+h-1] != negInf {
					candA = end[prevRow+h-1] + scoreMatch + bonus + bonusConsecutive
				}
				if gapBest != negInf {
					candB = gapBest + scoreMatch + bonus
				}
				switch {
				case candA == negInf && candB == negInf:
					end[row+h] = negInf
				case candA >= candB:
					end[row+h] = candA
					cons[row+h] = cons[prevRow+h-1] + 1
					pred[row+h] = int32(h - 1)
				default:
					end[row+h] = candB
					cons[row+h] = 1
					pred[row+h] = gapBestPos
				}
			}

			if n > 0 {
				next, nextPos := gapBest, gapBestPos
				if next != negInf {
					next--
				}
				if h >= 1 && end[prevRow+h-1] != negInf {
					if candidate := end[prevRow+h-1] + int32(scoreGapStart); candidate >= next {
						next, nextPos = candidate, int32(h-1)
					}
				}
				gapBest, gapBestPos = next, nextPos
			}
		}
	}

	maxScore, maxPos := int32(negInf), -1
	lastRow := (M - 1) * N
	for h := 0; h < N; h++ {
		if sc := end[lastRow+h]; sc != negInf && sc >= maxScore {
			maxScore, maxPos = sc, h
		}
	}
	if maxPos < 0 {
		return Result{}, false
	}

	positions := make([]int, M)
	n, h := M-1, maxPos
	for {
		positions[n] = h
		if n == 0 {
			break
		}
		h = int(pred[n*N+h])
		n--
	}
	return Result{Score: int(maxScore), Positions: positions}, true
}
