package scorer

// SubstrScorer matches needle as a contiguous substring of haystack,
// case-insensitively by default, using a Knuth-Morris-Pratt search: a
// failure table is built over needle once and the haystack is then
// scanned in a single O(len(haystack)) pass. Every occurrence is scored
// with the same base/boundary/consecutive rules as FuzzyScorer (every
// character past the first is consecutive, since the match is
// contiguous); the highest-scoring occurrence wins, ties going to the
// earliest one.
type SubstrScorer struct {
	CaseSensitive bool
}

func NewSubstrScorer() *SubstrScorer { return &SubstrScorer{} }

func (s *SubstrScorer) Name() string { return "substr" }

func (s *SubstrScorer) Score(needle, haystack string) (Result, bool) {
	pat := []rune(needle)
	for i, r := range pat {
		pat[i] = foldRune(r, s.CaseSensitive)
	}
	if len(pat) == 0 {
		return Result{}, true
	}

	hay := NewChars(haystack)
	N := hay.Len()
	chars := make([]rune, N)
	classes := make([]charClass, N)
	for i := 0; i < N; i++ {
		r := foldRune(hay.At(i), s.CaseSensitive)
		chars[i] = r
		classes[i] = classOf(r)
	}

	failure := kmpFailureTable(pat)

	bestScore := negInf
	bestStart := -1
	match := 0
	for i := 0; i < N; i++ {
		for match > 0 && chars[i] != pat[match] {
			match = failure[match-1]
		}
		if chars[i] == pat[match] {
			match++
		}
		if match == len(pat) {
			start := i - match + 1
			if sc := scoreSpan(start, len(pat), classes); sc > bestScore {
				bestScore, bestStart = sc, start
			}
			match = failure[match-1]
		}
	}
	if bestStart < 0 {
		return Result{}, false
	}

	positions := make([]int, len(pat))
	for i := range positions {
		positions[i] = bestStart + i
	}
	return Result{Score: bestScore, Positions: positions}, true
}

// scoreSpan scores the L-character contiguous match starting at start: the
// first character gets the ordinary boundary bonus, every subsequent one
// also gets the consecutive bonus since there is no gap between them.
func scoreSpan(start, length int, classes []charClass) int {
	score := 0
	var prevClass charClass
	if start > 0 {
		prevClass = classes[start-1]
	}
	for i := start; i < start+length; i++ {
		bonus := bonusAt(i, prevClass, classes[i])
		score += scoreMatch + bonus
		if i > start {
			score += bonusConsecutive
		}
		prevClass = classes[i]
	}
	return score
}

func kmpFailureTable(pat []rune) []int {
	f := make([]int, len(pat))
	k := 0
	for i := 1; i < len(pat); i++ {
		for k > 0 && pat[i] != pat[k] {
			k = f[k-1]
		}
		if pat[i] == pat[k] {
			k++
		}
		f[i] = k
	}
	return f
}
