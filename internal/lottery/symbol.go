package lottery

// Symbol is one reel figure. The alphabet has 9 members, 1 through 9.
type Symbol uint8

const (
	SymbolOne Symbol = iota + 1
	SymbolTwo
	SymbolThree
	SymbolFour
	SymbolFive
	SymbolSix
	SymbolSeven
	SymbolEight
	SymbolNine
)

// NumSymbols is the size of the reel alphabet.
const NumSymbols = 9

var symbolNames = [NumSymbols]string{"壱", "弐", "参", "四", "伍", "六", "七", "八", "九"}

// Valid reports whether s belongs to the alphabet.
func (s Symbol) Valid() bool { return s >= SymbolOne && s <= SymbolNine }

func (s Symbol) String() string {
	if !s.Valid() {
		return "?"
	}
	return symbolNames[s-1]
}

func symbolAt(i int) Symbol { return Symbol(i + 1) }

// Symbols is the ordered triple shown on the three reels.
type Symbols [3]Symbol

// Pairs counts how many of the three position pairs {0,1}, {0,2}, {1,2} match.
// 3 means all three equal, 1 means a reach pattern, 0 means all different.
func (s Symbols) Pairs() int {
	n := 0
	if s[0] == s[1] {
		n++
	}
	if s[0] == s[2] {
		n++
	}
	if s[1] == s[2] {
		n++
	}
	return n
}
