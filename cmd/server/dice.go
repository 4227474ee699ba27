package main

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

const (
	maxDiceTerms   = 20
	maxDicePerTerm = 100
	maxDieSides    = 1000
)

// RollResult is a resolved dice expression; Output is the human-readable
// breakdown shown in the roll log (e.g. "2d8 [3, 7] + 5").
type RollResult struct {
	Input  string
	Output string
	Total  int
}

// DiceRoller resolves tabletop dice notation: chains of NdM dice terms and
// integer modifiers joined by + or - ("2d8+5", "d20", "3d6+1d4-1"). The rng
// is injected so tests can pin rolls.
type DiceRoller struct {
	rng *rand.Rand
}

func NewDiceRoller(seed int64) *DiceRoller {
	return &DiceRoller{rng: rand.New(rand.NewSource(seed))}
}

func (r *DiceRoller) Roll(expression string) (RollResult, error) {
	input := strings.ReplaceAll(expression, " ", "")
	if input == "" {
		return RollResult{}, errInvalidInput("empty dice expression")
	}

	terms, err := splitTerms(input)
	if err != nil {
		return RollResult{}, err
	}
	if len(terms) > maxDiceTerms {
		return RollResult{}, errInvalidInput("dice expression has too many terms")
	}

	total := 0
	var out strings.Builder
	for i, term := range terms {
		if i > 0 || term.negative {
			if term.negative {
				out.WriteString(" - ")
			} else {
				out.WriteString(" + ")
			}
		}
		value, text, err := r.rollTerm(term.body)
		if err != nil {
			return RollResult{}, err
		}
		out.WriteString(text)
		if term.negative {
			total -= value
		} else {
			total += value
		}
	}

	return RollResult{Input: input, Output: out.String(), Total: total}, nil
}

type diceTerm struct {
	body     string
	negative bool
}

func splitTerms(input string) ([]diceTerm, error) {
	var terms []diceTerm
	start := 0
	negative := false
	if input[0] == '+' || input[0] == '-' {
		negative = input[0] == '-'
		start = 1
	}
	for i := start; i <= len(input); i++ {
		if i < len(input) && input[i] != '+' && input[i] != '-' {
			continue
		}
		if i == start {
			return nil, errInvalidInput("malformed dice expression %q", input)
		}
		terms = append(terms, diceTerm{body: input[start:i], negative: negative})
		if i < len(input) {
			negative = input[i] == '-'
			start = i + 1
		}
	}
	if len(terms) == 0 {
		return nil, errInvalidInput("malformed dice expression %q", input)
	}
	return terms, nil
}

// rollTerm resolves one term: "NdM" (N defaults to 1) or a bare integer.
func (r *DiceRoller) rollTerm(body string) (int, string, error) {
	dIdx := strings.IndexAny(body, "dD")
	if dIdx < 0 {
		v, err := strconv.Atoi(body)
		if err != nil || v < 0 {
			return 0, "", errInvalidInput("malformed dice term %q", body)
		}
		return v, body, nil
	}

	count := 1
	if dIdx > 0 {
		var err error
		count, err = strconv.Atoi(body[:dIdx])
		if err != nil || count < 1 {
			return 0, "", errInvalidInput("malformed dice count in %q", body)
		}
	}
	sides, err := strconv.Atoi(body[dIdx+1:])
	if err != nil || sides < 1 {
		return 0, "", errInvalidInput("malformed die size in %q", body)
	}
	if count > maxDicePerTerm || sides > maxDieSides {
		return 0, "", errInvalidInput("dice term %q exceeds limits", body)
	}

	sum := 0
	rolls := make([]string, count)
	for i := 0; i < count; i++ {
		roll := r.rng.Intn(sides) + 1
		sum += roll
		rolls[i] = strconv.Itoa(roll)
	}
	text := fmt.Sprintf("%dd%d [%s]", count, sides, strings.Join(rolls, ", "))
	return sum, text, nil
}
