package suite

import (
	"fmt"
	"strings"

	"benchforge/internal/inputs"
	"benchforge/internal/measure"
)

const charseqSeed = 3

type charseqState struct {
	letters  []byte
	text     string
	head     string
	indexSum int
}

func init() {
	Register(&Suite{
		Name:  "charseq",
		Setup: charseqSetup,
		Benchmarks: []Benchmark{
			{Name: "build", Fn: charseqBuild},
			{Name: "index", Fn: charseqIndex},
			{Name: "prefix", Fn: charseqPrefix},
		},
	})
}

func charseqSetup(env *Env) error {
	values, err := inputs.NonNegativeInts(env.Size, charseqSeed)
	if err != nil {
		return err
	}

	letters := make([]byte, len(values))
	for i, v := range values {
		letters[i] = 'a' + byte(v%26)
	}
	text := string(letters)

	indexSum := 0
	for c := byte('a'); c <= 'z'; c++ {
		indexSum += strings.IndexByte(text, c)
	}

	env.State = &charseqState{
		letters:  letters,
		text:     text,
		head:     text[:len(text)/2],
		indexSum: indexSum,
	}
	return nil
}

// charseqBuild assembles the sequence one letter at a time.
func charseqBuild(env *Env) error {
	st := env.State.(*charseqState)

	s := Construct(env, len(st.letters), func() string {
		var sb strings.Builder
		sb.Grow(len(st.letters))
		for _, c := range st.letters {
			sb.WriteByte(c)
		}
		return sb.String()
	})
	measure.Consume(len(s))

	if env.Checks && s != st.text {
		return fmt.Errorf("built sequence differs from input (len %d vs %d)", len(s), len(st.text))
	}
	return nil
}

// charseqIndex scans for the first occurrence of every letter.
func charseqIndex(env *Env) error {
	st := env.State.(*charseqState)

	total := 0
	for c := byte('a'); c <= 'z'; c++ {
		total += strings.IndexByte(st.text, c)
	}
	measure.Consume(total)

	if env.Checks && total != st.indexSum {
		return fmt.Errorf("index sum %d, want %d", total, st.indexSum)
	}
	return nil
}

// charseqPrefix compares the sequence against its own first half.
func charseqPrefix(env *Env) error {
	st := env.State.(*charseqState)

	matched := 0
	if strings.HasPrefix(st.text, st.head) {
		matched = 1
	}
	measure.Consume(matched)

	if env.Checks && matched != 1 {
		return fmt.Errorf("sequence does not start with its own head")
	}
	return nil
}
