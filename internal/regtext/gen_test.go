package regtext

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/joshuapare/regkit/pkg/types"
)

// Profile describes the shape of a generated key tree.
type Profile struct {
	Keys            int     // total keys, root included
	MaxDepth        int     // levels below the root
	MinValuesPerKey int     // inclusive
	MaxValuesPerKey int     // inclusive
	MaxDataSize     int     // upper bound for binary, string and list sizes
	EscapeFrequency float64 // 0.0-1.0: how often names and strings carry \ or "
	Seed            uint64
}

func (p Profile) withDefaults() Profile {
	if p.Keys == 0 {
		p.Keys = 20
	}
	if p.MaxDepth == 0 {
		p.MaxDepth = 3
	}
	if p.MaxValuesPerKey == 0 {
		p.MaxValuesPerKey = 8
	}
	if p.MaxDataSize == 0 {
		p.MaxDataSize = 64
	}
	return p
}

// generateTree builds a random tree of every representable kind. The same
// profile always yields the same tree.
func generateTree(p Profile) *types.KeySection {
	p = p.withDefaults()
	rng := rand.New(rand.NewPCG(p.Seed, p.Seed^0x5eed))

	root := &types.KeySection{Path: types.KeyPath{Hive: types.HiveCurrentUser, Subpath: `Software\Generated`}}
	root.Values = generateValues(p, rng)

	type level struct {
		key   *types.KeySection
		depth int
	}
	open := []level{{root, 0}}
	for n := 1; n < p.Keys; n++ {
		parent := open[rng.IntN(len(open))]
		child := &types.KeySection{
			Path:   parent.key.Path.Child(fmt.Sprintf("Key%03d", n)),
			Values: generateValues(p, rng),
		}
		parent.key.Children = append(parent.key.Children, child)
		if parent.depth+1 < p.MaxDepth {
			open = append(open, level{child, parent.depth + 1})
		}
	}
	return root
}

func generateValues(p Profile, rng *rand.Rand) []types.ValueEntry {
	count := p.MinValuesPerKey
	if p.MaxValuesPerKey > p.MinValuesPerKey {
		count += rng.IntN(p.MaxValuesPerKey - p.MinValuesPerKey + 1)
	}

	values := make([]types.ValueEntry, 0, count)
	for i := range count {
		name := generateName(i, p, rng)
		if i == 0 && rng.IntN(4) == 0 {
			name = ""
		}
		values = append(values, generateValue(name, p, rng))
	}
	return values
}

// generateName never repeats within a key, so no entry is collapsed on parse.
func generateName(index int, p Profile, rng *rand.Rand) string {
	name := fmt.Sprintf("Value%d", index)
	if rng.Float64() < p.EscapeFrequency {
		name += []string{`\path`, `"quoted"`, ` spaced `, `,comma`}[rng.IntN(4)]
	}
	return name
}

func generateValue(name string, p Profile, rng *rand.Rand) types.ValueEntry {
	switch rng.IntN(7) {
	case 0:
		return types.NewString(name, generateText(p, rng, true))
	case 1:
		return types.NewExpandString(name, "%SystemRoot%\\"+generateText(p, rng, false))
	case 2:
		items := make([]string, 1+rng.IntN(4))
		for i := range items {
			items[i] = generateText(p, rng, false) + "x"
		}
		return types.NewMultiString(name, items...)
	case 3:
		return types.NewDWord(name, rng.Uint32())
	case 4:
		return types.NewQWord(name, rng.Uint64())
	case 5:
		return types.NewNone(name, generateBytes(p, rng))
	default:
		return types.NewBinary(name, generateBytes(p, rng))
	}
}

// generateText returns printable Latin-1 text. Escapes are only mixed in
// when allowed, since hex(2)/hex(7) carry them as plain bytes anyway.
func generateText(p Profile, rng *rand.Rand, escapes bool) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 .-_éü"
	runes := []rune(alphabet)

	var b strings.Builder
	n := rng.IntN(p.MaxDataSize + 1)
	for range n {
		if escapes && rng.Float64() < p.EscapeFrequency {
			b.WriteString([]string{`\`, `"`}[rng.IntN(2)])
			continue
		}
		b.WriteRune(runes[rng.IntN(len(runes))])
	}
	return b.String()
}

func generateBytes(p Profile, rng *rand.Rand) []byte {
	data := make([]byte, rng.IntN(p.MaxDataSize+1))
	for i := range data {
		data[i] = byte(rng.UintN(256))
	}
	return data
}
