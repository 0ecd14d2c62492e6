package instruction

import (
	"math/rand"
	"strconv"
)

// sleepMs is the fixed argument the generator uses for every Sleep
// instruction (spec.md §4.1).
const sleepMs = 100

// forCount is the fixed loop count the generator uses for every For
// instruction (spec.md §4.1).
const forCount = 3

// GenerateProgram produces a deterministic-given-rng sequence of length
// instructions drawn uniformly from the legal subset at each step, per
// spec.md §4.1:
//   - the first instruction is always Declare (no variables exist yet)
//   - Add/Subtract require at least two declared variables
//   - Print/For require at least one declared variable
//   - variables are named v0, v1, … in declaration order
func GenerateProgram(length int, rng *rand.Rand) []Instruction {
	program := make([]Instruction, 0, length)
	var vars []string

	for i := 0; i < length; i++ {
		kind := nextKind(i, vars, rng)
		switch kind {
		case Declare:
			name := freshVarName(len(vars))
			val := uint16(rng.Intn(1 << 16))
			program = append(program, Instruction{Kind: Declare, VarA: name, Value: val})
			vars = append(vars, name)
		case Print:
			program = append(program, Instruction{Kind: Print, VarA: pick(vars, rng)})
		case Add:
			program = append(program, Instruction{Kind: Add, VarA: pick(vars, rng), VarB: pick(vars, rng)})
		case Subtract:
			program = append(program, Instruction{Kind: Subtract, VarA: pick(vars, rng), VarB: pick(vars, rng)})
		case Sleep:
			program = append(program, Instruction{Kind: Sleep, Ms: sleepMs})
		case For:
			program = append(program, Instruction{Kind: For, VarA: pick(vars, rng), N: forCount})
		}
	}

	return program
}

func nextKind(step int, vars []string, rng *rand.Rand) Kind {
	if step == 0 {
		return Declare
	}

	candidates := make([]Kind, 0, 6)
	candidates = append(candidates, Declare, Sleep)
	if len(vars) >= 1 {
		candidates = append(candidates, Print, For)
	}
	if len(vars) >= 2 {
		candidates = append(candidates, Add, Subtract)
	}

	return candidates[rng.Intn(len(candidates))]
}

func freshVarName(index int) string {
	return "v" + strconv.Itoa(index)
}

func pick(vars []string, rng *rand.Rand) string {
	return vars[rng.Intn(len(vars))]
}
