package instruction

import "testing"

func TestApplyDeclare(t *testing.T) {
	mem := Memory{}
	summary, sleepMs := Apply(mem, Instruction{Kind: Declare, VarA: "v0", Value: 42}, 0)

	if mem["v0"] != 42 {
		t.Errorf("mem[v0] = %d, want 42", mem["v0"])
	}
	if summary != "DECLARE v0 = 42" {
		t.Errorf("summary = %q", summary)
	}
	if sleepMs != 0 {
		t.Errorf("sleepMs = %d, want 0", sleepMs)
	}
}

func TestApplyPrintMissingVariable(t *testing.T) {
	mem := Memory{}
	summary, _ := Apply(mem, Instruction{Kind: Print, VarA: "ghost"}, 0)

	if summary != "PRINT ghost = 0" {
		t.Errorf("summary = %q, want missing var to read as 0", summary)
	}
}

func TestApplyAddSaturates(t *testing.T) {
	tests := []struct {
		name     string
		a, b     uint16
		wantSum  uint16
		wantDiff uint16
	}{
		{"no overflow", 100, 50, 150, 50},
		{"saturating add", 65530, 10, 65535, 65520},
		{"saturating subtract to zero", 10, 50, 60, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := Memory{"a": tt.a, "b": tt.b}

			summary, _ := Apply(mem, Instruction{Kind: Add, VarA: "a", VarB: "b"}, 2)
			if mem["res2"] != tt.wantSum {
				t.Errorf("res2 = %d, want %d (%s)", mem["res2"], tt.wantSum, summary)
			}

			summary, _ = Apply(mem, Instruction{Kind: Subtract, VarA: "a", VarB: "b"}, 3)
			if mem["res3"] != tt.wantDiff {
				t.Errorf("res3 = %d, want %d (%s)", mem["res3"], tt.wantDiff, summary)
			}
		})
	}
}

func TestApplySleepReturnsDuration(t *testing.T) {
	mem := Memory{}
	summary, sleepMs := Apply(mem, Instruction{Kind: Sleep, Ms: 100}, 0)

	if sleepMs != 100 {
		t.Errorf("sleepMs = %d, want 100", sleepMs)
	}
	if summary != "SLEPT for 100ms" {
		t.Errorf("summary = %q", summary)
	}
}

func TestApplyForLogsEachSubIncrement(t *testing.T) {
	mem := Memory{"v0": 0}
	summary, _ := Apply(mem, Instruction{Kind: For, VarA: "v0", N: 3}, 0)

	if mem["v0"] != 3 {
		t.Errorf("v0 = %d, want 3 after three increments", mem["v0"])
	}
	want := "FOR loop on v0: [1]=1 [2]=2 [3]=3 "
	if summary != want {
		t.Errorf("summary = %q, want %q", summary, want)
	}
}

func TestApplyUnknownInstructionIsNonFatal(t *testing.T) {
	mem := Memory{}
	summary, _ := Apply(mem, Instruction{Kind: Kind(99)}, 0)

	if summary == "" {
		t.Fatalf("expected a log summary for an unknown opcode")
	}
}

func TestSaturatingHelpers(t *testing.T) {
	if got := saturatingAdd(65535, 1); got != 65535 {
		t.Errorf("saturatingAdd overflow = %d, want 65535", got)
	}
	if got := saturatingSub(0, 1); got != 0 {
		t.Errorf("saturatingSub underflow = %d, want 0", got)
	}
}
