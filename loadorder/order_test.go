package loadorder

import (
	"errors"
	"strings"
	"testing"

	"mod-manifest-resolver/moddef"
)

func mod(name string, deps, optional []string) *moddef.ModDef {
	m := moddef.New(name)
	m.DependsOn = moddef.NewNameSet(deps...)
	m.OptionallyDependsOn = moddef.NewNameSet(optional...)
	return m
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		mods     []*moddef.ModDef
		expected string
	}{
		{
			"empty",
			nil,
			"",
		},
		{
			"independent mods sorted by name",
			[]*moddef.ModDef{mod("C", nil, nil), mod("A", nil, nil), mod("B", nil, nil)},
			"A,B,C",
		},
		{
			"hard dependency first",
			[]*moddef.ModDef{mod("A", []string{"Z"}, nil), mod("Z", nil, nil)},
			"Z,A",
		},
		{
			"optional dependency orders too",
			[]*moddef.ModDef{mod("A", nil, []string{"B"}), mod("B", nil, nil)},
			"B,A",
		},
		{
			"missing dependency imposes nothing",
			[]*moddef.ModDef{mod("B", []string{"Nope"}, nil), mod("A", nil, nil)},
			"A,B",
		},
		{
			"chain",
			[]*moddef.ModDef{mod("A", []string{"B"}, nil), mod("B", []string{"C"}, nil), mod("C", nil, nil)},
			"C,B,A",
		},
		{
			"self dependency ignored",
			[]*moddef.ModDef{mod("A", []string{"A"}, nil)},
			"A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ordered, err := Compute(tt.mods)
			if err != nil {
				t.Fatalf("Compute() unexpected error: %v", err)
			}
			if got := strings.Join(Names(ordered), ","); got != tt.expected {
				t.Errorf("Compute() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestComputeKeepsDuplicatesInInputOrder(t *testing.T) {
	first := mod("A", nil, nil)
	first.Directory = "first"
	second := mod("A", nil, nil)
	second.Directory = "second"

	ordered, err := Compute([]*moddef.ModDef{mod("B", []string{"A"}, nil), first, second})
	if err != nil {
		t.Fatalf("Compute() unexpected error: %v", err)
	}
	if len(ordered) != 3 {
		t.Fatalf("len = %d, want 3", len(ordered))
	}
	if ordered[0] != first || ordered[1] != second || ordered[2].Name != "B" {
		t.Errorf("Compute() = %v", Names(ordered))
	}
}

func TestComputeCycle(t *testing.T) {
	mods := []*moddef.ModDef{
		mod("A", []string{"B"}, nil),
		mod("B", []string{"A"}, nil),
		mod("C", nil, nil),
		mod("D", []string{"A"}, nil),
	}

	ordered, err := Compute(mods)
	var cycle *CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("Compute() error = %v, want *CycleError", err)
	}
	if got := strings.Join(cycle.Names, ","); got != "A,B" {
		t.Errorf("cycle names = %s, want A,B", got)
	}
	if got := strings.Join(cycle.Blocked, ","); got != "D" {
		t.Errorf("blocked = %s, want D", got)
	}
	if got := cycle.Error(); got != "dependency cycle between: A, B" {
		t.Errorf("Error() = %q", got)
	}
	if got := strings.Join(Names(ordered), ","); got != "C,A,B,D" {
		t.Errorf("Compute() = %s, want C,A,B,D", got)
	}
}

func TestComputeCycleSeparatesDependents(t *testing.T) {
	mods := []*moddef.ModDef{
		mod("A", []string{"B"}, nil),
		mod("B", []string{"C"}, nil),
		mod("C", []string{"A"}, nil),
		mod("D", []string{"C"}, nil),
		mod("E", []string{"D"}, nil),
		mod("F", nil, nil),
	}

	ordered, err := Compute(mods)
	var cycle *CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("Compute() error = %v, want *CycleError", err)
	}
	if got := strings.Join(cycle.Names, ","); got != "A,B,C" {
		t.Errorf("cycle names = %s, want A,B,C", got)
	}
	if got := strings.Join(cycle.Blocked, ","); got != "D,E" {
		t.Errorf("blocked = %s, want D,E", got)
	}
	if got := strings.Join(Names(ordered), ","); got != "F,A,B,C,D,E" {
		t.Errorf("Compute() = %s, want F,A,B,C,D,E", got)
	}
}
