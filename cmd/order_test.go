package cmd

import (
	"errors"
	"strings"
	"testing"

	"mod-manifest-resolver/loadorder"
	"mod-manifest-resolver/moddef"
)

func TestOrderLines(t *testing.T) {
	a := moddef.New("A")
	a.DependsOn = moddef.NewNameSet("B")
	b := moddef.New("B")
	b.DependsOn = moddef.NewNameSet("A")
	c := moddef.New("C")
	d := moddef.New("D")
	d.DependsOn = moddef.NewNameSet("A")

	ordered, err := loadorder.Compute([]*moddef.ModDef{a, b, c, d})
	var cycle *loadorder.CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("Compute() error = %v, want *CycleError", err)
	}

	lines := orderLines(ordered, cycle)
	want := []string{
		"  1. C",
		"  2. A (dependency cycle)",
		"  3. B (dependency cycle)",
		"  4. D (blocked by a dependency cycle)",
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Errorf("orderLines() =\n%s\nwant\n%s", strings.Join(lines, "\n"), strings.Join(want, "\n"))
	}

	if got := orderLines(ordered[:1], nil); len(got) != 1 || got[0] != "  1. C" {
		t.Errorf("orderLines() without cycle = %v", got)
	}
}
