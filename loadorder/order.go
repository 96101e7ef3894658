package loadorder

import (
	"mod-manifest-resolver/moddef"
)

// Compute returns mods in an order where every mod comes after the mods it
// depends on, hard or optional. Dependencies on names that are not in mods
// impose no ordering. Mods sharing a name keep their relative input order,
// so the first one wins the duplicate check later on.
//
// When mods depend on each other in a cycle, Compute still returns every
// mod (the cyclic ones last, by name) along with a *CycleError. Those mods
// will then fail their dependency check in the pass.
func Compute(mods []*moddef.ModDef) ([]*moddef.ModDef, error) {
	byName := make(map[string][]*moddef.ModDef, len(mods))
	g := newGraph()
	for _, m := range mods {
		byName[m.Name] = append(byName[m.Name], m)
		g.addNode(m.Name)
	}

	for _, m := range mods {
		for _, dep := range dependencies(m) {
			if dep == m.Name {
				continue
			}
			if _, known := byName[dep]; known {
				g.addEdge(dep, m.Name)
			}
		}
	}

	names, err := g.sort()
	ordered := make([]*moddef.ModDef, 0, len(mods))
	for _, name := range names {
		ordered = append(ordered, byName[name]...)
	}
	return ordered, err
}

// Names returns the names of mods in order.
func Names(mods []*moddef.ModDef) []string {
	out := make([]string, len(mods))
	for i, m := range mods {
		out[i] = m.Name
	}
	return out
}

func dependencies(m *moddef.ModDef) []string {
	all := moddef.NewNameSet(m.DependsOn.Sorted()...)
	for dep := range m.OptionallyDependsOn {
		all.Add(dep)
	}
	return all.Sorted()
}
