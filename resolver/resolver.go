// Package resolver runs a load pass over a set of parsed mod manifests.
//
// A pass is strictly sequential: each mod is checked against the mods
// accepted before it, so the input order decides the outcome of
// dependency, conflict and duplicate checks.
package resolver

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"mod-manifest-resolver/loadorder"
	"mod-manifest-resolver/moddef"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Expander turns one declared entry into the concrete entries it stands for.
// A directory entry, for example, expands to one entry per file.
type Expander func(mod *moddef.ModDef, entry moddef.ModEntry) ([]moddef.ModEntry, error)

// Source is one discovered manifest: the parsed mod, or the error that
// prevented parsing it.
type Source struct {
	Path string
	Mod  *moddef.ModDef
	Err  error
}

// Resolver decides which mods load for a given host.
type Resolver struct {
	host   moddef.Host
	log    *zap.SugaredLogger
	expand Expander
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithExpander sets how declared entries are expanded. The default keeps
// every entry as declared.
func WithExpander(e Expander) Option {
	return func(r *Resolver) { r.expand = e }
}

// New creates a Resolver for host. log may be nil.
func New(host moddef.Host, log *zap.SugaredLogger, opts ...Option) *Resolver {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	r := &Resolver{
		host:   host,
		log:    log,
		expand: keepEntry,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func keepEntry(_ *moddef.ModDef, entry moddef.ModEntry) ([]moddef.ModEntry, error) {
	return []moddef.ModEntry{entry}, nil
}

// ResolveSources records every source that failed to parse, orders the rest
// with loadorder.Compute and runs a pass over them.
func (r *Resolver) ResolveSources(sources []Source) *Plan {
	var failed []Outcome
	var mods []*moddef.ModDef
	for _, s := range sources {
		if s.Err != nil || s.Mod == nil {
			failed = append(failed, Outcome{
				Directory: filepath.Dir(s.Path),
				Status:    StatusFailed,
				Reason:    errText(s.Err),
				Err:       s.Err,
			})
			continue
		}
		mods = append(mods, s.Mod)
	}

	ordered, err := loadorder.Compute(mods)
	var cycle *loadorder.CycleError
	if errors.As(err, &cycle) {
		r.log.Warnw("Mods depend on each other and cannot all be ordered",
			zap.Strings("mods", cycle.Names), zap.Strings("blocked", cycle.Blocked))
	}

	plan := r.Resolve(ordered)
	for _, o := range failed {
		r.log.Errorw("Failed to read mod manifest", zap.String("directory", o.Directory), zap.Error(o.Err), zap.String("pass_id", plan.PassID))
	}
	plan.Outcomes = append(failed, plan.Outcomes...)
	return plan
}

// Resolve runs one pass over mods in the given order.
//
// Each mod goes through two steps. ShouldTryLoad covers the checks that do
// not depend on order (enabled, duplicate name, host version). Only then are
// dependencies and conflicts checked against the mods accepted so far.
// Failing either step rejects the mod; it never aborts the pass.
func (r *Resolver) Resolve(mods []*moddef.ModDef) *Plan {
	plan := &Plan{
		PassID:   uuid.NewString(),
		Host:     r.host,
		Accepted: []string{},
		Records:  []moddef.ContentRecord{},
		Removals: []string{},
		Extracts: []Extract{},
	}
	log := r.log.With(zap.String("pass_id", plan.PassID), zap.String("host_version", r.host.Version))
	log.Infow("Starting load pass", zap.Int("mods", len(mods)))

	var acceptedMods []*moddef.ModDef
	for _, m := range mods {
		modLog := log.With(zap.String("mod", m.Name))
		outcome := Outcome{Name: m.Name, Directory: m.Directory}

		ok, reason, err := m.ShouldTryLoad(plan.Accepted, r.host)
		if err != nil {
			outcome.Status = StatusFailed
			outcome.Reason = err.Error()
			outcome.Err = err
			modLog.Errorw("Mod has an invalid version constraint", zap.Error(err))
			plan.Outcomes = append(plan.Outcomes, outcome)
			continue
		}
		if ok {
			reason = checkRelations(m, plan.Accepted, acceptedMods)
			ok = reason == ""
		}
		if !ok {
			outcome.Status = StatusRejected
			outcome.Reason = reason
			outcome.Quiet = m.IgnoreLoadFailure
			if outcome.Quiet {
				modLog.Infow("Not loading mod", zap.String("reason", reason))
			} else {
				modLog.Warnw("Not loading mod", zap.String("reason", reason))
			}
			plan.Outcomes = append(plan.Outcomes, outcome)
			continue
		}

		outcome.Status = StatusAccepted
		plan.Accepted = append(plan.Accepted, m.Name)
		acceptedMods = append(acceptedMods, m)
		outcome.Warnings = r.collect(plan, m, modLog)
		plan.Outcomes = append(plan.Outcomes, outcome)
		modLog.Infow("Accepted mod", zap.String("version", m.Version), zap.Int("entries", len(m.Manifest)))
	}

	plan.mods = acceptedMods
	a, rj, f := plan.Counts()
	log.Infow("Finished load pass", zap.Int("accepted", a), zap.Int("rejected", rj), zap.Int("failed", f),
		zap.Int("records", len(plan.Records)), zap.Int("removals", len(plan.Removals)))
	return plan
}

// checkRelations evaluates the order-dependent checks against the mods
// accepted so far and returns a rejection reason, or "" to accept.
func checkRelations(m *moddef.ModDef, acceptedNames []string, acceptedMods []*moddef.ModDef) string {
	if !m.DependenciesResolved(acceptedNames) {
		return fmt.Sprintf("it is missing dependencies: %s", strings.Join(m.MissingDependencies(acceptedNames), ", "))
	}
	if hits := m.Conflicts(acceptedNames); len(hits) > 0 {
		return fmt.Sprintf("it conflicts with loaded mods: %s", strings.Join(hits, ", "))
	}
	var against []string
	for _, other := range acceptedMods {
		if other.ConflictsWith.Has(m.Name) {
			against = append(against, other.Name)
		}
	}
	if len(against) > 0 {
		return fmt.Sprintf("loaded mods declare a conflict with it: %s", strings.Join(against, ", "))
	}
	return ""
}

// collect adds an accepted mod's content to the plan and returns any
// warnings raised while expanding its entries.
func (r *Resolver) collect(plan *Plan, m *moddef.ModDef, log *zap.SugaredLogger) []string {
	var warnings []string
	for _, declared := range m.Manifest {
		entries, err := r.expand(m, declared)
		if err != nil {
			msg := fmt.Sprintf("skipping manifest entry %s: %v", declared.Path, err)
			log.Warnw("Failed to expand manifest entry", zap.String("path", declared.Path), zap.Error(err))
			warnings = append(warnings, msg)
			continue
		}
		for i := range entries {
			e := &entries[i]
			if !e.AddToDB {
				continue
			}
			if e.ID == "" {
				msg := fmt.Sprintf("skipping manifest entry %s: no id", e.Path)
				log.Warnw("Manifest entry has no id", zap.String("path", e.Path))
				warnings = append(warnings, msg)
				continue
			}
			plan.Records = append(plan.Records, e.ContentRecord())
		}
	}

	plan.Removals = append(plan.Removals, m.RemoveManifestEntries...)
	for _, x := range m.Extracts {
		plan.Extracts = append(plan.Extracts, Extract{Mod: m.Name, Directory: m.Directory, Path: x.Path, Target: x.Target})
	}
	return warnings
}

func errText(err error) string {
	if err == nil {
		return "no manifest"
	}
	return err.Error()
}
