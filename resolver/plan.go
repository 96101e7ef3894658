package resolver

import (
	"context"
	"fmt"

	"mod-manifest-resolver/moddef"
)

// Status is the result of considering one mod in a pass.
type Status string

const (
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusFailed   Status = "failed"
)

// Outcome records what happened to one manifest during a pass.
type Outcome struct {
	Name      string `json:"name" yaml:"name"`
	Directory string `json:"directory" yaml:"directory"`
	Status    Status `json:"status" yaml:"status"`
	// Reason is set for rejections and failures.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
	// Quiet marks a rejection the mod asked to be expected (IgnoreLoadFailure).
	Quiet bool `json:"quiet,omitempty" yaml:"quiet,omitempty"`
	// Warnings collects non-fatal problems with an accepted mod's content.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Err      error    `json:"-" yaml:"-"`
}

// Extract is a ModExtract tagged with the mod that requested it.
type Extract struct {
	Mod       string `json:"mod" yaml:"mod"`
	Directory string `json:"directory" yaml:"directory"`
	Path      string `json:"path" yaml:"path"`
	Target    string `json:"target" yaml:"target"`
}

// Plan is the result of one load pass: which mods were accepted, why the
// others were not, and what the host should do with its content registry.
type Plan struct {
	PassID   string                 `json:"pass_id" yaml:"pass_id"`
	Host     moddef.Host            `json:"-" yaml:"-"`
	Accepted []string               `json:"accepted" yaml:"accepted"`
	Outcomes []Outcome              `json:"outcomes" yaml:"outcomes"`
	Records  []moddef.ContentRecord `json:"records" yaml:"records"`
	Removals []string               `json:"removals" yaml:"removals"`
	Extracts []Extract              `json:"extracts" yaml:"extracts"`

	mods []*moddef.ModDef
}

// AcceptedMods returns the accepted mods in load order.
func (p *Plan) AcceptedMods() []*moddef.ModDef {
	return p.mods
}

// Counts returns how many outcomes ended in each status.
func (p *Plan) Counts() (accepted, rejected, failed int) {
	for _, o := range p.Outcomes {
		switch o.Status {
		case StatusAccepted:
			accepted++
		case StatusRejected:
			rejected++
		case StatusFailed:
			failed++
		}
	}
	return accepted, rejected, failed
}

// Outcome returns the first outcome recorded for name.
func (p *Plan) Outcome(name string) (Outcome, bool) {
	for _, o := range p.Outcomes {
		if o.Name == name {
			return o, true
		}
	}
	return Outcome{}, false
}

// Registry is the host content registry a plan is applied to.
type Registry interface {
	Remove(ctx context.Context, ids []string) error
	Add(ctx context.Context, records []moddef.ContentRecord) error
}

// Apply removes the plan's removal ids from reg and then adds its records,
// so a mod may replace an entry another mod removed.
func (p *Plan) Apply(ctx context.Context, reg Registry) error {
	if len(p.Removals) > 0 {
		if err := reg.Remove(ctx, p.Removals); err != nil {
			return fmt.Errorf("remove manifest entries: %w", err)
		}
	}
	if len(p.Records) > 0 {
		if err := reg.Add(ctx, p.Records); err != nil {
			return fmt.Errorf("add content records: %w", err)
		}
	}
	return nil
}
