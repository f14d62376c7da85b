package resolve

import (
	"path/filepath"

	"cutsweep/internal/catalog"
	"cutsweep/internal/variant"
)

// Outcome classifies a resolution decision.
type Outcome int

const (
	Keep Outcome = iota
	RemovePrimary
	RemoveConflictingVariant
)

func (o Outcome) String() string {
	switch o {
	case Keep:
		return "keep"
	case RemovePrimary:
		return "remove_primary"
	case RemoveConflictingVariant:
		return "remove_conflicting_variant"
	default:
		return "unknown"
	}
}

// TargetKind labels a path inside a plan.
type TargetKind string

const (
	KindPrimary TargetKind = "primary"
	KindSidecar TargetKind = "sidecar"
)

// Target is one path a plan disposes of.
type Target struct {
	Name string
	Path string
	Kind TargetKind
}

// Plan is the removal set for one video file: the file first, then its
// sidecars.
type Plan struct {
	Primary catalog.Entry
	Targets []Target
}

// Paths returns the plan's target paths in order.
func (p Plan) Paths() []string {
	out := make([]string, 0, len(p.Targets))
	for _, t := range p.Targets {
		out = append(out, t.Path)
	}
	return out
}

// Decision is the resolver's verdict for one catalog entry.
type Decision struct {
	Entry   catalog.Entry
	Outcome Outcome
	Keys    variant.Keys
	// Alternates lists the suffixed keys found in the catalog.
	Alternates []string
	Plans      []Plan
}

// Redundant reports whether the decision removes anything.
func (d Decision) Redundant() bool {
	return d.Outcome != Keep
}

// Resolver evaluates entries against a catalog snapshot.
type Resolver struct {
	catalog  *catalog.Catalog
	expander variant.Expander
}

// New returns a Resolver over c. The resolver never writes to c.
func New(c *catalog.Catalog, expander variant.Expander) *Resolver {
	return &Resolver{catalog: c, expander: expander}
}

// Resolve decides the fate of entry.
func (r *Resolver) Resolve(entry catalog.Entry) Decision {
	keys := variant.Derive(entry.Name)
	decision := Decision{Entry: entry, Keys: keys}

	cPath, hasC := r.catalog.Lookup(keys.C)
	hasUC := r.catalog.Has(keys.UC)
	if hasC {
		decision.Alternates = append(decision.Alternates, keys.C)
	}
	if hasUC {
		decision.Alternates = append(decision.Alternates, keys.UC)
	}

	switch {
	case hasC && hasUC:
		decision.Outcome = RemoveConflictingVariant
		decision.Plans = []Plan{
			r.PlanFor(entry),
			r.PlanFor(catalog.Entry{Name: keys.C, Path: cPath}),
		}
	case hasC || hasUC:
		decision.Outcome = RemovePrimary
		decision.Plans = []Plan{r.PlanFor(entry)}
	default:
		decision.Outcome = Keep
	}
	return decision
}

// ResolveAll resolves every catalog entry in name order.
func (r *Resolver) ResolveAll() []Decision {
	entries := r.catalog.Entries()
	out := make([]Decision, 0, len(entries))
	for _, entry := range entries {
		out = append(out, r.Resolve(entry))
	}
	return out
}

// PlanFor builds the removal plan for one file: the file itself plus the
// sidecars of its stem in its directory. The stem is taken from the on-disk
// base name, not the catalog key, so sidecars match the file's exact spelling.
func (r *Resolver) PlanFor(entry catalog.Entry) Plan {
	base := filepath.Base(entry.Path)
	stem, _ := variant.SplitName(base)
	dir := filepath.Dir(entry.Path)

	plan := Plan{Primary: entry}
	plan.Targets = append(plan.Targets, Target{Name: base, Path: entry.Path, Kind: KindPrimary})

	seen := map[string]struct{}{entry.Path: {}}
	for _, path := range r.expander.Sidecars(stem, dir) {
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		plan.Targets = append(plan.Targets, Target{Name: filepath.Base(path), Path: path, Kind: KindSidecar})
	}
	return plan
}
