package resolve

import (
	"path/filepath"
	"reflect"
	"testing"

	"cutsweep/internal/catalog"
	"cutsweep/internal/variant"
)

func newResolver(m map[string]string) *Resolver {
	return New(catalog.FromMap(m), variant.NewExpander(nil))
}

func TestResolveKeepWithoutAlternates(t *testing.T) {
	r := newResolver(map[string]string{"movie.mkv": "/lib/movie.mkv"})
	d := r.Resolve(catalog.Entry{Name: "movie.mkv", Path: "/lib/movie.mkv"})
	if d.Outcome != Keep {
		t.Fatalf("unexpected outcome: %v", d.Outcome)
	}
	if d.Redundant() || len(d.Plans) != 0 {
		t.Fatalf("keep decision must not carry plans: %+v", d)
	}
}

func TestResolveRemovePrimaryWithUC(t *testing.T) {
	r := newResolver(map[string]string{
		"movie.mkv":    "/lib/movie.mkv",
		"movie-UC.mkv": "/lib/movie-UC.mkv",
	})
	d := r.Resolve(catalog.Entry{Name: "movie.mkv", Path: "/lib/movie.mkv"})
	if d.Outcome != RemovePrimary {
		t.Fatalf("unexpected outcome: %v", d.Outcome)
	}
	if len(d.Plans) != 1 {
		t.Fatalf("expected one plan, got %d", len(d.Plans))
	}
	want := append([]string{"/lib/movie.mkv"}, variant.Sidecars("movie", "/lib")...)
	if got := d.Plans[0].Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected plan:\n got %v\nwant %v", got, want)
	}
	if d.Plans[0].Targets[0].Kind != KindPrimary || d.Plans[0].Targets[1].Kind != KindSidecar {
		t.Fatalf("unexpected target kinds: %+v", d.Plans[0].Targets)
	}
	if !reflect.DeepEqual(d.Alternates, []string{"movie-UC.mkv"}) {
		t.Fatalf("unexpected alternates: %v", d.Alternates)
	}
}

func TestResolveRemovePrimaryWithC(t *testing.T) {
	r := newResolver(map[string]string{
		"movie.mkv":   "/lib/movie.mkv",
		"movie-C.mkv": "/other/movie-C.mkv",
	})
	d := r.Resolve(catalog.Entry{Name: "movie.mkv", Path: "/lib/movie.mkv"})
	if d.Outcome != RemovePrimary {
		t.Fatalf("unexpected outcome: %v", d.Outcome)
	}
	for _, p := range d.Plans[0].Paths() {
		if p == "/other/movie-C.mkv" {
			t.Fatal("the authoritative -C variant must not be removed")
		}
	}
}

func TestResolveBothAlternatesRemovesC(t *testing.T) {
	r := newResolver(map[string]string{
		"movie.mkv":    "/lib/movie.mkv",
		"movie-C.mkv":  "/lib/c/movie-C.mkv",
		"movie-UC.mkv": "/lib/movie-UC.mkv",
	})
	d := r.Resolve(catalog.Entry{Name: "movie.mkv", Path: "/lib/movie.mkv"})
	if d.Outcome != RemoveConflictingVariant {
		t.Fatalf("unexpected outcome: %v", d.Outcome)
	}
	if len(d.Plans) != 2 {
		t.Fatalf("expected two plans, got %d", len(d.Plans))
	}

	primary := append([]string{"/lib/movie.mkv"}, variant.Sidecars("movie", "/lib")...)
	if got := d.Plans[0].Paths(); !reflect.DeepEqual(got, primary) {
		t.Fatalf("unexpected primary plan:\n got %v\nwant %v", got, primary)
	}
	conflict := append([]string{"/lib/c/movie-C.mkv"}, variant.Sidecars("movie-C", "/lib/c")...)
	if got := d.Plans[1].Paths(); !reflect.DeepEqual(got, conflict) {
		t.Fatalf("unexpected -C plan:\n got %v\nwant %v", got, conflict)
	}
	for _, plan := range d.Plans {
		for _, p := range plan.Paths() {
			if filepath.Base(p) == "movie-UC.mkv" {
				t.Fatal("-UC variant must be retained")
			}
		}
	}
}

func TestResolveSuffixedEntriesAreKept(t *testing.T) {
	r := newResolver(map[string]string{
		"movie.mkv":    "/lib/movie.mkv",
		"movie-C.mkv":  "/lib/movie-C.mkv",
		"movie-UC.mkv": "/lib/movie-UC.mkv",
	})
	for _, name := range []string{"movie-C.mkv", "movie-UC.mkv"} {
		path, _ := r.catalog.Lookup(name)
		if d := r.Resolve(catalog.Entry{Name: name, Path: path}); d.Outcome != Keep {
			t.Fatalf("%s: unexpected outcome %v", name, d.Outcome)
		}
	}
}

func TestResolveNameWithoutExtension(t *testing.T) {
	r := newResolver(map[string]string{
		"movie":    "/lib/movie",
		"movie-UC": "/lib/movie-UC",
	})
	d := r.Resolve(catalog.Entry{Name: "movie", Path: "/lib/movie"})
	if d.Outcome != RemovePrimary {
		t.Fatalf("unexpected outcome: %v", d.Outcome)
	}
	if d.Keys.UC != "movie-UC" {
		t.Fatalf("unexpected key: %q", d.Keys.UC)
	}
}

func TestResolveAllIsOrderIndependent(t *testing.T) {
	m := map[string]string{
		"a.mkv":    "/lib/a.mkv",
		"a-UC.mkv": "/lib/a-UC.mkv",
		"b.mkv":    "/lib/b.mkv",
		"c.mkv":    "/lib/c.mkv",
		"c-C.mkv":  "/lib/c-C.mkv",
		"c-UC.mkv": "/lib/c-UC.mkv",
	}
	r := newResolver(m)
	first := r.ResolveAll()
	second := r.ResolveAll()
	if !reflect.DeepEqual(first, second) {
		t.Fatal("resolution must be deterministic")
	}

	outcomes := map[string]Outcome{}
	for _, d := range first {
		outcomes[d.Entry.Name] = d.Outcome
	}
	want := map[string]Outcome{
		"a.mkv": RemovePrimary, "a-UC.mkv": Keep, "b.mkv": Keep,
		"c.mkv": RemoveConflictingVariant, "c-C.mkv": Keep, "c-UC.mkv": Keep,
	}
	if !reflect.DeepEqual(outcomes, want) {
		t.Fatalf("unexpected outcomes: %v", outcomes)
	}
	if r.catalog.Len() != len(m) {
		t.Fatal("resolution must not mutate the catalog")
	}
}

func TestPlanForSkipsDuplicateSidecars(t *testing.T) {
	r := New(catalog.FromMap(nil), variant.NewExpander([]string{".mkv", ".nfo", ".nfo"}))
	plan := r.PlanFor(catalog.Entry{Name: "movie.mkv", Path: "/lib/movie.mkv"})
	want := []string{"/lib/movie.mkv", "/lib/movie.nfo"}
	if got := plan.Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected plan: got %v want %v", got, want)
	}
}

func TestOutcomeString(t *testing.T) {
	if RemoveConflictingVariant.String() != "remove_conflicting_variant" || Outcome(42).String() != "unknown" {
		t.Fatal("unexpected outcome labels")
	}
}

func TestResolveMatchesExactNormalizationForm(t *testing.T) {
	decomposed := "Ame\u0301lie"
	composed := "Am\u00e9lie"

	r := newResolver(map[string]string{
		decomposed + ".mkv":  "/lib/" + decomposed + ".mkv",
		composed + "-UC.mkv": "/lib/" + composed + "-UC.mkv",
	})
	d := r.Resolve(catalog.Entry{Name: decomposed + ".mkv", Path: "/lib/" + decomposed + ".mkv"})
	if d.Outcome != Keep {
		t.Fatalf("alternate in another normalization form must not match, got %v", d.Outcome)
	}

	r = newResolver(map[string]string{
		decomposed + ".mkv":    "/lib/" + decomposed + ".mkv",
		decomposed + "-UC.mkv": "/lib/" + decomposed + "-UC.mkv",
	})
	d = r.Resolve(catalog.Entry{Name: decomposed + ".mkv", Path: "/lib/" + decomposed + ".mkv"})
	if d.Outcome != RemovePrimary {
		t.Fatalf("unexpected outcome: %v", d.Outcome)
	}
	want := append([]string{"/lib/" + decomposed + ".mkv"}, variant.Sidecars(decomposed, "/lib")...)
	if got := d.Plans[0].Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected plan: got %q want %q", got, want)
	}
}

func TestPlanForUsesOnDiskName(t *testing.T) {
	r := New(catalog.FromMap(nil), variant.NewExpander([]string{".nfo"}))
	plan := r.PlanFor(catalog.Entry{Name: "", Path: "/lib/bad\xffname.mkv"})
	want := []string{"/lib/bad\xffname.mkv", "/lib/bad\xffname.nfo"}
	if got := plan.Paths(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected plan: got %q want %q", got, want)
	}
	if plan.Targets[0].Name != "bad\xffname.mkv" {
		t.Fatalf("unexpected primary target name %q", plan.Targets[0].Name)
	}
}
