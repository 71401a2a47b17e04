package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/bugreg/pkg/junit"
	"github.com/dkoosis/bugreg/pkg/registry"
)

func ptr(b bool) *bool { return &b }

func id(suite, name string) registry.TestID { return registry.TestID{Suite: suite, Case: name} }

func buildRegistry(name string, outcomes map[registry.TestID]bool) *registry.Registry {
	reg := registry.New(name)
	for tid, passes := range outcomes {
		reg.Put(registry.NewExpectation(tid, passes))
	}
	return reg
}

func passed(suite, name string) junit.Result { return junit.Result{Suite: suite, Case: name} }

func failed(suite, name string, msgs ...string) junit.Result {
	if len(msgs) == 0 {
		msgs = []string{"failed"}
	}
	return junit.Result{Suite: suite, Case: name, Failures: msgs}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		expected *bool
		actual   *bool
		want     Verdict
	}{
		{"pass reproduced", ptr(true), ptr(true), Verdict{CodePass, ToneDefault, PresenceBoth}},
		{"known failure", ptr(false), ptr(false), Verdict{CodeKnownFail, ToneDefault, PresenceBoth}},
		{"regression", ptr(true), ptr(false), Verdict{CodeMismatch, ToneRegression, PresenceBoth}},
		{"improvement", ptr(false), ptr(true), Verdict{CodeMismatch, ToneImprovement, PresenceBoth}},
		{"missing from run", ptr(true), nil, Verdict{CodeUnknown, ToneUnknown, PresenceExpectedOnly}},
		{"untracked", nil, ptr(false), Verdict{CodeUnknown, ToneUnknown, PresenceActualOnly}},
		{"neither", nil, nil, Verdict{CodeUnknown, ToneUnknown, PresenceNone}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.expected, tt.actual))
		})
	}
}

func TestVerify_Regression(t *testing.T) {
	reg := buildRegistry("r", map[registry.TestID]bool{id("SuiteA", "Test1"): true})

	rows := Verify(reg, []junit.Result{failed("SuiteA", "Test1", "boom")})
	require.Len(t, rows, 1)
	assert.Equal(t, CodeMismatch, rows[0].Code)
	assert.Equal(t, ToneRegression, rows[0].Tone)
	assert.Equal(t, "true", rows[0].Expected)
	assert.Equal(t, "false", rows[0].Actual)
	assert.Equal(t, []string{"boom"}, rows[0].Failures)
}

func TestVerify_KnownFailureReproduced(t *testing.T) {
	reg := buildRegistry("r", map[registry.TestID]bool{id("SuiteA", "Test2"): false})

	rows := Verify(reg, []junit.Result{failed("SuiteA", "Test2")})
	require.Len(t, rows, 1)
	assert.Equal(t, CodeKnownFail, rows[0].Code)
	assert.Equal(t, ToneDefault, rows[0].Tone)
}

func TestVerify_UntrackedTestsProduceRows(t *testing.T) {
	reg := buildRegistry("r", map[registry.TestID]bool{id("S", "Known"): true})

	rows := Verify(reg, []junit.Result{passed("S", "New"), passed("S", "Known")})
	require.Len(t, rows, 2)
	assert.Equal(t, id("S", "Known"), rows[0].ID)
	assert.Equal(t, CodePass, rows[0].Code)
	assert.Equal(t, CodeUnknown, rows[1].Code)
	assert.Equal(t, PresenceActualOnly, rows[1].Presence)
	assert.Empty(t, rows[1].Expected)
}

func TestVerify_OutputSortedForAnyInputOrder(t *testing.T) {
	reg := registry.New("r")
	results := []junit.Result{
		passed("Zeta", "b"), passed("Alpha", "z"), failed("Zeta", "a"), passed("Alpha", "a"),
	}
	want := []registry.TestID{id("Alpha", "a"), id("Alpha", "z"), id("Zeta", "a"), id("Zeta", "b")}

	for range 3 {
		rows := Verify(reg, results)
		got := make([]registry.TestID, 0, len(rows))
		for _, r := range rows {
			got = append(got, r.ID)
		}
		assert.Equal(t, want, got)
		results = append(results[1:], results[0])
	}
}

func TestCompare_TestRowsCoverUnion(t *testing.T) {
	a := buildRegistry("a", map[registry.TestID]bool{
		id("S", "Both"): true, id("S", "OnlyA"): false, id("S", "Flip"): false,
	})
	b := buildRegistry("b", map[registry.TestID]bool{
		id("S", "Both"): true, id("S", "OnlyB"): true, id("S", "Flip"): true,
	})

	c := Compare(a, b)
	require.Len(t, c.Rows, 4)

	byCase := make(map[string]Row)
	for _, r := range c.Rows {
		byCase[r.ID.Case] = r
	}
	assert.Equal(t, CodePass, byCase["Both"].Code)
	assert.Equal(t, CodeMismatch, byCase["Flip"].Code)
	assert.Equal(t, ToneImprovement, byCase["Flip"].Tone)
	assert.Equal(t, PresenceExpectedOnly, byCase["OnlyA"].Presence)
	assert.Equal(t, PresenceActualOnly, byCase["OnlyB"].Presence)
	assert.Equal(t, "Both", c.Rows[0].ID.Case)
	assert.Equal(t, "OnlyB", c.Rows[3].ID.Case)
}

func TestCompare_ModuleVersions(t *testing.T) {
	a := registry.New("a")
	a.AddModuleVersion(registry.NewModuleVersion("moduleX", "1.0", ""))
	a.AddModuleVersion(registry.NewModuleVersion("onlyA", "abc", ""))
	a.AddModuleVersion(registry.NewModuleVersion("same", "v2", ""))
	b := registry.New("b")
	b.AddModuleVersion(registry.NewModuleVersion("moduleX", "1.1", ""))
	b.AddModuleVersion(registry.NewModuleVersion("same", "v2", ""))

	c := Compare(a, b)
	require.Len(t, c.Modules, 3)

	assert.Equal(t, ModuleDiff{Module: "moduleX", Left: "1.0", Right: "1.1", Mismatch: true, Drift: "newer"}, c.Modules[0])
	assert.Equal(t, ModuleDiff{Module: "onlyA", Left: "abc", Right: "", Mismatch: true}, c.Modules[1])
	assert.False(t, c.Modules[2].Mismatch)
}

func TestCompare_ModuleRecordedWithoutVersion(t *testing.T) {
	a := registry.New("a")
	a.AddModuleVersion(registry.NewModuleVersion("modX", "", "git"))
	a.AddModuleVersion(registry.NewModuleVersion("modY", "", "git"))
	b := registry.New("b")
	b.AddModuleVersion(registry.NewModuleVersion("modY", "", "git"))

	c := Compare(a, b)
	require.Len(t, c.Modules, 2)
	assert.Equal(t, ModuleDiff{Module: "modX", Mismatch: true}, c.Modules[0], "recorded on one side only")
	assert.Equal(t, ModuleDiff{Module: "modY"}, c.Modules[1], "empty on both sides")

	c = Compare(registry.New("empty"), a)
	assert.True(t, c.Modules[0].Mismatch)
}

func TestCompareDocuments(t *testing.T) {
	a := registry.NewDocument(registry.New("shared"), registry.New("left"))
	b := registry.NewDocument(registry.New("right"), registry.New("shared"))

	t.Run("pairs by name", func(t *testing.T) {
		dc, err := CompareDocuments(a, b, "")
		require.NoError(t, err)
		require.Len(t, dc.Pairs, 1)
		assert.Equal(t, "shared", dc.Pairs[0].Left)
		assert.Equal(t, []string{"left"}, dc.UnmatchedLeft)
		assert.Equal(t, []string{"right"}, dc.UnmatchedRight)
	})

	t.Run("named", func(t *testing.T) {
		dc, err := CompareDocuments(a, b, "shared")
		require.NoError(t, err)
		assert.Len(t, dc.Pairs, 1)
	})

	t.Run("named missing on one side", func(t *testing.T) {
		_, err := CompareDocuments(a, b, "left")
		assert.ErrorIs(t, err, registry.ErrNotFound)
	})
}

func TestMerge_AdoptsOnlyNewIdentities(t *testing.T) {
	a := buildRegistry("r", map[registry.TestID]bool{id("S", "T1"): true})
	b := buildRegistry("r", map[registry.TestID]bool{id("S", "T1"): false, id("S", "T2"): true})

	added := Merge(a, b)
	assert.Equal(t, 1, added)
	assert.Equal(t, 2, a.Len())

	t1, err := a.Lookup(id("S", "T1"))
	require.NoError(t, err)
	assert.True(t, t1.Passes)
	t2, err := a.Lookup(id("S", "T2"))
	require.NoError(t, err)
	assert.True(t, t2.Passes)
}

func TestMerge_NonDestructive(t *testing.T) {
	a := registry.New("r")
	e := registry.NewExpectation(id("S", "T"), false)
	require.NoError(t, e.AddBug(registry.NewBug("http://bugs/1")))
	a.Put(e)
	before := a.Clone()

	b := registry.New("r")
	other := registry.NewExpectation(id("S", "T"), true)
	require.NoError(t, other.AddNote(registry.TextNote("from b")))
	b.Put(other)

	Merge(a, b)
	assert.True(t, before.Equal(a))
}

func TestMerge_Idempotent(t *testing.T) {
	a := buildRegistry("r", map[registry.TestID]bool{id("S", "A"): true})
	b := buildRegistry("r", map[registry.TestID]bool{id("S", "B"): false})

	self := a.Clone()
	Merge(self, a)
	assert.True(t, self.Equal(a))

	Merge(a, b)
	once := a.Clone()
	assert.Zero(t, Merge(a, b))
	assert.True(t, once.Equal(a))
}

func TestMerge_AdoptsCopies(t *testing.T) {
	a := registry.New("r")
	b := buildRegistry("r", map[registry.TestID]bool{id("S", "T"): true})

	Merge(a, b)
	got, _ := a.Get(id("S", "T"))
	require.NoError(t, got.AddNote(registry.TextNote("edit after merge")))

	src, _ := b.Get(id("S", "T"))
	assert.Empty(t, src.Notes())
}

func TestMergeDocuments(t *testing.T) {
	newDocs := func() (*registry.Document, *registry.Document) {
		dst := registry.NewDocument(
			buildRegistry("shared", map[registry.TestID]bool{id("S", "A"): true}),
			buildRegistry("dstonly", nil),
		)
		src := registry.NewDocument(
			buildRegistry("shared", map[registry.TestID]bool{id("S", "A"): false, id("S", "B"): true}),
			buildRegistry("srconly", map[registry.TestID]bool{id("S", "C"): true}),
		)
		return dst, src
	}

	t.Run("all names", func(t *testing.T) {
		dst, src := newDocs()
		report, err := MergeDocuments(dst, src, "")
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"shared": 1}, report.Merged)
		assert.Equal(t, []string{"srconly"}, report.Adopted)
		assert.Equal(t, []string{"dstonly"}, report.Untouched)
		assert.Equal(t, []string{"dstonly", "shared", "srconly"}, registry.NewDocument(dst.Sorted()...).Names())
	})

	t.Run("named only in source is adopted", func(t *testing.T) {
		dst, src := newDocs()
		report, err := MergeDocuments(dst, src, "srconly")
		require.NoError(t, err)
		assert.Equal(t, []string{"srconly"}, report.Adopted)
		assert.True(t, dst.Has("srconly"))
	})

	t.Run("named only in destination is untouched", func(t *testing.T) {
		dst, src := newDocs()
		before := dst.Clone()
		report, err := MergeDocuments(dst, src, "dstonly")
		require.NoError(t, err)
		assert.Equal(t, []string{"dstonly"}, report.Untouched)
		assert.True(t, before.Equal(dst))
	})

	t.Run("named in neither", func(t *testing.T) {
		dst, src := newDocs()
		_, err := MergeDocuments(dst, src, "ghost")
		assert.ErrorIs(t, err, registry.ErrNotFound)
	})

	t.Run("idempotent", func(t *testing.T) {
		dst, src := newDocs()
		_, err := MergeDocuments(dst, src, "")
		require.NoError(t, err)
		once := dst.Clone()
		_, err = MergeDocuments(dst, src, "")
		require.NoError(t, err)
		assert.True(t, once.Equal(dst))
	})
}

func TestCreate(t *testing.T) {
	date := registry.Date{Year: 2013, Month: 1, Day: 14}
	reg := Create("run", date, []junit.Result{passed("S", "A"), failed("S", "B")})

	assert.Equal(t, "run", reg.Name)
	assert.Equal(t, date, reg.Date)
	a, _ := reg.Get(id("S", "A"))
	b, _ := reg.Get(id("S", "B"))
	assert.True(t, a.Passes)
	assert.False(t, b.Passes)

	rows := Verify(reg, []junit.Result{passed("S", "A"), failed("S", "B")})
	s := Summarize(rows)
	assert.Equal(t, Summary{Total: 2, Pass: 1, KnownFail: 1}, s)
}

func TestSummarize(t *testing.T) {
	reg := buildRegistry("r", map[registry.TestID]bool{
		id("S", "a"): true, id("S", "b"): false, id("S", "c"): true,
	})
	rows := Verify(reg, []junit.Result{
		passed("S", "a"), passed("S", "b"), failed("S", "c"), passed("S", "d"),
	})
	s := Summarize(rows)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Pass)
	assert.Equal(t, 1, s.Improved)
	assert.Equal(t, 1, s.Regressed)
	assert.Equal(t, 1, s.Untracked)
	assert.Equal(t, 2, s.Mismatches())
}

type fakeQuerier map[string]string

func (fakeQuerier) Kind() string { return "rpm" }

func (f fakeQuerier) InstalledVersion(_ context.Context, module string) (string, error) {
	v, ok := f[module]
	if !ok {
		return "", errors.New("package " + module + " is not installed")
	}
	return v, nil
}

func TestCheckInstalled(t *testing.T) {
	reg := registry.New("r")
	reg.AddModuleVersion(registry.NewModuleVersion("xserver", "1.13.1-1", "rpm"))
	reg.AddModuleVersion(registry.NewModuleVersion("evdev", "2.7.0-1", "rpm"))
	reg.AddModuleVersion(registry.NewModuleVersion("missing", "1", "rpm"))
	reg.AddModuleVersion(registry.NewModuleVersion("gitmod", "abc", "git"))

	checks := CheckInstalled(context.Background(), reg, fakeQuerier{
		"xserver": "1.13.1-1",
		"evdev":   "2.7.1-1",
	})
	require.Len(t, checks, 3)

	byModule := make(map[string]ModuleCheck)
	for _, c := range checks {
		byModule[c.Module] = c
	}
	assert.True(t, byModule["xserver"].Match())
	assert.False(t, byModule["evdev"].Match())
	assert.ErrorIs(t, byModule["missing"].Err, registry.ErrExternalTool)
	assert.NotContains(t, byModule, "gitmod")
}

func TestStampInstalled(t *testing.T) {
	reg := registry.New("r")
	reg.AddModuleVersion(registry.NewModuleVersion("xserver", "old", "rpm"))

	errs := StampInstalled(context.Background(), reg, fakeQuerier{"xserver": "new"}, []string{"xserver", "absent"})
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], registry.ErrExternalTool)
	assert.Equal(t, []string{"new"}, reg.VersionsOf("xserver"))
}
