package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/bugreg/pkg/junit"
	"github.com/dkoosis/bugreg/pkg/reconcile"
	"github.com/dkoosis/bugreg/pkg/registry"
)

func sampleRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New("server")
	reg.Put(registry.NewExpectation(registry.TestID{Suite: "S", Case: "Pass"}, true))
	fail := registry.NewExpectation(registry.TestID{Suite: "S", Case: "Fail"}, false)
	require.NoError(t, fail.AddBug(registry.NewBug("http://bugs/1")))
	require.NoError(t, fail.AddFix(registry.GitFix("cafe", "git://repo")))
	require.NoError(t, fail.AddNote(registry.URLNote("http://wiki")))
	reg.Put(fail)
	return reg
}

func TestVerifyTable(t *testing.T) {
	reg := sampleRegistry(t)
	rows := reconcile.Verify(reg, []junit.Result{
		{Suite: "S", Case: "Pass", Failures: []string{"broke"}},
		{Suite: "S", Case: "Fail"},
	})

	tbl := Verify(reg.Name, rows)
	assert.Equal(t, "server", tbl.Section)
	assert.Equal(t, []string{"Code", "TestSuite", "TestCase", "Result", "Expected"}, tbl.Headers)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"XX", "S", "Fail", "true", "false"}, tbl.Rows[0].Cells)
	assert.Equal(t, ToneGood, tbl.Rows[0].Tone)
	assert.Equal(t, ToneBad, tbl.Rows[1].Tone)
	assert.Equal(t, []string{"broke"}, tbl.Rows[1].Details)
}

func TestComparisonBlocks(t *testing.T) {
	a := sampleRegistry(t)
	a.AddModuleVersion(registry.NewModuleVersion("xserver", "1.0", ""))
	b := registry.New("server")
	b.Put(registry.NewExpectation(registry.TestID{Suite: "S", Case: "Pass"}, true))

	blocks := Comparison(reconcile.Compare(a, b), "old.xml", "new.xml")
	require.Len(t, blocks, 2)

	mods := blocks[0].(*Table)
	assert.Equal(t, []string{"Module name", "old.xml", "new.xml", "Drift"}, mods.Headers)
	assert.Equal(t, ToneBad, mods.Rows[0].Tone)

	tests := blocks[1].(*Table)
	assert.Equal(t, []string{"Code", "TestSuite", "TestCase", "new.xml", "old.xml"}, tests.Headers)
	assert.Equal(t, []string{"??", "S", "Fail", "", "false"}, tests.Rows[0].Cells)
	assert.Equal(t, ToneUnknown, tests.Rows[0].Tone)
}

func TestComparisonWithoutModulesHasSingleSection(t *testing.T) {
	blocks := Comparison(reconcile.Compare(registry.New("r"), registry.New("r")), "a", "b")
	require.Len(t, blocks, 1)
	assert.Equal(t, "r", blocks[0].(*Table).Section)
}

func TestListTable(t *testing.T) {
	tbl := List(sampleRegistry(t))
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"S", "Fail", "false"}, tbl.Rows[0].Cells)
	assert.Equal(t, ToneBad, tbl.Rows[0].Tone)
	assert.Equal(t, ToneDefault, tbl.Rows[1].Tone)
}

func TestInstalledTable(t *testing.T) {
	tbl := Installed("server", []reconcile.ModuleCheck{
		{Module: "a", Recorded: "1", Installed: "1"},
		{Module: "b", Recorded: "1", Installed: "2"},
		{Module: "c", Recorded: "1", Err: errors.New("rpm missing")},
	})
	assert.Equal(t, ToneDefault, tbl.Rows[0].Tone)
	assert.Equal(t, ToneBad, tbl.Rows[1].Tone)
	assert.Equal(t, []string{"c", "1", "unavailable"}, tbl.Rows[2].Cells)
}

func TestInfoDetail(t *testing.T) {
	reg := sampleRegistry(t)
	e, _ := reg.Get(registry.TestID{Suite: "S", Case: "Fail"})

	d := Info(e)
	assert.Equal(t, "S Fail", d.Title)
	require.Len(t, d.Fields, 4)
	assert.Equal(t, Field{Name: "Expected Result", Values: []string{"Failure"}, Inline: true}, d.Fields[0])
	assert.Equal(t, []string{"Url: http://wiki"}, d.Fields[1].Values)
	assert.Equal(t, "Known Bugs", d.Fields[2].Name)
	assert.Equal(t, []string{"Bugzilla: http://bugs/1"}, d.Fields[2].Values)
	assert.Equal(t, []string{"Git: cafe (git://repo)"}, d.Fields[3].Values)
}

func TestInfoDetail_KindLabels(t *testing.T) {
	e := registry.NewExpectation(registry.TestID{Suite: "S", Case: "C"}, true)
	require.NoError(t, e.AddBug(registry.Bug{Kind: registry.BugGitHub, URL: "https://gh/1"}))
	require.NoError(t, e.AddFix(registry.PackageFix("xorg-x11-server-1.13-2")))
	require.NoError(t, e.AddNote(registry.TextNote("flaky on vesa")))

	d := Info(e)
	assert.Equal(t, Field{Name: "Expected Result", Values: []string{"Success"}, Inline: true}, d.Fields[0])
	assert.Equal(t, []string{"Text: flaky on vesa"}, d.Fields[1].Values)
	assert.Equal(t, []string{"Github: https://gh/1"}, d.Fields[2].Values)
	assert.Equal(t, []string{"Rpm: xorg-x11-server-1.13-2"}, d.Fields[3].Values)
}

func TestSummaryOfOmitsZeroCounts(t *testing.T) {
	s := SummaryOf("server", reconcile.Summary{Total: 3, Pass: 2, Regressed: 1})
	require.Len(t, s.Items, 3)
	assert.Equal(t, SummaryItem{Label: "regressed", Value: "1", Tone: ToneBad}, s.Items[2])
}
