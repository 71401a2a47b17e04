package codec

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/bugreg/pkg/registry"
)

const sampleDocument = `<xit:registries xmlns:xit="http://www.x.org/xorg-integration-testing">
  <xit:registry name="server">
    <xit:meta>
      <xit:date>2013-01-14</xit:date>
      <xit:moduleversion name="xorg-x11-server-Xorg" type="rpm">xorg-x11-server-Xorg-1.13.1-1.fc18.x86_64</xit:moduleversion>
      <xit:moduleversion name="evdev">a1b2c3</xit:moduleversion>
    </xit:meta>
    <xit:testsuite name="XTest">
      <xit:testcase name="Zeta" success="false">
        <xit:testinfo type="url">http://wiki/zeta</xit:testinfo>
        <xit:fix type="git" repo="git://anongit/xserver">deadbeef</xit:fix>
        <xit:bug type="bugzilla">http://bugs.freedesktop.org/1</xit:bug>
        <xit:fix type="rpm">xorg-x11-server-1.13.1-2.fc18</xit:fix>
        <xit:testinfo type="text">flaky on slow machines</xit:testinfo>
      </xit:testcase>
      <xit:testcase name="Alpha" success="true"/>
    </xit:testsuite>
    <xit:testsuite name="Input">
      <xit:testcase name="Keys" success="True"/>
    </xit:testsuite>
  </xit:registry>
  <xit:registry name="alpha">
    <xit:meta/>
  </xit:registry>
</xit:registries>
`

func TestDecode_SampleDocument(t *testing.T) {
	doc, err := DecodeBytes([]byte(sampleDocument))
	require.NoError(t, err)
	require.Equal(t, []string{"server", "alpha"}, doc.Names())

	reg, err := doc.Find("server")
	require.NoError(t, err)
	assert.Equal(t, "2013-01-14", reg.Date.String())
	assert.Equal(t, 3, reg.Len())

	mods := reg.ModuleVersions()
	require.Len(t, mods, 2)
	assert.Equal(t, registry.ModuleVersion{Module: "evdev", Version: "a1b2c3", Kind: "git"}, mods[0])
	assert.Equal(t, "rpm", mods[1].Kind)

	zeta, err := reg.Lookup(registry.TestID{Suite: "XTest", Case: "Zeta"})
	require.NoError(t, err)
	assert.False(t, zeta.Passes)
	assert.Equal(t, []registry.Bug{registry.NewBug("http://bugs.freedesktop.org/1")}, zeta.Bugs())

	fixes := zeta.Fixes()
	require.Len(t, fixes, 2)
	assert.Equal(t, "deadbeef", fixes[0].SHA1())
	assert.Equal(t, "git://anongit/xserver", fixes[0].Repo())
	assert.Equal(t, "xorg-x11-server-1.13.1-2.fc18", fixes[1].NVR())

	assert.Equal(t, []registry.Note{
		registry.TextNote("flaky on slow machines"),
		registry.URLNote("http://wiki/zeta"),
	}, zeta.Notes())

	keys, err := reg.Lookup(registry.TestID{Suite: "Input", Case: "Keys"})
	require.NoError(t, err)
	assert.True(t, keys.Passes)

	alpha, err := doc.Find("alpha")
	require.NoError(t, err)
	assert.True(t, alpha.Date.IsZero())
	assert.Zero(t, alpha.Len())
}

func TestEncode_IsDeterministicAndSorted(t *testing.T) {
	doc, err := DecodeBytes([]byte(sampleDocument))
	require.NoError(t, err)

	out, err := EncodeBytes(doc)
	require.NoError(t, err)
	text := string(out)

	assert.True(t, strings.HasPrefix(text, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, text, `<xit:registries xmlns:xit="http://www.x.org/xorg-integration-testing">`)
	assert.Less(t, strings.Index(text, `name="alpha"`), strings.Index(text, `name="server"`))
	assert.Less(t, strings.Index(text, `testsuite name="Input"`), strings.Index(text, `testsuite name="XTest"`))
	assert.Less(t, strings.Index(text, `testcase name="Alpha"`), strings.Index(text, `testcase name="Zeta"`))
	assert.Contains(t, text, `<xit:fix type="git" repo="git://anongit/xserver">deadbeef</xit:fix>`)
	assert.Contains(t, text, `<xit:testcase name="Keys" success="true">`)
	assert.Less(t, strings.Index(text, `<xit:bug`), strings.Index(text, `<xit:fix`))
	assert.Less(t, strings.Index(text, `<xit:fix`), strings.Index(text, `<xit:testinfo`))
	assert.NotContains(t, text, "<xit:date></xit:date>")

	again, err := EncodeBytes(doc)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestRoundTrip_PreservesSemantics(t *testing.T) {
	doc, err := DecodeBytes([]byte(sampleDocument))
	require.NoError(t, err)

	out, err := EncodeBytes(doc)
	require.NoError(t, err)
	back, err := DecodeBytes(out)
	require.NoError(t, err)

	assert.True(t, doc.Equal(back))

	reencoded, err := EncodeBytes(back)
	require.NoError(t, err)
	if diff := cmp.Diff(string(out), string(reencoded)); diff != "" {
		t.Errorf("re-encoding changed output (-first +second):\n%s", diff)
	}
}

func TestRoundTrip_BuiltDocument(t *testing.T) {
	reg := registry.New("built")
	reg.Date = registry.Date{Year: 2024, Month: 2, Day: 29}
	mv := registry.NewModuleVersion("libinput", "1.25.0", "rpm")
	mv.Repo = "fedora"
	reg.AddModuleVersion(mv)

	e := registry.NewExpectation(registry.TestID{Suite: "Suite & Co", Case: `quote"case`}, false)
	require.NoError(t, e.AddBug(registry.Bug{Kind: registry.BugGitHub, URL: "https://github.com/o/r/issues/1?a=1&b=2"}))
	require.NoError(t, e.AddNote(registry.TextNote("needs <root>")))
	reg.Put(e)

	out, err := EncodeBytes(registry.NewDocument(reg))
	require.NoError(t, err)
	back, err := DecodeBytes(out)
	require.NoError(t, err)

	got, err := back.Find("built")
	require.NoError(t, err)
	assert.True(t, reg.Equal(got), "round trip mismatch:\n%s", out)
	assert.Equal(t, "fedora", got.ModuleVersions()[0].Repo)
}

func TestDecode_DefaultsForOptionalAttributes(t *testing.T) {
	input := `<registries xmlns="http://www.x.org/xorg-integration-testing">
  <registry name="r">
    <testsuite name="S">
      <testcase name="T" success="0">
        <bug>http://bugs/1</bug>
        <fix>cafe</fix>
        <testinfo>plain</testinfo>
      </testcase>
    </testsuite>
  </registry>
</registries>`
	doc, err := DecodeBytes([]byte(input))
	require.NoError(t, err)
	reg, err := doc.First()
	require.NoError(t, err)
	e, err := reg.Lookup(registry.TestID{Suite: "S", Case: "T"})
	require.NoError(t, err)

	assert.Equal(t, registry.BugBugzilla, e.Bugs()[0].Kind)
	assert.Equal(t, registry.FixGit, e.Fixes()[0].Kind)
	assert.Equal(t, registry.NoteText, e.Notes()[0].Kind)
}

func TestDecode_IgnoresUnknownElementsAndAttributes(t *testing.T) {
	input := `<registries color="blue">
  <future-thing/>
  <registry name="r" owner="qa">
    <meta><date>2020-05-01</date><hostname>box</hostname></meta>
    <testsuite name="S" timeout="10">
      <testcase name="T" success="true" duration="1.5"><owner>me</owner></testcase>
    </testsuite>
  </registry>
</registries>`
	doc, err := DecodeBytes([]byte(input))
	require.NoError(t, err)
	reg, err := doc.Find("r")
	require.NoError(t, err)
	assert.True(t, reg.Has(registry.TestID{Suite: "S", Case: "T"}))
}

func TestDecode_SkipsEmptyEntries(t *testing.T) {
	input := `<registries>
  <registry name="r">
    <meta><date>2013-1-2</date></meta>
    <testsuite name="S">
      <testcase name="T" success="false">
        <bug/>
        <bug>http://bugs/1</bug>
        <fix type="rpm"> </fix>
        <testinfo></testinfo>
      </testcase>
    </testsuite>
  </registry>
</registries>`
	var warnings []string
	doc, err := Decoder{Warn: func(msg string, _ ...any) { warnings = append(warnings, msg) }}.DecodeBytes([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"skipping empty bug", "skipping empty fix", "skipping empty testinfo"}, warnings)

	reg, err := doc.First()
	require.NoError(t, err)
	assert.Equal(t, "2013-01-02", reg.Date.String())
	e, err := reg.Lookup(registry.TestID{Suite: "S", Case: "T"})
	require.NoError(t, err)
	assert.Equal(t, []registry.Bug{registry.NewBug("http://bugs/1")}, e.Bugs())
	assert.Empty(t, e.Fixes())
	assert.Empty(t, e.Notes())

	_, err = DecodeBytes([]byte(input))
	assert.NoError(t, err, "a nil Warn drops warnings")
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  registry.Kind
	}{
		{"empty", "", registry.KindParse},
		{"not xml", "hello", registry.KindParse},
		{"wrong root", `<testsuites><testsuite name="S"/></testsuites>`, registry.KindParse},
		{"foreign namespace", `<registries xmlns="urn:other"/>`, registry.KindParse},
		{"registry without name", `<registries><registry/></registries>`, registry.KindParse},
		{"suite without name", `<registries><registry name="r"><testsuite><testcase name="T" success="true"/></testsuite></registry></registries>`, registry.KindParse},
		{"case without name", `<registries><registry name="r"><testsuite name="S"><testcase success="true"/></testsuite></registry></registries>`, registry.KindParse},
		{"case without success", `<registries><registry name="r"><testsuite name="S"><testcase name="T"/></testsuite></registry></registries>`, registry.KindParse},
		{"bad success token", `<registries><registry name="r"><testsuite name="S"><testcase name="T" success="yes"/></testsuite></registry></registries>`, registry.KindValueConversion},
		{"unknown fix kind", `<registries><registry name="r"><testsuite name="S"><testcase name="T" success="true"><fix type="svn">1</fix></testcase></testsuite></registry></registries>`, registry.KindValueConversion},
		{"unknown info kind", `<registries><registry name="r"><testsuite name="S"><testcase name="T" success="true"><testinfo type="html">x</testinfo></testcase></testsuite></registry></registries>`, registry.KindValueConversion},
		{"bad date", `<registries><registry name="r"><meta><date>yesterday</date></meta></registry></registries>`, registry.KindValueConversion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBytes([]byte(tt.input))
			require.Error(t, err)
			assert.Equal(t, tt.kind, registry.KindOf(err), "error: %v", err)
		})
	}
}
