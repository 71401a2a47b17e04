// Package registry holds the record model for test registries: expected
// outcomes per test case plus triage metadata (bugs, fixes, notes) and the
// module versions a registry was recorded against.
//
// Every collection accessor returns entries in a stable total order so that
// serialized output is reproducible and diffable.
package registry

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// TestID identifies a test case. Two IDs are equal iff both fields are
// byte-equal.
type TestID struct {
	Suite string
	Case  string
}

func (id TestID) String() string { return id.Suite + "." + id.Case }

// CompareIDs orders by suite, then case.
func CompareIDs(a, b TestID) int {
	if c := strings.Compare(a.Suite, b.Suite); c != 0 {
		return c
	}
	return strings.Compare(a.Case, b.Case)
}

// ParseStatus converts a stored success flag. Accepted tokens are
// true/True/1 and false/False/0.
func ParseStatus(s string) (bool, error) {
	switch s {
	case "true", "True", "1":
		return true, nil
	case "false", "False", "0":
		return false, nil
	}
	return false, ConversionError("parse status", s, fmt.Errorf("expected true or false"))
}

// FormatStatus renders a status the way the registry document stores it.
func FormatStatus(passes bool) string {
	if passes {
		return "true"
	}
	return "false"
}

// BugKind names the tracker a bug reference points into.
type BugKind string

const (
	BugBugzilla BugKind = "bugzilla"
	BugGitHub   BugKind = "github"
	BugGitLab   BugKind = "gitlab"
	BugJira     BugKind = "jira"
)

// DefaultBugKind applies when a document omits the bug type.
const DefaultBugKind = BugBugzilla

var bugKinds = map[string]BugKind{
	string(BugBugzilla): BugBugzilla,
	string(BugGitHub):   BugGitHub,
	string(BugGitLab):   BugGitLab,
	string(BugJira):     BugJira,
}

// ParseBugKind resolves a bug type attribute.
func ParseBugKind(s string) (BugKind, error) {
	if k, ok := bugKinds[s]; ok {
		return k, nil
	}
	return "", ConversionError("parse bug kind", s, nil)
}

// FixKind discriminates the Fix variants.
type FixKind string

const (
	// FixGit is a commit known to alter the outcome; text is the sha1.
	FixGit FixKind = "git"
	// FixPackage is a package build known to alter the outcome; text is the NVR.
	FixPackage FixKind = "rpm"
)

// DefaultFixKind applies when a document omits the fix type.
const DefaultFixKind = FixGit

var fixKinds = map[string]FixKind{
	string(FixGit):     FixGit,
	string(FixPackage): FixPackage,
}

// ParseFixKind resolves a fix type attribute.
func ParseFixKind(s string) (FixKind, error) {
	if k, ok := fixKinds[s]; ok {
		return k, nil
	}
	return "", ConversionError("parse fix kind", s, nil)
}

// NoteKind discriminates the Note variants.
type NoteKind string

const (
	NoteText NoteKind = "text"
	NoteURL  NoteKind = "url"
)

// DefaultNoteKind applies when a document omits the testinfo type.
const DefaultNoteKind = NoteText

var noteKinds = map[string]NoteKind{
	string(NoteText): NoteText,
	string(NoteURL):  NoteURL,
}

// ParseNoteKind resolves a testinfo type attribute.
func ParseNoteKind(s string) (NoteKind, error) {
	if k, ok := noteKinds[s]; ok {
		return k, nil
	}
	return "", ConversionError("parse note kind", s, nil)
}

// Bug references a known bug. Identity is (Kind, URL).
type Bug struct {
	Kind BugKind
	URL  string
}

// NewBug returns a bug of the default kind.
func NewBug(url string) Bug { return Bug{Kind: DefaultBugKind, URL: url} }

func (b Bug) String() string { return b.URL }

// CompareBugs orders by kind, then URL.
func CompareBugs(a, b Bug) int {
	if c := strings.Compare(string(a.Kind), string(b.Kind)); c != 0 {
		return c
	}
	return strings.Compare(a.URL, b.URL)
}

// Fix is a tagged union over FixGit and FixPackage. Identity is (Kind, Text);
// Attrs carries extra document attributes such as "repo" and does not take
// part in equality.
type Fix struct {
	Kind  FixKind
	Text  string
	Attrs map[string]string
}

// AttrRepo is the attribute naming a git fix's repository.
const AttrRepo = "repo"

// GitFix builds a commit fix; repo may be empty.
func GitFix(sha1, repo string) Fix {
	f := Fix{Kind: FixGit, Text: sha1}
	if repo != "" {
		f.Attrs = map[string]string{AttrRepo: repo}
	}
	return f
}

// PackageFix builds a package-build fix from an NVR string.
func PackageFix(nvr string) Fix { return Fix{Kind: FixPackage, Text: nvr} }

// SHA1 returns the commit for git fixes.
func (f Fix) SHA1() string {
	if f.Kind != FixGit {
		return ""
	}
	return f.Text
}

// NVR returns the package build for package fixes.
func (f Fix) NVR() string {
	if f.Kind != FixPackage {
		return ""
	}
	return f.Text
}

// Repo returns the repo attribute, if any.
func (f Fix) Repo() string { return f.Attrs[AttrRepo] }

// AttrKeys returns attribute names sorted.
func (f Fix) AttrKeys() []string {
	return slices.Sorted(maps.Keys(f.Attrs))
}

func (f Fix) String() string { return f.Text }

func (f Fix) clone() Fix {
	f.Attrs = maps.Clone(f.Attrs)
	return f
}

// CompareFixes orders by kind, then text.
func CompareFixes(a, b Fix) int {
	if c := strings.Compare(string(a.Kind), string(b.Kind)); c != 0 {
		return c
	}
	return strings.Compare(a.Text, b.Text)
}

// Note is a tagged union over NoteText and NoteURL. Identity is (Kind, Text).
type Note struct {
	Kind NoteKind
	Text string
}

// TextNote builds a free-form note.
func TextNote(text string) Note { return Note{Kind: NoteText, Text: text} }

// URLNote builds a link note.
func URLNote(url string) Note { return Note{Kind: NoteURL, Text: url} }

func (n Note) String() string { return n.Text }

// CompareNotes orders by kind, then text.
func CompareNotes(a, b Note) int {
	if c := strings.Compare(string(a.Kind), string(b.Kind)); c != 0 {
		return c
	}
	return strings.Compare(a.Text, b.Text)
}

// DefaultModuleKind applies when a document omits the moduleversion type.
const DefaultModuleKind = "git"

// ModuleVersion stamps a registry with the version of a component it was
// recorded against. Equality and ordering use (Module, Kind, Version); Repo
// is informational.
type ModuleVersion struct {
	Module  string
	Version string
	Kind    string
	Repo    string
}

// NewModuleVersion fills in the default kind when kind is empty.
func NewModuleVersion(module, version, kind string) ModuleVersion {
	if kind == "" {
		kind = DefaultModuleKind
	}
	return ModuleVersion{Module: module, Version: version, Kind: kind}
}

func (m ModuleVersion) String() string { return m.Module + ": " + m.Version }

// CompareModuleVersions orders by module, kind, then version.
func CompareModuleVersions(a, b ModuleVersion) int {
	if c := strings.Compare(a.Module, b.Module); c != 0 {
		return c
	}
	if c := strings.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	return strings.Compare(a.Version, b.Version)
}

// DateLayout is the on-disk date format.
const DateLayout = "2006-01-02"

// dateParseLayout also accepts unpadded months and days.
const dateParseLayout = "2006-1-2"

// Date is a calendar date without time of day. The zero Date means "not
// recorded".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD string; 2013-1-2 is read as 2013-01-02.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateParseLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ConversionError("parse date", s, err)
	}
	return DateOf(t), nil
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the local calendar date.
func Today() Date { return DateOf(time.Now()) }

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d == Date{} }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format(DateLayout)
}

// CompareDates orders chronologically.
func CompareDates(a, b Date) int {
	if c := cmp.Compare(a.Year, b.Year); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Month, b.Month); c != 0 {
		return c
	}
	return cmp.Compare(a.Day, b.Day)
}
