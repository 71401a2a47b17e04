package cli

import (
	"maps"
	"slices"
	"strings"

	"github.com/araddon/dateparse"

	"github.com/dkoosis/bugreg/pkg/registry"
)

const editLongDescription = `Modify test case SUITE CASE of the selected registry with one ACTION:

  add-bug URL         link a bug report (--type)
  rm-bug URL          unlink a bug report (--type)
  add-commit SHA1     record a fixing commit (--repo)
  rm-commit SHA1      drop a fixing commit
  add-rpm NVR         record a fixing package build
  rm-rpm NVR          drop a fixing package build
  add-note TEXT       attach a note (--url for a link)
  rm-note TEXT        drop a note (--url for a link)
  set-status STATUS   set the expected outcome: true, false, success or failure`

type editCommand struct {
	Type string `long:"type" value-name:"TRACKER" default:"bugzilla" description:"bug tracker: bugzilla, github, gitlab or jira"`
	Repo string `long:"repo" value-name:"REPO" description:"repository of the commit"`
	URL  bool   `long:"url" description:"the note is a link"`
	Args struct {
		Suite  string   `positional-arg-name:"SUITE" required:"yes"`
		Case   string   `positional-arg-name:"CASE" required:"yes"`
		Action string   `positional-arg-name:"ACTION" required:"yes"`
		Values []string `positional-arg-name:"VALUE"`
	} `positional-args:"yes"`

	app *app
}

type editAction func(c *editCommand, e *registry.Expectation, value string) error

var editActions = map[string]editAction{
	"add-bug": func(c *editCommand, e *registry.Expectation, v string) error {
		bug, err := c.bug(v)
		if err != nil {
			return err
		}
		return e.AddBug(bug)
	},
	"rm-bug": func(c *editCommand, e *registry.Expectation, v string) error {
		bug, err := c.bug(v)
		if err != nil {
			return err
		}
		e.RemoveBug(bug)
		return nil
	},
	"add-commit": func(c *editCommand, e *registry.Expectation, v string) error {
		return e.AddFix(registry.GitFix(v, c.Repo))
	},
	"rm-commit": func(_ *editCommand, e *registry.Expectation, v string) error {
		e.RemoveFix(registry.GitFix(v, ""))
		return nil
	},
	"add-rpm": func(_ *editCommand, e *registry.Expectation, v string) error {
		return e.AddFix(registry.PackageFix(v))
	},
	"rm-rpm": func(_ *editCommand, e *registry.Expectation, v string) error {
		e.RemoveFix(registry.PackageFix(v))
		return nil
	},
	"add-note": func(c *editCommand, e *registry.Expectation, v string) error {
		return e.AddNote(c.note(v))
	},
	"rm-note": func(c *editCommand, e *registry.Expectation, v string) error {
		e.RemoveNote(c.note(v))
		return nil
	},
	"set-status": func(_ *editCommand, e *registry.Expectation, v string) error {
		return e.SetStatus(editStatusToken(v))
	},
}

func (c *editCommand) bug(url string) (registry.Bug, error) {
	kind, err := registry.ParseBugKind(c.Type)
	if err != nil {
		return registry.Bug{}, err
	}
	return registry.Bug{Kind: kind, URL: url}, nil
}

func (c *editCommand) note(text string) registry.Note {
	if c.URL {
		return registry.URLNote(text)
	}
	return registry.TextNote(text)
}

// editStatusToken maps success and failure onto the stored status tokens.
// Anything else is left for SetStatus to validate.
func editStatusToken(s string) string {
	switch strings.ToLower(s) {
	case "success":
		return registry.FormatStatus(true)
	case "failure":
		return registry.FormatStatus(false)
	}
	return s
}

func (c *editCommand) Execute(_ []string) error {
	a := c.app
	act, ok := editActions[c.Args.Action]
	if !ok {
		return usagef("unknown edit action %q (want one of %s)",
			c.Args.Action, strings.Join(slices.Sorted(maps.Keys(editActions)), ", "))
	}
	if len(c.Args.Values) != 1 {
		return usagef("%s takes exactly one value, got %d", c.Args.Action, len(c.Args.Values))
	}
	id := registry.TestID{Suite: c.Args.Suite, Case: c.Args.Case}

	return a.mutate(func(doc *registry.Document) error {
		reg, err := a.selectOne(doc)
		if err != nil {
			return err
		}
		e, err := reg.Lookup(id)
		if err != nil {
			return err
		}
		before := e.Clone()
		if err := act(c, e, c.Args.Values[0]); err != nil {
			return err
		}
		if e.Equal(before) {
			a.log.Info("test case unchanged", "registry", reg.Name, "test", id.String(), "action", c.Args.Action)
		}
		return nil
	})
}

type setDateCommand struct {
	Args struct {
		Date string `positional-arg-name:"DATE"`
	} `positional-args:"yes"`

	app *app
}

func (c *setDateCommand) Execute(_ []string) error {
	a := c.app
	date := a.today()
	if c.Args.Date != "" {
		t, err := dateparse.ParseLocal(c.Args.Date)
		if err != nil {
			return registry.ConversionError("parse date", c.Args.Date, err)
		}
		date = registry.DateOf(t)
	}

	return a.mutate(func(doc *registry.Document) error {
		reg, err := a.selectOne(doc)
		if err != nil {
			return err
		}
		if !reg.Date.IsZero() && registry.CompareDates(date, reg.Date) < 0 {
			a.log.Warn("registry date moved backwards", "registry", reg.Name, "from", reg.Date.String(), "to", date.String())
		}
		reg.Date = date
		a.log.Info("registry date set", "registry", reg.Name, "date", date.String())
		return nil
	})
}

// versionNone as a version removes the module's entries.
const versionNone = "none"

type setModuleVersionCommand struct {
	Type string `long:"type" value-name:"TYPE" default:"git" description:"version type, e.g. git or rpm"`
	Repo string `long:"repo" value-name:"REPO" description:"repository the version refers to"`
	Args struct {
		Module  string `positional-arg-name:"NAME" required:"yes"`
		Version string `positional-arg-name:"VERSION" required:"yes"`
	} `positional-args:"yes"`

	app *app
}

func (c *setModuleVersionCommand) Execute(_ []string) error {
	a := c.app
	return a.mutate(func(doc *registry.Document) error {
		reg, err := a.selectOne(doc)
		if err != nil {
			return err
		}
		if c.Args.Version == versionNone {
			if n := reg.RemoveModuleVersion(c.Args.Module, c.Type); n == 0 {
				a.log.Info("no module version to remove", "registry", reg.Name, "module", c.Args.Module, "type", c.Type)
			}
			return nil
		}
		mv := registry.NewModuleVersion(c.Args.Module, c.Args.Version, c.Type)
		mv.Repo = c.Repo
		reg.SetModuleVersion(mv)
		return nil
	})
}
