package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/dkoosis/bugreg/internal/source"
	"github.com/dkoosis/bugreg/pkg/junit"
	"github.com/dkoosis/bugreg/pkg/reconcile"
	"github.com/dkoosis/bugreg/pkg/registry"
	"github.com/dkoosis/bugreg/pkg/table"
)

type listCommand struct{ app *app }

func (c *listCommand) Execute(_ []string) error {
	a := c.app
	doc, _, err := a.readDocument(a.cfg.File)
	if err != nil {
		return err
	}
	regs := doc.Registries()
	if a.cfg.Registry != "" {
		reg, err := doc.Find(a.cfg.Registry)
		if err != nil {
			return err
		}
		regs = []*registry.Registry{reg}
	}

	blocks := make([]table.Block, 0, len(regs))
	for _, reg := range regs {
		blocks = append(blocks, table.List(reg))
	}
	a.render(blocks...)
	return nil
}

type infoCommand struct {
	Args struct {
		Suite string `positional-arg-name:"SUITE" required:"yes"`
		Case  string `positional-arg-name:"CASE" required:"yes"`
	} `positional-args:"yes"`

	app *app
}

func (c *infoCommand) Execute(_ []string) error {
	a := c.app
	doc, _, err := a.readDocument(a.cfg.File)
	if err != nil {
		return err
	}
	reg, err := a.selectOne(doc)
	if err != nil {
		return err
	}
	e, err := reg.Lookup(registry.TestID{Suite: c.Args.Suite, Case: c.Args.Case})
	if err != nil {
		return err
	}
	a.render(table.Info(e))
	return nil
}

type verifyCommand struct {
	CheckAll bool `long:"check-all" description:"also compare recorded rpm module versions with the installed packages"`
	Strict   bool `long:"strict" description:"exit with status 1 when any result contradicts its expectation"`
	Args     struct {
		Results string `positional-arg-name:"RESULTS" required:"yes"`
	} `positional-args:"yes"`

	app *app
}

func (c *verifyCommand) Execute(_ []string) error {
	a := c.app
	reg, results, err := a.verifyInputs(c.Args.Results)
	if err != nil {
		return err
	}

	var blocks []table.Block
	if c.CheckAll {
		blocks = append(blocks, a.checkInstalled(reg))
	}
	rows := reconcile.Verify(reg, results)
	summary := reconcile.Summarize(rows)
	blocks = append(blocks, table.Verify(reg.Name, rows), table.SummaryOf(reg.Name, summary))
	a.render(blocks...)

	if c.Strict && summary.Mismatches() > 0 {
		a.log.Warn("results contradict the registry", "registry", reg.Name,
			"improved", summary.Improved, "regressed", summary.Regressed)
		return errMismatch
	}
	return nil
}

// verifyInputs loads the --file registry matching a results location and
// the results themselves.
func (a *app) verifyInputs(results string) (*registry.Registry, []junit.Result, error) {
	if source.IsStdio(a.cfg.File) && source.IsStdio(results) {
		return nil, nil, usagef("the registry and the results cannot both come from stdin")
	}
	doc, _, err := a.readDocument(a.cfg.File)
	if err != nil {
		return nil, nil, err
	}
	reg, err := a.selectForResults(doc, results)
	if err != nil {
		return nil, nil, err
	}
	live, err := a.loadResults(results)
	if err != nil {
		return nil, nil, err
	}
	a.log.Debug("verifying", "registry", reg.Name, "results", len(live))
	return reg, live, nil
}

func (a *app) checkInstalled(reg *registry.Registry) *table.Table {
	checks := reconcile.CheckInstalled(a.ctx, reg, a.querier(a.log))
	for _, check := range checks {
		if check.Err != nil {
			a.log.Warn("installed version unavailable", "module", check.Module, "error", check.Err)
		}
	}
	return table.Installed(reg.Name, checks)
}

type compareCommand struct {
	Args struct {
		First  string `positional-arg-name:"REGISTRY1" required:"yes"`
		Second string `positional-arg-name:"REGISTRY2" required:"yes"`
	} `positional-args:"yes"`

	app *app
}

func (c *compareCommand) Execute(_ []string) error {
	a := c.app
	if source.IsStdio(c.Args.First) && source.IsStdio(c.Args.Second) {
		return usagef("only one registry can come from stdin")
	}
	left, leftSrc, err := a.readDocument(c.Args.First)
	if err != nil {
		return err
	}
	right, rightSrc, err := a.readDocument(c.Args.Second)
	if err != nil {
		return err
	}

	cmp, err := reconcile.CompareDocuments(left, right, a.cfg.Registry)
	if err != nil {
		return err
	}
	for _, name := range cmp.UnmatchedLeft {
		a.log.Warn("registry has no counterpart", "registry", name, "missing_from", rightSrc.Name())
	}
	for _, name := range cmp.UnmatchedRight {
		a.log.Warn("registry has no counterpart", "registry", name, "missing_from", leftSrc.Name())
	}
	if len(cmp.Pairs) == 0 {
		a.log.Warn("no registries in common", "first", leftSrc.Name(), "second", rightSrc.Name())
		return nil
	}

	var blocks []table.Block
	for _, pair := range cmp.Pairs {
		blocks = append(blocks, table.Comparison(pair, leftSrc.Name(), rightSrc.Name())...)
		blocks = append(blocks, table.SummaryOf(pair.Left, reconcile.Summarize(pair.Rows)))
	}
	a.render(blocks...)
	return nil
}

type createCommand struct {
	Name           string `long:"name" value-name:"NAME" description:"registry name (default: the results file name)"`
	AutoModVersion string `long:"auto-modversion" value-name:"TYPE" choice:"rpm" description:"record the installed versions of the configured modules"`
	Args           struct {
		Results []string `positional-arg-name:"RESULTS" required:"1"`
	} `positional-args:"yes"`

	app *app
}

func (c *createCommand) Execute(_ []string) error {
	a := c.app
	if c.Name != "" && len(c.Args.Results) > 1 {
		return usagef("--name applies to a single results file, got %d", len(c.Args.Results))
	}

	doc := registry.NewDocument()
	for _, location := range c.Args.Results {
		live, err := a.loadResults(location)
		if err != nil {
			return err
		}
		name := c.Name
		if name == "" {
			name = resultsName(location)
		}
		if doc.Has(name) {
			return usagef("duplicate registry name %q", name)
		}
		reg := reconcile.Create(name, a.today(), live)
		if c.AutoModVersion != "" {
			for _, err := range reconcile.StampInstalled(a.ctx, reg, a.querier(a.log), a.cfg.AutoModules) {
				a.log.Warn("module version not recorded", "registry", name, "error", err)
			}
		}
		a.log.Info("registry created", "registry", name, "suites", len(reg.Suites()), "tests", reg.Len())
		doc.Add(reg)
	}
	return a.write(doc)
}

type mergeCommand struct {
	Args struct {
		First  string `positional-arg-name:"REGISTRY1" required:"yes"`
		Second string `positional-arg-name:"REGISTRY2" required:"yes"`
	} `positional-args:"yes"`

	app *app
}

func (c *mergeCommand) Execute(_ []string) error {
	a := c.app
	if source.IsStdio(c.Args.First) && source.IsStdio(c.Args.Second) {
		return usagef("only one registry can come from stdin")
	}
	dst, _, err := a.readDocument(c.Args.First)
	if err != nil {
		return err
	}
	src, _, err := a.readDocument(c.Args.Second)
	if err != nil {
		return err
	}

	report, err := reconcile.MergeDocuments(dst, src, a.cfg.Registry)
	if err != nil {
		return err
	}
	for _, name := range slices.Sorted(maps.Keys(report.Merged)) {
		a.log.Info("registry merged", "registry", name, "added", report.Merged[name])
	}
	for _, name := range report.Adopted {
		a.log.Info("registry adopted", "registry", name)
	}
	for _, name := range report.Untouched {
		a.log.Debug("registry left unchanged", "registry", name)
	}
	return a.write(dst)
}

type browseCommand struct {
	Args struct {
		Results string `positional-arg-name:"RESULTS" required:"yes"`
	} `positional-args:"yes"`

	app *app
}

func (c *browseCommand) Execute(_ []string) error {
	a := c.app
	if source.IsStdio(a.cfg.File) || source.IsStdio(c.Args.Results) {
		return usagef("browse reads keys from stdin; give the registry with --file and a results path")
	}
	reg, live, err := a.verifyInputs(c.Args.Results)
	if err != nil {
		return err
	}
	rows := reconcile.Verify(reg, live)
	return a.browse(a.ctx, fmt.Sprintf("%s vs %s", reg.Name, c.Args.Results), rows, reg)
}
