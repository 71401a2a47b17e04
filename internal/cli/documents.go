package cli

import (
	"fmt"
	"path"
	"strings"

	"github.com/dkoosis/bugreg/internal/detect"
	"github.com/dkoosis/bugreg/internal/source"
	"github.com/dkoosis/bugreg/pkg/codec"
	"github.com/dkoosis/bugreg/pkg/junit"
	"github.com/dkoosis/bugreg/pkg/registry"
	"github.com/dkoosis/bugreg/pkg/render"
	"github.com/dkoosis/bugreg/pkg/table"
)

func (a *app) open(location string) (source.Source, error) {
	return source.Open(a.ctx, location, source.Options{
		Stdin:  a.stdin,
		Stdout: a.stdout,
		Lock:   a.cfg.Lock,
		S3:     a.cfg.S3,
	})
}

// readDocument loads the registry document at location without locking.
func (a *app) readDocument(location string) (*registry.Document, source.Source, error) {
	src, err := a.open(location)
	if err != nil {
		return nil, nil, err
	}
	doc, err := a.loadDocument(src)
	return doc, src, err
}

func (a *app) loadDocument(src source.Source) (*registry.Document, error) {
	if _, ok := src.(*source.Stdio); ok {
		a.log.Info("reading registry from stdin")
	}
	data, err := src.Load(a.ctx)
	if err != nil {
		return nil, err
	}
	doc, err := codec.Decoder{Warn: a.log.With("source", src.Name()).Warn}.DecodeBytes(data)
	if err != nil {
		if detect.Sniff(data) == detect.JUnit {
			return nil, fmt.Errorf("%s holds JUnit results, not a registry: %w", src.Name(), err)
		}
		return nil, fmt.Errorf("%s: %w", src.Name(), err)
	}
	if doc.Len() == 0 {
		return nil, registry.ParseError("load registry", src.Name(), fmt.Errorf("document holds no registries"))
	}
	a.log.Debug("registry loaded", "source", src.Name(), "registries", doc.Len())
	return doc, nil
}

func (a *app) storeDocument(dst source.Source, doc *registry.Document) error {
	data, err := codec.EncodeBytes(doc)
	if err != nil {
		return err
	}
	if err := dst.Store(a.ctx, data); err != nil {
		return err
	}
	a.log.Debug("registry stored", "destination", dst.Name(), "registries", doc.Len())
	return nil
}

// mutate runs fn over the --file document and writes the result back,
// holding the lock when one was requested.
func (a *app) mutate(fn func(doc *registry.Document) error) error {
	src, err := a.open(a.cfg.File)
	if err != nil {
		return err
	}
	return source.WithLock(a.ctx, src, a.cfg.Lock, func() error {
		doc, err := a.loadDocument(src)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		return a.storeDocument(src, doc)
	})
}

// write stores doc at the --file location, stdout by default.
func (a *app) write(doc *registry.Document) error {
	dst, err := a.open(a.cfg.File)
	if err != nil {
		return err
	}
	return source.WithLock(a.ctx, dst, a.cfg.Lock, func() error {
		return a.storeDocument(dst, doc)
	})
}

func (a *app) loadResults(location string) ([]junit.Result, error) {
	src, err := a.open(location)
	if err != nil {
		return nil, err
	}
	data, err := src.Load(a.ctx)
	if err != nil {
		return nil, err
	}
	results, err := junit.ParseBytes(data)
	if err != nil {
		if detect.Sniff(data) == detect.Registry {
			return nil, fmt.Errorf("%s is a registry, not JUnit results: %w", src.Name(), err)
		}
		return nil, fmt.Errorf("%s: %w", src.Name(), err)
	}
	return results, nil
}

// selectOne picks the --regname registry, or the first one.
func (a *app) selectOne(doc *registry.Document) (*registry.Registry, error) {
	if a.cfg.Registry != "" {
		return doc.Find(a.cfg.Registry)
	}
	if doc.Len() > 1 {
		a.log.Warn("multiple registries found but no name given, using the first", "registries", doc.Len())
	}
	return doc.First()
}

// selectForResults picks the registry a results file is checked against:
// the --regname registry, else one named after the results file, else the
// only registry in doc.
func (a *app) selectForResults(doc *registry.Document, results string) (*registry.Registry, error) {
	if a.cfg.Registry != "" {
		return doc.Find(a.cfg.Registry)
	}
	name := resultsName(results)
	if reg, err := doc.Find(name); err == nil {
		return reg, nil
	}
	if doc.Len() == 1 {
		return doc.First()
	}
	return nil, registry.NotFoundError("select registry for results", name)
}

// resultsName is the registry name implied by a results location.
func resultsName(location string) string {
	return strings.TrimSuffix(path.Base(location), ".xml")
}

func (a *app) render(blocks ...table.Block) {
	cfg := render.Resolve(a.cfg.RenderConfig(), a.stdout)
	fmt.Fprint(a.stdout, render.New(cfg).Render(blocks))
}
