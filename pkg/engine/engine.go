// Package engine builds the pipeline.Adapter named in the config.
package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bastiangx/nlpserve/internal/utils"
	"github.com/bastiangx/nlpserve/pkg/config"
	"github.com/bastiangx/nlpserve/pkg/engine/lexicon"
	"github.com/bastiangx/nlpserve/pkg/engine/remote"
	"github.com/bastiangx/nlpserve/pkg/pipeline"
	"github.com/charmbracelet/log"
)

const (
	Lexicon = "lexicon"
	Remote  = "remote"
)

// Factory creates an adapter from a validated config.
type Factory func(cfg *config.Config) (pipeline.Adapter, error)

var factories = map[string]Factory{
	Lexicon: newLexicon,
	Remote:  newRemote,
}

// Names returns the registered engine names, sorted.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates the engine selected by cfg.Engine.Name.
func New(cfg *config.Config) (pipeline.Adapter, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Engine.Name))
	factory, ok := factories[name]
	if !ok {
		return nil, &config.ConfigError{
			Field:   "engine.name",
			Message: fmt.Sprintf("unknown engine %q, expected one of %s", cfg.Engine.Name, strings.Join(Names(), ", ")),
		}
	}
	adapter, err := factory(cfg)
	if err != nil {
		return nil, err
	}
	log.Debugf("Engine %s ready", name)
	return adapter, nil
}

func newLexicon(cfg *config.Config) (pipeline.Adapter, error) {
	e, err := lexicon.NewBuiltin(cfg.MaxWindow)
	if err != nil {
		return nil, err
	}
	log.Debugf("Builtin lexicon has %d words", e.Dictionary().Len())
	if cfg.Engine.DictPath == "" {
		return e, nil
	}
	path := utils.ResolveFile(cfg.Engine.DictPath)
	n, err := e.LoadDictionary(path)
	if err != nil {
		return nil, &config.ConfigError{Field: "engine.dict_path", Message: "cannot load " + path, Err: err}
	}
	log.Infof("Loaded %d words from %s (%d bytes)", n, path, utils.FileSize(path))
	return e, nil
}

func newRemote(cfg *config.Config) (pipeline.Adapter, error) {
	if cfg.Engine.Upstream == "" {
		return nil, &config.ConfigError{Field: "engine.upstream", Message: "required by the remote engine"}
	}
	timeout, err := cfg.Engine.TimeoutDuration()
	if err != nil {
		return nil, &config.ConfigError{Field: "engine.timeout", Message: "invalid duration", Err: err}
	}
	e, err := remote.New(cfg.Engine.Upstream, timeout)
	if err != nil {
		return nil, &config.ConfigError{Field: "engine.upstream", Message: "invalid upstream", Err: err}
	}
	log.Infof("Forwarding pipeline calls to %s", e.Upstream())
	return e, nil
}
