// Package dependency wires core fieldlens services using go.uber.org/dig.
package dependency

import (
	"fmt"

	"go.uber.org/dig"

	"github.com/fieldlens/fieldlens/internal/audit"
	"github.com/fieldlens/fieldlens/internal/bus"
	"github.com/fieldlens/fieldlens/internal/catalog"
	"github.com/fieldlens/fieldlens/internal/classify"
	"github.com/fieldlens/fieldlens/internal/config"
	"github.com/fieldlens/fieldlens/internal/convert"
	"github.com/fieldlens/fieldlens/internal/executor"
	"github.com/fieldlens/fieldlens/internal/flow"
	"github.com/fieldlens/fieldlens/internal/providers"
	"github.com/fieldlens/fieldlens/internal/schema"
)

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig
// directly.
type Container struct {
	provider   schema.LLMProvider
	cat        catalog.Provider
	classifier classify.Classifier
	normalizer *convert.Normalizer
	engine     *flow.Engine
	msgBus     bus.Bus
	auditStore *audit.Store
}

func (c *Container) Provider() schema.LLMProvider    { return c.provider }
func (c *Container) Catalog() catalog.Provider       { return c.cat }
func (c *Container) Classifier() classify.Classifier { return c.classifier }
func (c *Container) Normalizer() *convert.Normalizer { return c.normalizer }
func (c *Container) Engine() *flow.Engine            { return c.engine }
func (c *Container) MessageBus() bus.Bus             { return c.msgBus }
func (c *Container) AuditStore() *audit.Store        { return c.auditStore }

// LLMModel is a named string type so dig can distinguish it from plain
// strings when injecting the effective model name.
type LLMModel string

// New builds and wires all core services from cfg.
func New(cfg *config.Config) (*Container, error) {
	d := dig.New()

	ctors := []any{
		func() *config.Config { return cfg },
		newProvider,
		resolveLLMModel,
		newChatOptions,
		newCatalog,
		newClassifier,
		newNormalizer,
		newExecutor,
		newAuditStore,
		newMessageBus,
		newEngine,
	}
	for _, ctor := range ctors {
		if err := d.Provide(ctor); err != nil {
			return nil, err
		}
	}

	var result *Container
	err := d.Invoke(func(
		provider schema.LLMProvider,
		cat catalog.Provider,
		classifier classify.Classifier,
		normalizer *convert.Normalizer,
		engine *flow.Engine,
		msgBus bus.Bus,
		store *audit.Store,
	) {
		result = &Container{
			provider:   provider,
			cat:        cat,
			classifier: classifier,
			normalizer: normalizer,
			engine:     engine,
			msgBus:     msgBus,
			auditStore: store,
		}
	})
	return result, err
}

func newProvider(cfg *config.Config) (schema.LLMProvider, error) {
	model := cfg.Defaults.Model
	result := cfg.MatchProvider(model)

	if result.Provider == nil || result.Provider.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for model %q — edit %s", model, config.ConfigPath())
	}

	return providers.New(providers.Params{
		APIKey:       result.Provider.APIKey,
		APIBase:      result.Provider.APIBase,
		ExtraHeaders: result.Provider.ExtraHeaders,
		DefaultModel: model,
		ProviderName: result.Name,
	}), nil
}

func resolveLLMModel(cfg *config.Config, p schema.LLMProvider) LLMModel {
	m := cfg.Defaults.Model
	if m == "" {
		m = p.DefaultModel()
	}
	return LLMModel(m)
}

func newChatOptions(cfg *config.Config, m LLMModel) schema.ChatOptions {
	return schema.NewChatOptions(string(m), cfg.Defaults.MaxTokens, cfg.Defaults.Temperature)
}

// newCatalog builds the schema lookup chain: local toolkit files first, then
// the remote catalog when configured, with the builtin set as the backstop.
func newCatalog(cfg *config.Config) catalog.Provider {
	chain := catalog.Chain{catalog.NewFileCatalog(cfg.CatalogDir())}
	if cfg.Catalog.BaseURL != "" {
		chain = append(chain, catalog.NewHTTPCatalog(cfg.Catalog.BaseURL))
	}
	chain = append(chain, catalog.Builtin{})
	return chain
}

func newClassifier(cfg *config.Config, cat catalog.Provider, p schema.LLMProvider, opts schema.ChatOptions) classify.Classifier {
	if cfg.Classifier.Strategy == "schema" {
		return classify.NewSchemaClassifier(cat, classify.Policy{
			AutoValues:        cfg.Classifier.AutoValues,
			SecondaryDefaults: cfg.Classifier.SecondaryDefaults,
		})
	}
	return classify.NewLLMClassifier(cat, p, opts)
}

func newNormalizer(cfg *config.Config, p schema.LLMProvider, opts schema.ChatOptions) (*convert.Normalizer, error) {
	return convert.NewNormalizer(p, opts, cfg.Collect.ReferenceTimezone)
}

func newExecutor(cfg *config.Config, p schema.LLMProvider, opts schema.ChatOptions) executor.Executor {
	return executor.NewLLMExecutor(p, opts, cfg.Collect.ReferenceTimezone)
}

func newAuditStore(cfg *config.Config) *audit.Store {
	if !cfg.Audit.Enabled {
		return nil
	}
	return audit.NewStore(cfg.AuditDir(), cfg.Audit.RetentionDays)
}

func newMessageBus() bus.Bus {
	return bus.NewMessageBus(100)
}

func newEngine(cfg *config.Config, c classify.Classifier, n *convert.Normalizer, e executor.Executor, store *audit.Store) *flow.Engine {
	return flow.NewEngine(c, n, e, store, cfg.Intents)
}
