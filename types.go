package entities

import (
	"strings"
	"time"

	"github.com/goliatone/go-entities/pkg/activity"
)

// Well-known entity kinds. Kinds partition the config registry the same way
// the editor's REST namespaces do; consumers are free to register their own.
const (
	KindRoot     = "root"
	KindPostType = "postType"
	KindTaxonomy = "taxonomy"
)

// DefaultContext is the query context assumed when a Query carries none.
const DefaultContext = "default"

// defaultKeyField is the fallback primary-key field when a Config declares none.
const defaultKeyField = "id"

// Config describes one entity type: how its records are keyed, which edit
// fields are transient, which attributes carry raw/rendered pairs, and how a
// display title is derived. Configs are immutable after registration.
type Config struct {
	Kind   string
	Name   string
	Label  string
	Plural string

	// Key names the record field holding the primary key. Defaults to "id".
	Key string

	// BaseURL is the REST base the hosting application fetches records from.
	// The cache itself never issues requests; the value is carried for
	// resolvers and adapters.
	BaseURL string

	// TransientEdits lists edit fields excluded from dirtiness classification
	// and undo history.
	TransientEdits map[string]bool

	// RawAttributes lists attributes that carry {raw, rendered} pairs. The raw
	// view of a record replaces each with its raw sub-value.
	RawAttributes []string

	// TitleExpr is an expression evaluated against the edited record to derive
	// a display title. Empty means fall back to the "title"/"name" field.
	TitleExpr string
}

func (c Config) keyField() string {
	if c.Key != "" {
		return c.Key
	}
	return defaultKeyField
}

func (c Config) isTransient(field string) bool {
	return c.TransientEdits[field]
}

func (c Config) isRawAttribute(attr string) bool {
	for _, candidate := range c.RawAttributes {
		if candidate == attr {
			return true
		}
	}
	return false
}

// slug returns the stable "kind/name" bucket key for the config.
func (c Config) slug() string {
	return c.Kind + "/" + c.Name
}

// Query narrows an entity record read to one context and, optionally, a set of
// dotted-path fields. The zero Query means the default context, all fields.
type Query struct {
	// Context names the view mode partitioning cached records ("edit",
	// "default", "view", ...).
	Context string

	// Fields is a dotted-path allowlist. When non-empty the accessor returns a
	// fresh object containing exactly those paths, and completeness is not
	// required.
	Fields []string
}

func (q Query) context() string {
	if q.Context == "" {
		return DefaultContext
	}
	return q.Context
}

// cacheKey returns a stable identity for the query, used to key memo entries.
func (q Query) cacheKey() string {
	if len(q.Fields) == 0 {
		return q.context()
	}
	return q.context() + "?_fields=" + strings.Join(q.Fields, ",")
}

func firstQuery(queries []Query) Query {
	if len(queries) == 0 {
		return Query{}
	}
	return queries[0]
}

// RecordContext carries the inputs needed when evaluating an expression
// against an entity record snapshot.
type RecordContext struct {
	Record   Record
	Entity   Config
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx RecordContext) withDefaultNow() RecordContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RecordContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RecordContext) withDefaultMaps() RecordContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RecordContext) withDefaults() RecordContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

func (ctx RecordContext) entityLabel() string {
	if ctx.Entity.Kind == "" && ctx.Entity.Name == "" {
		return "unknown"
	}
	return ctx.Entity.slug()
}

func (ctx RecordContext) entityBinding() map[string]any {
	if ctx.Entity.Kind == "" && ctx.Entity.Name == "" {
		return nil
	}
	return map[string]any{
		"kind":  ctx.Entity.Kind,
		"name":  ctx.Entity.Name,
		"label": ctx.Entity.Label,
		"key":   ctx.Entity.keyField(),
	}
}

// Evaluator executes expressions against a record context.
type Evaluator interface {
	Evaluate(ctx RecordContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RecordContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// Option configures a Store at construction time.
type Option func(*storeConfig)

type storeConfig struct {
	evaluator        Evaluator
	programCache     ProgramCache
	functions        *FunctionRegistry
	logger           EvaluatorLogger
	warn             WarnLogger
	activityHooks    activity.Hooks
	previewCacheSize int
}

func applyOptions(opts []Option) storeConfig {
	cfg := storeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithEvaluator configures the expression evaluator used for title accessors
// and record predicates.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *storeConfig) {
		cfg.evaluator = e
	}
}

// WithProgramCache registers a compiled-program cache shared by evaluators.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *storeConfig) {
		cfg.programCache = cache
	}
}

// WithFunctionRegistry configures custom functions available to expressions.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *storeConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithActivityHooks attaches lifecycle hooks notified on edit/save/delete.
// Hooks are cloned and nil entries dropped to preserve immutability.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *storeConfig) {
		cfg.activityHooks = normalized
	}
}

// WithPreviewCacheSize bounds the embed-preview cache. Zero or negative keeps
// the default.
func WithPreviewCacheSize(size int) Option {
	return func(cfg *storeConfig) {
		cfg.previewCacheSize = size
	}
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.Hook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
