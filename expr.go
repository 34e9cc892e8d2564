package entities

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrNoEvaluator indicates no expression evaluator could be resolved.
var ErrNoEvaluator = errors.New("entities: evaluator not configured")

// EvaluateRecordExpr executes expr against the edited view of one record and
// returns the result. Evaluation attempts are reported to the configured
// evaluator logger.
func (s *Store) EvaluateRecordExpr(kind, name, id, expr string) (any, error) {
	if expr == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	cfg, err := s.configOrError(kind, name)
	if err != nil {
		return nil, err
	}
	record := s.GetEditedEntityRecord(kind, name, id)
	return s.evaluateForRecord(cfg, record, expr)
}

func (s *Store) evaluateForRecord(cfg Config, record Record, expr string) (any, error) {
	evaluator, err := s.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	ctx := RecordContext{Record: record, Entity: cfg}.withDefaults()
	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	duration := time.Since(start)
	evalErr = wrapEvaluationError(engine, expr, ctx.entityLabel(), evalErr)
	s.evaluatorLogger().LogEvaluation(EvaluatorLogEvent{
		Engine:   engine,
		Expr:     expr,
		Entity:   ctx.entityLabel(),
		Duration: duration,
		Err:      evalErr,
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return value, nil
}

func (s *Store) resolveEvaluator() (Evaluator, error) {
	s.evalMu.Lock()
	defer s.evalMu.Unlock()
	if s.cfg.evaluator != nil {
		return s.cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cache := s.cfg.programCache; cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cache))
	}
	if registry := s.cfg.functions; registry != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(registry))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	s.cfg.evaluator = defaultEvaluator
	return defaultEvaluator, nil
}

func (s *Store) evaluatorLogger() EvaluatorLogger {
	if s.cfg.logger != nil {
		return s.cfg.logger
	}
	return noopEvaluatorLogger{}
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*entities.exprEvaluator":
		return "expr"
	case "*entities.celEvaluator":
		return "cel"
	case "*entities.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}

// EntityRecordTitle derives a display title for the record: the config's
// title expression evaluated against the edited view when declared, falling
// back to the record's "title" then "name" fields, then the id itself.
func (s *Store) EntityRecordTitle(kind, name, id string) string {
	cfg, ok := s.registry.Lookup(kind, name)
	if !ok {
		return id
	}
	record := s.GetEditedEntityRecord(kind, name, id)
	if cfg.TitleExpr != "" && record != nil {
		if value, err := s.evaluateForRecord(cfg, record, cfg.TitleExpr); err == nil {
			if title := titleString(value); title != "" {
				return title
			}
		}
	}
	if title := titleString(record["title"]); title != "" {
		return title
	}
	if title := titleString(record["name"]); title != "" {
		return title
	}
	return id
}

// SelectWhere filters the complete records of (kind, name) by a predicate
// expression evaluated against each edited view. The predicate must yield a
// boolean; non-boolean results fail the whole call.
func (s *Store) SelectWhere(kind, name, expr string, queries ...Query) ([]Record, error) {
	if expr == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	cfg, err := s.configOrError(kind, name)
	if err != nil {
		return nil, err
	}
	evaluator, err := s.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	rule, err := evaluator.Compile(expr)
	if err != nil {
		return nil, wrapEvaluationError(evaluatorEngineName(evaluator), expr, cfg.slug(), err)
	}

	query := firstQuery(queries)
	items, complete := s.contextSlices(cfg, query.context())
	ids := make([]string, 0, len(items))
	for id := range items {
		if complete[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		record := s.GetEditedEntityRecord(cfg.Kind, cfg.Name, id, query)
		if record == nil {
			continue
		}
		result, err := rule.Evaluate(RecordContext{Record: record, Entity: cfg}.withDefaults())
		if err != nil {
			return nil, wrapEvaluationError(evaluatorEngineName(evaluator), expr, cfg.slug(), err)
		}
		matched, ok := result.(bool)
		if !ok {
			return nil, wrapEvaluationError(evaluatorEngineName(evaluator), expr, cfg.slug(),
				fmt.Errorf("predicate returned %T, want bool", result))
		}
		if matched {
			out = append(out, record)
		}
	}
	return out, nil
}

func titleString(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case map[string]any:
		if raw, ok := typed["raw"].(string); ok {
			return raw
		}
		if rendered, ok := typed["rendered"].(string); ok {
			return rendered
		}
		return ""
	default:
		return fmt.Sprint(typed)
	}
}
