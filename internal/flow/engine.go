// Package flow orchestrates one user request end to end: intent detection,
// contract classification, the collection dialogue, the merge, and the final
// hand-off to the executor.
package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fieldlens/fieldlens/internal/audit"
	"github.com/fieldlens/fieldlens/internal/classify"
	"github.com/fieldlens/fieldlens/internal/config"
	"github.com/fieldlens/fieldlens/internal/convert"
	"github.com/fieldlens/fieldlens/internal/dialogue"
	"github.com/fieldlens/fieldlens/internal/executor"
	"github.com/fieldlens/fieldlens/internal/merge"
	"github.com/fieldlens/fieldlens/internal/schema"
)

// Result is the outcome of one handled message.
type Result struct {
	ToolSlug    string
	Contract    *schema.FieldContract
	Values      schema.CollectedValues
	State       dialogue.State
	Instruction string
	Report      string
	// FellBack is set when the message went to the executor unclassified,
	// either because no intent matched or classification failed.
	FellBack bool
}

// Engine wires the pipeline together. All collaborators are required except
// the audit store, which may be nil.
type Engine struct {
	classifier classify.Classifier
	normalizer *convert.Normalizer
	executor   executor.Executor
	auditStore *audit.Store
	intents    []config.IntentRule
}

// NewEngine creates an Engine. Pass a nil store to disable auditing.
func NewEngine(c classify.Classifier, n *convert.Normalizer, e executor.Executor, store *audit.Store, intents []config.IntentRule) *Engine {
	return &Engine{
		classifier: c,
		normalizer: n,
		executor:   e,
		auditStore: store,
		intents:    intents,
	}
}

// HandleMessage runs one user message through the pipeline. Messages that
// match no intent rule, or whose classification fails, are relayed to the
// executor verbatim so the user still gets an answer.
func (e *Engine) HandleMessage(ctx context.Context, p dialogue.Prompter, message string) (*Result, error) {
	if slug, ok := ParseSimplify(message); ok {
		return e.simplify(ctx, p, slug)
	}
	slug := DetectTool(e.intents, message)
	if slug == "" {
		return e.fallback(ctx, message)
	}
	return e.runTool(ctx, p, message, slug)
}

// simplify classifies one tool against a stated objective and shows the
// resulting contract as JSON. Nothing is collected or executed.
func (e *Engine) simplify(ctx context.Context, p dialogue.Prompter, slug string) (*Result, error) {
	objective, err := p.Ask(ctx, fmt.Sprintf("What do you want %s to do? (Enter for a generic breakdown)", slug))
	if err != nil {
		return &Result{ToolSlug: slug, State: dialogue.StateCancelled}, nil
	}
	objective = strings.TrimSpace(objective)
	if objective == "" {
		objective = "Use " + slug
	}

	contract, err := e.classifier.Classify(ctx, objective, slug)
	if err != nil {
		return nil, fmt.Errorf("simplify %s: %w", slug, err)
	}

	raw, err := json.MarshalIndent(contract, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render contract: %w", err)
	}
	e.say(ctx, p, fmt.Sprintf("Field breakdown for %s:\n%s", slug, raw))

	return &Result{
		ToolSlug: slug,
		Contract: contract,
		State:    dialogue.StateDone,
	}, nil
}

func (e *Engine) runTool(ctx context.Context, p dialogue.Prompter, message, slug string) (*Result, error) {
	contract, err := e.classifier.Classify(ctx, message, slug)
	if err != nil {
		slog.Warn("classification failed, relaying message as-is", "tool", slug, "err", err)
		return e.fallback(ctx, message)
	}

	e.say(ctx, p, contractSummary(contract))

	collector := dialogue.NewCollector(contract, p, e.normalizer)
	values, state := collector.Collect(ctx)

	res := &Result{
		ToolSlug: contract.ToolSlug,
		Contract: contract,
		Values:   values,
		State:    state,
	}
	if state == dialogue.StateCancelled {
		e.say(ctx, p, "Okay, stopping here. Nothing was executed.")
		return res, nil
	}

	params := merge.Merge(contract, values)
	res.Instruction = merge.Instruction(contract.ToolSlug, params)
	e.say(ctx, p, "All set. Executing with:\n"+paramSummary(params))

	if e.auditStore != nil {
		if _, err := e.auditStore.Write(contract.ToolSlug, message, contract); err != nil {
			slog.Warn("failed to write audit record", "tool", contract.ToolSlug, "err", err)
		}
	}

	report, err := e.executor.Execute(ctx, res.Instruction)
	if err != nil {
		return res, fmt.Errorf("run %s: %w", contract.ToolSlug, err)
	}
	res.Report = report
	return res, nil
}

func (e *Engine) fallback(ctx context.Context, message string) (*Result, error) {
	report, err := e.executor.Execute(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("relay message: %w", err)
	}
	return &Result{Report: report, FellBack: true}, nil
}

func (e *Engine) say(ctx context.Context, p dialogue.Prompter, text string) {
	if err := p.Say(ctx, text); err != nil {
		slog.Debug("prompter say failed", "err", err)
	}
}

// contractSummary tells the user how much work the classification saved.
func contractSummary(c *schema.FieldContract) string {
	asks := len(c.DynamicFields())
	inferred := len(c.StaticFields())
	handled := len(c.AutoFields) + len(c.SecondaryFields)
	return fmt.Sprintf("%s: %d field(s) handled for you, %d inferred, %d to fill in.",
		c.ToolSlug, handled, inferred, asks)
}

func paramSummary(params *schema.ExecutionParams) string {
	var sb strings.Builder
	for _, k := range params.Keys() {
		v, _ := params.Get(k)
		if v == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s: %s\n", k, v))
	}
	return strings.TrimRight(sb.String(), "\n")
}
