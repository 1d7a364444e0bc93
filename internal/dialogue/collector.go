package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fieldlens/fieldlens/internal/convert"
	"github.com/fieldlens/fieldlens/internal/schema"
)

// State is the collector's position in the dialogue.
type State int

const (
	StateIdle State = iota
	StateConfirmingStatic
	StateAwaitingField
	StateDone
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfirmingStatic:
		return "confirming_static"
	case StateAwaitingField:
		return "awaiting_field"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Collector walks one contract's primary fields in order, asking for each
// dynamic field and confirming inferred static values. One instance serves
// exactly one contract and is not safe for concurrent use; the dialogue is
// strictly sequential.
//
// Each field is committed atomically: validate, normalize, store. A
// cancellation between fields returns everything stored so far as a valid
// partial result.
type Collector struct {
	contract   *schema.FieldContract
	prompter   Prompter
	normalizer *convert.Normalizer

	state    State
	fieldIdx int // index into the dynamic fields while StateAwaitingField
	values   schema.CollectedValues
}

// NewCollector creates a Collector for one contract.
func NewCollector(contract *schema.FieldContract, p Prompter, n *convert.Normalizer) *Collector {
	return &Collector{
		contract:   contract,
		prompter:   p,
		normalizer: n,
		state:      StateIdle,
		values:     make(schema.CollectedValues),
	}
}

// State returns the collector's current state.
func (c *Collector) State() State { return c.state }

// Values returns a snapshot of everything collected so far.
func (c *Collector) Values() schema.CollectedValues { return c.values.Clone() }

// Collect runs the dialogue to a terminal state and returns the collected
// values. Both Done and Cancelled are valid outcomes; a cancelled dialogue
// yields whatever was committed before the interrupt.
func (c *Collector) Collect(ctx context.Context) (schema.CollectedValues, State) {
	static := c.contract.StaticFields()
	dynamic := c.contract.DynamicFields()

	if len(static) == 0 && len(dynamic) == 0 {
		c.say(ctx, "No input needed — everything is auto-filled!")
		c.state = StateDone
		return c.values, c.state
	}

	if len(static) > 0 {
		if !c.confirmStatic(ctx, static) {
			c.state = StateCancelled
			return c.values, c.state
		}
	}

	if len(dynamic) > 0 {
		if len(static) > 0 {
			c.say(ctx, fmt.Sprintf("Now I just need %s from you.", countPhrase(len(dynamic), true)))
		} else {
			c.say(ctx, fmt.Sprintf("I need %s from you.", countPhrase(len(dynamic), false)))
		}

		for i, field := range dynamic {
			c.state = StateAwaitingField
			c.fieldIdx = i
			if !c.collectField(ctx, field, i+1, len(dynamic)) {
				c.state = StateCancelled
				return c.values, c.state
			}
		}
	}

	c.state = StateDone
	return c.values, c.state
}

// confirmStatic presents all inferred values as a batch and offers one
// confirm-or-edit turn. Returns false on interrupt.
func (c *Collector) confirmStatic(ctx context.Context, static []schema.PrimaryField) bool {
	c.state = StateConfirmingStatic

	var sb strings.Builder
	sb.WriteString("I inferred these from your request:\n")
	for _, f := range static {
		c.values[f.FieldKey] = f.GeneratedValue
		sb.WriteString(fmt.Sprintf("  • %s: %s", f.Label, f.GeneratedValue))
		if f.GeneratedDescription != "" {
			sb.WriteString(" (" + f.GeneratedDescription + ")")
		}
		sb.WriteString("\n")
	}
	c.say(ctx, strings.TrimRight(sb.String(), "\n"))

	answer, err := c.prompter.Ask(ctx, "Look good? Press Enter to confirm, or type 'edit' to change")
	if err != nil {
		return false
	}

	if strings.EqualFold(strings.TrimSpace(answer), "edit") {
		for _, f := range static {
			current := c.values[f.FieldKey]
			edited, err := c.prompter.Ask(ctx, fmt.Sprintf("%s [%s]", f.Label, current))
			if err != nil {
				return false
			}
			// Blank keeps the current value.
			if v := strings.TrimSpace(edited); v != "" {
				c.values[f.FieldKey] = v
			}
		}
	}
	return true
}

// collectField asks for one dynamic field until an answer is accepted,
// normalized, and stored. Returns false on interrupt.
func (c *Collector) collectField(ctx context.Context, field schema.PrimaryField, n, total int) bool {
	desc := field.Description
	if desc == "" {
		desc = fmt.Sprintf("What's the %s?", field.Label)
	}
	prompt := fmt.Sprintf("(%d/%d) %s", n, total, desc)

	for {
		raw, err := c.prompter.Ask(ctx, prompt)
		if err != nil {
			return false
		}

		raw = strings.TrimSpace(raw)
		if raw == "" {
			c.say(ctx, fmt.Sprintf("I need this to proceed. Please enter the %s.", field.Label))
			continue
		}

		if err := convert.Validate(field.FieldKey, raw); err != nil {
			c.say(ctx, err.Error())
			continue
		}

		value, err := c.normalizer.Normalize(ctx, field.FieldKey, desc, raw)
		if err != nil {
			// Oracle outage: keep the raw answer rather than losing the turn.
			slog.Warn("normalization failed, keeping raw value", "field", field.FieldKey, "err", err)
			value = raw
		}
		if value != raw {
			c.say(ctx, fmt.Sprintf("Got it! I'll use: %s", value))
		}

		c.values[field.FieldKey] = value
		return true
	}
}

func (c *Collector) say(ctx context.Context, text string) {
	if err := c.prompter.Say(ctx, text); err != nil {
		slog.Debug("prompter say failed", "err", err)
	}
}

// countPhrase says "more" only after a statics batch already covered part of
// the contract.
func countPhrase(n int, more bool) string {
	unit := "things"
	if n == 1 {
		unit = "thing"
	}
	if more {
		return fmt.Sprintf("%d more %s", n, unit)
	}
	return fmt.Sprintf("%d %s", n, unit)
}
