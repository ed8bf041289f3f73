// Package prompt implements the Prompt Binder: substitution of
// <<VAR>>-style placeholders in an agent's template text against the
// current session.State, producing the message list sent to an LM
// Gateway.
//
// A custom lexer is used instead of text/template because the binder
// only ever needs flat variable substitution with strict "every
// placeholder must resolve" semantics; text/template's control-flow
// surface (conditionals, ranges, pipelines) is not part of the
// AgentDefinition.prompt contract and would let an agent author write
// templates whose behavior this package could not validate ahead of a
// run.
package prompt

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/coragent/coor-agent/coorerr"
	"github.com/coragent/coor-agent/llm"
	"github.com/coragent/coor-agent/session"
)

// placeholderRegex matches <<VAR_NAME>> placeholders.
var placeholderRegex = regexp.MustCompile(`<<([A-Za-z_][A-Za-z0-9_]*)>>`)

// Binder resolves <<VAR>> placeholders in a template against a
// session.State.
type Binder struct{}

// NewBinder creates a Binder.
func NewBinder() *Binder { return &Binder{} }

// Bind resolves every placeholder in template and returns the request's
// message list: a system message carrying the bound template followed by
// the run's current messages. now is injected for CURRENT_TIME so the
// caller controls the clock rather than the binder reaching for
// time.Now() directly, keeping Bind deterministic for tests.
func (b *Binder) Bind(template string, state session.State, now time.Time) ([]llm.Message, error) {
	system, err := b.render(template, state, now)
	if err != nil {
		return nil, err
	}

	msgs := make([]llm.Message, 0, len(state.Messages)+1)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: system})
	for _, m := range state.Messages {
		msgs = append(msgs, llm.Message{Role: m.Role, Name: m.Name, Content: m.Content})
	}
	return msgs, nil
}

// render substitutes every <<VAR>> in template, failing with a
// coorerr ValidationError if any placeholder names a variable this binder does
// not know how to resolve.
func (b *Binder) render(template string, state session.State, now time.Time) (string, error) {
	values := valuesOf(state, now)

	var unresolved []string
	out := placeholderRegex.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderRegex.FindStringSubmatch(match)[1]
		v, ok := values[name]
		if !ok {
			unresolved = append(unresolved, name)
			return match
		}
		return v
	})

	if len(unresolved) > 0 {
		return "", coorerr.New(coorerr.ValidationError, "PromptBinder", "render",
			fmt.Sprintf("unknown placeholder(s): %s", strings.Join(unresolved, ", ")), nil)
	}
	return out, nil
}

// valuesOf builds the substitution table: CURRENT_TIME plus every
// exported field of session.State, reflected by name so new State
// fields automatically become bindable without a binder change.
func valuesOf(state session.State, now time.Time) map[string]string {
	values := map[string]string{
		"CURRENT_TIME": now.Format(time.RFC3339),
	}

	v := reflect.ValueOf(state)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		values[fieldName(field.Name)] = stringify(v.Field(i))
	}
	return values
}

// fieldName converts a Go exported field name (TeamMembers) to the
// upper-snake placeholder name agents write in templates (TEAM_MEMBERS).
func fieldName(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

func stringify(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return fmt.Sprintf("%t", v.Bool())
	case reflect.Slice:
		parts := make([]string, v.Len())
		for i := 0; i < v.Len(); i++ {
			parts[i] = fmt.Sprintf("%v", v.Index(i).Interface())
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
