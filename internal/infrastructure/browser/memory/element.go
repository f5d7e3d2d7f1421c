package memory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"pagekit/internal/application/port/output"
	"pagekit/internal/domain/entity"
)

var _ output.ElementPort = (*Element)(nil)

type Option struct {
	Text     string
	Value    string
	Selected bool
}

type Element struct {
	mu       sync.Mutex
	tag      string
	text     string
	attrs    map[string]string
	visible  bool
	enabled  bool
	stale    bool
	multiple bool
	options  []Option
	clicks   int
	scripts  []string

	// OnClick runs after a script click.
	OnClick func()
}

func NewElement(tag, text string) *Element {
	return &Element{
		tag:     tag,
		text:    text,
		attrs:   make(map[string]string),
		visible: true,
		enabled: true,
	}
}

// NewSelect builds a single-choice <select> with the given options.
func NewSelect(options ...Option) *Element {
	el := NewElement("select", "")
	el.options = options
	return el
}

func (e *Element) SetVisible(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.visible = v
}

func (e *Element) SetEnabled(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = v
}

func (e *Element) SetStale(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stale = v
}

func (e *Element) SetMultiple(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.multiple = v
}

func (e *Element) SetAttribute(name, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attrs[name] = value
}

func (e *Element) Clicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

func (e *Element) Scripts() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.scripts))
	copy(out, e.scripts)
	return out
}

// SelectedValues returns the values of selected options in document order.
func (e *Element) SelectedValues() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []string
	for _, o := range e.options {
		if o.Selected {
			out = append(out, o.Value)
		}
	}
	return out
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stale {
		return false, entity.ErrStaleElement
	}
	return e.visible, nil
}

func (e *Element) Enabled(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stale {
		return false, entity.ErrStaleElement
	}
	return e.enabled, nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stale {
		return "", entity.ErrStaleElement
	}
	return e.text, nil
}

func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stale {
		return "", false, entity.ErrStaleElement
	}
	v, ok := e.attrs[name]
	return v, ok, nil
}

// ExecuteScript records script; scripts calling click() count as a click.
func (e *Element) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	e.mu.Lock()
	if e.stale {
		e.mu.Unlock()
		return nil, entity.ErrStaleElement
	}
	e.scripts = append(e.scripts, script)
	clicked := strings.Contains(script, ".click()")
	if clicked {
		e.clicks++
	}
	onClick := e.OnClick
	e.mu.Unlock()

	if clicked && onClick != nil {
		onClick()
	}
	return nil, nil
}

func (e *Element) Select(ctx context.Context, by entity.SelectBy, key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stale {
		return entity.ErrStaleElement
	}
	if e.tag != "select" {
		return fmt.Errorf("%w: <%s>", entity.ErrNotSelect, e.tag)
	}

	var matches []int
	switch by {
	case entity.SelectByText:
		want := normalizeSpace(key)
		for i, o := range e.options {
			if normalizeSpace(o.Text) == want {
				matches = append(matches, i)
			}
		}
	case entity.SelectByValue:
		for i, o := range e.options {
			if o.Value == key {
				matches = append(matches, i)
			}
		}
	case entity.SelectByIndex:
		idx, err := strconv.Atoi(key)
		if err == nil && idx >= 0 && idx < len(e.options) {
			matches = append(matches, idx)
		}
	default:
		return fmt.Errorf("unsupported selection strategy %q", by)
	}

	if len(matches) == 0 {
		return fmt.Errorf("%w: %s %q", entity.ErrNoSuchOption, by, key)
	}

	if !e.multiple {
		for i := range e.options {
			e.options[i].Selected = false
		}
		matches = matches[:1]
	}
	for _, i := range matches {
		e.options[i].Selected = true
	}
	return nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
