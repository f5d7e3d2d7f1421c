// Package memory is a DriverPort without a browser. Page objects are unit
// tested against it by registering elements under the locators they use.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"time"

	"pagekit/internal/application/port/output"
	"pagekit/internal/domain/entity"
	"pagekit/internal/infrastructure/browser/poll"
)

var _ output.DriverPort = (*Driver)(nil)

type Driver struct {
	mu       sync.Mutex
	url      string
	title    string
	source   string
	elements map[entity.Locator][]*Element
	pages    map[string]func(d *Driver)
	scripts  []string
	closed   bool
	poll     poll.Config

	// ScriptFunc answers page-level ExecuteScript calls when set.
	ScriptFunc func(script string, args ...any) (any, error)
}

func NewDriver() *Driver {
	return &Driver{
		url:      "about:blank",
		elements: make(map[entity.Locator][]*Element),
		pages:    make(map[string]func(d *Driver)),
		poll:     poll.Config{Interval: 5 * time.Millisecond, MaxInterval: 20 * time.Millisecond},
	}
}

// Route registers a setup func applied when Navigate hits url.
func (d *Driver) Route(url string, setup func(d *Driver)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pages[url] = setup
}

func (d *Driver) SetPage(url, title, source string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.url, d.title, d.source = url, title, source
}

func (d *Driver) Add(loc entity.Locator, els ...*Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements[loc] = append(d.elements[loc], els...)
}

// Remove detaches every element under loc; held handles become stale.
func (d *Driver) Remove(loc entity.Locator) {
	d.mu.Lock()
	els := d.elements[loc]
	delete(d.elements, loc)
	d.mu.Unlock()

	for _, el := range els {
		el.SetStale(true)
	}
}

func (d *Driver) Scripts() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.scripts))
	copy(out, d.scripts)
	return out
}

func (d *Driver) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return entity.ErrDriverClosed
	}
	setup, ok := d.pages[url]
	d.url = url
	d.mu.Unlock()

	if ok {
		setup(d)
	}
	return nil
}

func (d *Driver) FindElement(ctx context.Context, loc entity.Locator) (output.ElementPort, error) {
	els, err := d.FindElements(ctx, loc)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrNoSuchElement, loc)
	}
	return els[0], nil
}

func (d *Driver) FindElements(ctx context.Context, loc entity.Locator) ([]output.ElementPort, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, entity.ErrDriverClosed
	}

	out := make([]output.ElementPort, 0, len(d.elements[loc]))
	for _, el := range d.elements[loc] {
		out = append(out, el)
	}
	return out, nil
}

func (d *Driver) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	d.mu.Lock()
	d.scripts = append(d.scripts, script)
	fn := d.ScriptFunc
	d.mu.Unlock()

	if fn == nil {
		return nil, nil
	}
	return fn(script, args...)
}

func (d *Driver) WaitUntil(ctx context.Context, timeout time.Duration, cond output.Condition) error {
	return poll.Until(ctx, d.poll, timeout, func(ctx context.Context) (bool, error) {
		return cond(ctx, d)
	})
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.title, nil
}

func (d *Driver) CurrentURL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url
}

func (d *Driver) PageSource(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.source, nil
}

// Screenshot renders a flat placeholder image.
func (d *Driver) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	const w, h = 64, 48
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff})
		}
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, err
	}
	return &entity.Screenshot{Data: buf.Bytes(), Format: "png", Width: w, Height: h}, nil
}

func (d *Driver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
}
