// Package fakedriver is an in-memory browser.Driver used by engine
// and browser package tests — it records calls instead of driving a
// real browser.
package fakedriver

import (
	"context"
	"fmt"
	"sync"

	"github.com/webauto/engine/pkg/browser"
)

// Driver is a scripted, call-recording browser.Driver.
type Driver struct {
	mu            sync.Mutex
	ConnectCDPErr error
	LaunchErr     error
	PingErr       error
	Calls         []string

	// WaitForErr, when set, is returned by every page's WaitFor call
	// whose selector is not a key in WaitForOK.
	WaitForErr error
	// WaitForOK lists selectors that succeed even when WaitForErr is
	// set, letting a test script "the element that is actually there".
	WaitForOK map[string]bool

	// EvaluateResult and EvaluateErr script the page's Evaluate call,
	// used to hand back a fixed interactive-elements list.
	EvaluateResult interface{}
	EvaluateErr    error

	// ScreenshotErr, when set, is returned by every page's Screenshot call.
	ScreenshotErr error

	// ExistingPageURL, when non-empty, makes DefaultContext report one
	// pre-existing page at that URL — scripting the attach-mode
	// page-reuse path. Left empty, DefaultContext reports no existing
	// pages, so the manager creates one.
	ExistingPageURL string
}

func New() *Driver { return &Driver{} }

func (d *Driver) record(call string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls = append(d.Calls, call)
}

func (d *Driver) ConnectCDP(ctx context.Context, debugURL string) (browser.Handle, error) {
	d.record("ConnectCDP:" + debugURL)
	if d.ConnectCDPErr != nil {
		return nil, d.ConnectCDPErr
	}
	return newHandle(d, true), nil
}

func (d *Driver) Launch(ctx context.Context, headless bool) (browser.Handle, error) {
	d.record(fmt.Sprintf("Launch:headless=%v", headless))
	if d.LaunchErr != nil {
		return nil, d.LaunchErr
	}
	return newHandle(d, false), nil
}

func (d *Driver) Ping(ctx context.Context) error {
	d.record("Ping")
	return d.PingErr
}

type handle struct {
	driver *Driver
	isCDP  bool
	closed chan struct{}
}

func newHandle(d *Driver, isCDP bool) *handle {
	return &handle{driver: d, isCDP: isCDP, closed: make(chan struct{})}
}

func (h *handle) NewContext(ctx context.Context, storageState []byte) (browser.PageContext, error) {
	h.driver.record("NewContext")
	return &pageContext{driver: h.driver}, nil
}

func (h *handle) DefaultContext(ctx context.Context) (browser.PageContext, error) {
	h.driver.record("DefaultContext")
	pc := &pageContext{driver: h.driver}
	if h.driver.ExistingPageURL != "" {
		pc.existing = []*page{{driver: h.driver, url: h.driver.ExistingPageURL}}
	}
	return pc, nil
}

func (h *handle) Closed() <-chan struct{} { return h.closed }

func (h *handle) Close(ctx context.Context) error {
	h.driver.record("Handle.Close")
	select {
	case <-h.closed:
	default:
		close(h.closed)
	}
	return nil
}

type pageContext struct {
	driver   *Driver
	existing []*page
}

func (p *pageContext) NewPage(ctx context.Context) (browser.Page, error) {
	p.driver.record("NewPage")
	return &page{driver: p.driver, url: "about:blank"}, nil
}

func (p *pageContext) Pages(ctx context.Context) ([]browser.Page, error) {
	p.driver.record("Pages")
	pages := make([]browser.Page, len(p.existing))
	for i, pg := range p.existing {
		pages[i] = pg
	}
	return pages, nil
}

func (p *pageContext) StorageState(ctx context.Context) ([]byte, error) {
	p.driver.record("StorageState")
	return []byte(`{}`), nil
}

func (p *pageContext) Close(ctx context.Context) error {
	p.driver.record("PageContext.Close")
	return nil
}

type page struct {
	driver *Driver
	url    string
}

func (p *page) Navigate(ctx context.Context, url string) error {
	p.driver.record("Navigate:" + url)
	p.url = url
	return nil
}

func (p *page) URL(ctx context.Context) (string, error) {
	p.driver.record("URL")
	return p.url, nil
}

func (p *page) Click(ctx context.Context, selector string) error {
	p.driver.record("Click:" + selector)
	return nil
}

func (p *page) Type(ctx context.Context, selector, text string) error {
	p.driver.record("Type:" + selector)
	return nil
}

func (p *page) WaitFor(ctx context.Context, selector string) error {
	p.driver.record("WaitFor:" + selector)
	if p.driver.WaitForErr != nil && !p.driver.WaitForOK[selector] {
		return p.driver.WaitForErr
	}
	return nil
}

func (p *page) TextContent(ctx context.Context, selector string) (string, error) {
	p.driver.record("TextContent:" + selector)
	return "", nil
}

func (p *page) Screenshot(ctx context.Context) ([]byte, error) {
	p.driver.record("Screenshot")
	if p.driver.ScreenshotErr != nil {
		return nil, p.driver.ScreenshotErr
	}
	return []byte{0xFF, 0xD8, 0xFF}, nil
}

func (p *page) Evaluate(ctx context.Context, script string) (interface{}, error) {
	p.driver.record("Evaluate")
	if p.driver.EvaluateErr != nil {
		return nil, p.driver.EvaluateErr
	}
	return p.driver.EvaluateResult, nil
}

func (p *page) Close(ctx context.Context) error {
	p.driver.record("Page.Close")
	return nil
}
