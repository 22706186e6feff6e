package locator

import (
	"context"
	"fmt"
	"strings"

	"github.com/webauto/engine/pkg/browser"
	"github.com/webauto/engine/pkg/llm"
	"github.com/webauto/engine/pkg/screenshot"
	"github.com/webauto/engine/pkg/selectorcache"
)

// Element is one interactive, visible element on the page, numbered
// for the AI's "set-of-mark" prompt. Mark numbers are assigned fresh
// for each AI call and are never cached across calls — a page's DOM
// can change between actions, so a stale mark would point at the
// wrong element.
type Element struct {
	Mark        int
	Tag         string
	ID          string
	Class       string
	Type        string
	Text        string
	Placeholder string
	AriaLabel   string
	Name        string
	Href        string

	// StableSelector is the CSS selector interactiveElementsScript
	// precomputed for this element (preference order: id, a
	// parent-anchored nth-child path, data-testid, name, href,
	// tag+class) — what locateWithAI falls back to validating when
	// the AI's own returned selector doesn't match the live page.
	StableSelector string
}

// Candidate is a resolved CSS selector plus how it was found.
type Candidate struct {
	Selector   string
	Source     Source
	Confidence float64
	Reasoning  string
}

// Source identifies which strategy produced a Candidate.
type Source string

const (
	SourceDirect        Source = "direct"        // the node's own CSS selector worked
	SourceAI            Source = "ai"            // AI set-of-mark fallback
	SourceFallbackChain Source = "fallback_chain" // by_role/by_text/etc
)

// aiResponse mirrors original_source's parse_ai_response JSON shape.
type aiResponse struct {
	BestMatchIndex int     `json:"best_match_index"`
	Selector       string  `json:"selector"`
	Confidence     float64 `json:"confidence"`
	Reasoning      string  `json:"reasoning"`
	Alternatives   []int   `json:"alternatives"`
}

// FallbackStrategy is one deterministic, scoreless fallback attempt in
// strict preference order.
type FallbackStrategy struct {
	Name  string
	Query string // opaque to this package; interpreted by the driver's Evaluate
}

// DefaultFallbackChain is the strict preference order used when both
// the direct selector and the AI locator fail to find anything.
func DefaultFallbackChain(target string) []FallbackStrategy {
	return []FallbackStrategy{
		{Name: "by_role", Query: target},
		{Name: "by_text", Query: target},
		{Name: "by_placeholder", Query: target},
		{Name: "by_label", Query: target},
		{Name: "by_test_id", Query: target},
	}
}

// Locator resolves an element description to a concrete selector.
type Locator struct {
	llmClient           llm.Client
	cache               selectorcache.Cache // nil disables caching
	confidenceThreshold float64
	maxElements         int
}

// New builds a Locator. confidenceThreshold is the minimum AI
// confidence accepted before falling through to the deterministic
// chain (spec default: 0.7). cache may be nil to disable the
// cross-call selector cache entirely.
func New(client llm.Client, cache selectorcache.Cache, confidenceThreshold float64) *Locator {
	if confidenceThreshold <= 0 {
		confidenceThreshold = 0.7
	}
	return &Locator{llmClient: client, cache: cache, confidenceThreshold: confidenceThreshold, maxElements: 50}
}

// Locate resolves target against page, trying in order: a cached
// selector from a prior call against the same node, the caller's own
// CSS selector (if non-empty), the AI locator, and finally the
// deterministic fallback chain. It returns the first Candidate whose
// selector the page actually matches. cacheKey may be the zero Key to
// skip caching for this call.
func (l *Locator) Locate(ctx context.Context, page browser.Page, cssSelector, target, url string, cacheKey selectorcache.Key) (*Candidate, error) {
	useCache := l.cache != nil && cacheKey != (selectorcache.Key{})

	if useCache {
		if cached, ok := l.cache.Get(ctx, cacheKey); ok {
			if err := page.WaitFor(ctx, cached); err == nil {
				return &Candidate{Selector: cached, Source: SourceDirect, Confidence: 1.0, Reasoning: "cache hit"}, nil
			}
			// Stale cache entry — the page changed since it was
			// recorded. Fall through to a fresh resolution.
		}
	}

	if cssSelector != "" {
		if err := page.WaitFor(ctx, cssSelector); err == nil {
			return l.resolved(ctx, useCache, cacheKey, &Candidate{Selector: cssSelector, Source: SourceDirect, Confidence: 1.0}), nil
		}
	}

	if l.llmClient != nil && target != "" {
		if cand, err := l.locateWithAI(ctx, page, target, url); err == nil {
			return l.resolved(ctx, useCache, cacheKey, cand), nil
		}
		// AI failure or low confidence falls through to the
		// deterministic chain rather than failing the node outright.
	}

	for _, strategy := range DefaultFallbackChain(target) {
		selector := strategy.asSelector()
		if err := page.WaitFor(ctx, selector); err == nil {
			cand := &Candidate{Selector: selector, Source: SourceFallbackChain, Confidence: 1.0, Reasoning: strategy.Name}
			return l.resolved(ctx, useCache, cacheKey, cand), nil
		}
	}

	return nil, ErrNotFound
}

func (l *Locator) resolved(ctx context.Context, useCache bool, key selectorcache.Key, cand *Candidate) *Candidate {
	if useCache {
		_ = l.cache.Set(ctx, key, cand.Selector)
	}
	return cand
}

func (s FallbackStrategy) asSelector() string {
	switch s.Name {
	case "by_text":
		return fmt.Sprintf(`text=%q`, s.Query)
	case "by_placeholder":
		return fmt.Sprintf(`[placeholder=%q]`, s.Query)
	case "by_label":
		return fmt.Sprintf(`[aria-label=%q]`, s.Query)
	case "by_test_id":
		return fmt.Sprintf(`[data-testid=%q]`, s.Query)
	default: // by_role
		return fmt.Sprintf(`[role=%q]`, s.Query)
	}
}

// locateWithAI asks the vision model which numbered mark matches
// target, then validates its answer against the live page before
// trusting it: the selector the model names in its JSON response is
// free text it composed from the screenshot, not guaranteed to still
// match the DOM by the time it comes back, so it is checked with
// page.WaitFor like any other candidate. If that fails, the
// pre-computed stable selector of the mark the model actually pointed
// at (best_match_index) is tried, then each of its alternatives in
// order — mirroring original_source's ai_target_locator.py, which
// falls back to a Locator-derived selector rather than trusting the
// model's own selector string outright.
func (l *Locator) locateWithAI(ctx context.Context, page browser.Page, target, url string) (*Candidate, error) {
	elements, err := l.extractElements(ctx, page)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, ErrNoElements
	}

	shot, err := page.Screenshot(ctx)
	if err != nil {
		return nil, err
	}
	normalized, _, err := screenshot.Normalize(shot)
	if err != nil {
		normalized = shot
	}

	var resp aiResponse
	req := llm.VisionRequest{
		Instructions: buildPrompt(url, target, elements),
		Screenshot:   normalized,
	}
	if err := l.llmClient.Classify(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAILocateFailed, err)
	}

	if resp.Confidence < l.confidenceThreshold {
		return nil, ErrLowConfidence
	}

	if resp.Selector != "" {
		if err := page.WaitFor(ctx, resp.Selector); err == nil {
			return &Candidate{Selector: resp.Selector, Source: SourceAI, Confidence: resp.Confidence, Reasoning: resp.Reasoning}, nil
		}
	}

	if cand := l.validateMark(ctx, page, elements, resp.BestMatchIndex, resp.Confidence, resp.Reasoning); cand != nil {
		return cand, nil
	}
	for _, mark := range resp.Alternatives {
		if cand := l.validateMark(ctx, page, elements, mark, resp.Confidence, resp.Reasoning); cand != nil {
			return cand, nil
		}
	}

	return nil, ErrAILocateFailed
}

// validateMark resolves mark to the element extractElements numbered
// it and validates that element's pre-computed stable selector
// against the page. It returns nil — never an error — so callers can
// try the next mark without unwinding: an out-of-range index or an
// element with no derivable selector is just another miss, not a
// failure worth reporting.
func (l *Locator) validateMark(ctx context.Context, page browser.Page, elements []Element, mark int, confidence float64, reasoning string) *Candidate {
	if mark < 0 || mark >= len(elements) {
		return nil
	}
	selector := elements[mark].StableSelector
	if selector == "" {
		return nil
	}
	if err := page.WaitFor(ctx, selector); err != nil {
		return nil
	}
	return &Candidate{Selector: selector, Source: SourceAI, Confidence: confidence, Reasoning: reasoning}
}

func (l *Locator) extractElements(ctx context.Context, page browser.Page) ([]Element, error) {
	raw, err := page.Evaluate(ctx, interactiveElementsScript(l.maxElements))
	if err != nil {
		return nil, err
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, nil
	}

	elements := make([]Element, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		elements = append(elements, Element{
			Mark:           i,
			Tag:            stringField(m, "tag"),
			ID:             stringField(m, "id"),
			Class:          stringField(m, "className"),
			Type:           stringField(m, "type"),
			Text:           stringField(m, "text"),
			Placeholder:    stringField(m, "placeholder"),
			AriaLabel:      stringField(m, "ariaLabel"),
			Name:           stringField(m, "name"),
			Href:           stringField(m, "href"),
			StableSelector: stringField(m, "stableSelector"),
		})
	}
	return elements, nil
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// interactiveElementsScript returns the page.Evaluate script that
// collects visible interactive elements, equivalent in meaning to
// original_source's extract_interactive_elements. Each element also
// carries a stableSelector, computed client-side so it reflects the
// DOM at the moment of extraction: a CSS selector locateWithAI can
// fall back to validating if the AI's own selector for this mark
// turns out not to match. Grounded on original_source's
// ai_target_locator.py _generate_stable_selector_from_locator, but in
// its own preference order — id, then a parent-anchored
// nth-child path, then data-testid, then name, then href, then
// tag+first-class.
func interactiveElementsScript(maxElements int) string {
	return fmt.Sprintf(`(() => {
		const stableSelector = (el) => {
			if (el.id) return '#' + CSS.escape(el.id);
			if (el.parentElement) {
				const parent = el.parentElement;
				const siblings = Array.from(parent.children);
				const index = siblings.indexOf(el) + 1;
				const parentSel = parent.id ? '#' + CSS.escape(parent.id) : parent.tagName.toLowerCase();
				return parentSel + ' > ' + el.tagName.toLowerCase() + ':nth-child(' + index + ')';
			}
			const testid = el.getAttribute('data-testid');
			if (testid) return '[data-testid="' + testid + '"]';
			if (el.name) return el.tagName.toLowerCase() + '[name="' + el.name + '"]';
			if (el.href) return el.tagName.toLowerCase() + '[href="' + el.href + '"]';
			const firstClass = (el.className || '').split(/\s+/)[0];
			if (firstClass) return el.tagName.toLowerCase() + '.' + firstClass;
			return '';
		};
		const selectors = ['a[href]','button','input','select','textarea',
			'[role="button"]','[role="link"]','[role="checkbox"]','[role="radio"]',
			'[role="textbox"]','[role="combobox"]','[onclick]','[tabindex]:not([tabindex="-1"])'];
		const nodes = Array.from(document.querySelectorAll(selectors.join(',')));
		return nodes.filter(el => {
			const r = el.getBoundingClientRect();
			return r.width > 0 && r.height > 0;
		}).slice(0, %d).map(el => ({
			tag: el.tagName.toLowerCase(),
			id: el.id || '',
			className: el.className || '',
			type: el.type || '',
			text: (el.textContent || el.value || el.placeholder || '').trim().slice(0, 100),
			placeholder: el.placeholder || '',
			ariaLabel: el.getAttribute('aria-label') || '',
			name: el.name || '',
			href: el.href || '',
			stableSelector: stableSelector(el),
		}));
	})()`, maxElements)
}

func buildPrompt(url, target string, elements []Element) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an element locator for web automation.\n\n")
	fmt.Fprintf(&b, "Current page URL: %s\n\n", url)
	fmt.Fprintf(&b, "User wants to interact with: %q\n\n", target)
	b.WriteString("Available interactive elements on the page:\n")
	for _, el := range elements {
		fmt.Fprintf(&b, "[%d] <%s>", el.Mark, el.Tag)
		var attrs []string
		if el.ID != "" {
			attrs = append(attrs, "id="+el.ID)
		}
		if el.Class != "" {
			attrs = append(attrs, "class="+el.Class)
		}
		if el.Type != "" {
			attrs = append(attrs, "type="+el.Type)
		}
		if el.Placeholder != "" {
			attrs = append(attrs, "placeholder="+el.Placeholder)
		}
		if el.AriaLabel != "" {
			attrs = append(attrs, "aria-label="+el.AriaLabel)
		}
		if len(attrs) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(attrs, ", "))
		}
		if el.Text != "" {
			fmt.Fprintf(&b, " %q", el.Text)
		}
		b.WriteByte('\n')
	}
	b.WriteString(`
Respond in JSON format:
{"best_match_index": <int>, "selector": "<css selector>", "confidence": <0.0-1.0>, "reasoning": "<why>", "alternatives": [<int>...]}

Respond ONLY with valid JSON, no other text.`)
	return b.String()
}
