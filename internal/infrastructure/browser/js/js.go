// Package js holds page scripts shared by the driver adapters. Every script
// is a function taking the target element as its first argument.
package js

const (
	Connected = `(el) => el.isConnected`

	Enabled = `(el) => !el.disabled`

	// SelectOption answers "ok", "not-select" or "no-option".
	SelectOption = `(el, by, key) => {
	if (el.tagName !== 'SELECT') return 'not-select';
	const opts = Array.from(el.options);
	const norm = (s) => String(s).replace(/\s+/g, ' ').trim();
	let matches = [];
	if (by === 'text') {
		matches = opts.filter((o) => norm(o.text) === norm(key));
	} else if (by === 'value') {
		matches = opts.filter((o) => o.value === key);
	} else if (by === 'index') {
		const i = Number(key);
		if (Number.isInteger(i) && i >= 0 && i < opts.length) matches = [opts[i]];
	}
	if (matches.length === 0) return 'no-option';
	if (!el.multiple) matches = matches.slice(0, 1);
	for (const o of matches) o.selected = true;
	el.dispatchEvent(new Event('input', { bubbles: true }));
	el.dispatchEvent(new Event('change', { bubbles: true }));
	return 'ok';
}`
)

const (
	SelectOK        = "ok"
	SelectNotSelect = "not-select"
	SelectNoOption  = "no-option"
)
