package styles

import "strings"

// Placeholder marks where the prompt is inserted into a style template.
const Placeholder = "{$@}"

// ApplyOptions tunes ApplyStyleToPrompt.
type ApplyOptions struct {
	// Separator joins prompt and template when the template has no placeholder.
	Separator string

	// TrimPrompt removes surrounding whitespace from the prompt before use.
	TrimPrompt bool
}

// DefaultApplyOptions returns the options used by the encoder node.
func DefaultApplyOptions() ApplyOptions {
	return ApplyOptions{
		Separator:  ", ",
		TrimPrompt: true,
	}
}

// ApplyStyleToPrompt combines a prompt with a style template.
//
// Every occurrence of Placeholder in template is replaced by the prompt in a
// single pass, so a prompt that itself contains the placeholder is not
// expanded again. A template without a placeholder is appended to the prompt
// with opts.Separator. An empty template leaves the prompt as is.
//
// Example:
//
//	ApplyStyleToPrompt("a cat", "cinematic, {$@}, 35mm", DefaultApplyOptions())
//	// "cinematic, a cat, 35mm"
func ApplyStyleToPrompt(prompt, template string, opts ApplyOptions) string {
	if opts.TrimPrompt {
		prompt = strings.TrimSpace(prompt)
	}
	if strings.TrimSpace(template) == "" {
		return prompt
	}
	if strings.Contains(template, Placeholder) {
		return strings.ReplaceAll(template, Placeholder, prompt)
	}

	template = strings.TrimSpace(template)
	if prompt == "" {
		return template
	}
	return prompt + opts.Separator + template
}
