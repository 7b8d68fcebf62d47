package nodes

import (
	"context"
	"fmt"

	"zimage_power/styles"

	"go.uber.org/zap"
)

// Conditioning is the opaque result of encoding a prompt. Its concrete type
// belongs to the host.
type Conditioning any

// Encoder turns a prompt into conditioning. It is supplied by the host
// (the CLIP text encoder in ComfyUI).
type Encoder interface {
	Encode(ctx context.Context, prompt string) (Conditioning, error)
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc func(ctx context.Context, prompt string) (Conditioning, error)

// Encode calls f(ctx, prompt).
func (f EncoderFunc) Encode(ctx context.Context, prompt string) (Conditioning, error) {
	return f(ctx, prompt)
}

// EncodeRequest holds the inputs of the Style & Prompt Encoder node.
type EncodeRequest struct {
	// Customization is optional user text with ">>>" style blocks that
	// override or extend the predefined styles.
	Customization string

	// Category selects the predefined group searched after the custom styles.
	Category string

	// Style is the name of the style to apply; "none" applies nothing.
	Style string

	// Text is the prompt.
	Text string
}

// EncodeResult holds the outputs of the Style & Prompt Encoder node.
type EncodeResult struct {
	Conditioning Conditioning
	Prompt       string
}

// StylePromptEncoder applies the selected style to a prompt and encodes the
// result.
type StylePromptEncoder struct {
	catalog *styles.Catalog
	encoder Encoder
	options styles.ApplyOptions
	logger  *zap.Logger
}

// NewStylePromptEncoder creates the encoder node.
// A nil logger disables logging.
func NewStylePromptEncoder(catalog *styles.Catalog, encoder Encoder, logger *zap.Logger) (*StylePromptEncoder, error) {
	if catalog == nil {
		return nil, ErrNilCatalog
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StylePromptEncoder{
		catalog: catalog,
		encoder: encoder,
		options: styles.DefaultApplyOptions(),
		logger:  logger,
	}, nil
}

// CategoryNames returns the categories offered by the node.
func (n *StylePromptEncoder) CategoryNames() []string {
	return n.catalog.Categories()
}

// StyleNames returns "none" followed by the quoted style names of category.
// An unknown category yields only "none".
func (n *StylePromptEncoder) StyleNames(category string) []string {
	names := []string{styles.NoneStyle}
	if g, ok := n.catalog.Group(category); ok {
		names = append(names, g.QuotedNames()...)
	}
	return names
}

// ValidateInputs checks the inputs the host validates before execution.
func (n *StylePromptEncoder) ValidateInputs(category string) error {
	if !n.catalog.HasCategory(category) {
		return fmt.Errorf("%w: %q, the node may come from an older version", ErrUnknownCategory, category)
	}
	return nil
}

// ApplyStyle resolves the requested style and applies it to the prompt
// without encoding.
//
// The custom styles parsed from req.Customization are searched first, then
// the group of req.Category, then the whole predefined catalog. When no
// style is found the prompt is returned unchanged.
func (n *StylePromptEncoder) ApplyStyle(req EncodeRequest) (string, error) {
	if !styles.IsValidStyleName(req.Style) {
		return req.Text, nil
	}

	search := styles.Many{styles.GroupFromText(styles.CustomCategory, req.Customization)}
	if g, ok := n.catalog.Group(req.Category); ok {
		search = append(search, g)
	}
	search = append(search, n.catalog)

	template, err := styles.GetStyleTemplate(search, req.Style, "")
	if err != nil {
		return "", err
	}
	if template == "" {
		n.logger.Debug("style not found", zap.String("style", req.Style), zap.String("category", req.Category))
		return req.Text, nil
	}
	return styles.ApplyStyleToPrompt(req.Text, template, n.options), nil
}

// Execute applies the style and encodes the styled prompt.
func (n *StylePromptEncoder) Execute(ctx context.Context, req EncodeRequest) (EncodeResult, error) {
	prompt, err := n.ApplyStyle(req)
	if err != nil {
		return EncodeResult{}, err
	}

	if n.encoder == nil {
		return EncodeResult{}, fmt.Errorf("%w: if it comes from a checkpoint loader, the checkpoint has no valid text encoder", ErrEncoderMissing)
	}

	cond, err := n.encoder.Encode(ctx, prompt)
	if err != nil {
		return EncodeResult{}, fmt.Errorf("encode prompt: %w", err)
	}

	n.logger.Debug("prompt encoded",
		zap.String("style", req.Style),
		zap.Int("prompt_len", len(prompt)))

	return EncodeResult{Conditioning: cond, Prompt: prompt}, nil
}
