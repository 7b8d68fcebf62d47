package nodes

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"
)

// echoEncoder returns the prompt it was given as conditioning.
func echoEncoder() Encoder {
	return EncoderFunc(func(ctx context.Context, prompt string) (Conditioning, error) {
		return "cond:" + prompt, nil
	})
}

func TestStylePromptEncoder_Execute(t *testing.T) {
	tests := []struct {
		name string
		req  EncodeRequest
		want string
	}{
		{
			name: "category group first",
			req:  EncodeRequest{Category: "illustration", Style: "Retro", Text: "a cat"},
			want: "retro poster of a cat",
		},
		{
			name: "falls back to the whole catalog",
			req:  EncodeRequest{Category: "illustration", Style: `"Film Noir"`, Text: "a cat"},
			want: "noir, a cat, hard shadows",
		},
		{
			name: "custom styles win",
			req: EncodeRequest{
				Customization: ">>>Retro\nmy retro {$@}\n",
				Category:      "photo",
				Style:         "retro",
				Text:          "a cat",
			},
			want: "my retro a cat",
		},
		{
			name: "custom only style",
			req: EncodeRequest{
				Customization: ">>>Mine\nmine: {$@}\n>>>Other\nother {$@}",
				Category:      "photo",
				Style:         "'Other'",
				Text:          "a dog",
			},
			want: "other a dog",
		},
		{
			name: "none leaves prompt untouched",
			req:  EncodeRequest{Category: "photo", Style: "none", Text: "  a cat  "},
			want: "  a cat  ",
		},
		{
			name: "unknown style leaves prompt untouched",
			req:  EncodeRequest{Category: "photo", Style: "Cubism", Text: "a cat"},
			want: "a cat",
		},
	}

	catalog := newTestCatalog(t)
	node, err := NewStylePromptEncoder(catalog, echoEncoder(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewStylePromptEncoder() error = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := node.Execute(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if got.Prompt != tt.want {
				t.Errorf("Prompt = %q, want %q", got.Prompt, tt.want)
			}
			if got.Conditioning != "cond:"+tt.want {
				t.Errorf("Conditioning = %v, want %q", got.Conditioning, "cond:"+tt.want)
			}
		})
	}
}

func TestStylePromptEncoder_MissingEncoder(t *testing.T) {
	node, err := NewStylePromptEncoder(newTestCatalog(t), nil, nil)
	if err != nil {
		t.Fatalf("NewStylePromptEncoder() error = %v", err)
	}

	_, err = node.Execute(context.Background(), EncodeRequest{Category: "photo", Style: "Retro", Text: "x"})
	if !errors.Is(err, ErrEncoderMissing) {
		t.Errorf("expected ErrEncoderMissing, got %v", err)
	}

	// Styling still works without an encoder.
	prompt, err := node.ApplyStyle(EncodeRequest{Category: "photo", Style: "Retro", Text: "x"})
	if err != nil || prompt != "retro photo of x" {
		t.Errorf("ApplyStyle() = %q, %v", prompt, err)
	}
}

func TestStylePromptEncoder_EncoderError(t *testing.T) {
	boom := errors.New("boom")
	enc := EncoderFunc(func(ctx context.Context, prompt string) (Conditioning, error) {
		return nil, boom
	})
	node, _ := NewStylePromptEncoder(newTestCatalog(t), enc, nil)

	_, err := node.Execute(context.Background(), EncodeRequest{Text: "x"})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped encoder error, got %v", err)
	}
}

func TestStylePromptEncoder_Inputs(t *testing.T) {
	node, _ := NewStylePromptEncoder(newTestCatalog(t), nil, nil)

	if diff := cmp.Diff([]string{"photo", "illustration"}, node.CategoryNames()); diff != "" {
		t.Errorf("CategoryNames() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"none", `"Retro"`, `"Film Noir"`}, node.StyleNames("photo")); diff != "" {
		t.Errorf("StyleNames(photo) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"none"}, node.StyleNames("nope")); diff != "" {
		t.Errorf("StyleNames(nope) mismatch (-want +got):\n%s", diff)
	}

	if err := node.ValidateInputs("photo"); err != nil {
		t.Errorf("ValidateInputs(photo) error = %v", err)
	}
	if err := node.ValidateInputs("portraits"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestNewStylePromptEncoder_NilCatalog(t *testing.T) {
	if _, err := NewStylePromptEncoder(nil, nil, nil); !errors.Is(err, ErrNilCatalog) {
		t.Errorf("expected ErrNilCatalog, got %v", err)
	}
}
