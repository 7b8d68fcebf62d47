package nodes

import (
	"fmt"
	"strings"

	"zimage_power/styles"

	"go.uber.org/zap"
)

// TopStylesCount is the number of slots in a favourite styles list.
const TopStylesCount = 10

const channelPrefix = "custom_"

var channels = []string{"custom_1", "custom_2", "custom_3", "custom_4"}

// Channels returns the output channels a MyTopStyles node can write to.
func Channels() []string {
	return append([]string(nil), channels...)
}

// ChannelName maps an output channel to the name of the style block it owns.
// "custom_3" becomes "Custom 3"; anything not starting with "custom_" maps
// to "Custom 1".
func ChannelName(outputTo string) string {
	n := "1"
	if rest, ok := strings.CutPrefix(outputTo, channelPrefix); ok {
		n = rest
	}
	return "Custom " + n
}

// TopStylesRequest holds the inputs of the My Top-10 Styles node.
type TopStylesRequest struct {
	// Input is the chained text from a previous node.
	Input string

	// TopStyles is the favourite list produced by the editor node.
	TopStyles []string

	// Selected are the slot toggles; the first true one wins.
	Selected []bool

	// OutputTo is the output channel, one of Channels().
	OutputTo string
}

// MyTopStyles injects one of the user's favourite styles into a chained
// prompt as a "Custom N" style block.
type MyTopStyles struct {
	catalog *styles.Catalog
	logger  *zap.Logger
}

// NewMyTopStyles creates the node. A nil logger disables logging.
func NewMyTopStyles(catalog *styles.Catalog, logger *zap.Logger) (*MyTopStyles, error) {
	if catalog == nil {
		return nil, ErrNilCatalog
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MyTopStyles{catalog: catalog, logger: logger}, nil
}

// SelectedName returns the favourite picked by the first active toggle, or
// "" when no toggle is active or it points past the end of the list.
// This is a pure function with no side effects.
func SelectedName(topStyles []string, selected []bool) string {
	for i, on := range selected {
		if !on {
			continue
		}
		if i < len(topStyles) {
			return topStyles[i]
		}
		return ""
	}
	return ""
}

// Execute returns req.Input with the channel's style block replaced by the
// selected style. The input is returned unchanged when nothing is selected
// or the style is unknown.
func (n *MyTopStyles) Execute(req TopStylesRequest) string {
	name := SelectedName(req.TopStyles, req.Selected)

	template, err := styles.GetStyleTemplate(n.catalog, name, "")
	if err != nil || template == "" {
		return req.Input
	}

	channel := ChannelName(req.OutputTo)
	text := styles.RemoveStyleFromText(req.Input, channel)
	text = styles.AppendStyleToText(text, channel, template)

	n.logger.Debug("style injected",
		zap.String("style", name),
		zap.String("channel", channel))
	return text
}

// Inject is Execute for a single style name, used by the HTTP API.
func (n *MyTopStyles) Inject(input, name, outputTo string) (string, error) {
	if !styles.IsValidStyleName(name) {
		return input, nil
	}
	template, err := styles.GetStyleTemplate(n.catalog, name, "")
	if err != nil {
		return "", err
	}
	if template == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, name)
	}
	channel := ChannelName(outputTo)
	text := styles.RemoveStyleFromText(input, channel)
	return styles.AppendStyleToText(text, channel, template), nil
}
