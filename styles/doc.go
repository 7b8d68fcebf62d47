// Package styles implements the style-template store used by the Z-Image
// prompt nodes.
//
// A style is a named prompt modifier such as "cinematic, {$@}, 35mm film".
// Styles are kept in two kinds of sources:
//
//   - Groups parsed from free text written by the user (the "customization"
//     input of the encoder node, or text accumulated along a chain of
//     style-selection nodes).
//   - Predefined groups shipped as static data (see package presets).
//
// # Text format
//
// Inside a text blob a style block starts with a line beginning with ">>>";
// the rest of that line is the style name. The block runs until the next line
// starting with ">>>", ">::" or "{#", or until the end of the text:
//
//	>>>Retro
//	retro photo of {$@}, faded colors
//
//	>>>Custom 1
//	{$@}, watercolor
//
// # Components
//
//   - Atoms: NormalizeStyleName, IsValidStyleName, FindStyleBlock,
//     ApplyStyleToPrompt
//   - Molecules: RemoveStyleFromText, AppendStyleToText, GroupFromText
//   - Organism: Catalog and GetStyleTemplate, the layered lookup across
//     custom and predefined groups
//
// # Thread Safety
//
// Every function is pure. Group and Catalog values are immutable once built
// and may be shared between goroutines without locking.
package styles
