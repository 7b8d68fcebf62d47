// Package nodes implements the Z-Image power nodes on top of the styles
// package.
//
// Each node is a plain value with an Execute method; the host that embeds
// the nodes supplies the heavy collaborators (text encoder, sampler) through
// small interfaces. Nodes are built once at startup and are safe for
// concurrent use.
//
// Nodes:
//   - StylePromptEncoder: applies a style to a prompt and encodes it
//   - MyTopStyles: injects a favourite style into a chained prompt
//   - TopStylesEditor: builds the list of favourite styles
//
// The Registry lists the nodes with their host identifiers and menu
// placement.
package nodes
