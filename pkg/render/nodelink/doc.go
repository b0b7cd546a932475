// Package nodelink renders a recipe's backward tree as a flow diagram.
//
// # Overview
//
// Where the table view packs shared steps into spanning cells, the node-link
// view draws every ingredient and step as a box with arrows pointing towards
// the finished dish. Join points disappear: the chains feeding one simply
// point at the first step that follows it.
//
// # Usage
//
//	dot := nodelink.ToDOT(store, tree, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: step labels also show the subtree size and depth
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
