// Package pkg provides the core libraries for Cascade masonry layout.
//
// # Overview
//
// Cascade places ordered item lists into responsive masonry (waterfall)
// grids and answers viewport visibility queries over the result. The pkg
// directory is organized into four main areas:
//
//  1. [masonry], [window] - The layout core (placement and visibility)
//  2. [board], [feed] - Data model and item sources
//  3. [cache], [httputil], [observability], [errors] - Infrastructure
//  4. [pipeline], [render] - Orchestration (resolve → layout → render)
//
// # Architecture
//
// The typical data flow through Cascade:
//
//	Feed Source (static/file/http/mongo)
//	         ↓
//	Board (ordered items)
//	         ↓
//	Masonry Layout (shortest-column placement)
//	         ↓
//	Snapshot (exported placement set)
//	         ↓                    ↓
//	Window Query          Rendered Artifacts
//	(visible subset)      (SVG/HTML/PNG/JSON)
//
// The layout core never sees items or documents: it works over counts and a
// height resolver, which keeps it reusable from the CLI, the HTTP API, and
// the terminal demo alike.
package pkg
