// Package pkg provides the core libraries for Novelgraph, a node-graph
// editor and player for visual novels.
//
// # Overview
//
// A story is a graph of scenes (image nodes with text), choices (nodes whose
// answers each lead somewhere) and variables (assignments applied on the
// way). The pkg directory is organized by concern:
//
//  1. [story] - the graph model: nodes, answers, connectors, arrows,
//     selection and the arrow gesture
//  2. [storyio] - the JSON document and its import/export
//  3. [playback] - compiles a graph into steps and walks them
//  4. [editor] - turns pointer and key input into graph edits
//  5. [render] - drawing on a [render.Surface], with [render/canvas] for
//     raster output and [render/nodelink] for Graphviz diagrams
//  6. [project], [session], [thumbnail] - files on disk and their lifetime
//  7. [preview] - read-only HTTP server over a project
//
// # Architecture
//
// The typical data flow through Novelgraph:
//
//	game.json
//	    ↓
//	[storyio] Loader (validate, rebuild ids, attach thumbnails)
//	    ↓
//	[story] Graph ←── [editor] Controller (input snapshots, menu actions)
//	    ↓
//	[playback] Compile → Player
//	[render] Draw → canvas PNG / nodelink DOT, SVG, PDF
//
// # Quick Start
//
// Open a project, add a scene and play from it:
//
//	p, _ := project.Open("mystory")
//	sess, _ := session.Open(ctx, p, session.Options{})
//	defer sess.Close()
//
//	id := sess.Graph.Add(story.NewImage(geom.Pt(200, 200), geom.SceneBlue))
//	sess.Graph.Node(id).SetText("It was a dark and stormy night.")
//	sess.Graph.SetInitial(id)
//
//	st, _ := playback.Compile(sess.Graph)
//	pl, _ := playback.NewPlayer(st)
//	fmt.Println(pl.Current().Text)
package pkg
