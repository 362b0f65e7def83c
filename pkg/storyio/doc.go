// Package storyio reads and writes story graphs as JSON documents.
//
// # Format
//
// A document is a single JSON object:
//
//	{
//	    "version": "1.1",
//	    "nodes": {
//	        "1": {"type": 2, "color": [100, 100, 255, 255], "position": [140, 67],
//	              "text": "Forest", "size": [120, 67], "image_path": "images/upload/forest.png"},
//	        "2": {"type": 3, "color": [100, 100, 255, 255], "position": [400, 100],
//	              "size": [120, 41], "answers": {
//	                  "3": {"color": [128, 128, 128, 255], "position": [400, 100], "text": "Yes", "size": [120, 40]}}}
//	    },
//	    "arrows": [{"color": [0, 0, 0, 255], "start_id": "1", "end_id": "2"}],
//	    "initial": 1
//	}
//
// Node keys are the node identities in decimal. Choice answers are nested in
// their node and keyed the same way. Arrows name the identity owning each
// endpoint: the start is always an output connector (a node's or an
// answer's) and the end always a node's input connector. "initial" is the
// key of the initial node or 0.
//
// Type tags are 1 (circle), 2 (image), 3 (choice) and 4 (variable).
//
// # Compatibility
//
// Documents written by earlier editors are accepted: arrows may use "start"
// and "end" instead of "start_id" and "end_id", "initial" may be a string or
// a number, and keys that are not positive integers are given fresh
// identities on load. An empty input, null or {} is an empty story.
//
// # Errors
//
// Malformed documents fail with an INVALID_FORMAT error from
// [github.com/matzehuels/novelgraph/pkg/errors] and no graph is returned.
// Scene images that do not exist on disk are not an error: the scene is
// loaded without a thumbnail and a warning is logged.
package storyio
