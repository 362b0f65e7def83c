// Package thumbnail produces the downscaled scene images the editor canvas
// draws.
//
// A [DirCache] keeps one JPEG per source image in a session-scoped
// directory. The cache file name is derived from the source basename, so a
// thumbnail is generated at most once per path: [DirCache.Ensure] reuses an
// existing file, while [DirCache.Regenerate] rebuilds it at a new size when
// the canvas is zoomed. Changing a source image on disk is not detected;
// call [DirCache.Purge] to invalidate.
//
// Thumbnails are softened with a translucent white overlay so node labels
// stay readable on top of them.
//
// [NullCache] never generates anything and is used when stories are only
// played back.
package thumbnail
