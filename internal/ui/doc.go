// Package ui provides semantic text formatting for coffer's CLI output.
//
// Formatters render with color on capable terminals and fall back to text
// decorations when NO_COLOR is set or the output is not a TTY:
//
//	ui.Code.Sprint("coffer config init")    // `coffer config init`
//	ui.Path.Sprint("store.json")            // store.json
//	ui.Highlight.Sprint("searchzone_links") // 'searchzone_links'
//	ui.Digest.Sprint("3a7547f4")            // <3a7547f4>
//	ui.Muted.Sprint("dry run")              // (dry run)
//	ui.Mark(true)                           // ✓
package ui
