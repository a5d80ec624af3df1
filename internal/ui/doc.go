// Package ui implements the terminal interface with Bubble Tea.
//
// Core pieces:
//   - AppModel: root model owning the mode, the active tool view, and overlays
//   - View: a screen or modal with its own model, update, view (Elm-style)
//   - Overlay/OverlayStack: modal views with a dismiss key, stacked over the app
//   - KeybindRegistry/KeyHandler: SPC leader sequences, spacemacs-style
//
// Tool screens (analysis, graph, inbox, slides, memory) emit intent
// messages; app handlers run the backend calls and commit result messages
// back into the views. Results carry sequence or generation numbers so a
// stale response never overwrites newer state.
package ui
