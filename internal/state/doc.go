// Package state holds the gallery snapshot shared by the controller and the UI.
//
// The controller is the only writer: it replaces the image list wholesale on a
// successful fetch and clears it (recording an ErrorPanel) on failure. The UI
// reads copies via Store.Snapshot and never mutates shared state directly.
package state
