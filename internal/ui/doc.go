// Package ui implements the interactive calendar built on [bubbletea].
//
// The model is a month grid of day cells with a detail pane for the
// selected day. Month navigation reloads the projected range without
// canceling in-flight loads; responses are tagged with the month they were
// requested for, and anything that no longer matches the month on screen is
// discarded. A failed load keeps the previous grid visible with a status
// message rather than transitioning to an error view.
package ui
