// Package ui is the Bubble Tea front end for slumber.
//
// The model holds no state of its own beyond layout: it subscribes to the
// theme, bootstrap, capability and sleep stores and re-renders on every
// published state. Key presses call store operations from tea.Cmds, and the
// resulting state comes back through the same subscriptions.
//
// Screens:
//
//   - Loading, until the bootstrap store knows whether the welcome screen was seen
//   - Welcome, until the user presses enter
//   - Dashboard, with the health bridge card and the last sleep card
//
// Keys: enter continue, r refresh, c recheck device, t toggle theme,
// ? help, q quit.
package ui
