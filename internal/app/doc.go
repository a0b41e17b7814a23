// Package app wires the gridboard engine together and runs the terminal
// front-end.
//
// Run loads configuration, constructs the store, grid converter, history,
// lazy-materialization scheduler, and layout database, restores the last
// saved layout, and hands everything to the UI. The drag pipeline is built
// by the UI because it needs canvas geometry only the renderer knows.
package app
