// Package session owns the state tied to the currently selected video.
//
// Selecting a video replaces the whole Session: its identifier, base name,
// sampled preview frames and preview window. Each selection bumps a
// generation counter, so sampling started for an older selection discards
// its frames instead of populating the new session.
package session
