// Package dev implements the development server: static file serving
// with single-page-app fallback, a file watcher, and live reload over
// WebSocket.
//
// The server serves the project's public directory and page fragments,
// rewrites unknown paths to the app shell so deep links resolve
// client-side, and pushes reload messages to connected browsers when
// watched files change.
package dev
