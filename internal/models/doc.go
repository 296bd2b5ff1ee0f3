// Package models defines domain entities and persistence interfaces for the playlist refresher.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing Spotify data
//   - [Playlist] : Playlist metadata (name, owner, track count)
//   - [Track] : Track snapshot with the URI used for batch mutation
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [RefreshRun] : One refresh invocation with its status and counts
//
// Persistent entities implement the Model interface providing ID generation, timestamps, and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
