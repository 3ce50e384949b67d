/*
Package session serializes access to persisted simulation sessions.

A Manager wraps a ports.SessionStore with per-session locks so that playback
updates and API reads of the same session never interleave. With a
ports.DistributedLocker the guarantee extends across replicas sharing a store.
*/
package session
