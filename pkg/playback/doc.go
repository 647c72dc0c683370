// Package playback guarantees that only one spoken utterance is audible at a
// time, across every process that calls into it. Invocations arrive from
// independent, short-lived CLI processes (hook calls from separate terminal
// tabs of the same user), so the only shared state is a lock record and a set
// of per-session tracked-process records on the filesystem.
//
// A Session identifies one terminal lineage. The lock record designates the
// session that currently owns playback; a tracked-process record remembers
// the most recent TTS process a session started, so a session can cancel its
// own previous utterance without ever touching another session's audio.
//
// Coordinator.SpeakExclusive is the single entry point. It waits (bounded)
// for the lock, reclaims locks whose holder process has died, terminates the
// caller's own previous utterance, spawns the engine detached, and releases
// the lock when the spawned process exits.
package playback
