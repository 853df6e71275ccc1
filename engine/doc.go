/*
Package engine is an in-process object store: records are Go pointers held in
a [Session], and the session decides what to write when it is saved.

# Sessions

A session is an object graph with an identity map. Every record it hands out
or is given is tracked under its storage key, so fetching the same record twice
yields the same pointer, and field changes made on that pointer are picked up
by [Session.Save] without being announced: on save each tracked record is
re-encoded and compared to the bytes it was last committed with.

Inserts and deletes are staged and only reach storage on save, as one atomic
[storage.Batch]. A failed save leaves the staged state untouched; callers that
want to drop it call [Session.Rollback].

# Ownership

A record belongs to at most one live session of an engine. Handing a record
tracked by session A to session B fails with [ErrNotOwned]. Closing a session
releases its records.

# Data layout

	[rec_{entity}_{id}] = [encoded record]

see package key.
*/
package engine
