package common

import "time"

// DefaultLockTTL is how long an object lock stays live without being
// restamped by its holder.
const DefaultLockTTL = 30 * time.Second

// MaxHistoryDepth bounds the client undo stack.
const MaxHistoryDepth = 50

// TransientSendInterval is the minimum gap between relayed transient deltas
// (moving / in-progress drawing) on one connection, roughly 30 per second.
const TransientSendInterval = 33 * time.Millisecond
