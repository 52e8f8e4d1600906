// File: utils/constants.go
package utils

import "time"

// SlotCachePrefix is the prefix used for Redis availability cache keys.
const SlotCachePrefix = "slots:"

// LedgerVersionPrefix is the prefix for per-doctor ledger version counters.
const LedgerVersionPrefix = "ledgerv:"

// SlotCacheTTL is the time-to-live for cached availability lists.
const SlotCacheTTL = 5 * time.Minute
