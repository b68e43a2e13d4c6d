package transaction

import "time"

// StatsCacheTTL bounds how stale the cached statistics can be.
const StatsCacheTTL = time.Minute
