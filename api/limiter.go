package api

import "tenantlimit/types"

// Limiter is the interface that all rate limiting backends implement.
type Limiter = types.Limiter
