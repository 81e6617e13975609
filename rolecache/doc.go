// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package rolecache caches the per-user admin capability.

Memory keeps entries in a mutex-guarded map; Redis stores them under
"daily-poll:role:<user_id>" so several server processes share one view.
Both expire entries after the configured ROLE_CACHE_TTL. A zero TTL
disables caching.

	cache := rolecache.NewMemory(cfg.RoleCacheTTL)
	isAdmin, ok, err := cache.Get(ctx, userID)
*/
package rolecache
