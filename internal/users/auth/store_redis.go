// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nicaa/alumni-api/internal/platform/constants"
	"github.com/nicaa/alumni-api/internal/platform/sec"
)

// # Denylist Repository

// RedisDenylistRepository implements DenylistRepository using Redis.
//
// Keys hold the SHA-256 digest of the revoked token rather than the token
// itself, so a Redis compromise does not directly leak usable credentials.
// Entries expire on their own once the token's natural lifetime passes.
type RedisDenylistRepository struct {
	client *redis.Client
}

// NewDenylistRepository creates a new Redis-backed DenylistRepository.
func NewDenylistRepository(client *redis.Client) *RedisDenylistRepository {
	return &RedisDenylistRepository{client: client}
}

/*
Deny marks an access token as revoked for the given TTL.

Parameters:
  - context: context.Context
  - token: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisDenylistRepository) Deny(context context.Context, token string, ttl time.Duration) error {

	// Namespace the digest under the denylist prefix
	key := constants.RedisPrefixDenylist + sec.HashToken(token)

	// The value is the revocation timestamp, useful for audits
	if err := repository.client.Set(context, key, time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("redis_denylist_set_failed: %w", err)
	}

	return nil
}

/*
IsDenied reports whether an access token has been revoked.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - bool: true if the token is on the denylist
  - error: Connectivity errors (absence is not an error)
*/
func (repository *RedisDenylistRepository) IsDenied(context context.Context, token string) (bool, error) {

	// Namespace the digest under the denylist prefix
	key := constants.RedisPrefixDenylist + sec.HashToken(token)

	// A missing key simply means the token was never revoked
	if err := repository.client.Get(context, key).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis_denylist_get_failed: %w", err)
	}

	return true, nil
}
