// Package cache keeps per-day reservation lists in Redis in front of a
// snapshot.Source.  Only raw records are cached; views and stats are built
// from them on every read.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/reservation-dashboard/internal/config"
	"github.com/iliyamo/reservation-dashboard/internal/model"
	"github.com/iliyamo/reservation-dashboard/internal/snapshot"
)

// storedReservation has the field layout of model.Reservation without its
// lenient decoder, so Invalid and Problems survive a round trip.
type storedReservation model.Reservation

// kv is the subset of *redis.Client the cache needs.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetEx(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Reservations is a snapshot.Source that serves ListByDay from Redis and
// forwards everything else.  Keys look like <prefix>:day:<YYYY-MM-DD>.
// Redis errors fall through to the wrapped source.
type Reservations struct {
	src snapshot.Source
	cfg config.CacheConfig
	rdb kv
}

// NewReservations wraps src; with a nil client it only forwards.
func NewReservations(src snapshot.Source, cfg config.CacheConfig, rdb *redis.Client) *Reservations {
	c := &Reservations{src: src, cfg: cfg}
	if rdb != nil {
		c.rdb = rdb
	}
	return c
}

func (c *Reservations) enabled() bool { return c.cfg.Enabled && c.rdb != nil }

func (c *Reservations) key(day model.Date) string {
	return fmt.Sprintf("%s:day:%s", c.cfg.Prefix, day)
}

// ListByDay returns the cached list of day, filling the cache on a miss.
// Failed fetches are never cached.
func (c *Reservations) ListByDay(ctx context.Context, day model.Date) ([]model.Reservation, error) {
	if !c.enabled() {
		return c.src.ListByDay(ctx, day)
	}
	key := c.key(day)
	bs, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if rs, err := decodeList(bs); err == nil {
			cacheLookups.WithLabelValues("hit").Inc()
			return rs, nil
		}
		log.Debug().Str("key", key).Msg("dropping undecodable cache entry")
	case !errors.Is(err, redis.Nil):
		log.Debug().Err(err).Str("key", key).Msg("cache read failed")
	}
	cacheLookups.WithLabelValues("miss").Inc()

	rs, err := c.src.ListByDay(ctx, day)
	if err != nil {
		return nil, err
	}
	if payload, err := encodeList(rs); err == nil {
		if err := c.rdb.SetEx(context.WithoutCancel(ctx), key, payload, c.cfg.TTL).Err(); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("cache store failed")
		}
	}
	return rs, nil
}

func (c *Reservations) Update(ctx context.Context, r model.Reservation) (model.Reservation, error) {
	return c.src.Update(ctx, r)
}

func (c *Reservations) Delete(ctx context.Context, orderID string) error {
	return c.src.Delete(ctx, orderID)
}

func (c *Reservations) GlobalStats(ctx context.Context) (model.GlobalStats, error) {
	return c.src.GlobalStats(ctx)
}

// InvalidateDay evicts the cached list of day.
func (c *Reservations) InvalidateDay(ctx context.Context, day model.Date) error {
	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Del(ctx, c.key(day)).Err(); err != nil {
		return fmt.Errorf("delete cache key: %w", err)
	}
	log.Debug().Str("date", day.String()).Msg("cache invalidated")
	return nil
}

func encodeList(rs []model.Reservation) ([]byte, error) {
	out := make([]storedReservation, len(rs))
	for i, r := range rs {
		out[i] = storedReservation(r)
	}
	return json.Marshal(out)
}

func decodeList(bs []byte) ([]model.Reservation, error) {
	var in []storedReservation
	if err := json.Unmarshal(bs, &in); err != nil {
		return nil, err
	}
	rs := make([]model.Reservation, len(in))
	for i, r := range in {
		rs[i] = model.Reservation(r)
	}
	return rs, nil
}
