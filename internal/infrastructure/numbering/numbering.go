// Package numbering generates document numbers of the form PREFIX-YYYYMMDD-NNNN.
// The counter restarts every UTC day.
package numbering

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/shared"
)

const (
	// PrefixPR is used for purchase requisition numbers
	PrefixPR = "PR"
	// PrefixLot is used for inventory lot numbers
	PrefixLot = "LOT"

	dayLayout = "20060102"
	keyTTL    = 48 * time.Hour
)

// Format renders a document number
func Format(prefix string, day time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day.UTC().Format(dayLayout), seq)
}

// ParseSequence extracts the counter from a number issued for prefix on day.
// ok is false when the number belongs to another prefix or day.
func ParseSequence(number, prefix string, day time.Time) (int64, bool) {
	head := prefix + "-" + day.UTC().Format(dayLayout) + "-"
	if !strings.HasPrefix(number, head) {
		return 0, false
	}
	seq, err := strconv.ParseInt(number[len(head):], 10, 64)
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}

// Seeder reports the highest counter already stored for a prefix and day.
// It returns 0 when nothing was issued that day.
type Seeder interface {
	LastSequence(ctx context.Context, prefix string, day time.Time) (int64, error)
}

// Option configures a sequence
type Option func(*options)

type options struct {
	seeder Seeder
}

// WithSeeder makes Prime continue from numbers already stored
func WithSeeder(seeder Seeder) Option {
	return func(o *options) {
		o.seeder = seeder
	}
}

// DailySequence is a process-local generator. Numbers are unique within the
// process only; use RedisSequence when several instances share a database.
// Call Prime at startup so a restarted process continues after the numbers
// stored earlier that day.
type DailySequence struct {
	prefix string
	clock  shared.Clock
	seeder Seeder

	mu  sync.Mutex
	day string
	seq int64
}

// NewDailySequence creates a process-local generator
func NewDailySequence(prefix string, clock shared.Clock, opts ...Option) *DailySequence {
	if clock == nil {
		clock = shared.SystemClock
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return &DailySequence{prefix: prefix, clock: clock, seeder: o.seeder}
}

// Prime loads the stored high-water mark for the current day. It never moves
// the counter backwards.
func (s *DailySequence) Prime(ctx context.Context) error {
	if s.seeder == nil {
		return nil
	}
	now := s.clock().UTC()
	last, err := s.seeder.LastSequence(ctx, s.prefix, now)
	if err != nil {
		return fmt.Errorf("seed %s sequence: %w", s.prefix, err)
	}
	s.observe(now.Format(dayLayout), last)
	return nil
}

// observe raises the counter for day to at least seq
func (s *DailySequence) observe(day string, seq int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if day != s.day {
		if day < s.day {
			return
		}
		s.day = day
		s.seq = 0
	}
	if seq > s.seq {
		s.seq = seq
	}
}

// last returns the highest counter issued or observed for day
func (s *DailySequence) last(day string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if day != s.day {
		return 0
	}
	return s.seq
}

// Next implements shared.NumberGenerator
func (s *DailySequence) Next() string {
	now := s.clock().UTC()
	day := now.Format(dayLayout)

	s.mu.Lock()
	defer s.mu.Unlock()
	if day != s.day {
		s.day = day
		s.seq = 0
	}
	s.seq++
	return Format(s.prefix, now, s.seq)
}

// nextWithFloor raises the day counter to ARGV[1] when it is lower, then
// increments it. A flushed or expired key therefore resumes above the
// numbers this process already knows about.
var nextWithFloor = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local floor = tonumber(ARGV[1])
if current < floor then
  redis.call('SET', KEYS[1], floor)
end
local value = redis.call('INCR', KEYS[1])
redis.call('EXPIRE', KEYS[1], ARGV[2])
return value
`)

// RedisSequence draws numbers from a Redis counter per prefix and day, so
// every instance sharing the Redis server gets distinct numbers.
// When Redis is unreachable it falls back to a process-local sequence that
// continues after the last number Redis handed out.
type RedisSequence struct {
	client   redis.Cmdable
	prefix   string
	clock    shared.Clock
	timeout  time.Duration
	fallback *DailySequence
	logger   *zap.Logger
}

// NewRedisSequence creates a Redis backed generator
func NewRedisSequence(client redis.Cmdable, prefix string, clock shared.Clock, logger *zap.Logger, opts ...Option) *RedisSequence {
	if clock == nil {
		clock = shared.SystemClock
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSequence{
		client:   client,
		prefix:   prefix,
		clock:    clock,
		timeout:  2 * time.Second,
		fallback: NewDailySequence(prefix, clock, opts...),
		logger:   logger,
	}
}

func (s *RedisSequence) key(day string) string {
	return "wms:seq:" + s.prefix + ":" + day
}

// Prime seeds the local high-water mark from the database. The Redis key is
// raised to it on the next call.
func (s *RedisSequence) Prime(ctx context.Context) error {
	return s.fallback.Prime(ctx)
}

// Next implements shared.NumberGenerator
func (s *RedisSequence) Next() string {
	now := s.clock().UTC()
	day := now.Format(dayLayout)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	floor := s.fallback.last(day)
	seq, err := nextWithFloor.Run(ctx, s.client, []string{s.key(day)}, floor, int(keyTTL.Seconds())).Int64()
	if err != nil {
		s.logger.Warn("Redis sequence unavailable, using local sequence",
			zap.String("prefix", s.prefix),
			zap.Error(err),
		)
		return s.fallback.Next()
	}
	s.fallback.observe(day, seq)
	return Format(s.prefix, now, seq)
}

var (
	_ shared.NumberGenerator = (*DailySequence)(nil)
	_ shared.NumberGenerator = (*RedisSequence)(nil)
)
