package lock_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-checkout/internal/infrastructure/lock"
	"github.com/DanielPopoola/ficmart-checkout/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RedisLockerTestSuite struct {
	suite.Suite
	redis  *testhelpers.TestRedis
	locker *lock.RedisLocker
}

func TestRedisLockerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container tests in short mode")
	}
	suite.Run(t, new(RedisLockerTestSuite))
}

func (suite *RedisLockerTestSuite) SetupSuite() {
	suite.redis = testhelpers.SetupTestRedis(suite.T())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.locker = lock.NewRedisLocker(suite.redis.Client, "checkout-test", 5*time.Second, logger)
}

func (suite *RedisLockerTestSuite) TearDownSuite() {
	suite.redis.Cleanup(suite.T())
}

func (suite *RedisLockerTestSuite) SetupTest() {
	require.NoError(suite.T(), suite.redis.Client.FlushAll(context.Background()).Err())
}

func (suite *RedisLockerTestSuite) Test_Lock_MutualExclusion() {
	t := suite.T()
	var inside, overlaps atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := suite.locker.Lock(context.Background(), "inv-1")
			if !assert.NoError(t, err) {
				return
			}
			if inside.Add(1) > 1 {
				overlaps.Add(1)
			}
			time.Sleep(20 * time.Millisecond)
			inside.Add(-1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(0), overlaps.Load())
}

func (suite *RedisLockerTestSuite) Test_Lock_ContextDeadline() {
	t := suite.T()
	unlock, err := suite.locker.Lock(context.Background(), "inv-2")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	_, err = suite.locker.Lock(ctx, "inv-2")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func (suite *RedisLockerTestSuite) Test_Unlock_LeavesForeignLockAlone() {
	t := suite.T()
	ctx := context.Background()
	short := lock.NewRedisLocker(suite.redis.Client, "checkout-test", 100*time.Millisecond,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	unlock, err := short.Lock(ctx, "inv-3")
	require.NoError(t, err)
	time.Sleep(200 * time.Millisecond)

	unlockOther, err := suite.locker.Lock(ctx, "inv-3")
	require.NoError(t, err)
	defer unlockOther()

	unlock()

	exists, err := suite.redis.Client.Exists(ctx, "checkout-test:invoice-lock:inv-3").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
}
