package utils_test

import (
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmeehan/freebox-agent/internal/utils"
)

func TestSliceToSet(t *testing.T) {
	set := utils.SliceToSet([]string{"wifi", "lan", "wifi"})
	assert.Len(t, set, 2)
	assert.Contains(t, set, "wifi")
	assert.Contains(t, set, "lan")
}

func TestUniqueClientID(t *testing.T) {
	id := utils.UniqueClientID("freebox-agent")
	require.True(t, strings.HasPrefix(id, "freebox-agent-"))
	_, err := uuid.Parse(strings.TrimPrefix(id, "freebox-agent-"))
	assert.NoError(t, err)

	assert.NotEqual(t, id, utils.UniqueClientID("freebox-agent"))

	_, err = uuid.Parse(utils.UniqueClientID(""))
	assert.NoError(t, err)
}

func TestParseLogLevel(t *testing.T) {
	level, ok := utils.ParseLogLevel(" Debug ")
	assert.True(t, ok)
	assert.Equal(t, zerolog.DebugLevel, level)

	level, ok = utils.ParseLogLevel("verbose")
	assert.False(t, ok)
	assert.Equal(t, zerolog.InfoLevel, level)

	level, ok = utils.ParseLogLevel("")
	assert.False(t, ok)
	assert.Equal(t, zerolog.InfoLevel, level)
}

func TestWorkerPool_RunsEveryJob(t *testing.T) {
	pool := utils.NewWorkerPool(4)
	var done atomic.Int32
	for i := 0; i < 20; i++ {
		require.NoError(t, pool.Submit(func() { done.Add(1) }))
	}
	pool.Shutdown()
	assert.Equal(t, int32(20), done.Load())
}

func TestWorkerPool_SubmitAfterShutdown(t *testing.T) {
	pool := utils.NewWorkerPool(0)
	pool.Shutdown()
	pool.Shutdown()

	assert.ErrorIs(t, pool.Submit(func() {}), utils.ErrPoolClosed)
}
