//go:build integration

package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/ethpandaops/persona/internal/testutil"
	"github.com/ethpandaops/persona/pkg/redis"
	"github.com/ethpandaops/persona/pkg/store"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueManagerRoundTrip(t *testing.T) {
	ctx := context.Background()
	conn := testutil.NewRedisContainer(t)

	asynqOpt := redis.NewAsynqRedisOptions(conn.Client.Options())
	queue := NewQueueManager(asynqOpt, conn.Config.PrefixQueue(DefaultQueue))
	t.Cleanup(func() { _ = queue.Close() })

	info, err := queue.EnqueueGeneration(validPayload())
	require.NoError(t, err)
	assert.Equal(t, "run-1", info.ID)
	assert.Equal(t, asynq.TaskStatePending, info.State)

	_, err = queue.EnqueueGeneration(validPayload())
	require.ErrorIs(t, err, asynq.ErrTaskIDConflict)

	got, err := queue.GetTaskInfo("run-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, queue.Queue(), got.Queue)

	missing, err := queue.GetTaskInfo("unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// Process the queued run end to end
	personaStore := store.NewRedisStore(logrus.New(), conn.Client, conn.Config, time.Hour)
	handler := NewTaskHandler(logrus.New(), &fakeLoader{
		targets: testutil.ScenarioTargets(),
		tasks:   testutil.ScenarioTasks(),
	}, personaStore, 2)

	srv := asynq.NewServer(*asynqOpt, asynq.Config{
		Concurrency: 1,
		Queues:      map[string]int{queue.Queue(): 1},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePersonaGeneration, handler.HandleGeneration)
	require.NoError(t, srv.Start(mux))
	t.Cleanup(srv.Shutdown)

	assert.Eventually(t, func() bool {
		personas, err := personaStore.Run(ctx, "run-1")
		return err == nil && len(personas) == 1
	}, 30*time.Second, 250*time.Millisecond)
}
