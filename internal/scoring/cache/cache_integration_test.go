//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordr/pkg/testutil/containers"
)

func TestReportCacheRoundTrip(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	c := NewWithClient(rc.Client, time.Minute)
	ctx := context.Background()

	type report struct {
		Score string `json:"score"`
	}

	var miss report
	assert.False(t, c.Get(ctx, "scoring:test", &miss))

	c.Set(ctx, "scoring:test", report{Score: "40.0"})

	var hit report
	require.True(t, c.Get(ctx, "scoring:test", &hit))
	assert.Equal(t, "40.0", hit.Score)
}

func TestReportCacheExpiry(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	c := NewWithClient(rc.Client, 50*time.Millisecond)
	ctx := context.Background()

	c.Set(ctx, "scoring:ttl", map[string]string{"k": "v"})

	var out map[string]string
	require.True(t, c.Get(ctx, "scoring:ttl", &out))

	assert.Eventually(t, func() bool {
		var gone map[string]string
		return !c.Get(ctx, "scoring:ttl", &gone)
	}, time.Second, 20*time.Millisecond)
}
