package hdplda

import (
	"bytes"
	"log/slog"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoris/HDPLDA/random"
)

type recordingStats struct {
	created   map[int]int
	destroyed map[int]int
	observed  int
}

func (r *recordingStats) Create(k int) { r.created[k]++ }

func (r *recordingStats) Destroy(k int) { r.destroyed[k]++ }

func (r *recordingStats) MergeIn(k, v, n int) { r.observed += n }

func (r *recordingStats) MergeOut(k, v, n int) { r.observed -= n }

func TestWithSuffStats(t *testing.T) {
	rec := &recordingStats{created: map[int]int{}, destroyed: map[int]int{}}
	s := newTestState(t, randomDocs(2, 8, 10, 12), 10, 3, WithSuffStats(func(dim int, beta float64) SuffStats {
		assert.Equal(t, 10, dim)
		assert.Equal(t, testBeta, beta)
		return rec
	}))
	assert.Same(t, rec, s.Stats())

	live := 0
	for k, n := range rec.created {
		live += n - rec.destroyed[k]
	}
	assert.Equal(t, s.NTopics(), live)
	assert.Equal(t, s.totalTerms(), rec.observed)
	checkInvariants(t, s)
}

func TestOptionDefaults(t *testing.T) {
	o := buildOptions([]Option{WithLogger(nil), WithParallelism(0), WithSuffStats(nil)})
	assert.Equal(t, slog.Default(), o.logger)
	assert.Equal(t, runtime.GOMAXPROCS(0), o.parallelism)
	assert.False(t, o.progress)
	assert.NotNil(t, o.newStats)

	o = buildOptions([]Option{WithProgress(true), WithParallelism(3)})
	assert.True(t, o.progress)
	assert.Equal(t, 3, o.parallelism)
}

func TestWithLoggerRecordsConstruction(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	def, err := NewModelDefinition(2, 3)
	require.NoError(t, err)
	_, err = NewState(def, testAlpha, testBeta, testGamma, scenarioDocs(), random.New(1), WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "state initialized")
	assert.Contains(t, buf.String(), "terms=5")
}
