package hdplda

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoris/HDPLDA/random"
)

func TestDataContainer(t *testing.T) {
	dataContainer := NewDataContainer([][]string{
		{"The", "cat"},
		{"", ""},
		{"the", "DOG"},
	})

	assert.Equal(t, 3, dataContainer.Size)
	assert.Equal(t, 3, dataContainer.V())
	assert.Equal(t, [][]int{{0, 1}, {}, {0, 2}}, dataContainer.Docs)
	assert.Equal(t, "the dog", dataContainer.GetSentString(2))
	assert.Equal(t, "", dataContainer.GetSentString(1))
	assert.Equal(t, "cat", dataContainer.Word(1))
	id, ok := dataContainer.ID("Dog")
	assert.True(t, ok)
	assert.Equal(t, 2, id)
	_, ok = dataContainer.ID("bird")
	assert.False(t, ok)

	assert.Panics(t, func() { dataContainer.Word(3) })
	assert.Panics(t, func() { dataContainer.GetSentString(-1) })

	def, err := dataContainer.ModelDefinition()
	require.NoError(t, err)
	s, err := NewState(def, 1.0, 0.5, 1.0, dataContainer.Docs, random.New(1), WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Equal(t, 3, s.NEntities())
	checkInvariants(t, s)
}

func TestDataContainerWithoutWords(t *testing.T) {
	dataContainer := NewDataContainer(nil)
	assert.Equal(t, 0, dataContainer.Size)
	_, err := dataContainer.ModelDefinition()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
