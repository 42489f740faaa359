package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/moodlog/pkg/types"
)

func TestLoadMissingKey(t *testing.T) {
	s := New()
	data, ok, err := s.Load(types.KeyRecords)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestSaveThenLoadCopies(t *testing.T) {
	s := New()
	buf := []byte(`{"a":1}`)
	require.NoError(t, s.Save("k", buf))

	buf[0] = 'X'
	got, ok, err := s.Load("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"a":1}`, string(got))

	got[0] = 'Y'
	again, _, _ := s.Load("k")
	assert.Equal(t, `{"a":1}`, string(again))
}

func TestClosedStore(t *testing.T) {
	s := NewWithData(map[string][]byte{"k": []byte("v")})
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, _, err := s.Load("k")
	assert.ErrorIs(t, err, types.ErrStoreClosed)
	assert.ErrorIs(t, s.Save("k", nil), types.ErrStoreClosed)
}

func TestEmptyKeyRejected(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.Save("", []byte("x")), types.ErrInvalidKey)
	_, _, err := s.Load("")
	assert.ErrorIs(t, err, types.ErrInvalidKey)
}
