package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joshiujjwal/lab37hw/internal/api"
)

func TestDetail_RefetchesOnIDOrTokenChange(t *testing.T) {
	var d Detail
	assert.True(t, d.NeedsFetch(1, "tok"))

	seq := d.Begin(1, "tok")
	assert.True(t, d.Loading())
	d.Apply(seq, &api.Recipe{ID: 1}, nil)

	assert.False(t, d.NeedsFetch(1, "tok"))
	assert.True(t, d.NeedsFetch(2, "tok"))
	assert.True(t, d.NeedsFetch(1, "other"))
}

func TestDetail_IgnoresSupersededFetch(t *testing.T) {
	var d Detail
	first := d.Begin(1, "tok")
	second := d.Begin(2, "tok")

	assert.False(t, d.Apply(first, &api.Recipe{ID: 1}, nil))
	assert.True(t, d.Loading())
	assert.True(t, d.Apply(second, &api.Recipe{ID: 2}, nil))
	assert.Equal(t, int64(2), d.Recipe().ID)
}

func TestDetail_NotFoundRendersBlank(t *testing.T) {
	var d Detail
	seq := d.Begin(5, "tok")
	d.Apply(seq, nil, &api.StatusError{StatusCode: 404})
	assert.Nil(t, d.Recipe())
	assert.NoError(t, d.Err())
	assert.False(t, d.Loading())
}

func TestDetail_FailureIsRecorded(t *testing.T) {
	var d Detail
	seq := d.Begin(5, "tok")
	boom := errors.New("boom")
	d.Apply(seq, nil, boom)
	assert.ErrorIs(t, d.Err(), boom)

	d.Reset()
	assert.NoError(t, d.Err())
	assert.True(t, d.NeedsFetch(5, "tok"))
}
