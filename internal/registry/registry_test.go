package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"www.velocidex.com/golang/getthis/internal/model"
)

func TestInsertAndContains(t *testing.T) {
	r := New()
	key := model.SampleKey{VolumeSerial: 1, FRN: 2, InstanceID: 0}
	assert.False(t, r.Contains(key))

	r.Insert(&model.Sample{Key: key, SampleName: "a"})
	assert.True(t, r.Contains(key))
	assert.Equal(t, 1, r.Len())
}

func TestEachPreservesInsertionOrder(t *testing.T) {
	r := New()
	keys := []model.SampleKey{
		{VolumeSerial: 1, FRN: 3, InstanceID: 0},
		{VolumeSerial: 1, FRN: 1, InstanceID: 0},
		{VolumeSerial: 1, FRN: 2, InstanceID: 0},
	}
	for _, k := range keys {
		r.Insert(&model.Sample{Key: k})
	}

	var seen []model.SampleKey
	r.Each(func(s *model.Sample) { seen = append(seen, s.Key) })
	assert.Equal(t, keys, seen)
}

func TestUsedNamesTracking(t *testing.T) {
	r := New()
	assert.False(t, r.NameUsed("foo"))
	r.ReserveName("foo")
	assert.True(t, r.NameUsed("foo"))
}
