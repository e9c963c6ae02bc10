package beacon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegion(t *testing.T) {
	region, err := ParseRegion("ABCDEFAB-1234-1234-1234-1234567890AB", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, testUUID, region.UUID)
	assert.Nil(t, region.Major)
	assert.Nil(t, region.Minor)

	major := uint16(7)
	minor := uint16(9)
	region, err = ParseRegion(testUUID.String(), &major, &minor)
	require.NoError(t, err)
	assert.Equal(t, uint16(7), *region.Major)
	assert.Equal(t, uint16(9), *region.Minor)

	_, err = ParseRegion("not-a-uuid", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidUUID)
}

func TestRegionMatches(t *testing.T) {
	obs := makeObservation(7, 9, ProximityNear, -60)

	region, err := ParseRegion(testUUID.String(), nil, nil)
	require.NoError(t, err)
	assert.True(t, region.Matches(obs))

	major := uint16(7)
	minor := uint16(9)
	region, err = ParseRegion(testUUID.String(), &major, &minor)
	require.NoError(t, err)
	assert.True(t, region.Matches(obs))

	other := uint16(8)
	region, err = ParseRegion(testUUID.String(), &other, nil)
	require.NoError(t, err)
	assert.False(t, region.Matches(obs))

	region, err = ParseRegion(testUUID.String(), &major, &other)
	require.NoError(t, err)
	assert.False(t, region.Matches(obs))

	region, err = ParseRegion("11111111-2222-3333-4444-555555555555", nil, nil)
	require.NoError(t, err)
	assert.False(t, region.Matches(obs))
}

func TestRegionString(t *testing.T) {
	major := uint16(7)
	minor := uint16(9)

	region, err := ParseRegion(testUUID.String(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "ABCDEFAB-1234-1234-1234-1234567890AB", region.String())

	region, err = ParseRegion(testUUID.String(), &major, &minor)
	require.NoError(t, err)
	assert.Equal(t, "ABCDEFAB-1234-1234-1234-1234567890AB/7/9", region.String())
}

func TestProximityString(t *testing.T) {
	assert.Equal(t, "immediate", ProximityImmediate.String())
	assert.Equal(t, "near", ProximityNear.String())
	assert.Equal(t, "far", ProximityFar.String())
	assert.Equal(t, "unknown", ProximityUnknown.String())
}

func TestObservationKey(t *testing.T) {
	a := makeObservation(7, 9, ProximityNear, -60)
	b := makeObservation(7, 9, ProximityFar, -90)
	c := makeObservation(7, 10, ProximityNear, -60)

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}
