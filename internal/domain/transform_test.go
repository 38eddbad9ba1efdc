package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeRecord builds a RawRecord the same way the client does, so numeric
// JSON values arrive as float64 and orbital elements as strings.
func decodeRecord(t *testing.T, data string) RawRecord {
	t.Helper()
	var rec RawRecord
	require.NoError(t, json.Unmarshal([]byte(data), &rec))
	return rec
}

const fullRecord = `{
	"id": "2021277",
	"name": "21277 (1996 TO5)",
	"absolute_magnitude_h": 16.1,
	"estimated_diameter": {
		"kilometers": {"estimated_diameter_min": 1.6016, "estimated_diameter_max": 3.5813}
	},
	"is_potentially_hazardous_asteroid": false,
	"orbital_data": {
		"orbit_id": "659",
		"semi_major_axis": "2.377207648820691",
		"eccentricity": ".3399411513076733"
	},
	"nasa_jpl_url": "http://ssd.jpl.nasa.gov/sbdb.cgi?sstr=2021277"
}`

func TestProcess(t *testing.T) {
	t.Run("full record", func(t *testing.T) {
		rows, err := Process([]RawRecord{decodeRecord(t, fullRecord)})
		require.NoError(t, err)
		require.Len(t, rows, 1)

		r := rows[0]
		assert.Equal(t, "2021277", r.AsteroidID)
		assert.Equal(t, "21277 (1996 TO5)", r.Name)
		require.NotNil(t, r.AbsoluteMagnitude)
		assert.Equal(t, 16.1, *r.AbsoluteMagnitude)
		require.NotNil(t, r.DiameterMinKM)
		assert.Equal(t, 1.6016, *r.DiameterMinKM)
		require.NotNil(t, r.DiameterMaxKM)
		assert.Equal(t, 3.5813, *r.DiameterMaxKM)
		assert.False(t, r.Hazardous)
		assert.Equal(t, "659", r.OrbitID)
		require.NotNil(t, r.SemiMajorAxisAU)
		assert.InDelta(t, 2.3772076, *r.SemiMajorAxisAU, 1e-6)
		require.NotNil(t, r.Eccentricity)
		assert.InDelta(t, 0.3399412, *r.Eccentricity, 1e-6)
	})

	t.Run("order preserved", func(t *testing.T) {
		records := []RawRecord{
			{"id": "3", "name": "c"},
			{"id": "1", "name": "a"},
			{"id": "2", "name": "b"},
		}
		rows, err := Process(records)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "3", rows[0].AsteroidID)
		assert.Equal(t, "1", rows[1].AsteroidID)
		assert.Equal(t, "2", rows[2].AsteroidID)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := Process(nil)
		require.ErrorIs(t, err, ErrNoData)

		_, err = Process([]RawRecord{})
		require.ErrorIs(t, err, ErrNoData)
	})
}

func TestFlattenRecord_MissingValues(t *testing.T) {
	t.Run("missing nested paths", func(t *testing.T) {
		r := flattenRecord(decodeRecord(t, `{"id":"42","name":"x"}`))

		assert.Equal(t, "42", r.AsteroidID)
		assert.Nil(t, r.AbsoluteMagnitude)
		assert.Nil(t, r.DiameterMinKM)
		assert.Nil(t, r.DiameterMaxKM)
		assert.Nil(t, r.DiameterAvgKM)
		assert.Nil(t, r.SemiMajorAxisAU)
		assert.Nil(t, r.Eccentricity)
		assert.Empty(t, r.OrbitID)
		assert.False(t, r.Hazardous)
	})

	t.Run("unparsable numeric string", func(t *testing.T) {
		r := flattenRecord(decodeRecord(t, `{"orbital_data":{"semi_major_axis":"n/a","eccentricity":""}}`))

		assert.Nil(t, r.SemiMajorAxisAU)
		assert.Nil(t, r.Eccentricity)
	})

	t.Run("intermediate path is not an object", func(t *testing.T) {
		r := flattenRecord(decodeRecord(t, `{"estimated_diameter":"broken"}`))

		assert.Nil(t, r.DiameterMinKM)
		assert.Nil(t, r.DiameterMaxKM)
	})

	t.Run("hazardous flag true", func(t *testing.T) {
		r := flattenRecord(decodeRecord(t, `{"is_potentially_hazardous_asteroid":true}`))
		assert.True(t, r.Hazardous)
	})
}

func TestAverageDiameter(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	t.Run("both present", func(t *testing.T) {
		avg := averageDiameter(f(0.5), f(1.2))
		require.NotNil(t, avg)
		assert.Equal(t, 0.85, *avg)
	})

	t.Run("min missing", func(t *testing.T) {
		assert.Nil(t, averageDiameter(nil, f(1.2)))
	})

	t.Run("max missing", func(t *testing.T) {
		assert.Nil(t, averageDiameter(f(0.5), nil))
	})
}

func TestDataset_HazardousCount(t *testing.T) {
	d := Dataset{
		{Hazardous: true},
		{Hazardous: false},
		{Hazardous: true},
	}
	assert.Equal(t, 2, d.HazardousCount())
	assert.Equal(t, 0, Dataset{}.HazardousCount())
}

func TestDataset_Column(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	d := Dataset{
		{AbsoluteMagnitude: f(16.1)},
		{AbsoluteMagnitude: nil},
		{AbsoluteMagnitude: f(20.5)},
	}

	values := d.Column(NumericColumns[0])
	assert.Equal(t, []float64{16.1, 20.5}, values)
}
