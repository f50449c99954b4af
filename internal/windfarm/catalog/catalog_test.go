package catalog

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name      string
		district  string
		wantSpeed float64
		wantTI    float64
		wantLabel Potential
	}{
		{"bhopal", "Bhopal", 4.2, 12.5, PotentialLow},
		{"indore", "Indore", 5.7, 11.2, PotentialMedium},
		{"jabalpur", "Jabalpur", 4.8, 13.0, PotentialLowMedium},
		{"ujjain", "Ujjain", 5.2, 11.8, PotentialMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Lookup(tt.district)
			require.NoError(t, err)
			assert.Equal(t, tt.district, p.Name)
			assert.Equal(t, tt.wantSpeed, p.AvgWindSpeed)
			assert.Equal(t, tt.wantTI, p.Turbulence)
			assert.Equal(t, tt.wantLabel, p.Potential)
			assert.NotEmpty(t, p.Source.Name)
			assert.NotEmpty(t, p.Source.URL)
		})
	}
}

func TestLookup_NotFound(t *testing.T) {
	for _, name := range []string{"", "Gwalior", "indore", " Indore"} {
		t.Run("name="+name, func(t *testing.T) {
			_, err := Lookup(name)
			require.Error(t, err)

			var nf *NotFoundError
			require.True(t, errors.As(err, &nf))
			assert.Equal(t, name, nf.Name)
			assert.True(t, errors.Is(err, ErrDistrictNotFound))
		})
	}
}

func TestListNames_Order(t *testing.T) {
	assert.Equal(t, []string{"Bhopal", "Indore", "Jabalpur", "Ujjain"}, ListNames())
}

func TestListNames_ReturnsCopy(t *testing.T) {
	names := ListNames()
	names[0] = "mutated"
	assert.Equal(t, "Bhopal", ListNames()[0])

	all := All()
	all[0].AvgWindSpeed = 99
	p, err := Lookup("Bhopal")
	require.NoError(t, err)
	assert.Equal(t, 4.2, p.AvgWindSpeed)
}

func TestProfiles_PositiveBaselines(t *testing.T) {
	for _, p := range All() {
		assert.Greater(t, p.AvgWindSpeed, 0.0, p.Name)
		assert.Greater(t, p.Turbulence, 0.0, p.Name)
	}
}

func TestDefault(t *testing.T) {
	assert.Equal(t, "Indore", Default().Name)
	assert.Equal(t, ListNames()[DefaultIndex], Default().Name)
}

func TestLookup_ConcurrentReads(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			names := ListNames()
			p, err := Lookup(names[i%len(names)])
			assert.NoError(t, err)
			assert.Equal(t, names[i%len(names)], p.Name)
		}(i)
	}
	wg.Wait()
}
