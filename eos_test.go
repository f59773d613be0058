package eos_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eos "github.com/jplmlia/eos-go"
	"github.com/jplmlia/eos-go/internal/testutil"
)

func defaultInitParams() eos.InitParams {
	return eos.InitParams{
		Params: eos.InitDefaultParams(),
		ThermalBandShapes: [3]eos.Shape{
			{Rows: 10, Cols: 5, Bands: 1},
			{Rows: 10, Cols: 5, Bands: 1},
			{Rows: 10, Cols: 5, Bands: 1},
		},
		SpectralShape: eos.Shape{Rows: 4, Cols: 4, Bands: 3},
	}
}

func TestPublicCallsRequireInit(t *testing.T) {
	require.NoError(t, eos.Teardown())

	_, err := eos.ThermalDetect(&eos.ThermalObservation{}, eos.ThermalParams{})
	requireStatus(t, err, eos.StatusNotInitialized)

	_, err = eos.SpectralDetect(&eos.SpectralObservation{}, eos.SpectralParams{})
	requireStatus(t, err, eos.StatusNotInitialized)

	_, err = eos.NewParticleState(eos.InitDefaultParams().Particle)
	requireStatus(t, err, eos.StatusNotInitialized)
}

func TestInitSelfAllocatesAndTeardownResets(t *testing.T) {
	p := defaultInitParams()
	require.NoError(t, eos.Init(p, nil, nil))
	defer eos.Teardown()

	required := eos.MemoryRequirement(p)
	assert.Greater(t, required, uint64(0))

	_, err := eos.ThermalDetect(&eos.ThermalObservation{}, p.Thermal)
	require.NoError(t, err)

	require.NoError(t, eos.Teardown())
	_, err = eos.ThermalDetect(&eos.ThermalObservation{}, p.Thermal)
	requireStatus(t, err, eos.StatusNotInitialized)
}

func TestInitRejectsUndersizedCallerMemory(t *testing.T) {
	p := defaultInitParams()
	tooSmall := make([]byte, 4)
	err := eos.Init(p, tooSmall, nil)
	requireStatus(t, err, eos.StatusInsufficientMemory)
}

func TestInitWithExactCallerMemory(t *testing.T) {
	p := defaultInitParams()
	required := eos.MemoryRequirement(p)
	mem := make([]byte, required)
	require.NoError(t, eos.Init(p, mem, nil))
	defer eos.Teardown()

	_, err := eos.ThermalDetect(&eos.ThermalObservation{}, p.Thermal)
	require.NoError(t, err)
}

// TestThermalDetectTop3 is the spec's scenario 1: a single 10x5 band
// where values 9, 10 and 11 at (7,2), (7,4) and (8,1) reach threshold 8,
// requesting the top 3.
func TestThermalDetectTop3(t *testing.T) {
	p := defaultInitParams()
	require.NoError(t, eos.Init(p, nil, nil))
	defer eos.Teardown()

	overrides := map[[2]int]uint16{
		{7, 2}: 9,
		{7, 4}: 10,
		{8, 1}: 11,
	}
	band := testutil.ThermalBand(10, 5, 0, overrides)

	obs := &eos.ThermalObservation{}
	obs.Bands[0] = band
	obs.Bands[1] = testutil.ThermalBand(10, 5, 0, nil)
	obs.Bands[2] = testutil.ThermalBand(10, 5, 0, nil)

	res, err := eos.ThermalDetect(obs, eos.ThermalParams{Thresholds: [3]uint16{8, 8, 8}, NumResults: 3})
	require.NoError(t, err)

	got := res.Bands[0]
	require.Len(t, got, 3)
	assert.Equal(t, eos.Detection{Row: 8, Col: 1, Score: 11}, got[0])
	assert.Equal(t, eos.Detection{Row: 7, Col: 4, Score: 10}, got[1])
	assert.Equal(t, eos.Detection{Row: 7, Col: 2, Score: 9}, got[2])

	assert.Empty(t, res.Bands[1])
	assert.Empty(t, res.Bands[2])
}

func TestSpectralDetectFlagsOutlierPixel(t *testing.T) {
	p := defaultInitParams()
	p.SpectralShape = eos.Shape{Rows: 1, Cols: 3, Bands: 2}
	require.NoError(t, eos.Init(p, nil, nil))
	defer eos.Teardown()

	obs := testutil.SpectralObservation(1, 1, 1, 3, 2, []uint16{
		1, 1,
		2, 2,
		100, 100,
	})

	res, err := eos.SpectralDetect(obs, eos.SpectralParams{Algorithm: eos.SpectralAlgorithmRX, NumResults: 3})
	require.NoError(t, err)
	require.Len(t, res.Detections, 3)
	assert.Equal(t, uint32(2), res.Detections[0].Col)
	assert.Greater(t, res.Detections[0].Score, res.Detections[1].Score)
}

func TestSpectralDetectRejectsBadAlgorithm(t *testing.T) {
	p := defaultInitParams()
	require.NoError(t, eos.Init(p, nil, nil))
	defer eos.Teardown()

	obs := testutil.SpectralObservation(1, 1, 1, 2, 2, []uint16{1, 2, 3, 4})
	_, err := eos.SpectralDetect(obs, eos.SpectralParams{Algorithm: eos.SpectralAlgorithm(99), NumResults: 1})
	requireStatus(t, err, eos.StatusParamError)
}

// TestParticleStreamMedian is the spec's scenario 4 run through the
// public ParticleState API end to end.
func TestParticleStreamMedian(t *testing.T) {
	p := defaultInitParams()
	p.Particle = eos.ParticleParams{
		Algorithm:       eos.ParticleAlgorithmBaseline,
		Filter:          eos.FilterMedian,
		Threshold:       0,
		MaxObservations: 3,
		MaxBins:         30,
	}
	require.NoError(t, eos.Init(p, nil, nil))
	defer eos.Teardown()

	state, err := eos.NewParticleState(p.Particle)
	require.NoError(t, err)

	energies := testutil.UniformBinEnergies(30)
	wantScores := []float64{0, 0, 30, 0, 30, 30}
	for i, value := range []uint16{0, 1, 2, 3, 4, 5} {
		counts := make([]uint16, 30)
		for b := range counts {
			counts[b] = value
		}
		obs := testutil.ParticleObservation(uint32(i), uint32(i), eos.ModeMagnetospheric, counts, energies)
		det, err := state.OnRecv(obs)
		require.NoError(t, err)
		assert.Equal(t, wantScores[i], det.Score, "observation %d", i)
	}
}

func TestParticleStreamRejectsBinMismatch(t *testing.T) {
	p := defaultInitParams()
	p.Particle = eos.ParticleParams{
		Algorithm: eos.ParticleAlgorithmBaseline, Filter: eos.FilterIdentity,
		Threshold: 1000, MaxObservations: 2, MaxBins: 4,
	}
	require.NoError(t, eos.Init(p, nil, nil))
	defer eos.Teardown()

	state, err := eos.NewParticleState(p.Particle)
	require.NoError(t, err)

	e4 := testutil.UniformBinEnergies(4)
	_, err = state.OnRecv(testutil.ParticleObservation(0, 0, eos.ModeIonospheric, []uint16{1, 2, 3, 4}, e4))
	require.NoError(t, err)

	e5 := testutil.UniformBinEnergies(5)
	_, err = state.OnRecv(testutil.ParticleObservation(1, 1, eos.ModeIonospheric, []uint16{1, 2, 3, 4, 5}, e5))
	requireStatus(t, err, eos.StatusPIMSBinsMismatch)
}

func TestLoadThermalRoundTripAndErrors(t *testing.T) {
	buf := testutil.FramedHeader("EOS_ETHEMIS", 0x01)
	buf = testutil.BEPutU32(buf, 1)
	buf = testutil.BEPutU32(buf, 2)
	for i := 0; i < 3; i++ {
		buf = testutil.BEPutU32(buf, 1) // cols
		buf = testutil.BEPutU32(buf, 1) // rows
	}
	for i := 0; i < 3; i++ {
		buf = testutil.BEPutU16(buf, uint16(100+i))
	}

	obs, err := eos.LoadThermal(buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), obs.ID)

	_, err = eos.LoadThermal([]byte("NOPE0000"))
	requireStatus(t, err, eos.StatusETMLoadError)

	badVersion := testutil.FramedHeader("EOS_ETHEMIS", 0x02)
	_, err = eos.LoadThermal(badVersion)
	requireStatus(t, err, eos.StatusETMVersionError)
}

func TestLoadSpectralRoundTrip(t *testing.T) {
	buf := testutil.FramedHeader("EOS_MISE", 0x01)
	buf = testutil.BEPutU32(buf, 7)
	buf = testutil.BEPutU32(buf, 9)
	buf = testutil.BEPutU32(buf, 2)
	buf = testutil.BEPutU32(buf, 2)
	buf = testutil.BEPutU32(buf, 3)
	for i := uint16(1); i <= 12; i++ {
		buf = testutil.BEPutU16(buf, i)
	}

	obs, err := eos.LoadSpectral(buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), obs.ID)
	assert.Equal(t, uint32(3), obs.Shape.Bands)
}

func particleFileBuf(t *testing.T, modeBins [][]float32, mode uint32, counts []uint32) []byte {
	t.Helper()
	maxBins := len(modeBins[0])
	buf := testutil.FramedHeader("EOS_PIMS", 0x01)
	buf = testutil.BEPutU32(buf, 99)
	buf = testutil.BEPutU32(buf, uint32(len(modeBins)))
	buf = testutil.BEPutU32(buf, uint32(maxBins))
	buf = testutil.BEPutU32(buf, 1)
	for _, e := range modeBins[0] {
		buf = testutil.BEPutF32(buf, e)
	}
	buf = testutil.BEPutU32(buf, 0)
	buf = testutil.BEPutU32(buf, 1000)
	buf = testutil.BEPutU32(buf, uint32(len(modeBins[mode])))
	buf = testutil.BEPutU32(buf, mode)
	for _, c := range counts {
		buf = testutil.BEPutU32(buf, c)
	}
	return buf
}

func TestLoadParticleRoundTripAndAttributes(t *testing.T) {
	buf := particleFileBuf(t, [][]float32{{1, 2, 3}}, 0, []uint32{5, 6, 7})

	f, err := eos.LoadParticle(buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(99), f.FileID)

	numModes, maxBins, numObs, err := eos.ParticleObservationAttributes(buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), numModes)
	assert.Equal(t, uint32(3), maxBins)
	assert.Equal(t, uint32(1), numObs)

	_, err = eos.LoadParticle([]byte("NOPE0000"))
	requireStatus(t, err, eos.StatusPIMSLoadError)
}

func requireStatus(t *testing.T, err error, want eos.Status) {
	t.Helper()
	require.Error(t, err)
	var eerr *eos.Error
	require.ErrorAs(t, err, &eerr)
	assert.Equal(t, want, eerr.Status)
}
