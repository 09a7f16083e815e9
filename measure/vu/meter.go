// Package vu implements VU-style meter ballistics with peak hold and a
// per-channel LED quantizer.
package vu

import (
	"fmt"
	"math"

	"github.com/meko-christian/algo-approx"
)

const (
	// Ballistic constants, fixed rather than derived from the host
	// sample rate.
	meterAttack  = 0.8
	meterDecay   = 0.12
	rmsTimeConst = 0.1
	ledAttack    = 1.0
	ledDecay     = 0.4

	peakHoldSamples = 22050
)

// ledThresholds quantize a level into seven LED states.
var ledThresholds = [...]float64{0.001, 0.01, 0.1, 0.2, 0.4, 1.0}

// Meter tracks peak, RMS and peak-hold levels across blocks of samples.
type Meter struct {
	channels int

	peak     float64
	rms      float64
	peakHold float64
	holdAge  int

	chanPeaks    []float64
	chanHolds    []float64
	chanHoldAges []int
}

// NewMeter creates a new VU meter with the given options.
func NewMeter(opts ...MeterOption) *Meter {
	cfg := ApplyMeterOptions(opts...)

	return &Meter{
		channels:     cfg.Channels,
		chanPeaks:    make([]float64, cfg.Channels),
		chanHolds:    make([]float64, cfg.Channels),
		chanHoldAges: make([]int, cfg.Channels),
	}
}

// Channels returns the configured channel count.
func (m *Meter) Channels() int { return m.channels }

// Reset clears all levels and hold timers.
func (m *Meter) Reset() {
	m.peak = 0
	m.rms = 0
	m.peakHold = 0
	m.holdAge = 0
	for c := range m.chanPeaks {
		m.chanPeaks[c] = 0
		m.chanHolds[c] = 0
		m.chanHoldAges[c] = 0
	}
}

// Process updates the meter from n samples per channel.
func (m *Meter) Process(ins [][]float64, n int) error {
	if len(ins) != m.channels {
		return fmt.Errorf("vu: channel count mismatch: %d != %d", len(ins), m.channels)
	}
	for c, in := range ins {
		if len(in) < n {
			return fmt.Errorf("vu: channel %d has %d < %d samples", c, len(in), n)
		}
	}
	if n == 0 {
		return nil
	}

	blockPeak := 0.0
	sumSq := 0.0
	for c, in := range ins {
		chPeak := 0.0
		for _, v := range in[:n] {
			a := math.Abs(v)
			if a > chPeak {
				chPeak = a
			}
			sumSq += v * v
		}
		if chPeak > blockPeak {
			blockPeak = chPeak
		}

		m.chanPeaks[c] = smooth(m.chanPeaks[c], chPeak, ledAttack, ledDecay)
		m.chanHolds[c], m.chanHoldAges[c] = hold(m.chanHolds[c], chPeak, m.chanHoldAges[c], n)
	}

	m.peak = smooth(m.peak, blockPeak, meterAttack, meterDecay)
	m.peakHold, m.holdAge = hold(m.peakHold, blockPeak, m.holdAge, n)

	blockRMS := approx.FastSqrt(sumSq / float64(n*m.channels))
	m.rms += rmsTimeConst * (blockRMS - m.rms)
	return nil
}

// smooth moves cur toward target with separate attack and decay rates.
func smooth(cur, target, attack, decay float64) float64 {
	if target > cur {
		return cur + attack*(target-cur)
	}
	return cur + decay*(target-cur)
}

// hold updates a peak-hold level: a new maximum restarts the timer, and
// an expired timer drops the hold to the current level.
func hold(level, target float64, age, n int) (float64, int) {
	if target > level {
		return target, 0
	}
	age += n
	if age >= peakHoldSamples {
		return target, 0
	}
	return level, age
}

// Peak returns the smoothed overall peak level.
func (m *Meter) Peak() float64 { return m.peak }

// RMS returns the smoothed RMS level.
func (m *Meter) RMS() float64 { return m.rms }

// PeakHold returns the held peak level.
func (m *Meter) PeakHold() float64 { return m.peakHold }

// Over reports whether the held peak reached full scale.
func (m *Meter) Over() bool { return m.peakHold >= 1.0 }

// LEDState quantizes the smoothed peak of channel ch into 0..7 lit
// segments.
func (m *Meter) LEDState(ch int) int {
	if ch < 0 || ch >= m.channels {
		return 0
	}
	level := m.chanPeaks[ch]
	state := 0
	for _, th := range ledThresholds {
		if level >= th {
			state++
		}
	}
	return state
}
