package metrics

import (
	"math"
	"math/rand"
	"time"
)

// drift period of the sinusoid every generator is anchored to.
const driftPeriod = 5 * time.Minute

// Sampler generates plausible-looking metrics. Values follow a slow sinusoid
// with bounded noise and are clamped to realistic ranges.
type Sampler struct {
	rnd   *rand.Rand
	cores int
}

// NewSampler returns a Sampler seeded with the current time.
func NewSampler() *Sampler {
	return NewSeededSampler(time.Now().UnixNano())
}

// NewSeededSampler returns a deterministic Sampler.
func NewSeededSampler(seed int64) *Sampler {
	return &Sampler{rnd: rand.New(rand.NewSource(seed)), cores: 8}
}

// Next produces the sample for the given instant.
func (s *Sampler) Next(now time.Time) Sample {
	phase := 2 * math.Pi * float64(now.UnixNano()%int64(driftPeriod)) / float64(driftPeriod)
	wave := math.Sin(phase)

	cpu := s.around(45+20*wave, 8, 0, 100)
	mem := s.around(62+10*wave, 4, 0, 100)
	totalGB := 32.0
	return Sample{
		Taken: now,
		CPU: CPU{
			Usage:       cpu,
			Cores:       s.cores,
			Temperature: clamp(38+cpu*0.4+s.noise(2), 30, 95),
			LoadAverage: clamp(float64(s.cores)*cpu/100+s.noise(0.3), 0, float64(s.cores)*2),
		},
		Memory: Memory{
			Usage:   mem,
			UsedGB:  totalGB * mem / 100,
			TotalGB: totalGB,
		},
		Storage: Storage{
			Usage:     s.around(71+2*wave, 0.5, 0, 100),
			ReadMBps:  s.around(120+60*wave, 25, 0, 550),
			WriteMBps: s.around(80+40*wave, 20, 0, 500),
		},
		Network: Network{
			InMbps:    s.around(240+120*wave, 40, 0, 1000),
			OutMbps:   s.around(180+90*wave, 30, 0, 1000),
			LatencyMs: s.around(18-6*wave, 4, 1, 250),
		},
		Database: Database{
			Connections:   int(s.around(40+20*wave, 6, 0, 200)),
			QueriesPerSec: s.around(350+150*wave, 50, 0, 5000),
			ResponseMs:    s.around(12+5*wave, 3, 0.5, 2000),
		},
		Application: Application{
			ActiveUsers:    int(s.around(300+150*wave, 30, 0, 5000)),
			RequestsPerMin: s.around(1800+700*wave, 200, 0, 20000),
			ErrorRate:      s.around(0.6+0.3*wave, 0.2, 0, 100),
		},
		Security: Security{
			FailedLogins: int(s.around(3+2*wave, 2, 0, 500)),
			BlockedIPs:   int(s.around(1+wave, 1, 0, 100)),
			Events:       s.around(6+4*wave, 3, 0, 1000),
		},
	}
}

func (s *Sampler) around(base, spread, lo, hi float64) float64 {
	return clamp(base+s.noise(spread), lo, hi)
}

// noise is uniform in [-spread, spread].
func (s *Sampler) noise(spread float64) float64 {
	return (s.rnd.Float64()*2 - 1) * spread
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
