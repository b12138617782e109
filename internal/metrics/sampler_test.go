package metrics

import (
	"testing"
	"time"
)

func TestSamplerStaysInRange(t *testing.T) {
	s := NewSeededSampler(42)
	start := time.Unix(1_700_000_000, 0)
	for i := 0; i < 2000; i++ {
		sample := s.Next(start.Add(time.Duration(i) * time.Second))
		for _, v := range []float64{sample.CPU.Usage, sample.Memory.Usage, sample.Storage.Usage} {
			if v < 0 || v > 100 {
				t.Fatalf("percentage out of range: %v", v)
			}
		}
		if sample.Network.InMbps < 0 || sample.Network.InMbps > 1000 {
			t.Fatalf("network out of range: %v", sample.Network.InMbps)
		}
		if sample.Application.ErrorRate < 0 {
			t.Fatalf("negative error rate")
		}
	}
}

func TestSamplerDriftsSmoothly(t *testing.T) {
	s := NewSeededSampler(7)
	start := time.Unix(1_700_000_000, 0)
	prev := s.Next(start).Memory.Usage
	for i := 1; i < 300; i++ {
		cur := s.Next(start.Add(time.Duration(i) * time.Second)).Memory.Usage
		if diff := cur - prev; diff > 10 || diff < -10 {
			t.Fatalf("memory jumped by %v at %d", diff, i)
		}
		prev = cur
	}
}

func TestParseChannel(t *testing.T) {
	c, err := ParseChannel("database")
	if err != nil || c != ChannelDatabase {
		t.Fatalf("expected database channel, got %v %v", c, err)
	}
	if _, err := ParseChannel("gpu"); err == nil {
		t.Fatalf("expected error for unknown channel")
	}
}
