// Package metrics produces the operations-console telemetry stream: a
// simulated sampler, per-channel ring buffers and the ticker that drives them.
package metrics

import (
	"fmt"
	"strings"
	"time"
)

// Channel is one charted metrics group.
type Channel int

const (
	ChannelCPU Channel = iota
	ChannelMemory
	ChannelStorage
	ChannelNetwork
	ChannelDatabase
	ChannelApplication
	ChannelSecurity
)

// Channels lists every channel in tab order.
var Channels = []Channel{
	ChannelCPU,
	ChannelMemory,
	ChannelStorage,
	ChannelNetwork,
	ChannelDatabase,
	ChannelApplication,
	ChannelSecurity,
}

var channelNames = []string{"CPU", "Memory", "Storage", "Network", "Database", "Application", "Security"}

var channelUnits = []string{"%", "%", "%", "Mbps", "ms", "req/min", "events"}

func (c Channel) String() string {
	if int(c) < 0 || int(c) >= len(channelNames) {
		return fmt.Sprintf("Channel(%d)", int(c))
	}
	return channelNames[c]
}

// Unit is the unit of the charted value.
func (c Channel) Unit() string {
	if int(c) < 0 || int(c) >= len(channelUnits) {
		return ""
	}
	return channelUnits[c]
}

// ParseChannel looks a channel up by name.
func ParseChannel(name string) (Channel, error) {
	for _, c := range Channels {
		if strings.EqualFold(c.String(), strings.TrimSpace(name)) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown metrics channel %q", name)
}

// CPU metrics.
type CPU struct {
	Usage       float64
	Cores       int
	Temperature float64
	LoadAverage float64
}

// Memory metrics.
type Memory struct {
	Usage   float64
	UsedGB  float64
	TotalGB float64
}

// Storage metrics.
type Storage struct {
	Usage     float64
	ReadMBps  float64
	WriteMBps float64
}

// Network metrics.
type Network struct {
	InMbps    float64
	OutMbps   float64
	LatencyMs float64
}

// Database metrics.
type Database struct {
	Connections   int
	QueriesPerSec float64
	ResponseMs    float64
}

// Application metrics.
type Application struct {
	ActiveUsers    int
	RequestsPerMin float64
	ErrorRate      float64
}

// Security metrics.
type Security struct {
	FailedLogins int
	BlockedIPs   int
	Events       float64
}

// Sample is one snapshot of every channel.
type Sample struct {
	Taken       time.Time
	CPU         CPU
	Memory      Memory
	Storage     Storage
	Network     Network
	Database    Database
	Application Application
	Security    Security
}

// Value returns the charted value of a channel.
func (s Sample) Value(c Channel) float64 {
	switch c {
	case ChannelCPU:
		return s.CPU.Usage
	case ChannelMemory:
		return s.Memory.Usage
	case ChannelStorage:
		return s.Storage.Usage
	case ChannelNetwork:
		return s.Network.InMbps
	case ChannelDatabase:
		return s.Database.ResponseMs
	case ChannelApplication:
		return s.Application.RequestsPerMin
	case ChannelSecurity:
		return s.Security.Events
	default:
		return 0
	}
}

// Source produces samples. The simulated sampler is the only implementation
// until the backend exposes telemetry.
type Source interface {
	Next(now time.Time) Sample
}
