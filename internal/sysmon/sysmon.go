// Package sysmon samples CPU usage, CPU temperature and memory use for the
// bar's system load segments.
package sysmon

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Reading is one sample of system load.
type Reading struct {
	// CPUUsage is the overall CPU usage in percent.
	CPUUsage float64 `json:"cpu_usage"`
	// CPUTemp is the package temperature in °C, 0 when no known sensor
	// was found.
	CPUTemp float64 `json:"cpu_temp"`
	// RAMUsedGB is total minus available memory, in gigabytes (1e9 bytes).
	RAMUsedGB float64   `json:"ram_used_gb"`
	Time      time.Time `json:"time"`
}

// Segment names one value shown on the bar.
type Segment string

const (
	SegmentCPU  Segment = "cpu"
	SegmentTemp Segment = "temp"
	SegmentRAM  Segment = "ram"
)

// DefaultSegments is the order segments appear in when not configured.
var DefaultSegments = []Segment{SegmentCPU, SegmentTemp, SegmentRAM}

// MaxPrecision bounds the number of decimals a segment is formatted with.
const MaxPrecision = 6

// ParseSegment parses a segment name, case-insensitively.
func ParseSegment(name string) (Segment, error) {
	switch s := Segment(strings.ToLower(strings.TrimSpace(name))); s {
	case SegmentCPU, SegmentTemp, SegmentRAM:
		return s, nil
	default:
		return "", fmt.Errorf("unknown segment %q: want cpu, temp or ram", name)
	}
}

// Item is one formatted segment as drawn on the bar.
type Item struct {
	Segment Segment `json:"segment"`
	Text    string  `json:"text"`
}

// Formatter turns readings into bar items.
type Formatter struct {
	Segments  []Segment
	Precision int
}

// Format renders r for each configured segment, in order.
func (f Formatter) Format(r Reading) []Item {
	items := make([]Item, 0, len(f.Segments))
	for _, seg := range f.Segments {
		var text string
		switch seg {
		case SegmentCPU:
			text = f.number(r.CPUUsage) + "%"
		case SegmentTemp:
			text = f.number(r.CPUTemp) + "°"
		case SegmentRAM:
			text = f.number(r.RAMUsedGB) + " GB"
		default:
			continue
		}
		items = append(items, Item{Segment: seg, Text: text})
	}
	return items
}

func (f Formatter) number(v float64) string {
	prec := min(max(f.Precision, 0), MaxPrecision)
	return strconv.FormatFloat(v, 'f', prec, 64)
}
