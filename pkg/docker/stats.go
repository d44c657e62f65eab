package docker

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/docker/docker/api/types/container"

	"github.com/bnema/mcp-docker/pkg/utils/humanize"
)

// ContainerStats takes a single, non-streaming stats sample and derives utilisation from it.
func (c *Client) ContainerStats(ctx context.Context, id string) (ContainerStats, error) {
	resp, err := c.api.ContainerStats(ctx, id, false)
	if err != nil {
		return ContainerStats{}, fmt.Errorf("failed to get stats for container %q: %w", id, err)
	}
	defer resp.Body.Close()

	var sample container.StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&sample); err != nil {
		return ContainerStats{}, fmt.Errorf("failed to decode stats for container %q: %w", id, err)
	}

	return DeriveStats(sample), nil
}

// DeriveStats computes percentages and formatted byte counts from one sample.
// The sample's pre-CPU counters are the previous reading. A zero system delta yields 0% CPU
// and a zero memory limit yields 0% memory.
func DeriveStats(s container.StatsResponse) ContainerStats {
	cpuDelta := float64(s.CPUStats.CPUUsage.TotalUsage) - float64(s.PreCPUStats.CPUUsage.TotalUsage)
	systemDelta := float64(s.CPUStats.SystemUsage) - float64(s.PreCPUStats.SystemUsage)

	onlineCPUs := float64(s.CPUStats.OnlineCPUs)
	if onlineCPUs == 0 {
		onlineCPUs = 1
	}

	var cpuPercent float64
	if systemDelta > 0 {
		cpuPercent = cpuDelta / systemDelta * onlineCPUs * 100
	}

	var memPercent float64
	if s.MemoryStats.Limit > 0 {
		memPercent = float64(s.MemoryStats.Usage) / float64(s.MemoryStats.Limit) * 100
	}

	var rx, tx uint64
	for _, n := range s.Networks {
		rx += n.RxBytes
		tx += n.TxBytes
	}

	read := blkioValue(s.BlkioStats.IoServiceBytesRecursive, "Read")
	write := blkioValue(s.BlkioStats.IoServiceBytesRecursive, "Write")

	return ContainerStats{
		CPUPercentage:    round2(cpuPercent),
		MemoryUsage:      humanize.FormatBytes(s.MemoryStats.Usage),
		MemoryLimit:      humanize.FormatBytes(s.MemoryStats.Limit),
		MemoryPercentage: round2(memPercent),
		NetworkRx:        humanize.FormatBytes(rx),
		NetworkTx:        humanize.FormatBytes(tx),
		BlockRead:        humanize.FormatBytes(read),
		BlockWrite:       humanize.FormatBytes(write),
	}
}

// blkioValue returns the first entry labelled op. Lowercase labels (cgroup v2) are only
// used when no exact entry exists. Missing entries count as 0.
func blkioValue(entries []container.BlkioStatEntry, op string) uint64 {
	for _, e := range entries {
		if e.Op == op {
			return e.Value
		}
	}
	for _, e := range entries {
		if strings.EqualFold(e.Op, op) {
			return e.Value
		}
	}
	return 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
