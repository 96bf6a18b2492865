package probe

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"

	"github.com/tommyippoz/arancino-monitor/pkg/sample"
	"github.com/tommyippoz/arancino-monitor/pkg/util/log"
)

// InProcessProbe reads CPU/memory/disk/net counters directly through
// gopsutil, the host-metrics library the teacher itself uses for the same
// purpose. Each metric group is wrapped so one group's failure (e.g.
// disk_io on a platform without counters) never suppresses the others,
// per spec.md §4.3.
type InProcessProbe struct {
	base
	diskPath string
}

// NewInProcessProbe builds an InProcessProbe sampling disk usage at
// diskPath (use "/" on Linux-style gateways).
func NewInProcessProbe(diskPath string) *InProcessProbe {
	return &InProcessProbe{diskPath: diskPath}
}

func (p *InProcessProbe) Describe() string {
	return fmt.Sprintf("InProcess Probe (%d)", len(p.listIndicators()))
}

func (p *InProcessProbe) CanRead() bool {
	return len(p.Read()) > 0
}

func (p *InProcessProbe) ListIndicators() []string {
	return p.listIndicators()
}

func (p *InProcessProbe) Read() sample.Sample {
	out := sample.Sample{}

	p.addCPUTimes(out)
	p.addCPULoad(out)
	p.addMemory(out)
	p.addDisk(out)
	p.addNet(out)

	p.recordIndicators(out)
	return out
}

func (p *InProcessProbe) addCPUTimes(out sample.Sample) {
	times, err := cpu.Times(false)
	if err != nil || len(times) == 0 {
		log.Verbosef(2, "inprocess probe: cpu.Times failed: %v", err)
		return
	}
	t := times[0]
	out["cpu_times.user"] = t.User
	out["cpu_times.system"] = t.System
	out["cpu_times.idle"] = t.Idle
	out["cpu_times.nice"] = t.Nice
	out["cpu_times.iowait"] = t.Iowait
	out["cpu_times.irq"] = t.Irq
	out["cpu_times.softirq"] = t.Softirq
	out["cpu_times.steal"] = t.Steal
}

func (p *InProcessProbe) addCPULoad(out sample.Sample) {
	avg, err := load.Avg()
	if err != nil {
		log.Verbosef(2, "inprocess probe: load.Avg failed: %v", err)
		return
	}
	out["cpu_load.load_1m"] = avg.Load1
	out["cpu_load.load_5m"] = avg.Load5
	out["cpu_load.load_15m"] = avg.Load15
}

func (p *InProcessProbe) addMemory(out sample.Sample) {
	if swap, err := mem.SwapMemory(); err == nil {
		out["swap.total"] = swap.Total
		out["swap.used"] = swap.Used
		out["swap.free"] = swap.Free
		out["swap.used_percent"] = swap.UsedPercent
	} else {
		log.Verbosef(2, "inprocess probe: mem.SwapMemory failed: %v", err)
	}

	if virt, err := mem.VirtualMemory(); err == nil {
		out["virtual.total"] = virt.Total
		out["virtual.available"] = virt.Available
		out["virtual.used"] = virt.Used
		out["virtual.used_percent"] = virt.UsedPercent
		out["virtual.free"] = virt.Free
	} else {
		log.Verbosef(2, "inprocess probe: mem.VirtualMemory failed: %v", err)
	}
}

func (p *InProcessProbe) addDisk(out sample.Sample) {
	if usage, err := disk.Usage(p.diskPath); err == nil {
		out["disk.total"] = usage.Total
		out["disk.used"] = usage.Used
		out["disk.free"] = usage.Free
		out["disk.used_percent"] = usage.UsedPercent
	} else {
		log.Verbosef(2, "inprocess probe: disk.Usage(%s) failed: %v", p.diskPath, err)
	}

	if counters, err := disk.IOCounters(); err == nil {
		var total disk.IOCountersStat
		for _, c := range counters {
			total.ReadCount += c.ReadCount
			total.WriteCount += c.WriteCount
			total.ReadBytes += c.ReadBytes
			total.WriteBytes += c.WriteBytes
		}
		out["disk_io.read_count"] = total.ReadCount
		out["disk_io.write_count"] = total.WriteCount
		out["disk_io.read_bytes"] = total.ReadBytes
		out["disk_io.write_bytes"] = total.WriteBytes
	} else {
		// Not available on every platform; swallow per spec.md §4.3.
		log.Verbosef(2, "inprocess probe: disk.IOCounters failed: %v", err)
	}
}

func (p *InProcessProbe) addNet(out sample.Sample) {
	counters, err := net.IOCounters(false)
	if err != nil || len(counters) == 0 {
		log.Verbosef(2, "inprocess probe: net.IOCounters failed: %v", err)
		return
	}
	c := counters[0]
	out["net_io.bytes_sent"] = c.BytesSent
	out["net_io.bytes_recv"] = c.BytesRecv
	out["net_io.packets_sent"] = c.PacketsSent
	out["net_io.packets_recv"] = c.PacketsRecv
	out["net_io.errin"] = c.Errin
	out["net_io.errout"] = c.Errout
	out["net_io.dropin"] = c.Dropin
	out["net_io.dropout"] = c.Dropout
}
