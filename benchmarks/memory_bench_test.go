package benchmarks

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/comalice/fsmx"
)

func BenchmarkMemoryFlat(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("states=%d", n), func(b *testing.B) {
			numMachines := 100
			var before runtime.MemStats
			runtime.ReadMemStats(&before)
			machines := make([]*fsmx.Engine[string, string, Ctx], numMachines)
			for i := 0; i < numMachines; i++ {
				machines[i] = GenFlat(n)
			}
			runtime.GC()
			var after runtime.MemStats
			runtime.ReadMemStats(&after)
			bytesPerMachine := (after.TotalAlloc - before.TotalAlloc) / uint64(numMachines)
			b.ReportMetric(float64(bytesPerMachine)/1024, "KB/machine")
			b.ReportMetric(float64(bytesPerMachine/uint64(n)), "B/transition")
			runtime.KeepAlive(machines)
		})
	}
}

func BenchmarkMemoryHistory(b *testing.B) {
	m := GenFlat(1, fsmx.WithMetrics(false))
	var before runtime.MemStats
	runtime.ReadMemStats(&before)
	for i := 0; i < b.N; i++ {
		_, _ = m.FireEvent("s0", "tick", Ctx{})
	}
	var after runtime.MemStats
	runtime.ReadMemStats(&after)
	if b.N > 0 {
		b.ReportMetric(float64(after.TotalAlloc-before.TotalAlloc)/float64(b.N), "B/record")
	}
}
