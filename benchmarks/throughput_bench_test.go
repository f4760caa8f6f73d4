package benchmarks

import (
	"sync/atomic"
	"testing"

	"github.com/comalice/fsmx"
)

func BenchmarkEventThroughput(b *testing.B) {
	var processed int64
	bl := fsmx.NewBuilder[string, string, Ctx]().ID("throughput")
	bl.InternalTransition().Within("idle").On("tick").
		Perform(func(string, string, Ctx) { atomic.AddInt64(&processed, 1) })
	m := bl.MustBuild(Quiet()...)

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := m.FireEvent("idle", "tick", Ctx{}); err != nil {
				b.Error(err)
				return
			}
		}
	})
	b.StopTimer()
	b.ReportMetric(float64(atomic.LoadInt64(&processed))/b.Elapsed().Seconds(), "events/sec")
}

func BenchmarkContendedSink(b *testing.B) {
	m := GenFlat(1, fsmx.WithHistory(false))
	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := m.FireEvent("s0", "tick", Ctx{}); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

func BenchmarkParallelRegions(b *testing.B) {
	regions := make([]*fsmx.Engine[string, string, Ctx], 8)
	states := make([]string, len(regions))
	for i := range regions {
		regions[i] = GenFlat(4, Quiet()...)
		states[i] = "s0"
	}
	p := fsmx.NewParallel(regions...)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for j, r := range p.FireEvent(states, "tick", Ctx{}) {
			if r.Err != nil {
				b.Fatal(r.Err)
			}
			states[j] = r.State
		}
	}
}
