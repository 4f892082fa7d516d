package monitoring

import (
	"runtime"
	"sort"
	"sync"
	"time"
)

// 预测结果分类
const (
	OutcomeOK              = "ok"
	OutcomeInvalidInput    = "invalid_input"
	OutcomeUnknownCategory = "unknown_category"
	OutcomeError           = "error"
)

// maxSamples 每类结果保留的延迟样本上限
const maxSamples = 1000

// MetricsCollector 指标收集器
type MetricsCollector struct {
	mu        sync.RWMutex
	counters  map[string]int64
	latencies map[string][]time.Duration
	startTime time.Time
}

// LatencySummary 延迟摘要
type LatencySummary struct {
	Count   int     `json:"count"`
	MinMs   float64 `json:"min_ms"`
	MaxMs   float64 `json:"max_ms"`
	AvgMs   float64 `json:"avg_ms"`
	P95Ms   float64 `json:"p95_ms"`
	Samples int     `json:"samples"`
}

// Snapshot 指标快照
type Snapshot struct {
	Counters      map[string]int64          `json:"counters"`
	Latency       map[string]LatencySummary `json:"latency"`
	UptimeSeconds float64                   `json:"uptime_seconds"`
	Goroutines    int                       `json:"goroutines"`
	HeapAlloc     uint64                    `json:"heap_alloc"`
}

// NewMetricsCollector 创建指标收集器
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		counters:  make(map[string]int64),
		latencies: make(map[string][]time.Duration),
		startTime: time.Now(),
	}
}

// RecordPrediction 记录一次预测的结果与延迟
func (mc *MetricsCollector) RecordPrediction(outcome string, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.counters["predictions_total"]++
	mc.counters["predictions_"+outcome]++

	samples := append(mc.latencies[outcome], duration)
	if len(samples) > maxSamples {
		samples = samples[len(samples)-maxSamples:]
	}
	mc.latencies[outcome] = samples
}

// IncrCounter 增加计数器
func (mc *MetricsCollector) IncrCounter(name string, delta int64) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.counters[name] += delta
}

func (mc *MetricsCollector) Counter(name string) int64 {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.counters[name]
}

// Snapshot 获取指标快照
func (mc *MetricsCollector) Snapshot() Snapshot {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	snap := Snapshot{
		Counters:      make(map[string]int64, len(mc.counters)),
		Latency:       make(map[string]LatencySummary, len(mc.latencies)),
		UptimeSeconds: time.Since(mc.startTime).Seconds(),
		Goroutines:    runtime.NumGoroutine(),
		HeapAlloc:     mem.HeapAlloc,
	}
	for name, v := range mc.counters {
		snap.Counters[name] = v
	}
	for outcome, samples := range mc.latencies {
		summary := summarize(samples)
		summary.Count = int(mc.counters["predictions_"+outcome])
		snap.Latency[outcome] = summary
	}
	return snap
}

func summarize(samples []time.Duration) LatencySummary {
	if len(samples) == 0 {
		return LatencySummary{}
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}
	p95 := sorted[(len(sorted)*95+99)/100-1]
	return LatencySummary{
		MinMs:   ms(sorted[0]),
		MaxMs:   ms(sorted[len(sorted)-1]),
		AvgMs:   ms(sum / time.Duration(len(sorted))),
		P95Ms:   ms(p95),
		Samples: len(sorted),
	}
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
