package otel

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
)

var (
	initMetricsOnce     sync.Once
	pingsCounter        metric.Int64Counter
	pokesCounter        metric.Int64Counter
	remindersCounter    metric.Int64Counter
	activationsCounter  metric.Int64Counter
	forwardsCounter     metric.Int64Counter
	probesCounter       metric.Int64Counter
	tickErrorsCounter   metric.Int64Counter
	tickDuration        metric.Float64Histogram
	sseEventsCounter    metric.Int64Counter
	sseConnectionsGauge metric.Int64ObservableGauge
	sseConnections      int64
	sseConnectionsMu    sync.Mutex
)

// InitMetrics creates the meter instruments. Safe to call multiple times; only runs once.
// Call after InitMeterProvider.
func InitMetrics(ctx context.Context) error {
	var err error
	initMetricsOnce.Do(func() {
		m := Meter()
		pingsCounter, err = m.Int64Counter("crewdeck_unread_pings_total", metric.WithDescription("Total unread-message pings dispatched"))
		if err != nil {
			return
		}
		pokesCounter, err = m.Int64Counter("crewdeck_gentle_pokes_total", metric.WithDescription("Total gentle pokes sent to idle agents"))
		if err != nil {
			return
		}
		remindersCounter, err = m.Int64Counter("crewdeck_reminders_fired_total", metric.WithDescription("Total scheduled reminder firings"))
		if err != nil {
			return
		}
		activationsCounter, err = m.Int64Counter("crewdeck_phase_activations_total", metric.WithDescription("Total phase activations by the dependency engine"))
		if err != nil {
			return
		}
		forwardsCounter, err = m.Int64Counter("crewdeck_delegate_forwards_total", metric.WithDescription("Total director assignments forwarded to the delegate role"))
		if err != nil {
			return
		}
		probesCounter, err = m.Int64Counter("crewdeck_liveness_probes_total", metric.WithDescription("Total liveness probes by resulting status"))
		if err != nil {
			return
		}
		tickErrorsCounter, err = m.Int64Counter("crewdeck_tick_errors_total", metric.WithDescription("Total per-item errors swallowed by the scheduler"))
		if err != nil {
			return
		}
		tickDuration, err = m.Float64Histogram("crewdeck_tick_duration_seconds", metric.WithDescription("Per-project tick duration in seconds"))
		if err != nil {
			return
		}
		sseEventsCounter, err = m.Int64Counter("crewdeck_sse_events_total", metric.WithDescription("Total SSE events published"))
		if err != nil {
			return
		}
		sseConnectionsGauge, err = m.Int64ObservableGauge("crewdeck_sse_connections", metric.WithDescription("Current SSE subscriber count"))
		if err != nil {
			return
		}
		_, err = m.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
			sseConnectionsMu.Lock()
			n := sseConnections
			sseConnectionsMu.Unlock()
			o.ObserveInt64(sseConnectionsGauge, n)
			return nil
		}, sseConnectionsGauge)
		if err != nil {
			return
		}
	})
	return err
}

// RecordPing records one unread-message ping dispatched to an agent.
func RecordPing(ctx context.Context, project, agent string) {
	if pingsCounter == nil {
		return
	}
	pingsCounter.Add(ctx, 1, metric.WithAttributes(AttrProject.String(project), AttrAgent.String(agent)))
}

// RecordPoke records one gentle poke sent to an idle agent.
func RecordPoke(ctx context.Context, project, agent string) {
	if pokesCounter == nil {
		return
	}
	pokesCounter.Add(ctx, 1, metric.WithAttributes(AttrProject.String(project), AttrAgent.String(agent)))
}

// RecordReminder records one scheduled reminder firing.
func RecordReminder(ctx context.Context, project, role string) {
	if remindersCounter == nil {
		return
	}
	remindersCounter.Add(ctx, 1, metric.WithAttributes(AttrProject.String(project), AttrRole.String(role)))
}

// RecordActivation records one phase activation.
func RecordActivation(ctx context.Context, project, role string) {
	if activationsCounter == nil {
		return
	}
	activationsCounter.Add(ctx, 1, metric.WithAttributes(AttrProject.String(project), AttrRole.String(role)))
}

// RecordForward records one director assignment forwarded to the delegate role.
func RecordForward(ctx context.Context, project string) {
	if forwardsCounter == nil {
		return
	}
	forwardsCounter.Add(ctx, 1, metric.WithAttributes(AttrProject.String(project)))
}

// RecordProbe records one liveness probe and the status it produced.
func RecordProbe(ctx context.Context, project, status string) {
	if probesCounter == nil {
		return
	}
	probesCounter.Add(ctx, 1, metric.WithAttributes(AttrProject.String(project), AttrStatus.String(status)))
}

// RecordTickError records a per-item error swallowed during a scheduler sub-task.
func RecordTickError(ctx context.Context, project, subtask string) {
	if tickErrorsCounter == nil {
		return
	}
	tickErrorsCounter.Add(ctx, 1, metric.WithAttributes(AttrProject.String(project), AttrSubtask.String(subtask)))
}

// RecordTick records the duration of one per-project tick.
func RecordTick(ctx context.Context, project string, d time.Duration) {
	if tickDuration == nil {
		return
	}
	tickDuration.Record(ctx, d.Seconds(), metric.WithAttributes(AttrProject.String(project)))
}

// RecordSSEEvent records one published SSE event.
func RecordSSEEvent(ctx context.Context) {
	if sseEventsCounter == nil {
		return
	}
	sseEventsCounter.Add(ctx, 1)
}

// AddSSEConnection increments the SSE subscriber gauge.
func AddSSEConnection() {
	sseConnectionsMu.Lock()
	sseConnections++
	sseConnectionsMu.Unlock()
}

// RemoveSSEConnection decrements the SSE subscriber gauge.
func RemoveSSEConnection() {
	sseConnectionsMu.Lock()
	sseConnections--
	if sseConnections < 0 {
		sseConnections = 0
	}
	sseConnectionsMu.Unlock()
}
