package otel

import (
	"context"
	"testing"
	"time"
)

func TestInitMetrics_RecordCounters(t *testing.T) {
	ctx := context.Background()
	if _, err := InitMeterProvider(ctx, "metrics-test"); err != nil {
		t.Fatalf("InitMeterProvider: %v", err)
	}
	if err := InitMetrics(ctx); err != nil {
		t.Fatalf("InitMetrics: %v", err)
	}
	RecordPing(ctx, "alpha", "be-1")
	RecordPoke(ctx, "alpha", "be-1")
	RecordReminder(ctx, "alpha", "QA Engineer")
	RecordActivation(ctx, "alpha", "Backend Developer")
	RecordForward(ctx, "alpha")
	RecordProbe(ctx, "alpha", "idle")
	RecordTickError(ctx, "alpha", "pings")
	RecordTick(ctx, "alpha", 25*time.Millisecond)
}

func TestRecordBeforeInit_isNoop(t *testing.T) {
	// Record helpers must be safe before InitMetrics runs (daemon starts with --otel=false).
	ctx := context.Background()
	RecordPing(ctx, "alpha", "be-1")
	RecordTick(ctx, "alpha", time.Millisecond)
	RecordSSEEvent(ctx)
}

func TestAddSSEConnection_RemoveSSEConnection(t *testing.T) {
	AddSSEConnection()
	AddSSEConnection()
	RemoveSSEConnection()
	RemoveSSEConnection()
	RemoveSSEConnection() // should not go negative
}
