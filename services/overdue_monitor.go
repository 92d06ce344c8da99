package services

import (
	"context"
	"sync"
	"time"

	"github.com/yeremiapane/hostel-app/utils"
)

// OverdueMonitor periodically moves Pending payments past their due date to
// Overdue.
type OverdueMonitor struct {
	Payments *PaymentService
	Interval time.Duration
	StopChan chan struct{}

	once sync.Once
}

func NewOverdueMonitor(payments *PaymentService, interval time.Duration) *OverdueMonitor {
	if interval <= 0 {
		interval = time.Hour
	}
	return &OverdueMonitor{
		Payments: payments,
		Interval: interval,
		StopChan: make(chan struct{}),
	}
}

func (m *OverdueMonitor) Start() {
	go func() {
		m.RunOnce(context.Background())

		ticker := time.NewTicker(m.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.RunOnce(context.Background())
			case <-m.StopChan:
				return
			}
		}
	}()
	utils.InfoLogger.Printf("overdue monitor started, interval %s", m.Interval)
}

func (m *OverdueMonitor) Stop() {
	m.once.Do(func() { close(m.StopChan) })
}

// RunOnce performs a single scan and returns how many payments changed.
func (m *OverdueMonitor) RunOnce(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	n, err := m.Payments.MarkOverdue(ctx, now())
	if err != nil {
		utils.ErrorLogger.Errorf("overdue scan: %v", err)
		return 0
	}
	if n > 0 {
		utils.InfoLogger.Printf("marked %d payment(s) overdue", n)
	}
	return n
}
