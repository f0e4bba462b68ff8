package metric

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"eventhub/src-server/storage"
	"eventhub/src-server/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func ledgerTotals(as *utils.AppState, tickerInterval *time.Duration) {
	totalRegistrations := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "eventhub_ledger_total_registrations",
		Help: "Attendees across all created events",
	})
	checkedIn := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "eventhub_ledger_checked_in",
		Help: "Checked-in attendees across all created events",
	})
	attendanceRate := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "eventhub_ledger_attendance_rate_percent",
		Help: "Checked-in attendees as a percentage of registrations",
	})

	store := storage.NewLedgerStore(as.BunDB, nil)
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		ticker := time.NewTicker(*tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				prometheus.Unregister(totalRegistrations)
				prometheus.Unregister(checkedIn)
				prometheus.Unregister(attendanceRate)
				return
			case <-ticker.C:
				stats, err := store.Stats(context.Background())
				if err != nil {
					slog.Error("can't get ledger stats for metrics", "error", err)
					continue
				}
				totalRegistrations.Set(float64(stats.TotalRegistrations))
				checkedIn.Set(float64(stats.CheckedInCount))
				rate, err := strconv.ParseFloat(stats.AttendanceRate, 64)
				if err != nil {
					continue
				}
				attendanceRate.Set(rate)
			}
		}
	}()
}

func storageRead(as *utils.AppState, clearTickerInterval *time.Duration) {
	storageRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "eventhub_storage_read_microsec",
		Help: "The latency of a ledger document read in microseconds",
	})
	storageRead.Set(0)
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(storageRead) {
				case true:
					slog.Debug("eventhub_storage_read_microsec metric unregistered")
				case false:
					slog.Warn("eventhub_storage_read_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.StorageRead:
				storageRead.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				storageRead.Set(0)
			}
		}
	}()
}

func storageWrite(as *utils.AppState, clearTickerInterval *time.Duration) {
	storageWrite := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "eventhub_storage_write_microsec",
		Help: "The latency of a ledger document write in microseconds",
	})
	storageWrite.Set(0)
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(storageWrite) {
				case true:
					slog.Debug("eventhub_storage_write_microsec metric unregistered")
				case false:
					slog.Warn("eventhub_storage_write_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.StorageWrite:
				storageWrite.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				storageWrite.Set(0)
			}
		}
	}()
}

func Init(as *utils.AppState) {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := as.Config.GetMetricCollectionInterval() * 2

	ledgerTotals(as, &tickerInterval)
	storageRead(as, &clearTickerInterval)
	storageWrite(as, &clearTickerInterval)
}
