package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/mashangjie/taskmarket/internal/api/metrics"
	"github.com/mashangjie/taskmarket/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes settlement jobs to a fixed set of workers using consistent
// hashing on the order id, so one order is never settled by two workers at once.
type Dispatcher struct {
	workers []chan ports.SettlementJob
	service ports.SettlementService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.SettlementService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.SettlementJob, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.SettlementJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a job to the worker responsible for its order. It never
// blocks: when the shard is full the job is dropped and the order, still
// settling, is picked up by the next Recover.
func (d *Dispatcher) Enqueue(job ports.SettlementJob) {
	d.tryEnqueue(job)
}

func (d *Dispatcher) tryEnqueue(job ports.SettlementJob) bool {
	idx := d.shardIndex(job.OrderID)
	select {
	case d.workers[idx] <- job:
	default:
		metrics.SettlementsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("order_id", job.OrderID).
			Int("worker_id", idx).
			Msg("settlement queue full, job left for recovery")
		return false
	}
	metrics.SettlementQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	return true
}

// Recover enqueues every order left in the settling state, for example by a
// failed payout or a restart before the worker ran. It returns the number of
// jobs accepted.
func (d *Dispatcher) Recover(ctx context.Context) (int, error) {
	jobs, err := d.service.Pending(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, job := range jobs {
		if d.tryEnqueue(job) {
			n++
		}
	}
	return n, nil
}

// shardIndex maps an order id deterministically to a worker index.
func (d *Dispatcher) shardIndex(orderID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(orderID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.SettlementJob) {
	depth := metrics.SettlementQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))

			start := time.Now()
			err := d.service.Settle(ctx, job)
			metrics.SettlementDuration.Observe(time.Since(start).Seconds())
			if err != nil {
				metrics.SettlementsTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("order_id", job.OrderID).
					Int("worker_id", id).
					Msg("settlement failed")
				continue
			}
			metrics.SettlementsTotal.WithLabelValues("ok").Inc()
		}
	}
}
