package worker

import (
	"log"
	"sync"

	"github.com/forgeservicelab/forge.combined-log-parser/accesslog"
	"github.com/forgeservicelab/forge.combined-log-parser/internal/collector"
	"github.com/forgeservicelab/forge.combined-log-parser/internal/enricher"
	"github.com/forgeservicelab/forge.combined-log-parser/internal/stats"
	"github.com/forgeservicelab/forge.combined-log-parser/internal/storage"
)

// Job carries one raw line through the pipeline together with the parser
// its service is configured with.
type Job struct {
	Service string
	Format  accesslog.Format
	Parser  accesslog.Parser
	Line    string
}

// Pool fans lines out to a fixed set of parse workers. Successful records
// feed the collector and the aggregator; rejected lines are counted by
// failure kind and, when a store is attached, persisted as dead letters.
type Pool struct {
	queue   chan Job
	workers int
	wg      sync.WaitGroup

	Collector *collector.Collector
	Stats     *stats.Aggregator
	Letters   storage.Store      // optional
	Enricher  *enricher.Enricher // optional
}

func NewPool(workers, queueSize int, coll *collector.Collector, agg *stats.Aggregator, letters storage.Store, enrich *enricher.Enricher) *Pool {
	return &Pool{
		queue:     make(chan Job, queueSize),
		workers:   workers,
		Collector: coll,
		Stats:     agg,
		Letters:   letters,
		Enricher:  enrich,
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	log.Printf("worker: pool started with %d workers", p.workers)
}

// Submit queues a job, blocking when the queue is full so tailers apply
// backpressure instead of dropping lines. Must not be called after Stop.
func (p *Pool) Submit(job Job) {
	p.queue <- job
}

// Stop drains the queue and waits for all workers to finish.
func (p *Pool) Stop() {
	close(p.queue)
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.queue {
		rec, err := job.Parser.Parse(job.Line)
		if err != nil {
			p.Collector.ObserveFailure(job.Service, job.Format, err)
			p.Stats.Failure(job.Service)
			if p.Letters != nil {
				letter := storage.DeadLetter{
					Service: job.Service,
					Format:  string(job.Format),
					Line:    job.Line,
					Reason:  collector.FailureReason(err),
				}
				if err := p.Letters.Append(letter); err != nil {
					log.Printf("worker: dead letter append failed: %v", err)
				}
			}
			continue
		}

		p.Collector.ObserveRecord(job.Service, job.Format, rec)
		p.Stats.Record(job.Service, rec)

		if p.Enricher != nil {
			ann := p.Enricher.Annotate(rec)
			p.Collector.ObserveRemote(job.Service, ann.Class, ann.Country)
		}
	}
}
