package search

import (
	"context"
	"sync"
	"time"

	"github.com/openHPI/herostore/pkg/dto"
	"github.com/openHPI/herostore/pkg/logging"
)

var log = logging.GetLogger("search")

const submittedTermsBuffer = 64

// Searcher issues a search and responds with the matching heroes.
// A failed search responds with an empty slice, never with an error
// (see hero.Store), so the pipeline carries no error handling of its own.
type Searcher interface {
	Search(ctx context.Context, term string) []dto.Hero
}

// Pipeline converts a noisy, high-frequency stream of typed search terms into
// a low-frequency stream of in-order result batches.
// Terms are debounced for a quiet interval, deduplicated against the
// previously dispatched term and dispatched with a generation counter:
// a response whose generation has been superseded by a newer dispatch is
// discarded, so a consumer never observes a stale batch after a fresher one.
type Pipeline struct {
	searcher Searcher
	debounce time.Duration
	buffer   int

	terms   chan string
	results chan searchResult

	mu               sync.Mutex
	subscribers      map[uint64]chan []dto.Hero
	nextSubscriberID uint64
}

type searchResult struct {
	generation uint64
	heroes     []dto.Hero
}

// NewPipeline creates a Pipeline dispatching on the passed Searcher.
// debounce is the quiet interval a term has to survive before dispatch and
// buffer the channel capacity of each subscription.
func NewPipeline(searcher Searcher, debounce time.Duration, buffer int) *Pipeline {
	return &Pipeline{
		searcher:    searcher,
		debounce:    debounce,
		buffer:      buffer,
		terms:       make(chan string, submittedTermsBuffer),
		results:     make(chan searchResult),
		subscribers: make(map[uint64]chan []dto.Hero),
	}
}

// Submit pushes a term into the pipeline. It never blocks and never fails.
// Iff the pipeline is congested, the term is dropped. The following term
// restarts the quiet interval as usual.
func (p *Pipeline) Submit(term string) {
	select {
	case p.terms <- term:
	default:
		log.WithField(dto.KeyTerm, logging.RemoveNewlineSymbol(term)).Warn("Pipeline congested, dropping term")
	}
}

// Subscribe registers a new consumer of the result feed and returns its
// channel together with the id to unsubscribe with. Each subscription
// receives the live feed from the moment of its registration, the pipeline
// retains no current-results state.
func (p *Pipeline) Subscribe() (<-chan []dto.Hero, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextSubscriberID
	p.nextSubscriberID++
	feed := make(chan []dto.Hero, p.buffer)
	p.subscribers[id] = feed
	return feed, id
}

// Unsubscribe removes the consumer with the passed id and closes its channel.
func (p *Pipeline) Unsubscribe(id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	feed, ok := p.subscribers[id]
	if ok {
		delete(p.subscribers, id)
		close(feed)
	}
}

// Run executes the pipeline until the passed context is canceled.
// It owns all pipeline state and is the only goroutine touching it, the
// dispatched searches communicate exclusively over the results channel.
func (p *Pipeline) Run(ctx context.Context) {
	var (
		quietInterval  *time.Timer
		intervalExpiry <-chan time.Time
		pending        string
		lastDispatched string
		dispatchedOnce bool
		generation     uint64
		cancelPrevious context.CancelFunc = func() {}
	)
	defer cancelPrevious()

	for {
		select {
		case <-ctx.Done():
			if quietInterval != nil {
				quietInterval.Stop()
			}
			return
		case term := <-p.terms:
			pending = term
			if quietInterval == nil {
				quietInterval = time.NewTimer(p.debounce)
				intervalExpiry = quietInterval.C
			} else {
				if !quietInterval.Stop() {
					// The timer fired concurrently, drain the expiry so Reset starts clean.
					select {
					case <-quietInterval.C:
					default:
					}
				}
				quietInterval.Reset(p.debounce)
			}
		case <-intervalExpiry:
			quietInterval = nil
			intervalExpiry = nil
			if dispatchedOnce && pending == lastDispatched {
				continue
			}
			lastDispatched = pending
			dispatchedOnce = true
			generation++
			cancelPrevious()
			dispatchCtx, cancel := context.WithCancel(ctx)
			cancelPrevious = cancel
			go p.dispatch(dispatchCtx, generation, pending)
		case result := <-p.results:
			if result.generation == generation {
				p.publish(result.heroes)
			}
		}
	}
}

// dispatch runs a single search. The response is delivered back to the event
// loop together with the generation it was dispatched with, so the loop can
// discard it if a newer term superseded this search in the meantime.
func (p *Pipeline) dispatch(ctx context.Context, generation uint64, term string) {
	heroes := p.searcher.Search(ctx, term)
	select {
	case p.results <- searchResult{generation: generation, heroes: heroes}:
	case <-ctx.Done():
	}
}

func (p *Pipeline) publish(heroes []dto.Hero) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, feed := range p.subscribers {
		select {
		case feed <- heroes:
		default:
			log.WithField("subscriber", id).Warn("Subscriber not keeping up, dropping batch")
		}
	}
}
