package worker

import (
	"sync"
	"time"
)

// Task is a unit of work executed on a pooled worker. Frame extraction
// submits one Task per timestamp so concurrent requests share the same
// process-wide bound on external ffmpeg invocations.
type Task func()

type workerMeta struct {
	ch        chan Task
	lastUsed  time.Time
	enqueued  bool // is in the idle queue
	discarded bool // is targeted as delete
}

// Pool keeps between min and max workers alive, retiring surplus idle
// workers after the expiry period.
type Pool struct {
	mu       sync.Mutex
	cond     *sync.Cond
	idle     []*workerMeta
	metadata map[chan Task]*workerMeta
	min      int
	max      int
	running  int
	expiry   time.Duration
}

const defaultWorkerIdle = 30 * time.Second

func NewPool(minWorkers, maxWorkers int, idle time.Duration) *Pool {
	if minWorkers < 1 {
		minWorkers = 1
	}
	if maxWorkers < minWorkers {
		maxWorkers = minWorkers
	}
	if idle <= 0 {
		idle = defaultWorkerIdle
	}
	p := &Pool{
		metadata: make(map[chan Task]*workerMeta),
		min:      minWorkers,
		max:      maxWorkers,
		expiry:   idle,
	}
	p.cond = sync.NewCond(&p.mu)
	for i := 0; i < minWorkers; i++ {
		p.spawnWorker()
	}
	go p.purgeStaleWorkers()
	return p
}

// Submit hands the task to an idle worker, spawning one when the pool has
// headroom, otherwise blocking until a worker frees up.
func (p *Pool) Submit(task Task) {
	if task == nil {
		return
	}
	p.acquire() <- task
}

func (p *Pool) spawnWorker() {
	p.mu.Lock()
	if p.running >= p.max {
		p.mu.Unlock()
		return
	}
	meta := &workerMeta{ch: make(chan Task)}
	p.metadata[meta.ch] = meta
	p.running++
	p.mu.Unlock()
	go p.runWorker(meta.ch)
}

// acquire get an idle worker, or spawn a new one. Fresh workers register
// themselves as idle on start, so after spawning we wait for the signal
// like any other waiter.
func (p *Pool) acquire() chan Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	for {
		if meta := p.popIdleLocked(); meta != nil {
			return meta.ch
		}
		if p.running < p.max {
			meta := &workerMeta{ch: make(chan Task)}
			p.metadata[meta.ch] = meta
			p.running++
			go p.runWorker(meta.ch)
		}
		p.cond.Wait()
	}
}

// release add an idle worker back into the pool
func (p *Pool) release(ch chan Task) {
	p.mu.Lock()
	meta, ok := p.metadata[ch]
	if !ok || meta.discarded || meta.enqueued {
		p.mu.Unlock()
		return
	}
	meta.enqueued = true
	meta.lastUsed = time.Now()
	p.idle = append(p.idle, meta)
	p.mu.Unlock()
	p.cond.Signal()
}

// retire delete a worker
func (p *Pool) retire(ch chan Task) {
	p.mu.Lock()
	if meta, ok := p.metadata[ch]; ok {
		delete(p.metadata, ch)
		meta.discarded = true
		if p.running > 0 {
			p.running--
		}
	}
	p.mu.Unlock()
	p.cond.Broadcast()
}

// popIdleLocked check if pool has an idle worker, then return
func (p *Pool) popIdleLocked() *workerMeta {
	for len(p.idle) > 0 {
		meta := p.idle[0]
		p.idle = p.idle[1:]
		if meta.discarded {
			continue
		}
		meta.enqueued = false
		return meta
	}
	return nil
}

func (p *Pool) runWorker(ch chan Task) {
	debugLog("[pool] worker started")
	// A worker is only reachable through the idle queue, so it must
	// register itself before waiting for its first task.
	p.release(ch)
	for task := range ch {
		if task == nil {
			// nil task is the retirement signal
			p.retire(ch)
			debugLog("[pool] worker retired")
			return
		}
		task()
		p.release(ch)
	}
}

// purgeStaleWorkers call shutdownExpired when expiry time comes
func (p *Pool) purgeStaleWorkers() {
	ticker := time.NewTicker(p.expiry)
	defer ticker.Stop()
	for {
		<-ticker.C
		p.shutdownExpired()
	}
}

// shutdownExpired retire all the expired workers above the minimum
func (p *Pool) shutdownExpired() {
	var stale []*workerMeta
	now := time.Now()

	p.mu.Lock()
	if len(p.idle) == 0 || p.running <= p.min {
		p.mu.Unlock()
		return
	}
	remaining := p.idle[:0] // keep the original array
	for _, meta := range p.idle {
		if meta.discarded {
			continue
		}
		if now.Sub(meta.lastUsed) >= p.expiry && p.running-len(stale) > p.min {
			meta.enqueued = false
			stale = append(stale, meta)
			continue
		}
		remaining = append(remaining, meta)
	}
	p.idle = remaining
	p.mu.Unlock()

	for _, meta := range stale {
		meta.ch <- nil
	}
}

// Running reports the current worker count.
func (p *Pool) Running() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
