// Package pipeline orchestrates the full transcript analytics flow:
// loading and cleaning the corpus, flattening it to the tabular view,
// aggregating dataset statistics, and serving ad-hoc analysis
// requests with bounded concurrency.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/conversalabs/conversa/internal/analysis/sentiment"
	"github.com/conversalabs/conversa/internal/analysis/summary"
	"github.com/conversalabs/conversa/internal/articles"
	"github.com/conversalabs/conversa/internal/config"
	"github.com/conversalabs/conversa/internal/dataset"
	"github.com/conversalabs/conversa/internal/llm"
	"github.com/conversalabs/conversa/internal/stats"
	"github.com/conversalabs/conversa/pkg/models"
)

// State tracks the orchestrator lifecycle.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateReady         State = "ready"
	StateAnalyzing     State = "analyzing"
)

// ErrNotReady is returned by operations that need a loaded dataset
// before Initialize has completed.
var ErrNotReady = errors.New("pipeline: dataset not loaded")

// Orchestrator wires the pipeline stages together and owns the loaded
// dataset. All exported methods are safe for concurrent use.
type Orchestrator struct {
	cfg      *config.Config
	analyzer *sentiment.Analyzer
	gen      *summary.Generator
	resolver *articles.Resolver

	// workers is the clamped analysis.workers value; both the load
	// fan-out and the ad-hoc analysis semaphore use it.
	workers int

	// sem bounds concurrent ad-hoc analyses; the limit comes from
	// analysis.workers.
	sem *semaphore.Weighted

	mu         sync.RWMutex
	state      State
	active     int
	collection *dataset.CleanedCollection
	rows       []models.Row
	summary    *models.DatasetSummaryStats

	narrativeOnce sync.Once
	narrative     string
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithProvider attaches a model backend used for transcript tone and
// the dataset narrative.
func WithProvider(p llm.Provider) Option {
	return func(o *Orchestrator) {
		o.gen = summary.NewGenerator(summary.WithModel(p))
	}
}

// WithResolver attaches the article resolver used for feed headlines
// in the dataset narrative.
func WithResolver(r *articles.Resolver) Option {
	return func(o *Orchestrator) { o.resolver = r }
}

// New creates an orchestrator in the uninitialized state.
func New(cfg *config.Config, opts ...Option) *Orchestrator {
	workers := cfg.Analysis.Workers
	if workers < 1 {
		workers = 1
	}
	o := &Orchestrator{
		cfg:      cfg,
		analyzer: sentiment.NewAnalyzer(nil),
		gen:      summary.NewGenerator(),
		workers:  workers,
		sem:      semaphore.NewWeighted(int64(workers)),
		state:    StateUninitialized,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State reports the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.state == StateReady && o.active > 0 {
		return StateAnalyzing
	}
	return o.state
}

// Initialize loads the corpus from the configured path, cleans every
// transcript concurrently, flattens the survivors into the Row table,
// and computes the dataset rollup. A load failure is fatal; malformed
// records are dropped silently and logged once as counts.
func (o *Orchestrator) Initialize(ctx context.Context) error {
	o.mu.Lock()
	if o.state == StateLoading {
		o.mu.Unlock()
		return errors.New("pipeline: initialization already in progress")
	}
	o.state = StateLoading
	o.mu.Unlock()

	start := time.Now()

	raw, err := dataset.Load(o.cfg.Data.Path)
	if err != nil {
		o.mu.Lock()
		o.state = StateUninitialized
		o.mu.Unlock()
		return fmt.Errorf("pipeline: load dataset: %w", err)
	}

	cleaned := o.cleanConcurrently(ctx, raw)
	rows := dataset.Flatten(cleaned)
	rollup := stats.Aggregate(rows)

	o.mu.Lock()
	o.collection = cleaned
	o.rows = rows
	o.summary = rollup
	o.state = StateReady
	o.mu.Unlock()

	log.Printf("pipeline: loaded %d transcripts (%d rows) in %s; dropped %d transcripts, %d messages",
		cleaned.Len(), len(rows), time.Since(start).Round(time.Millisecond),
		cleaned.DroppedTranscripts, cleaned.DroppedMessages)
	return nil
}

// cleanConcurrently cleans transcripts on a bounded worker group while
// preserving document order in the result.
func (o *Orchestrator) cleanConcurrently(ctx context.Context, raw *dataset.RawCollection) *dataset.CleanedCollection {
	type result struct {
		cleaned models.CleanedTranscript
		dropped int
		ok      bool
	}
	results := make([]result, len(raw.Order))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, id := range raw.Order {
		i, id := i, id
		g.Go(func() error {
			cleaned, dropped, ok := dataset.CleanTranscript(raw.Items[id])
			results[i] = result{cleaned, dropped, ok}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; drops are counted

	out := &dataset.CleanedCollection{
		Transcripts: make(map[string]models.CleanedTranscript, len(raw.Order)),
	}
	for i, id := range raw.Order {
		r := results[i]
		out.DroppedMessages += r.dropped
		if !r.ok {
			out.DroppedTranscripts++
			continue
		}
		out.Order = append(out.Order, id)
		out.Transcripts[id] = r.cleaned
	}
	return out
}

// CanonicalAgent normalizes participant naming variants. agent1,
// Agent 1 and agent-1 all map to agent_1; unrecognized names pass
// through unchanged.
func CanonicalAgent(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(n)
	switch n {
	case "agent1":
		return models.Agent1
	case "agent2":
		return models.Agent2
	default:
		return name
	}
}

// Analyze runs the full per-transcript analysis on an ad-hoc payload.
// The payload may be any of the accepted input shapes; concurrent
// calls are bounded by the configured worker limit.
func (o *Orchestrator) Analyze(ctx context.Context, data []byte) (*models.TranscriptAnalysis, error) {
	parsed, err := ParseInput(data)
	if err != nil {
		return nil, err
	}

	if err := o.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("pipeline: acquire analysis slot: %w", err)
	}
	defer o.sem.Release(1)
	done := o.trackAnalysis()
	defer done()

	cleaned, _, ok := dataset.CleanRecord(parsed.Transcript)
	if !ok {
		return nil, fmt.Errorf("%w: no valid messages after cleaning", ErrInvalidInput)
	}
	return o.analyzeCleaned(ctx, cleaned), nil
}

// analyzeCleaned runs per-participant sentiment, the combined
// distribution, article inference and summarization on an
// already-cleaned transcript.
func (o *Orchestrator) analyzeCleaned(ctx context.Context, cleaned models.CleanedTranscript) *models.TranscriptAnalysis {
	var agent1, agent2, all []string
	for _, m := range cleaned.Content {
		all = append(all, m.Message)
		switch CanonicalAgent(m.Agent) {
		case models.Agent1:
			agent1 = append(agent1, m.Message)
		case models.Agent2:
			agent2 = append(agent2, m.Message)
		}
	}

	r1 := o.analyzer.Analyze(agent1)
	r2 := o.analyzer.Analyze(agent2)

	combined := map[models.SentimentBucket]int{}
	for b, n := range r1.SentimentDistribution {
		combined[b] += n
	}
	for b, n := range r2.SentimentDistribution {
		combined[b] += n
	}

	articleURL := cleaned.ArticleURL
	var articleTitle string
	if articleURL == "" {
		articleURL = articles.GuessTopic(all)
	} else {
		articleTitle = o.resolveTitle(ctx, articleURL)
	}

	return &models.TranscriptAnalysis{
		ArticleURL:            articleURL,
		ArticleTitle:          articleTitle,
		Agent1Messages:        len(agent1),
		Agent2Messages:        len(agent2),
		Agent1Sentiment:       r1,
		Agent2Sentiment:       r2,
		TotalMessages:         len(cleaned.Content),
		TranscriptSummary:     o.gen.Summarize(ctx, all),
		SentimentDistribution: combined,
	}
}

// trackAnalysis toggles the analyzing indicator; the returned func
// undoes the increment.
func (o *Orchestrator) trackAnalysis() func() {
	o.mu.Lock()
	o.active++
	o.mu.Unlock()
	return func() {
		o.mu.Lock()
		o.active--
		o.mu.Unlock()
	}
}

// Compare runs the two-participant sentiment comparison on an ad-hoc
// payload.
func (o *Orchestrator) Compare(ctx context.Context, data []byte) (*models.SentimentComparison, error) {
	parsed, err := ParseInput(data)
	if err != nil {
		return nil, err
	}
	cleaned, _, ok := dataset.CleanRecord(parsed.Transcript)
	if !ok {
		return nil, fmt.Errorf("%w: no valid messages after cleaning", ErrInvalidInput)
	}

	var agent1, agent2 []string
	for _, m := range cleaned.Content {
		switch CanonicalAgent(m.Agent) {
		case models.Agent1:
			agent1 = append(agent1, m.Message)
		case models.Agent2:
			agent2 = append(agent2, m.Message)
		}
	}
	cmp := o.analyzer.Compare(agent1, agent2)
	return &cmp, nil
}

// TransformRawInput cleans and flattens an ad-hoc payload into the
// tabular Row view and runs the full transcript analysis on it,
// without touching the loaded dataset.
func (o *Orchestrator) TransformRawInput(ctx context.Context, data []byte) ([]models.Row, *models.TranscriptAnalysis, InputShape, error) {
	parsed, err := ParseInput(data)
	if err != nil {
		return nil, nil, ShapeInvalid, err
	}

	cleaned, _, ok := dataset.CleanRecord(parsed.Transcript)
	if !ok {
		return nil, nil, parsed.Shape, fmt.Errorf("%w: no valid messages after cleaning", ErrInvalidInput)
	}
	for i, m := range cleaned.Content {
		cleaned.Content[i].Agent = CanonicalAgent(m.Agent)
	}

	if err := o.sem.Acquire(ctx, 1); err != nil {
		return nil, nil, parsed.Shape, fmt.Errorf("pipeline: acquire analysis slot: %w", err)
	}
	defer o.sem.Release(1)
	done := o.trackAnalysis()
	defer done()

	id := parsed.TranscriptID
	if id == "" {
		id = "adhoc"
	}
	coll := &dataset.CleanedCollection{
		Order:       []string{id},
		Transcripts: map[string]models.CleanedTranscript{id: cleaned},
	}
	return dataset.Flatten(coll), o.analyzeCleaned(ctx, cleaned), parsed.Shape, nil
}

// SummaryStats returns the dataset rollup. The narrative is generated
// on first request and memoized; repeat calls reuse it.
func (o *Orchestrator) SummaryStats(ctx context.Context) (*models.DatasetSummaryStats, error) {
	o.mu.RLock()
	if o.summary == nil {
		o.mu.RUnlock()
		return nil, ErrNotReady
	}
	rollup := *o.summary
	rows := o.rows
	o.mu.RUnlock()

	o.narrativeOnce.Do(func() {
		o.narrative = o.gen.DatasetSummary(ctx, rows, o.feedHeadlines(ctx))
	})

	rollup.DatasetSummary = o.narrative
	return &rollup, nil
}

// resolveTitle fetches the article page title when title resolution is
// enabled. Failures degrade to no title.
func (o *Orchestrator) resolveTitle(ctx context.Context, url string) string {
	if o.resolver == nil || !o.cfg.Articles.FetchTitles || !strings.HasPrefix(url, "http") {
		return ""
	}
	rctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	title, err := o.resolver.ResolveTitle(rctx, url)
	if err != nil {
		log.Printf("pipeline: article title unavailable for %s: %v", url, err)
		return ""
	}
	return title
}

// feedHeadlines fetches recent section headlines when a feed is
// configured. Failures degrade to no headlines.
func (o *Orchestrator) feedHeadlines(ctx context.Context) []string {
	if o.resolver == nil || o.cfg.Articles.FeedURL == "" {
		return nil
	}
	fctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	heads, err := o.resolver.SectionHeadlines(fctx, o.cfg.Articles.FeedURL, 10)
	if err != nil {
		log.Printf("pipeline: feed headlines unavailable: %v", err)
		return nil
	}
	return heads
}

// Table returns a page of the Row view. A limit of 0 means all rows
// from offset onward.
func (o *Orchestrator) Table(limit, offset int) ([]models.Row, int, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.rows == nil {
		return nil, 0, ErrNotReady
	}

	total := len(o.rows)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []models.Row{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}

	page := make([]models.Row, end-offset)
	copy(page, o.rows[offset:end])
	return page, total, nil
}

// Transcript returns one cleaned transcript by id.
func (o *Orchestrator) Transcript(id string) (models.CleanedTranscript, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.collection == nil {
		return models.CleanedTranscript{}, false
	}
	t, ok := o.collection.Transcripts[id]
	return t, ok
}

// TranscriptCount reports how many transcripts survived cleaning.
func (o *Orchestrator) TranscriptCount() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.collection == nil {
		return 0
	}
	return o.collection.Len()
}
