// Package autofill produces sample Task, Document and Email records from
// canned text pools. Nothing it returns is persisted.
package autofill

import (
	_ "embed"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/onedocs/tracker/internal/core/domain"
	"github.com/onedocs/tracker/internal/pkg/metrics"
)

//go:embed pools.yaml
var defaultPools []byte

// dueWindow is the span after now in which sample due dates fall.
const dueWindow = 7 * 24 * time.Hour

// Pool is the text a kind draws its title and body from.
type Pool struct {
	Titles []string `yaml:"titles"`
	Bodies []string `yaml:"bodies"`
}

// Pools holds one Pool per kind.
type Pools struct {
	Tasks     Pool `yaml:"tasks"`
	Documents Pool `yaml:"documents"`
	Emails    Pool `yaml:"emails"`
}

// ParsePools decodes YAML pools and checks that none is empty.
func ParsePools(raw []byte) (Pools, error) {
	var p Pools
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Pools{}, fmt.Errorf("parse pools: %w", err)
	}
	for name, pool := range map[string]Pool{"tasks": p.Tasks, "documents": p.Documents, "emails": p.Emails} {
		if len(pool.Titles) == 0 || len(pool.Bodies) == 0 {
			return Pools{}, fmt.Errorf("parse pools: %s pool is empty", name)
		}
	}
	return p, nil
}

// DefaultPools returns the embedded pools.
func DefaultPools() Pools {
	p, err := ParsePools(defaultPools)
	if err != nil {
		panic(err)
	}
	return p
}

// Generator draws sample records. It is safe for concurrent use.
type Generator struct {
	pools Pools
	now   func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the source of randomness.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rnd = r }
}

// WithClock sets the clock due dates are computed from.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithPools replaces the embedded pools.
func WithPools(p Pools) Option {
	return func(g *Generator) { g.pools = p }
}

func New(opts ...Option) *Generator {
	g := &Generator{
		pools: DefaultPools(),
		now:   time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Task(profiles []domain.Profile) domain.Task {
	g.mu.Lock()
	defer g.mu.Unlock()
	title, body := g.text(g.pools.Tasks)
	due := g.dueDate()
	metrics.AutofillGeneratedTotal.WithLabelValues("task").Inc()
	return domain.Task{
		Title:       title,
		Description: &body,
		Status:      domain.StatusPending,
		DueDate:     &due,
		Assignment:  g.assignment(profiles),
	}
}

func (g *Generator) Document(profiles []domain.Profile) domain.Document {
	g.mu.Lock()
	defer g.mu.Unlock()
	title, body := g.text(g.pools.Documents)
	due := g.dueDate()
	metrics.AutofillGeneratedTotal.WithLabelValues("document").Inc()
	return domain.Document{
		Title:      title,
		Content:    &body,
		DueDate:    &due,
		Assignment: g.assignment(profiles),
	}
}

func (g *Generator) Email(profiles []domain.Profile) domain.Email {
	g.mu.Lock()
	defer g.mu.Unlock()
	subject, body := g.text(g.pools.Emails)
	due := g.dueDate()
	metrics.AutofillGeneratedTotal.WithLabelValues("email").Inc()
	return domain.Email{
		Subject:    subject,
		Body:       &body,
		Status:     domain.StatusPending,
		DueDate:    &due,
		Assignment: g.assignment(profiles),
	}
}

func (g *Generator) text(p Pool) (string, string) {
	return p.Titles[g.rnd.Intn(len(p.Titles))], p.Bodies[g.rnd.Intn(len(p.Bodies))]
}

// dueDate is uniform in [now, now+7d), truncated to the minute.
func (g *Generator) dueDate() time.Time {
	offset := time.Duration(g.rnd.Int63n(int64(dueWindow)))
	return g.now().UTC().Add(offset).Truncate(time.Minute)
}

func (g *Generator) assignment(profiles []domain.Profile) domain.Assignment {
	assignee := domain.DefaultCreatorID
	if len(profiles) > 0 {
		assignee = profiles[g.rnd.Intn(len(profiles))].ID
	}
	return domain.Assignment{AssignedTo: assignee, CreatedBy: domain.DefaultCreatorID}
}
