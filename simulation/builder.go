package simulation

import (
	"github.com/rs/xid"

	"github.com/krish-2325/memory-management-simulator/datarecording"
	"github.com/krish-2325/memory-management-simulator/mem/buddy"
	"github.com/krish-2325/memory-management-simulator/mem/cache"
	"github.com/krish-2325/memory-management-simulator/mem/heap"
	"github.com/krish-2325/memory-management-simulator/mem/vm/mmu"
	"github.com/krish-2325/memory-management-simulator/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	config         Config
	recordOn       bool
	outputFileName string
}

// MakeBuilder creates a new builder with the default configuration and no
// trace recording.
func MakeBuilder() Builder {
	return Builder{
		config: DefaultConfig(),
	}
}

// WithConfig sets the geometry of the engines.
func (b Builder) WithConfig(c Config) Builder {
	b.config = c
	return b
}

// WithTraceRecording makes the simulation store every engine event in an
// SQLite database.
func (b Builder) WithTraceRecording() Builder {
	b.recordOn = true
	return b
}

// WithOutputFileName sets the name of the database, without the .sqlite3
// suffix. It implies trace recording.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.recordOn = true
	b.outputFileName = filename
	return b
}

// Build builds the simulation.
func (b Builder) Build() (*Simulation, error) {
	c := b.config

	buddyAllocator, err := buddy.NewAllocator("Buddy", c.BuddyTotal, c.BuddyMin)
	if err != nil {
		return nil, err
	}

	hierarchy, err := cache.MakeBuilder().
		WithName("Cache").
		WithBlockSize(c.CacheBlockSize).
		WithLevels(c.CacheLevels...).
		Build()
	if err != nil {
		return nil, err
	}

	m, err := mmu.MakeBuilder().
		WithName("MMU").
		WithNumFrames(c.VMFrames).
		WithPageSize(c.VMPageSize).
		WithNumPages(c.VMPages).
		WithPolicy(c.VMPolicy).
		Build()
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		id:      xid.New().String(),
		config:  c,
		heap:    heap.NewAllocator("Heap", c.HeapSize),
		buddy:   buddyAllocator,
		cache:   hierarchy,
		mmu:     m,
		mode:    ModeFirstFit,
		counter: tracing.NewCountTracer(),
	}

	for _, e := range s.engines() {
		tracing.CollectTrace(e, s.counter)
	}

	if b.recordOn {
		b.startRecording(s)
	}

	return s, nil
}

func (b Builder) startRecording(s *Simulation) {
	outputPath := b.outputFileName
	if outputPath == "" {
		outputPath = "memsim_" + s.id
	}

	s.dataRecorder = datarecording.New(outputPath)

	s.execRecorder = datarecording.NewExecRecorder(s.dataRecorder)
	s.execRecorder.Start()
	s.execRecorder.Record("Session", s.id)

	dbTracer := tracing.NewDBTracer(s.dataRecorder)
	for _, e := range s.engines() {
		tracing.CollectTrace(e, dbTracer)
	}
}
