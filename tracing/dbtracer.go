package tracing

import (
	"sync"

	"github.com/krish-2325/memory-management-simulator/datarecording"
	"github.com/tebeka/atexit"
)

// Names of the tables written by a DBTracer.
const (
	HeapTable  = "heap_events"
	BuddyTable = "buddy_events"
	CacheTable = "cache_events"
	VMTable    = "vm_events"
)

// DBTracer is a tracer that stores every event as a row in a DataRecorder.
// Rows of all tables share one sequence so that the order of events can be
// rebuilt.
type DBTracer struct {
	mu      sync.Mutex
	backend datarecording.DataRecorder
	seq     uint64
}

// NewDBTracer creates the event tables and returns a tracer that fills them.
func NewDBTracer(dataRecorder datarecording.DataRecorder) *DBTracer {
	dataRecorder.CreateTable(HeapTable, HeapEvent{})
	dataRecorder.CreateTable(BuddyTable, BuddyEvent{})
	dataRecorder.CreateTable(CacheTable, CacheEvent{})
	dataRecorder.CreateTable(VMTable, VMEvent{})

	t := &DBTracer{backend: dataRecorder}

	atexit.Register(func() {
		t.Terminate()
	})

	return t
}

// MapTables registers the event tables with a reader.
func MapTables(reader datarecording.DataReader) {
	reader.MapTable(HeapTable, HeapEvent{})
	reader.MapTable(BuddyTable, BuddyEvent{})
	reader.MapTable(CacheTable, CacheEvent{})
	reader.MapTable(VMTable, VMEvent{})
}

func (t *DBTracer) nextSeq() uint64 {
	t.seq++
	return t.seq
}

// HeapEvent records a heap event.
func (t *DBTracer) HeapEvent(e HeapEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e.Seq = t.nextSeq()
	t.backend.InsertData(HeapTable, e)
}

// BuddyEvent records a buddy allocator event.
func (t *DBTracer) BuddyEvent(e BuddyEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e.Seq = t.nextSeq()
	t.backend.InsertData(BuddyTable, e)
}

// CacheEvent records a cache access.
func (t *DBTracer) CacheEvent(e CacheEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e.Seq = t.nextSeq()
	t.backend.InsertData(CacheTable, e)
}

// VMEvent records a translation.
func (t *DBTracer) VMEvent(e VMEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e.Seq = t.nextSeq()
	t.backend.InsertData(VMTable, e)
}

// Terminate flushes the buffered rows.
func (t *DBTracer) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.backend.Flush()
}
