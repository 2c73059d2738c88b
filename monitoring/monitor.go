// Package monitoring provides an HTTP interface to look into a running
// simulation.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/rs/xid"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/krish-2325/memory-management-simulator/mem/buddy"
	"github.com/krish-2325/memory-management-simulator/mem/cache"
	"github.com/krish-2325/memory-management-simulator/mem/heap"
	"github.com/krish-2325/memory-management-simulator/mem/vm/mmu"
	"github.com/krish-2325/memory-management-simulator/monitoring/web"
	"github.com/krish-2325/memory-management-simulator/simulation"
)

// Monitor serves the state of a simulation over HTTP.
type Monitor struct {
	sim        *simulation.Simulation
	portNumber int

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor. Port 0 and reserved
// port numbers below 1000 let the operating system pick a port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is reserved, using a random port instead\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterSimulation sets the simulation to be monitored.
func (m *Monitor) RegisterSimulation(s *simulation.Simulation) {
	m.sim = s
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		Total:     total,
		StartTime: time.Now(),
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Router returns the HTTP handler that serves the monitoring API and the
// web page.
func (m *Monitor) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/summary", m.summary)
	r.HandleFunc("/api/engines", m.listEngines)
	r.HandleFunc("/api/heap", m.heapState)
	r.HandleFunc("/api/buddy", m.buddyState)
	r.HandleFunc("/api/cache", m.cacheState)
	r.HandleFunc("/api/vm", m.vmState)
	r.HandleFunc("/api/events", m.eventCounts)
	r.HandleFunc("/api/state/{engine}", m.engineState)
	r.HandleFunc("/api/field/{engine}/{path}", m.engineField)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() string {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", m.portNumber))
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	handler := m.Router()
	go func() {
		dieOnErr(http.Serve(listener, handler))
	}()

	return url
}

type summaryRsp struct {
	ID            string       `json:"id"`
	Allocator     string       `json:"allocator"`
	TotalAccesses uint64       `json:"total_accesses"`
	Cache         []levelStats `json:"cache"`
	VM            vmStats      `json:"vm"`
}

func (m *Monitor) summary(w http.ResponseWriter, _ *http.Request) {
	s := m.sim.Summary()

	writeJSON(w, summaryRsp{
		ID:            m.sim.ID(),
		Allocator:     m.sim.Allocator().String(),
		TotalAccesses: s.TotalAccesses,
		Cache:         toLevelStats(s.Cache),
		VM:            toVMStats(s.VM),
	})
}

func (m *Monitor) listEngines(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.sim.EngineNames())
}

type heapBlock struct {
	Start     uint64 `json:"start"`
	Size      uint64 `json:"size"`
	Requested uint64 `json:"requested"`
	Free      bool   `json:"free"`
	ID        int    `json:"id"`
}

type heapRsp struct {
	Blocks []heapBlock `json:"blocks"`
	Stats  heap.Stats  `json:"stats"`
}

func (m *Monitor) heapState(w http.ResponseWriter, _ *http.Request) {
	rsp := heapRsp{
		Blocks: []heapBlock{},
		Stats:  m.sim.HeapStats(),
	}

	for _, b := range m.sim.HeapDump() {
		rsp.Blocks = append(rsp.Blocks, heapBlock{
			Start:     b.Start,
			Size:      b.Size,
			Requested: b.Requested,
			Free:      b.IsFree,
			ID:        b.ID,
		})
	}

	writeJSON(w, rsp)
}

type freeList struct {
	Size      uint64   `json:"size"`
	Addresses []uint64 `json:"addresses"`
}

type buddyRsp struct {
	FreeLists []freeList  `json:"free_lists"`
	Stats     buddy.Stats `json:"stats"`
}

func (m *Monitor) buddyState(w http.ResponseWriter, _ *http.Request) {
	rsp := buddyRsp{
		FreeLists: []freeList{},
		Stats:     m.sim.BuddyStats(),
	}

	for _, l := range m.sim.BuddyDump() {
		rsp.FreeLists = append(rsp.FreeLists, freeList{
			Size:      l.Size,
			Addresses: l.Addresses,
		})
	}

	writeJSON(w, rsp)
}

type levelStats struct {
	Name        string  `json:"name"`
	Hits        uint64  `json:"hits"`
	Misses      uint64  `json:"misses"`
	HitRatioPct float64 `json:"hit_ratio_pct"`
}

func toLevelStats(stats []cache.LevelStats) []levelStats {
	out := make([]levelStats, 0, len(stats))
	for _, s := range stats {
		out = append(out, levelStats{
			Name:        s.Name,
			Hits:        s.Hits,
			Misses:      s.Misses,
			HitRatioPct: s.HitRatioPct,
		})
	}

	return out
}

type cacheRsp struct {
	Levels []cache.LevelConfig `json:"levels"`
	Stats  []levelStats        `json:"stats"`
}

func (m *Monitor) cacheState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, cacheRsp{
		Levels: m.sim.CacheConfigs(),
		Stats:  toLevelStats(m.sim.CacheStats()),
	})
}

type vmStats struct {
	Hits         uint64  `json:"hits"`
	Faults       uint64  `json:"faults"`
	DiskAccesses uint64  `json:"disk_accesses"`
	FaultRatePct float64 `json:"fault_rate_pct"`
	DiskCycles   uint64  `json:"disk_cycles"`
}

func toVMStats(s mmu.Stats) vmStats {
	return vmStats{
		Hits:         s.Hits,
		Faults:       s.Faults,
		DiskAccesses: s.DiskAccesses,
		FaultRatePct: s.FaultRatePct,
		DiskCycles:   s.DiskCycles,
	}
}

type residentPage struct {
	Page      int    `json:"page"`
	Frame     int    `json:"frame"`
	Reference bool   `json:"reference"`
	Order     uint64 `json:"order"`
}

type vmRsp struct {
	Stats         vmStats        `json:"stats"`
	ResidentPages []residentPage `json:"resident_pages"`
}

func (m *Monitor) vmState(w http.ResponseWriter, _ *http.Request) {
	rsp := vmRsp{
		Stats:         toVMStats(m.sim.VMStats()),
		ResidentPages: []residentPage{},
	}

	for _, p := range m.sim.ResidentPages() {
		rsp.ResidentPages = append(rsp.ResidentPages, residentPage{
			Page:      p.Page,
			Frame:     p.Frame,
			Reference: p.Reference,
			Order:     p.InsertionOrder,
		})
	}

	writeJSON(w, rsp)
}

func (m *Monitor) eventCounts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.sim.EventCounts())
}

func (m *Monitor) engineState(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["engine"]

	depth := 1
	if d := r.URL.Query().Get("depth"); d != "" {
		var err error
		depth, err = strconv.Atoi(d)
		if err != nil || depth < 0 {
			http.Error(w, "invalid depth", http.StatusBadRequest)
			return
		}
	}

	var buf bytes.Buffer
	found := m.sim.Inspect(name, func(engine any) {
		serializer := goseth.NewSerializer()
		serializer.SetRoot(engine)
		serializer.SetMaxDepth(depth)
		dieOnErr(serializer.Serialize(&buf))
	})

	if !found {
		http.Error(w, "engine not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, err := w.Write(buf.Bytes())
	dieOnErr(err)
}

func (m *Monitor) engineField(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["engine"]
	fields := strings.Split(mux.Vars(r)["path"], ".")

	var (
		buf      bytes.Buffer
		fieldErr error
	)

	found := m.sim.Inspect(name, func(engine any) {
		serializer := goseth.NewSerializer()
		serializer.SetRoot(engine)
		serializer.SetMaxDepth(1)

		fieldErr = serializer.SetEntryPoint(fields)
		if fieldErr != nil {
			return
		}

		dieOnErr(serializer.Serialize(&buf))
	})

	if !found {
		http.Error(w, "engine not found", http.StatusNotFound)
		return
	}

	if fieldErr != nil {
		http.Error(w, fieldErr.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, err := w.Write(buf.Bytes())
	dieOnErr(err)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	bars := make([]progressBarRsp, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.snapshot())
	}

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memInfo.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, r *http.Request) {
	duration := time.Second
	if d := r.URL.Query().Get("duration"); d != "" {
		parsed, err := time.ParseDuration(d)
		if err != nil {
			http.Error(w, "invalid duration", http.StatusBadRequest)
			return
		}

		duration = parsed
	}

	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(duration)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	rsp, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(rsp)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
