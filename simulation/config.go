package simulation

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/krish-2325/memory-management-simulator/mem/cache"
	"github.com/krish-2325/memory-management-simulator/mem/vm/mmu"
)

// ErrInvalidConfig is returned when an environment variable cannot be parsed.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the geometry of every engine.
type Config struct {
	// HeapSize is the size the contiguous heap starts with. Zero leaves the
	// heap empty until InitHeap is called.
	HeapSize uint64

	BuddyTotal uint64
	BuddyMin   uint64

	VMFrames   int
	VMPageSize uint64
	VMPages    int
	VMPolicy   mmu.Policy

	CacheBlockSize int
	CacheLevels    []cache.LevelConfig

	// MonitorPort is the default port of the monitoring server. Values
	// below 1000 pick a random port; 0 keeps the monitor of a script run off.
	MonitorPort int
}

// DefaultConfig returns the configuration the simulator starts with.
func DefaultConfig() Config {
	return Config{
		BuddyTotal:     1024,
		BuddyMin:       16,
		VMFrames:       8,
		VMPageSize:     256,
		VMPages:        256,
		VMPolicy:       mmu.ClockReplacement,
		CacheBlockSize: 16,
		CacheLevels:    cache.DefaultConfigs(),
	}
}

// LoadConfig loads the given .env files, or ./.env if it exists and no file
// is given, and then overrides the defaults with MEMSIM_* environment
// variables.
func LoadConfig(files ...string) (Config, error) {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			files = []string{".env"}
		}
	}

	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return Config{}, fmt.Errorf("loading env files: %w", err)
		}
	}

	return ConfigFromEnv(os.LookupEnv)
}

// ConfigFromEnv builds a Config from the defaults and the variables that the
// lookup function finds.
func ConfigFromEnv(
	lookup func(key string) (string, bool),
) (Config, error) {
	c := DefaultConfig()
	p := envParser{lookup: lookup}

	p.readUint("MEMSIM_HEAP_SIZE", &c.HeapSize)
	p.readUint("MEMSIM_BUDDY_TOTAL", &c.BuddyTotal)
	p.readUint("MEMSIM_BUDDY_MIN", &c.BuddyMin)
	p.readInt("MEMSIM_VM_FRAMES", &c.VMFrames)
	p.readUint("MEMSIM_VM_PAGE_SIZE", &c.VMPageSize)
	p.readInt("MEMSIM_VM_PAGES", &c.VMPages)
	p.readVMPolicy("MEMSIM_VM_POLICY", &c.VMPolicy)
	p.readInt("MEMSIM_CACHE_BLOCK_SIZE", &c.CacheBlockSize)
	p.readInt("MEMSIM_MONITOR_PORT", &c.MonitorPort)

	for i := range c.CacheLevels {
		l := &c.CacheLevels[i]
		p.readInt("MEMSIM_"+l.Name+"_SIZE", &l.Size)
		p.readInt("MEMSIM_"+l.Name+"_ASSOC", &l.Associativity)
		p.readCachePolicy("MEMSIM_"+l.Name+"_POLICY", &l.Policy)
	}

	if p.err != nil {
		return Config{}, p.err
	}

	return c, nil
}

// envParser keeps the first error so that the variables can be read one
// after another.
type envParser struct {
	lookup func(key string) (string, bool)
	err    error
}

func (p *envParser) get(key string) (string, bool) {
	if p.err != nil {
		return "", false
	}

	v, ok := p.lookup(key)
	if !ok || v == "" {
		return "", false
	}

	return v, true
}

func (p *envParser) fail(key, value string, err error) {
	p.err = fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, value, err)
}

func (p *envParser) readUint(key string, dst *uint64) {
	v, ok := p.get(key)
	if !ok {
		return
	}

	n, err := strconv.ParseUint(v, 0, 64)
	if err != nil {
		p.fail(key, v, err)
		return
	}

	*dst = n
}

func (p *envParser) readInt(key string, dst *int) {
	v, ok := p.get(key)
	if !ok {
		return
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return
	}

	*dst = n
}

func (p *envParser) readVMPolicy(key string, dst *mmu.Policy) {
	v, ok := p.get(key)
	if !ok {
		return
	}

	policy, err := mmu.ParsePolicy(v)
	if err != nil {
		p.fail(key, v, err)
		return
	}

	*dst = policy
}

func (p *envParser) readCachePolicy(key string, dst *cache.Policy) {
	v, ok := p.get(key)
	if !ok {
		return
	}

	policy, err := cache.ParsePolicy(v)
	if err != nil {
		p.fail(key, v, err)
		return
	}

	*dst = policy
}
