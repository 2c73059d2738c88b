package shell

import (
	"fmt"
	"sort"
	"strings"

	"github.com/krish-2325/memory-management-simulator/mem/cache"
	"github.com/krish-2325/memory-management-simulator/mem/vm/mmu"
	"github.com/krish-2325/memory-management-simulator/simulation"
)

type command struct {
	usage   string
	help    string
	minArgs int
	run     func(sh *Shell, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"init": {
			usage: "init memory <size>", help: "reset the heap to <size> bytes",
			minArgs: 2, run: (*Shell).initMemory,
		},
		"set": {
			usage: "set first_fit|best_fit|worst_fit|buddy | set cache <level> <size> <assoc>",
			help:  "select the allocator or resize a cache level",
			minArgs: 1, run: (*Shell).set,
		},
		"malloc": {
			usage: "malloc <size>", help: "allocate with the selected allocator",
			minArgs: 1, run: (*Shell).malloc,
		},
		"free": {
			usage: "free <id>|0x<addr>", help: "free a heap block by id or start address",
			minArgs: 1, run: (*Shell).free,
		},
		"dump": {
			usage: "dump", help: "print the heap layout",
			run: (*Shell).dump,
		},
		"stats": {
			usage: "stats", help: "print heap statistics",
			run: (*Shell).stats,
		},
		"access": {
			usage: "access <hexaddr>", help: "translate and access a virtual address",
			minArgs: 1, run: (*Shell).access,
		},
		"cache_stats": {
			usage: "cache_stats", help: "print cache statistics",
			run: (*Shell).cacheStats,
		},
		"vm_stats": {
			usage: "vm_stats", help: "print virtual memory statistics",
			run: (*Shell).vmStats,
		},
		"page_table": {
			usage: "page_table", help: "print the resident pages",
			run: (*Shell).pageTable,
		},
		"buddy_dump": {
			usage: "buddy_dump", help: "print the buddy free lists",
			run: (*Shell).buddyDump,
		},
		"buddy_stats": {
			usage: "buddy_stats", help: "print buddy allocator statistics",
			run: (*Shell).buddyStats,
		},
		"buddy_free": {
			usage: "buddy_free 0x<addr> <size>", help: "return a block to the buddy allocator",
			minArgs: 2, run: (*Shell).buddyFree,
		},
		"summary": {
			usage: "summary", help: "print accesses, cache and VM statistics",
			run: (*Shell).summary,
		},
		"help": {
			usage: "help", help: "list the commands",
			run: (*Shell).help,
		},
	}
}

func (sh *Shell) initMemory(args []string) error {
	if args[0] != "memory" {
		return fmt.Errorf("%w: %s", ErrUsage, commands["init"].usage)
	}

	size, err := parseSize(args[1])
	if err != nil {
		return err
	}

	sh.sim.InitHeap(size)
	sh.printf("Memory initialized with size: %d bytes\n", size)

	return nil
}

func (sh *Shell) set(args []string) error {
	if args[0] == "cache" {
		return sh.setCache(args[1:])
	}

	mode, err := simulation.ParseAllocatorMode(args[0])
	if err != nil {
		return err
	}

	sh.sim.SetAllocator(mode)
	sh.printf("Allocator set to %s\n", mode)

	return nil
}

func (sh *Shell) setCache(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: set cache <level> <size> <assoc>", ErrUsage)
	}

	size, err := parseInt(args[1])
	if err != nil {
		return err
	}

	assoc, err := parseInt(args[2])
	if err != nil {
		return err
	}

	if err := sh.sim.SetCacheLevel(args[0], size, assoc); err != nil {
		return err
	}

	sh.printf("Cache hierarchy reinitialized\n")

	return nil
}

func (sh *Shell) malloc(args []string) error {
	size, err := parseSize(args[0])
	if err != nil {
		return err
	}

	r, err := sh.sim.Malloc(size)
	if err != nil {
		return err
	}

	if r.Buddy {
		sh.printf("Buddy allocated block at 0x%x size %d\n", r.Address, r.Size)
		return nil
	}

	sh.printf("Allocated block id=%d at address 0x%x\n", r.ID, r.Address)

	return nil
}

func (sh *Shell) free(args []string) error {
	if isHex(args[0]) {
		addr, err := parseHex(args[0])
		if err != nil {
			return err
		}

		if err := sh.sim.FreeAddress(addr); err != nil {
			return err
		}

		sh.printf("Block at 0x%x freed and merged\n", addr)

		return nil
	}

	id, err := parseInt(args[0])
	if err != nil {
		return err
	}

	if err := sh.sim.Free(id); err != nil {
		return err
	}

	sh.printf("Block %d freed and merged\n", id)

	return nil
}

func (sh *Shell) dump(_ []string) error {
	sh.printf("\nMemory Layout:\n")

	for _, b := range sh.sim.HeapDump() {
		sh.printf("[0x%04x - 0x%04x] ", b.Start, b.End()-1)

		if b.IsFree {
			sh.printf("FREE\n")
		} else {
			sh.printf("USED (id=%d)\n", b.ID)
		}
	}

	return nil
}

func (sh *Shell) stats(_ []string) error {
	s := sh.sim.HeapStats()

	sh.printf("\n--- Memory Statistics ---\n")
	sh.printf("Total memory: %d\n", s.Total)
	sh.printf("Used memory: %d\n", s.Used)
	sh.printf("Free memory: %d\n", s.Free)
	sh.printf("Largest free block: %d\n", s.LargestFree)
	sh.printf("Memory utilization: %.2f%%\n", s.UtilizationPct)
	sh.printf("Internal fragmentation: %d\n", s.InternalFragmentation)
	sh.printf("External fragmentation: %.2f%%\n", s.ExternalFragmentationPct)
	sh.printf("Allocation success rate: %d/%d\n", s.Successes, s.Requests)

	return nil
}

func (sh *Shell) access(args []string) error {
	vAddr, err := parseHex(args[0])
	if err != nil {
		return err
	}

	r, err := sh.sim.Access(vAddr)
	if err != nil {
		return err
	}

	outcome := "page hit"
	if r.PageFault {
		outcome = "page fault"
	}

	servedBy := r.Cache.HitLevel()
	if servedBy == "" {
		servedBy = "memory"
	}

	sh.printf("0x%x -> 0x%x (%s, served by %s)\n",
		r.VAddr, r.PAddr, outcome, servedBy)

	return nil
}

func (sh *Shell) cacheStats(_ []string) error {
	sh.printCacheStats(sh.sim.CacheStats())
	return nil
}

func (sh *Shell) printCacheStats(stats []cache.LevelStats) {
	sh.printf("\n--- Cache Statistics ---\n")

	for _, s := range stats {
		sh.printf("%s Hits: %d Misses: %d Hit Ratio: %.2f%%\n",
			s.Name, s.Hits, s.Misses, s.HitRatioPct)
	}
}

func (sh *Shell) vmStats(_ []string) error {
	sh.printVMStats(sh.sim.VMStats())
	return nil
}

func (sh *Shell) printVMStats(s mmu.Stats) {
	sh.printf("\n--- Virtual Memory Stats ---\n")
	sh.printf("Page hits: %d\n", s.Hits)
	sh.printf("Page faults: %d\n", s.Faults)
	sh.printf("Disk accesses: %d\n", s.DiskAccesses)
	sh.printf("Simulated disk latency per fault: %d cycles\n", s.DiskLatencyCycles)
	sh.printf("Total simulated disk cycles: %d\n", s.DiskCycles)
	sh.printf("Page fault rate: %.2f%%\n", s.FaultRatePct)
}

func (sh *Shell) pageTable(_ []string) error {
	sh.printf("\n--- Page Table ---\n")

	for _, p := range sh.sim.ResidentPages() {
		sh.printf("Page %d -> Frame %d (loaded #%d, referenced %t)\n",
			p.Page, p.Frame, p.InsertionOrder, p.Reference)
	}

	return nil
}

func (sh *Shell) buddyDump(_ []string) error {
	sh.printf("\n--- Buddy Free Lists ---\n")

	for _, l := range sh.sim.BuddyDump() {
		addrs := make([]string, len(l.Addresses))
		for i, a := range l.Addresses {
			addrs[i] = fmt.Sprintf("0x%x", a)
		}

		sh.printf("Size %d: %s\n", l.Size, strings.Join(addrs, " "))
	}

	return nil
}

func (sh *Shell) buddyStats(_ []string) error {
	s := sh.sim.BuddyStats()

	sh.printf("\n--- Buddy Statistics ---\n")
	sh.printf("Total memory: %d\n", s.Total)
	sh.printf("Free memory: %d in %d blocks\n", s.Free, s.FreeBlockNum)
	sh.printf("Largest free block: %d\n", s.LargestFree)
	sh.printf("Allocations: %d, failed: %d\n", s.Allocations, s.Failures)

	return nil
}

func (sh *Shell) buddyFree(args []string) error {
	addr, err := parseHex(args[0])
	if err != nil {
		return err
	}

	size, err := parseSize(args[1])
	if err != nil {
		return err
	}

	if err := sh.sim.BuddyFree(addr, size); err != nil {
		return err
	}

	sh.printf("Buddy block at 0x%x freed\n", addr)

	return nil
}

func (sh *Shell) summary(_ []string) error {
	summary := sh.sim.Summary()

	sh.printf("\n--- System Summary ---\n")
	sh.printf("Total memory accesses: %d\n", summary.TotalAccesses)
	sh.printCacheStats(summary.Cache)
	sh.printVMStats(summary.VM)

	return nil
}

func (sh *Shell) help(_ []string) error {
	names := make([]string, 0, len(commands)+1)
	for name := range commands {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		sh.printf("  %-60s %s\n", commands[name].usage, commands[name].help)
	}

	sh.printf("  %-60s %s\n", "exit", "leave the simulator")

	return nil
}
