package simulation

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/krish-2325/memory-management-simulator/mem/cache"
	"github.com/krish-2325/memory-management-simulator/mem/vm/mmu"
)

var _ = Describe("Config", func() {
	lookupIn := func(env map[string]string) func(string) (string, bool) {
		return func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		}
	}

	It("should use the defaults when nothing is set", func() {
		c, err := ConfigFromEnv(lookupIn(nil))

		Expect(err).NotTo(HaveOccurred())
		Expect(c).To(Equal(DefaultConfig()))
		Expect(c.VMPolicy).To(Equal(mmu.ClockReplacement))
		Expect(c.CacheLevels[0].Policy).To(Equal(cache.LRU))
	})

	It("should read the variables", func() {
		c, err := ConfigFromEnv(lookupIn(map[string]string{
			"MEMSIM_HEAP_SIZE":    "2048",
			"MEMSIM_BUDDY_TOTAL":  "0x800",
			"MEMSIM_VM_FRAMES":    "4",
			"MEMSIM_VM_POLICY":    "fifo",
			"MEMSIM_L2_SIZE":      "512",
			"MEMSIM_L2_ASSOC":     "4",
			"MEMSIM_L3_POLICY":    "lru",
			"MEMSIM_MONITOR_PORT": "8080",
		}))

		Expect(err).NotTo(HaveOccurred())
		Expect(c.HeapSize).To(Equal(uint64(2048)))
		Expect(c.BuddyTotal).To(Equal(uint64(2048)))
		Expect(c.VMFrames).To(Equal(4))
		Expect(c.VMPolicy).To(Equal(mmu.FIFOReplacement))
		Expect(c.CacheLevels[1].Size).To(Equal(512))
		Expect(c.CacheLevels[1].Associativity).To(Equal(4))
		Expect(c.CacheLevels[2].Policy).To(Equal(cache.LRU))
		Expect(c.MonitorPort).To(Equal(8080))
	})

	It("should reject malformed numbers", func() {
		_, err := ConfigFromEnv(lookupIn(map[string]string{
			"MEMSIM_VM_FRAMES": "eight",
		}))

		Expect(err).To(MatchError(ErrInvalidConfig))
	})

	It("should reject unknown policies", func() {
		_, err := ConfigFromEnv(lookupIn(map[string]string{
			"MEMSIM_L1_POLICY": "random",
		}))

		Expect(err).To(MatchError(ErrInvalidConfig))
	})

	It("should load .env files", func() {
		file := filepath.Join(GinkgoT().TempDir(), "test.env")
		Expect(os.WriteFile(file,
			[]byte("MEMSIM_VM_PAGES=64\nMEMSIM_VM_PAGE_SIZE=512\n"), 0o644)).
			To(Succeed())
		DeferCleanup(func() {
			os.Unsetenv("MEMSIM_VM_PAGES")
			os.Unsetenv("MEMSIM_VM_PAGE_SIZE")
		})

		c, err := LoadConfig(file)

		Expect(err).NotTo(HaveOccurred())
		Expect(c.VMPages).To(Equal(64))
		Expect(c.VMPageSize).To(Equal(uint64(512)))
	})

	It("should fail on a missing .env file", func() {
		_, err := LoadConfig(filepath.Join(GinkgoT().TempDir(), "missing.env"))

		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ParseAllocatorMode", func() {
	It("should parse the four allocators", func() {
		Expect(ParseAllocatorMode("first_fit")).To(Equal(ModeFirstFit))
		Expect(ParseAllocatorMode("best_fit")).To(Equal(ModeBestFit))
		Expect(ParseAllocatorMode("worst_fit")).To(Equal(ModeWorstFit))
		Expect(ParseAllocatorMode("buddy")).To(Equal(ModeBuddy))
	})

	It("should reject anything else", func() {
		_, err := ParseAllocatorMode("slab")

		Expect(err).To(MatchError(ErrUnknownAllocator))
	})
})
