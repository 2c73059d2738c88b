package heap

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/krish-2325/memory-management-simulator/sim"
)

type hookRecorder struct {
	positions []*sim.HookPos
	items     []interface{}
}

func (h *hookRecorder) Func(ctx sim.HookCtx) {
	h.positions = append(h.positions, ctx.Pos)
	h.items = append(h.items, ctx.Item)
}

func partitionMustHold(a *Allocator) {
	blocks := a.Dump()
	next := uint64(0)

	for i, b := range blocks {
		Expect(b.Start).To(Equal(next), "gap or overlap before block %d", i)
		Expect(b.Size).To(BeNumerically(">", 0))

		if i > 0 {
			Expect(b.IsFree && blocks[i-1].IsFree).To(BeFalse(),
				"adjacent free blocks at %d", i)
		}

		if b.IsFree {
			Expect(b.ID).To(Equal(-1))
		}

		next = b.End()
	}

	Expect(next).To(Equal(a.Total()))
}

var _ = Describe("Allocator", func() {
	var (
		a *Allocator
	)

	BeforeEach(func() {
		a = NewAllocator("Heap", 1024)
	})

	It("should start with a single free block", func() {
		Expect(a.Dump()).To(Equal([]Block{
			{Start: 0, Size: 1024, IsFree: true, ID: -1},
		}))
	})

	It("should allocate consecutive blocks with increasing ids", func() {
		first, err := a.Allocate(FirstFit, 256)
		Expect(err).NotTo(HaveOccurred())
		Expect(first).To(Equal(Allocation{ID: 1, Address: 0x0, Size: 256}))

		second, err := a.Allocate(FirstFit, 256)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(Allocation{ID: 2, Address: 0x100, Size: 256}))

		partitionMustHold(a)
	})

	It("should not merge a freed block with an allocated neighbour", func() {
		_, _ = a.Allocate(FirstFit, 256)
		_, _ = a.Allocate(FirstFit, 256)

		Expect(a.Free(1)).To(Succeed())

		blocks := a.Dump()
		Expect(blocks).To(HaveLen(3))
		Expect(blocks[0]).To(Equal(Block{Start: 0, Size: 256, IsFree: true, ID: -1}))
		Expect(blocks[1].ID).To(Equal(2))
		Expect(blocks[1].IsFree).To(BeFalse())
		partitionMustHold(a)
	})

	It("should merge with both neighbours", func() {
		_, _ = a.Allocate(FirstFit, 100)
		_, _ = a.Allocate(FirstFit, 100)
		_, _ = a.Allocate(FirstFit, 100)

		Expect(a.Free(1)).To(Succeed())
		Expect(a.Free(3)).To(Succeed())
		Expect(a.Dump()).To(HaveLen(3))

		Expect(a.Free(2)).To(Succeed())
		Expect(a.Dump()).To(Equal([]Block{
			{Start: 0, Size: 1024, IsFree: true, ID: -1},
		}))
	})

	It("should not split when the request fills the block exactly", func() {
		alloc, err := a.Allocate(FirstFit, 1024)
		Expect(err).NotTo(HaveOccurred())
		Expect(alloc.Address).To(Equal(uint64(0)))
		Expect(a.Dump()).To(HaveLen(1))

		_, err = a.Allocate(FirstFit, 1)
		Expect(err).To(MatchError(ErrAllocationFailure))
	})

	Context("when choosing among several holes", func() {
		// Layout: [0,100) free, [100,200) used, [200,250) free,
		// [250,300) used, [300,1024) free.
		BeforeEach(func() {
			_, _ = a.Allocate(FirstFit, 100)
			_, _ = a.Allocate(FirstFit, 100)
			_, _ = a.Allocate(FirstFit, 50)
			_, _ = a.Allocate(FirstFit, 50)
			Expect(a.Free(1)).To(Succeed())
			Expect(a.Free(3)).To(Succeed())
		})

		It("should take the first fitting hole with first fit", func() {
			alloc, err := a.Allocate(FirstFit, 40)
			Expect(err).NotTo(HaveOccurred())
			Expect(alloc.Address).To(Equal(uint64(0)))
		})

		It("should take the smallest fitting hole with best fit", func() {
			alloc, err := a.Allocate(BestFit, 40)
			Expect(err).NotTo(HaveOccurred())
			Expect(alloc.Address).To(Equal(uint64(200)))
		})

		It("should take the largest hole with worst fit", func() {
			alloc, err := a.Allocate(WorstFit, 40)
			Expect(err).NotTo(HaveOccurred())
			Expect(alloc.Address).To(Equal(uint64(300)))
		})

		It("should break best fit ties by address order", func() {
			_, _ = a.Allocate(FirstFit, 50)
			Expect(a.Dump()[0].Size).To(Equal(uint64(50)))

			alloc, err := a.Allocate(BestFit, 50)
			Expect(err).NotTo(HaveOccurred())
			Expect(alloc.Address).To(Equal(uint64(50)))
		})
	})

	It("should count failed requests without changing the layout", func() {
		before := a.Dump()

		_, err := a.Allocate(BestFit, 2048)
		Expect(err).To(MatchError(ErrAllocationFailure))
		Expect(a.Dump()).To(Equal(before))

		stats := a.Stats()
		Expect(stats.Requests).To(Equal(uint64(1)))
		Expect(stats.Successes).To(Equal(uint64(0)))
		Expect(stats.SuccessRatio).To(Equal(0.0))
	})

	It("should reject zero-sized requests", func() {
		_, err := a.Allocate(FirstFit, 0)
		Expect(err).To(MatchError(ErrInvalidSize))
		Expect(a.Stats().Requests).To(Equal(uint64(1)))
		partitionMustHold(a)
	})

	It("should report unknown ids and addresses", func() {
		Expect(a.Free(7)).To(MatchError(ErrUnknownBlockID))

		_, _ = a.Allocate(FirstFit, 16)
		Expect(a.FreeByAddress(0x10)).To(MatchError(ErrUnknownAddress))
		Expect(a.Free(1)).To(Succeed())
		Expect(a.Free(1)).To(MatchError(ErrUnknownBlockID))
	})

	It("should free by address", func() {
		_, _ = a.Allocate(FirstFit, 16)
		second, _ := a.Allocate(FirstFit, 32)

		Expect(a.FreeByAddress(second.Address)).To(Succeed())
		blocks := a.Dump()
		Expect(blocks).To(HaveLen(2))
		Expect(blocks[1]).To(Equal(Block{Start: 16, Size: 1008, IsFree: true, ID: -1}))
	})

	It("should compute statistics", func() {
		_, _ = a.Allocate(FirstFit, 256)
		_, _ = a.Allocate(FirstFit, 256)
		_, _ = a.Allocate(FirstFit, 256)
		Expect(a.Free(2)).To(Succeed())
		_, _ = a.Allocate(FirstFit, 4096)

		stats := a.Stats()
		Expect(stats.Total).To(Equal(uint64(1024)))
		Expect(stats.Used).To(Equal(uint64(512)))
		Expect(stats.Free).To(Equal(uint64(512)))
		Expect(stats.LargestFree).To(Equal(uint64(256)))
		Expect(stats.InternalFragmentation).To(Equal(uint64(0)))
		Expect(stats.ExternalFragmentationPct).To(BeNumerically("~", 50.0))
		Expect(stats.UtilizationPct).To(BeNumerically("~", 50.0))
		Expect(stats.Requests).To(Equal(uint64(4)))
		Expect(stats.Successes).To(Equal(uint64(3)))
		Expect(stats.SuccessRatio).To(BeNumerically("~", 0.75))
	})

	It("should report zero external fragmentation when memory is full", func() {
		_, _ = a.Allocate(FirstFit, 1024)
		Expect(a.Stats().ExternalFragmentationPct).To(Equal(0.0))
	})

	It("should keep ids increasing across re-initialization", func() {
		_, _ = a.Allocate(FirstFit, 8)
		a.Init(512)

		Expect(a.Dump()).To(Equal([]Block{
			{Start: 0, Size: 512, IsFree: true, ID: -1},
		}))

		alloc, err := a.Allocate(FirstFit, 8)
		Expect(err).NotTo(HaveOccurred())
		Expect(alloc.ID).To(Equal(2))
	})

	It("should invoke hooks", func() {
		recorder := &hookRecorder{}
		a.AcceptHook(recorder)

		_, _ = a.Allocate(FirstFit, 64)
		_, _ = a.Allocate(FirstFit, 4096)
		_ = a.Free(1)

		Expect(recorder.positions).To(Equal([]*sim.HookPos{
			HookPosAlloc, HookPosAllocFail, HookPosFree,
		}))
		Expect(recorder.items[0]).To(Equal(Allocation{ID: 1, Address: 0, Size: 64}))
		Expect(recorder.items[1]).To(Equal(uint64(4096)))
	})

	It("should keep the partition invariant under random traffic", func() {
		r := rand.New(rand.NewSource(1))
		strategies := []Strategy{FirstFit, BestFit, WorstFit}
		live := []int{}

		for i := 0; i < 2000; i++ {
			if len(live) > 0 && r.Intn(2) == 0 {
				idx := r.Intn(len(live))
				Expect(a.Free(live[idx])).To(Succeed())
				live = append(live[:idx], live[idx+1:]...)
			} else {
				size := uint64(r.Intn(128) + 1)
				alloc, err := a.Allocate(strategies[r.Intn(3)], size)
				if err == nil {
					live = append(live, alloc.ID)
				}
			}

			partitionMustHold(a)
		}
	})
})

var _ = Describe("Strategy", func() {
	It("should parse names", func() {
		Expect(ParseStrategy("first_fit")).To(Equal(FirstFit))
		Expect(ParseStrategy("Best-Fit")).To(Equal(BestFit))
		Expect(ParseStrategy("worst")).To(Equal(WorstFit))

		_, err := ParseStrategy("buddy")
		Expect(err).To(MatchError(ErrUnknownStrategy))
	})

	It("should print names", func() {
		Expect(WorstFit.String()).To(Equal("worst_fit"))
	})
})
