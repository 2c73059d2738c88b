package buddy

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/krish-2325/memory-management-simulator/sim"
)

type hookRecorder struct {
	ctxs []sim.HookCtx
}

func (h *hookRecorder) Func(ctx sim.HookCtx) {
	h.ctxs = append(h.ctxs, ctx)
}

var _ = Describe("Allocator", func() {
	var (
		a *Allocator
	)

	BeforeEach(func() {
		var err error
		a, err = NewAllocator("Buddy", 1024, 16)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should reject invalid configurations", func() {
		_, err := NewAllocator("Buddy", 1000, 16)
		Expect(err).To(MatchError(ErrInvalidConfiguration))

		_, err = NewAllocator("Buddy", 1024, 24)
		Expect(err).To(MatchError(ErrInvalidConfiguration))

		_, err = NewAllocator("Buddy", 64, 128)
		Expect(err).To(MatchError(ErrInvalidConfiguration))

		_, err = NewAllocator("Buddy", 0, 0)
		Expect(err).To(MatchError(ErrInvalidConfiguration))
	})

	It("should start with one block covering all memory", func() {
		Expect(a.Dump()).To(Equal([]FreeList{
			{Size: 1024, Addresses: []uint64{0}},
		}))
	})

	It("should round sizes up", func() {
		Expect(a.BlockSize(100)).To(Equal(uint64(128)))
		Expect(a.BlockSize(128)).To(Equal(uint64(128)))
		Expect(a.BlockSize(3)).To(Equal(uint64(16)))
		Expect(a.BlockSize(0)).To(Equal(uint64(16)))
	})

	It("should split and merge buddies", func() {
		addr, err := a.Allocate(100)
		Expect(err).NotTo(HaveOccurred())
		Expect(addr).To(Equal(uint64(0)))

		Expect(a.Dump()).To(Equal([]FreeList{
			{Size: 128, Addresses: []uint64{128}},
			{Size: 256, Addresses: []uint64{256}},
			{Size: 512, Addresses: []uint64{512}},
		}))

		addr, err = a.Allocate(100)
		Expect(err).NotTo(HaveOccurred())
		Expect(addr).To(Equal(uint64(128)))

		Expect(a.Free(0, 128)).To(Succeed())
		Expect(a.Dump()).To(ContainElement(
			FreeList{Size: 128, Addresses: []uint64{0}}))

		Expect(a.Free(128, 128)).To(Succeed())
		Expect(a.Dump()).To(Equal([]FreeList{
			{Size: 1024, Addresses: []uint64{0}},
		}))
	})

	It("should fail when no block is large enough", func() {
		_, err := a.Allocate(2048)
		Expect(err).To(MatchError(ErrNoSpace))

		_, err = a.Allocate(1024)
		Expect(err).NotTo(HaveOccurred())

		_, err = a.Allocate(1)
		Expect(err).To(MatchError(ErrNoSpace))

		stats := a.Stats()
		Expect(stats.Allocations).To(Equal(uint64(1)))
		Expect(stats.Failures).To(Equal(uint64(2)))
		Expect(stats.Free).To(Equal(uint64(0)))
	})

	It("should reject misaligned or out of range frees", func() {
		Expect(a.Free(8, 16)).To(MatchError(ErrInvalidAddress))
		Expect(a.Free(1024, 16)).To(MatchError(ErrInvalidAddress))
		Expect(a.Free(0, 4096)).To(MatchError(ErrInvalidAddress))
	})

	It("should restore the free lists after an allocate and free round trip", func() {
		r := rand.New(rand.NewSource(7))

		for i := 0; i < 200; i++ {
			before := a.Dump()
			size := uint64(r.Intn(1024) + 1)

			addr, err := a.Allocate(size)
			if err != nil {
				continue
			}

			Expect(a.Free(addr, size)).To(Succeed())
			Expect(a.Dump()).To(Equal(before))

			if r.Intn(3) == 0 {
				_, _ = a.Allocate(uint64(r.Intn(64) + 1))
			}
		}
	})

	It("should never list one address under two sizes", func() {
		r := rand.New(rand.NewSource(3))
		type live struct{ addr, size uint64 }
		blocks := []live{}

		for i := 0; i < 500; i++ {
			if len(blocks) > 0 && r.Intn(2) == 0 {
				idx := r.Intn(len(blocks))
				Expect(a.Free(blocks[idx].addr, blocks[idx].size)).To(Succeed())
				blocks = append(blocks[:idx], blocks[idx+1:]...)
			} else {
				size := uint64(r.Intn(200) + 1)
				addr, err := a.Allocate(size)
				if err == nil {
					blocks = append(blocks, live{addr, size})
				}
			}

			seen := map[uint64]bool{}
			for _, l := range a.Dump() {
				for _, addr := range l.Addresses {
					Expect(seen[addr]).To(BeFalse())
					seen[addr] = true
				}
			}
		}

		for _, b := range blocks {
			Expect(a.Free(b.addr, b.size)).To(Succeed())
		}

		Expect(a.Dump()).To(Equal([]FreeList{
			{Size: 1024, Addresses: []uint64{0}},
		}))
	})

	It("should invoke hooks", func() {
		recorder := &hookRecorder{}
		a.AcceptHook(recorder)

		addr, _ := a.Allocate(16)
		_ = a.Free(addr, 16)

		Expect(recorder.ctxs).To(HaveLen(2))
		Expect(recorder.ctxs[0].Pos).To(BeIdenticalTo(HookPosAlloc))
		Expect(recorder.ctxs[0].Item).To(Equal(Region{Address: 0, Size: 16}))
		Expect(recorder.ctxs[1].Pos).To(BeIdenticalTo(HookPosFree))
		Expect(recorder.ctxs[1].Detail).To(Equal(Region{Address: 0, Size: 1024}))
	})
})
