package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/krish-2325/memory-management-simulator/sim"
)

type accessRecorder struct {
	results []AccessResult
}

func (r *accessRecorder) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosAccess {
		return
	}

	r.results = append(r.results, ctx.Item.(AccessResult))
}

var _ = Describe("Hierarchy", func() {
	var (
		h *Hierarchy
	)

	BeforeEach(func() {
		var err error
		h, err = MakeBuilder().Build()
		Expect(err).NotTo(HaveOccurred())
	})

	It("should build the default levels", func() {
		Expect(h.Configs()).To(Equal(DefaultConfigs()))
	})

	It("should go to memory on a cold access", func() {
		result := h.Access(0x40)

		Expect(result.Outcomes).To(Equal([]LevelOutcome{
			{Level: "L1", Hit: false},
			{Level: "L2", Hit: false},
			{Level: "L3", Hit: false},
		}))
		Expect(result.HitLevel()).To(Equal(""))
	})

	It("should stop at the first hit", func() {
		h.Access(0x40)
		result := h.Access(0x40)

		Expect(result.Outcomes).To(Equal([]LevelOutcome{{Level: "L1", Hit: true}}))
		Expect(result.HitLevel()).To(Equal("L1"))

		stats := h.Stats()
		Expect(stats[0].Hits).To(Equal(uint64(1)))
		Expect(stats[1].Misses).To(Equal(uint64(1)))
		Expect(stats[2].Misses).To(Equal(uint64(1)))
	})

	It("should fill only the levels that missed", func() {
		// L1 has 4 direct-mapped sets, so 0x0 and 0x40 collide there.
		h.Access(0x0)
		h.Access(0x40)

		result := h.Access(0x0)
		Expect(result.HitLevel()).To(Equal("L2"))
		Expect(h.Levels()[0].Contains(0x0)).To(BeTrue())
		Expect(h.Levels()[0].Contains(0x40)).To(BeFalse())

		result = h.Access(0x40)
		Expect(result.Outcomes).To(Equal([]LevelOutcome{
			{Level: "L1", Hit: false},
			{Level: "L2", Hit: true},
		}))
	})

	It("should discard state on reinit", func() {
		h.Access(0x40)

		err := h.Reinit(MakeBuilder().WithLevel("L1", 128, 2, LRU).Configs()...)
		Expect(err).NotTo(HaveOccurred())

		Expect(h.Levels()[0].Config().Size).To(Equal(128))
		for _, s := range h.Stats() {
			Expect(s.Hits + s.Misses).To(Equal(uint64(0)))
		}
		Expect(h.Access(0x40).HitLevel()).To(Equal(""))
	})

	It("should keep the old levels when reinit fails", func() {
		err := h.Reinit(LevelConfig{Name: "L1", Size: 10, BlockSize: 16,
			Associativity: 1})
		Expect(err).To(MatchError(ErrInvalidConfiguration))
		Expect(h.Levels()).To(HaveLen(3))

		Expect(h.Reinit()).To(MatchError(ErrInvalidConfiguration))
	})

	It("should invoke hooks on access", func() {
		recorder := &accessRecorder{}
		h.AcceptHook(recorder)

		h.Access(0x10)

		Expect(recorder.results).To(HaveLen(1))
		Expect(recorder.results[0].Address).To(Equal(uint64(0x10)))
	})
})

var _ = Describe("Builder", func() {
	It("should apply the block size to every level", func() {
		configs := MakeBuilder().WithBlockSize(32).Configs()
		for _, c := range configs {
			Expect(c.BlockSize).To(Equal(32))
		}
	})

	It("should append unknown levels", func() {
		configs := MakeBuilder().WithLevel("L4", 4096, 8, LRU).Configs()
		Expect(configs).To(HaveLen(4))
		Expect(configs[3].Name).To(Equal("L4"))
		Expect(configs[3].BlockSize).To(Equal(16))
	})

	It("should not share level slices between builders", func() {
		b := MakeBuilder()
		_ = b.WithLevel("L1", 256, 4, FIFO)
		Expect(b.Configs()[0].Size).To(Equal(64))
	})
})

var _ = Describe("Policy", func() {
	It("should parse names", func() {
		Expect(ParsePolicy("lru")).To(Equal(LRU))
		Expect(ParsePolicy("FIFO")).To(Equal(FIFO))

		_, err := ParsePolicy("random")
		Expect(err).To(MatchError(ErrInvalidConfiguration))
	})
})
