package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/krish-2325/memory-management-simulator/mem/buddy"
	"github.com/krish-2325/memory-management-simulator/mem/cache"
	"github.com/krish-2325/memory-management-simulator/mem/heap"
	"github.com/krish-2325/memory-management-simulator/mem/vm/mmu"
	"github.com/krish-2325/memory-management-simulator/sim"
)

var _ = Describe("CollectTrace", func() {
	var (
		mockCtrl *gomock.Controller
		tracer   *MockTracer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		tracer = NewMockTracer(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should turn heap hooks into heap events", func() {
		h := heap.NewAllocator("Heap", 64)
		CollectTrace(h, tracer)

		tracer.EXPECT().HeapEvent(HeapEvent{
			Engine:    "Heap",
			Kind:      KindAlloc,
			BlockID:   1,
			Address:   0,
			Size:      16,
			Requested: 16,
			Strategy:  heap.BestFit.String(),
		})
		alloc, err := h.Allocate(heap.BestFit, 16)
		Expect(err).NotTo(HaveOccurred())

		tracer.EXPECT().HeapEvent(HeapEvent{
			Engine:    "Heap",
			Kind:      KindAllocFail,
			BlockID:   -1,
			Requested: 128,
			Strategy:  heap.FirstFit.String(),
		})
		_, err = h.Allocate(heap.FirstFit, 128)
		Expect(err).To(HaveOccurred())

		tracer.EXPECT().HeapEvent(HeapEvent{
			Engine:    "Heap",
			Kind:      KindFree,
			BlockID:   alloc.ID,
			Size:      16,
			Requested: 16,
		})
		Expect(h.Free(alloc.ID)).To(Succeed())
	})

	It("should turn buddy hooks into buddy events", func() {
		b, err := buddy.NewAllocator("Buddy", 64, 16)
		Expect(err).NotTo(HaveOccurred())
		CollectTrace(b, tracer)

		tracer.EXPECT().BuddyEvent(BuddyEvent{
			Engine: "Buddy", Kind: KindAlloc, Address: 0, Size: 16,
		})
		addr, err := b.Allocate(10)
		Expect(err).NotTo(HaveOccurred())

		tracer.EXPECT().BuddyEvent(BuddyEvent{
			Engine: "Buddy", Kind: KindAllocFail, Size: 100,
		})
		_, err = b.Allocate(100)
		Expect(err).To(HaveOccurred())

		tracer.EXPECT().BuddyEvent(BuddyEvent{
			Engine:        "Buddy",
			Kind:          KindFree,
			Address:       0,
			Size:          16,
			MergedAddress: 0,
			MergedSize:    64,
		})
		Expect(b.Free(addr, 10)).To(Succeed())
	})

	It("should turn cache hooks into cache events", func() {
		h, err := cache.MakeBuilder().WithName("Cache").Build()
		Expect(err).NotTo(HaveOccurred())
		CollectTrace(h, tracer)

		tracer.EXPECT().CacheEvent(CacheEvent{
			Engine:   "Cache",
			Kind:     KindCacheAccess,
			Address:  0x40,
			Probed:   3,
			HitLevel: "",
			Outcomes: "L1:miss,L2:miss,L3:miss",
		})
		h.Access(0x40)

		tracer.EXPECT().CacheEvent(CacheEvent{
			Engine:   "Cache",
			Kind:     KindCacheAccess,
			Address:  0x44,
			Probed:   1,
			HitLevel: "L1",
			Outcomes: "L1:hit",
		})
		h.Access(0x44)
	})

	It("should turn mmu hooks into vm events", func() {
		m, err := mmu.MakeBuilder().WithNumFrames(1).WithNumPages(4).Build()
		Expect(err).NotTo(HaveOccurred())
		CollectTrace(m, tracer)

		tracer.EXPECT().VMEvent(VMEvent{
			Engine: "MMU", Kind: KindPageFault,
			VAddr: 0x105, PAddr: 0x5, Page: 1, Frame: 0, Evicted: -1,
		})
		_, err = m.Translate(0x105)
		Expect(err).NotTo(HaveOccurred())

		tracer.EXPECT().VMEvent(VMEvent{
			Engine: "MMU", Kind: KindPageHit,
			VAddr: 0x110, PAddr: 0x10, Page: 1, Frame: 0, Evicted: -1,
		})
		_, err = m.Translate(0x110)
		Expect(err).NotTo(HaveOccurred())

		tracer.EXPECT().VMEvent(VMEvent{
			Engine: "MMU", Kind: KindPageFault,
			VAddr: 0x300, PAddr: 0x0, Page: 3, Frame: 0, Evicted: 1,
		})
		_, err = m.Translate(0x300)
		Expect(err).NotTo(HaveOccurred())

		tracer.EXPECT().VMEvent(VMEvent{
			Engine: "MMU", Kind: KindSegFault,
			VAddr: 0x400, Page: -1, Frame: -1, Evicted: -1,
		})
		_, err = m.Translate(0x400)
		Expect(err).To(HaveOccurred())
	})

	It("should ignore unknown hook positions", func() {
		base := sim.NewHookableBase()
		hook := &traceHook{t: tracer}
		base.AcceptHook(hook)

		base.InvokeHook(sim.HookCtx{
			Domain: base,
			Pos:    &sim.HookPos{Name: "Other"},
		})
	})
})
