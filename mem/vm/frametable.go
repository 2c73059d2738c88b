package vm

import "fmt"

// A FrameTable maps physical frames back to the virtual page stored in them.
type FrameTable struct {
	frameToPage []int
}

// NewFrameTable creates a frame table where all frames are free.
func NewFrameTable(numFrames int) *FrameTable {
	t := &FrameTable{frameToPage: make([]int, numFrames)}
	for i := range t.frameToPage {
		t.frameToPage[i] = -1
	}

	return t
}

// NumFrames returns the number of physical frames.
func (t *FrameTable) NumFrames() int {
	return len(t.frameToPage)
}

// FreeFrame returns the lowest numbered free frame.
func (t *FrameTable) FreeFrame() (int, bool) {
	for frame, page := range t.frameToPage {
		if page == -1 {
			return frame, true
		}
	}

	return -1, false
}

// PageIn returns the page stored in the frame, or -1 if the frame is free.
func (t *FrameTable) PageIn(frame int) int {
	return t.frameToPage[frame]
}

// Assign records that the page now lives in the frame. The frame must be free.
func (t *FrameTable) Assign(frame, page int) {
	if t.frameToPage[frame] != -1 {
		panic(fmt.Sprintf("frame %d already holds page %d",
			frame, t.frameToPage[frame]))
	}

	t.frameToPage[frame] = page
}

// Release marks the frame free.
func (t *FrameTable) Release(frame int) {
	t.frameToPage[frame] = -1
}

// Pages returns a copy of the frame to page mapping.
func (t *FrameTable) Pages() []int {
	return append([]int(nil), t.frameToPage...)
}
