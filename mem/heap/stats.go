package heap

// Stats summarizes the utilization and fragmentation of the heap.
type Stats struct {
	Total                    uint64
	Used                     uint64
	Free                     uint64
	LargestFree              uint64
	InternalFragmentation    uint64
	ExternalFragmentationPct float64
	UtilizationPct           float64
	Requests                 uint64
	Successes                uint64
	SuccessRatio             float64
}

// Stats walks the block list and computes the current statistics.
func (a *Allocator) Stats() Stats {
	s := Stats{
		Total:     a.total,
		Requests:  a.requests,
		Successes: a.successes,
	}

	for e := a.blocks.Front(); e != nil; e = e.Next() {
		b := e.Value.(*Block)
		if b.IsFree {
			s.Free += b.Size
			if b.Size > s.LargestFree {
				s.LargestFree = b.Size
			}

			continue
		}

		s.Used += b.Size
		s.InternalFragmentation += b.Size - b.Requested
	}

	if s.Free > 0 {
		s.ExternalFragmentationPct =
			(1 - float64(s.LargestFree)/float64(s.Free)) * 100
	}

	if s.Total > 0 {
		s.UtilizationPct = float64(s.Used) / float64(s.Total) * 100
	}

	if s.Requests > 0 {
		s.SuccessRatio = float64(s.Successes) / float64(s.Requests)
	}

	return s
}
