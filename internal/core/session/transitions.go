package session

// Reduce applies ev to s and returns the resulting snapshot.
// This is a pure function: s is left untouched.
//
// Responses carry the tag assigned when their request was issued. A response
// whose tag is not the latest issued tag of its kind is stale: it only
// releases its in-flight slot and never changes data (last request wins).
func Reduce(s Snapshot, ev Event) Snapshot {
	next := s
	next.Version = s.Version + 1

	switch e := ev.(type) {
	case FetchIssued:
		next.GeneID = e.GeneID
		next.LatestFetchTag = s.LatestFetchTag + 1
		next.FetchInFlight = s.FetchInFlight + 1

	case SequenceFetched:
		next.FetchInFlight = release(s.FetchInFlight)
		if !s.IsCurrentFetch(e.Tag) {
			break
		}
		seq := e.Sequence
		next.Sequence = &seq
		next.Region = FullRegion(seq.Len())
		next.LastError = ""

	case FetchFailed:
		next.FetchInFlight = release(s.FetchInFlight)
		if s.IsCurrentFetch(e.Tag) {
			next.LastError = e.Message
		}

	case DesignIssued:
		next.LatestDesignTag = s.LatestDesignTag + 1
		next.DesignInFlight = s.DesignInFlight + 1

	case GuidesDesigned:
		next.DesignInFlight = release(s.DesignInFlight)
		if !s.IsCurrentDesign(e.Tag) {
			break
		}
		candidates := make([]GuideCandidate, len(e.Candidates))
		copy(candidates, e.Candidates)
		next.Candidates = candidates
		next.LastError = ""

	case DesignFailed:
		next.DesignInFlight = release(s.DesignInFlight)
		if s.IsCurrentDesign(e.Tag) {
			next.LastError = e.Message
		}

	case RegionSelected:
		next.Region = e.Region

	default:
		// Unknown events leave the data alone.
		next.Version = s.Version
	}

	return next
}

func release(inFlight int) int {
	if inFlight <= 0 {
		return 0
	}
	return inFlight - 1
}
