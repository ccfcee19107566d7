package callback

import "github.com/ygrebnov/asynccoro/internal/taggedptr"

// cancelledTag is the tag value recorded once a CancelSlot has been
// cancelled. 0 means "not yet cancelled".
const cancelledTag = 1

// CancelSlot is the one-shot "on cancel" slot described in spec §4.3/§4.6:
// an atomic tagged pointer whose tag records whether cancellation has
// already happened. Installers add a callback only if the slot has not
// been cancelled yet; Cancel atomically claims the cancelled state and
// fires whatever callback (if any) was installed.
type CancelSlot struct {
	slot taggedptr.TaggedPtr[Callback]
}

// Install attempts to register cb as the callback to run on cancellation.
// It fails (returns false) if the slot was already cancelled; the caller
// should then treat cancellation as having already happened and short
// circuit immediately, per spec §4.6.
func (s *CancelSlot) Install(cb *Callback) bool {
	cur := s.slot.Load()
	if cur.Tag == cancelledTag {
		return false
	}
	return s.slot.CompareAndSwap(cur, taggedptr.Pair[Callback]{Value: cb, Tag: 0})
}

// Clear removes any installed callback without firing it and without
// marking the slot cancelled, used when a suspension resolves normally and
// no longer needs its cancel notification (coroutine_suspender's "reset our
// cancel" step on the last decrement).
func (s *CancelSlot) Clear() *Callback {
	for {
		cur := s.slot.Load()
		if cur.Tag == cancelledTag || cur.Value == nil {
			return nil
		}
		if s.slot.CompareAndSwap(cur, taggedptr.Pair[Callback]{Value: nil, Tag: 0}) {
			return cur.Value
		}
	}
}

// Cancel atomically marks the slot cancelled and returns the previously
// installed callback, if any, so the caller can fire it. Calling Cancel
// more than once is safe; only the first call returns a non-nil callback.
func (s *CancelSlot) Cancel() *Callback {
	for {
		cur := s.slot.Load()
		if cur.Tag == cancelledTag {
			return nil
		}
		if s.slot.CompareAndSwap(cur, taggedptr.Pair[Callback]{Value: nil, Tag: cancelledTag}) {
			return cur.Value
		}
	}
}

// IsCancelled reports whether Cancel has already claimed this slot.
func (s *CancelSlot) IsCancelled() bool {
	return s.slot.Load().Tag == cancelledTag
}
