package program

// SecondsPerDay is the fixed discrete-day boundary used by the
// accounting day, per SPEC_FULL.md §4.1.
const SecondsPerDay int64 = 86400

// rawDayIndex maps a block timestamp to a non-negative day offset from
// startTs. Timestamps before startTs clamp to day 0 rather than
// underflowing, per spec.
func rawDayIndex(op string, blockTs, startTs int64) (uint64, error) {
	if blockTs < startTs {
		return 0, nil
	}
	delta := blockTs - startTs
	if delta < 0 {
		// Only reachable if the subtraction itself overflowed int64,
		// which cannot happen for blockTs >= startTs on real clocks,
		// but is guarded for completeness.
		return 0, perr(op, ArithmeticUnderflow, "day index subtraction underflow")
	}
	return uint64(delta) / uint64(SecondsPerDay), nil
}

// boundedDayIndex clamps raw to the issuance's closing day index.
func boundedDayIndex(raw, finalDayIndex uint64) uint64 {
	if raw > finalDayIndex {
		return finalDayIndex
	}
	return raw
}

// FinalDayIndex computes the derived invariant of SPEC_FULL.md §3:
// final_day_index = max(0, (maturity_ts - start_ts) / 86400).
func FinalDayIndex(startTs, maturityTs int64) uint64 {
	if maturityTs <= startTs {
		return 0
	}
	return uint64(maturityTs-startTs) / uint64(SecondsPerDay)
}

// FinalizeGlobal advances the issuance's global weight accumulator to
// the day index implied by now, per SPEC_FULL.md §4.1. It returns the
// bounded current day index. Calling it with a now that does not
// advance the day index is a no-op (the monotonic day-accounting rule:
// last_day_index never decreases).
func FinalizeGlobal(op string, rec *IssuanceRecord, now int64) (uint64, error) {
	raw, err := rawDayIndex(op, now, rec.StartTs)
	if err != nil {
		return 0, err
	}
	current := boundedDayIndex(raw, rec.FinalDayIndex)

	if current > rec.LastDayIndex {
		elapsed := U128FromUint64(current - rec.LastDayIndex)
		delta, err := rec.TotalLocked.Mul(op, elapsed)
		if err != nil {
			return 0, err
		}
		sum, err := rec.TotalWeightAccum.Add(op, delta)
		if err != nil {
			return 0, err
		}
		rec.TotalWeightAccum = sum
		rec.LastDayIndex = current
	}

	if rec.LastDayIndex > rec.FinalDayIndex {
		return 0, perr(op, InvariantViolation, "last_day_index exceeds final_day_index")
	}
	return current, nil
}

// AdvanceUser advances a single participant's weight accumulator to
// current, lazily catching it up to the global clock.
func AdvanceUser(op string, rec *ParticipantRecord, current uint64) error {
	if current > rec.UserLastDayIndex {
		elapsed := U128FromUint64(current - rec.UserLastDayIndex)
		delta, err := rec.LockedAmount.Mul(op, elapsed)
		if err != nil {
			return err
		}
		sum, err := rec.UserWeightAccum.Add(op, delta)
		if err != nil {
			return err
		}
		rec.UserWeightAccum = sum
		rec.UserLastDayIndex = current
	}
	return nil
}
