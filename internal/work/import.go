package work

// EntryFailure describes one rejected entry of a bulk import.
type EntryFailure struct {
	Index int
	Entry RawEntry
	Err   *ValidationError
}

// ImportResult holds the records built from a batch and the entries that
// were rejected, both in input order.
type ImportResult struct {
	Records  []AttendanceRecord
	Failures []EntryFailure
}

// ImportEntries builds every entry independently; a rejected entry never
// stops the remaining ones from being processed.
func ImportEntries(entries []RawEntry, p Policy) ImportResult {
	result := ImportResult{
		Records: make([]AttendanceRecord, 0, len(entries)),
	}
	for i, entry := range entries {
		rec, verr := build(entry, p)
		if verr != nil {
			result.Failures = append(result.Failures, EntryFailure{Index: i, Entry: entry, Err: verr})
			continue
		}
		result.Records = append(result.Records, rec)
	}
	return result
}
