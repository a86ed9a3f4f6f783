package predictor

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// splitDelimiter separates the cumulative times in the on-disk encoding of a
// split record, e.g. "0;1000;2200;3000".
const splitDelimiter = ";"

var ErrSplitNotMonotonic = errors.New("splits: checkpoint times decrease")

// SplitRecord is an ordered sequence of cumulative checkpoint times in
// milliseconds. Index 0 is the start, the final index the finish, so a map
// with N checkpoints has a record of length N+1. Times never decrease.
type SplitRecord []int64

// NewSplitRecord returns a zeroed record sized for a map with
// totalCheckpoints checkpoints.
func NewSplitRecord(totalCheckpoints uint) SplitRecord {
	return make(SplitRecord, totalCheckpoints+1)
}

// Covers reports whether the record has an entry for every checkpoint of a
// map with totalCheckpoints checkpoints, including the finish.
func (sr SplitRecord) Covers(totalCheckpoints uint) bool {
	return uint(len(sr)) >= totalCheckpoints+1
}

// FinalTime is the cumulative time at the finish, or 0 for an empty record.
func (sr SplitRecord) FinalTime() int64 {
	if len(sr) == 0 {
		return 0
	}

	return sr[len(sr)-1]
}

// IsZero reports whether the record holds no usable times.
func (sr SplitRecord) IsZero() bool {
	return sr.FinalTime() == 0
}

func (sr SplitRecord) Clone() SplitRecord {
	out := make(SplitRecord, len(sr))
	copy(out, sr)

	return out
}

// Set records the cumulative time at checkpoint index i, ignoring indexes
// outside the record.
func (sr SplitRecord) Set(i uint, ms int64) {
	if int(i) >= len(sr) {
		return
	}

	sr[i] = ms
}

// Encode renders the record in the delimited numeric sequence format used by
// the local split store.
func (sr SplitRecord) Encode() []byte {
	parts := make([]string, len(sr))

	for i, ms := range sr {
		parts[i] = strconv.FormatInt(ms, 10)
	}

	return []byte(strings.Join(parts, splitDelimiter))
}

// DecodeSplitRecord parses the delimited numeric sequence format. Records
// whose times decrease are rejected rather than silently accepted, since a
// corrupt best-split record corrupts every prediction built on it.
func DecodeSplitRecord(data []byte) (SplitRecord, error) {
	text := strings.TrimSpace(string(data))

	if text == "" {
		return SplitRecord{}, nil
	}

	parts := strings.Split(text, splitDelimiter)
	record := make(SplitRecord, len(parts))

	for i, part := range parts {
		ms, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)

		if err != nil {
			return nil, errors.Wrapf(err, "splits: bad value at index %d", i)
		}

		record[i] = ms
	}

	return record, record.Validate()
}

// Validate checks the monotonically non-decreasing invariant.
func (sr SplitRecord) Validate() error {
	for i := 1; i < len(sr); i++ {
		if sr[i] < sr[i-1] {
			return ErrSplitNotMonotonic
		}
	}

	return nil
}
