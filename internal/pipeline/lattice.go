package pipeline

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// AssembleTranscript flattens the provider's lattice payload into the spoken
// text. orderResult is the JSON document found in the poll envelope's
// content.orderResult field: an ordered list of lattice segments, each
// carrying its best hypothesis as one more JSON-encoded string (json_1best).
// Concatenation order is fixed by segment order, then time-slice (st.rt)
// order, then word-slot (ws) order; only the first candidate (cw[0]) of each
// slot is taken. A malformed segment fails the whole job; no partial
// transcript is returned.
func AssembleTranscript(orderResult string) (string, error) {
	if !gjson.Valid(orderResult) {
		return "", fmt.Errorf("%w: order result is not valid JSON", ErrTranscriptCorrupt)
	}

	lattice := gjson.Get(orderResult, "lattice")
	if !lattice.IsArray() {
		return "", fmt.Errorf("%w: order result has no lattice", ErrTranscriptCorrupt)
	}

	var text strings.Builder
	var corrupt error
	segIdx := -1

	lattice.ForEach(func(_, segment gjson.Result) bool {
		segIdx++
		best := segment.Get("json_1best").String()
		if !gjson.Valid(best) {
			corrupt = fmt.Errorf("%w: segment %d hypothesis is not valid JSON", ErrTranscriptCorrupt, segIdx)
			return false
		}
		gjson.Get(best, "st.rt").ForEach(func(_, slice gjson.Result) bool {
			slice.Get("ws").ForEach(func(_, slot gjson.Result) bool {
				text.WriteString(slot.Get("cw.0.w").String())
				return true
			})
			return true
		})
		return true
	})

	if corrupt != nil {
		return "", corrupt
	}
	return text.String(), nil
}
