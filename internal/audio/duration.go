package audio

import (
	"bytes"
	"time"

	"github.com/go-audio/wav"
)

// DefaultDurationSeconds is reported to the recognition provider when the
// real clip duration cannot be determined. The provider requires the
// parameter but does not validate it.
const DefaultDurationSeconds = 300

// DurationSeconds probes a WAV header for the clip duration, rounded up to
// whole seconds. Non-WAV or malformed input falls back to
// DefaultDurationSeconds rather than failing the upload.
func DurationSeconds(data []byte) int {
	dec := wav.NewDecoder(bytes.NewReader(data))
	d, err := dec.Duration()
	if err != nil || d <= 0 {
		return DefaultDurationSeconds
	}
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
