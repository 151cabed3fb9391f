package transcript

import (
	"github.com/recap-cli/recap/log"
)

// Validate repairs malformed time spans in place and reports how many
// fields were touched. Vendor data occasionally delivers a word whose start
// time lies after its own end, or words leaking outside their parent
// utterance's span; offenders are clamped into range rather than dropped so
// no text is lost.
func Validate(segments []Segment) (repaired int) {
	for i := range segments {
		seg := &segments[i]

		if seg.EndSec < seg.StartSec {
			log.Warnf("transcript: segment %d has inverted span [%v, %v], clamping", i, seg.StartSec, seg.EndSec)
			seg.EndSec = seg.StartSec
			repaired++
		}

		for j := range seg.Words {
			w := &seg.Words[j]

			if w.StartSec < seg.StartSec {
				w.StartSec = seg.StartSec
				repaired++
			}
			if w.EndSec > seg.EndSec && seg.EndSec > 0 {
				w.EndSec = seg.EndSec
				repaired++
			}
			if w.EndSec < w.StartSec {
				log.Warnf("transcript: word %q has inverted span [%v, %v], clamping", w.Text, w.StartSec, w.EndSec)
				w.EndSec = w.StartSec
				repaired++
			}
		}
	}

	if repaired > 0 {
		log.Infof("transcript: repaired %d malformed time spans", repaired)
	}

	return repaired
}
