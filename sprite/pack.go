package sprite

// A blit is one unit of the stream. n is in pixels. fill holds the value of
// a fill blit and data the values of a data blit.
type blit struct {
	code int
	n    int
	eol  bool
	fill uint16
	data []uint16
}

// Turn value runs into blits. Values repeated at least minFill times become
// fill blits, everything else in between is gathered into data blits.
func packRuns(runs []valueRun, minFill, pixelsPerValue int) []blit {
	var blits []blit

	for _, r := range runs {
		if r.vals == nil {
			blits = append(blits, blit{code: codeSkip, n: r.n, eol: r.eol})
			continue
		}

		var sub []blit
		for i := 0; i < len(r.vals); {
			j := i + 1
			for j < len(r.vals) && r.vals[j] == r.vals[i] {
				j++
			}
			n := j - i

			switch {
			case n >= minFill:
				sub = append(sub, blit{code: codeFill, n: n * pixelsPerValue, fill: r.vals[i]})
			case len(sub) > 0 && sub[len(sub)-1].code == codeData:
				last := &sub[len(sub)-1]
				last.n += n * pixelsPerValue
				last.data = append(last.data, r.vals[i:j]...)
			default:
				sub = append(sub, blit{code: codeData, n: n * pixelsPerValue, data: append([]uint16(nil), r.vals[i:j]...)})
			}

			i = j
		}

		// Only the last blit of the run ends the line
		last := &sub[len(sub)-1]
		last.eol = r.eol

		// Pairs of an odd run are one pixel longer than the run
		if pixelsPerValue == 2 && r.n%2 == 1 {
			last.n--
		}

		blits = append(blits, sub...)
	}

	return blits
}
