package sprite

import "sort"

// A pair of 16-bit colors split into its six 5-bit components.
type pairPoint struct {
	key    uint32
	c      [6]int
	weight int
}

func newPairPoint(key uint32, weight int) pairPoint {
	a, b := uint16(key), uint16(key>>16)
	return pairPoint{
		key:    key,
		weight: weight,
		c: [6]int{
			int(a >> 10 & 0x1f), int(a >> 5 & 0x1f), int(a & 0x1f),
			int(b >> 10 & 0x1f), int(b >> 5 & 0x1f), int(b & 0x1f),
		},
	}
}

type pairBox struct {
	points []pairPoint
	dim    int
	width  int
}

func newPairBox(points []pairPoint) pairBox {
	b := pairBox{points: points}
	for d := range points[0].c {
		lo, hi := points[0].c[d], points[0].c[d]
		for _, p := range points[1:] {
			if p.c[d] < lo {
				lo = p.c[d]
			}
			if p.c[d] > hi {
				hi = p.c[d]
			}
		}
		if hi-lo > b.width {
			b.dim, b.width = d, hi-lo
		}
	}
	return b
}

// Split at the weighted median along the widest component.
func (b pairBox) split() (pairBox, pairBox) {
	points := append(b.points[:0:0], b.points...)
	sort.Slice(points, func(i, j int) bool {
		if points[i].c[b.dim] != points[j].c[b.dim] {
			return points[i].c[b.dim] < points[j].c[b.dim]
		}
		return points[i].key < points[j].key
	})

	var total int
	for _, p := range points {
		total += p.weight
	}

	cut, acc := 1, 0
	for i, p := range points {
		acc += p.weight
		if acc*2 >= total {
			cut = i + 1
			break
		}
	}
	if cut >= len(points) {
		cut = len(points) - 1
	}

	return newPairBox(points[:cut]), newPairBox(points[cut:])
}

// Weighted mean of the box as a packed pair.
func (b pairBox) mean() uint32 {
	var sum [6]int
	var total int
	for _, p := range b.points {
		for d, v := range p.c {
			sum[d] += v * p.weight
		}
		total += p.weight
	}
	var c [6]uint32
	for d := range sum {
		c[d] = uint32((sum[d] + total/2) / total)
	}
	a := c[0]<<10 | c[1]<<5 | c[2]
	return (c[3]<<10|c[4]<<5|c[5])<<16 | a
}

// clusterPairs reduces the pairs to at most maxCouples palette entries and
// returns the entry used for every distinct pair. Pairs are kept exactly,
// in first-seen order, when they fit.
func clusterPairs(keys []uint32) ([]uint32, map[uint32]uint8) {
	counts := make(map[uint32]int)
	var distinct []uint32
	for _, k := range keys {
		if counts[k] == 0 {
			distinct = append(distinct, k)
		}
		counts[k]++
	}

	index := make(map[uint32]uint8, len(distinct))

	if len(distinct) <= maxCouples {
		for i, k := range distinct {
			index[k] = uint8(i)
		}
		return distinct, index
	}

	points := make([]pairPoint, len(distinct))
	for i, k := range distinct {
		points[i] = newPairPoint(k, counts[k])
	}

	boxes := []pairBox{newPairBox(points)}
	for len(boxes) < maxCouples {
		widest := -1
		for i, b := range boxes {
			if len(b.points) < 2 {
				continue
			}
			if widest < 0 || b.width > boxes[widest].width || (b.width == boxes[widest].width && len(b.points) > len(boxes[widest].points)) {
				widest = i
			}
		}
		if widest < 0 {
			break
		}
		a, b := boxes[widest].split()
		boxes[widest] = a
		boxes = append(boxes, b)
	}

	entries := make([]uint32, len(boxes))
	for i, b := range boxes {
		entries[i] = b.mean()
		for _, p := range b.points {
			index[p.key] = uint8(i)
		}
	}

	return entries, index
}
