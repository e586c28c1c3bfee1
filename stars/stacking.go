package stars

import (
	"github.com/go-gl/mathgl/mgl32"

	"osustars/math32"
)

func distance(a, b mgl32.Vec2) float32 {
	return a.Sub(b).Len()
}

// resolveStacks picks the stacking algorithm for the map format version.
func resolveStacks(objects []Object, version int, threshold float32) {
	if version >= 6 {
		stackModern(objects, threshold)
	} else {
		stackLegacy(objects, threshold)
	}
}

// stackModern walks candidates from the last object backwards and stacks
// every earlier object that overlaps within threshold ms.
func stackModern(objects []Object, threshold float32) {
	if len(objects) == 0 {
		return
	}

	extendedStart := 0

	for i := len(objects) - 1; i > 0; i-- {
		n := i

		// We should check every note which has not yet got a stack.
		// Consider the case we have two interwound stacks and this will make sense.
		//   o <-1      o <-2
		//    o <-3      o <-4
		// We first process starting from 4 and handle 2,
		// then we come backwards on the i loop iteration until we reach 3 and handle 1.
		// 2 and 1 will be ignored in the i loop because they already have a stack value.
		objI := i

		if math32.Abs(objects[objI].StackHeight) > 0 || objects[objI].IsSpinner() {
			continue
		}

		// A circle either ends a stack of circles only, or a stack of circles under a slider.
		if objects[objI].IsCircle() {
			for n > 0 {
				n--

				if objects[n].IsSpinner() {
					continue
				}

				if objects[objI].Time-objects[n].EndTime > threshold {
					break // no longer within stacking range of the previous object
				}

				// Objects before the resolved range haven't been reset yet.
				if n < extendedStart {
					objects[n].StackHeight = 0
					extendedStart = n
				}

				// Circles under the *last* slider of a stacked pattern move DOWN and RIGHT.
				//    o==o <- slider is at original location
				//        o <- hitCircle has stack of -1
				//         o <- hitCircle has stack of -2
				if objects[n].IsSlider() && distance(objects[n].EndPos, objects[objI].Pos) < stackDistance {
					offset := objects[objI].StackHeight - objects[n].StackHeight + 1

					for j := n + 1; j <= i; j++ {
						// Every object declared under this slider is offset below the slider end.
						if distance(objects[n].EndPos, objects[j].Pos) < stackDistance {
							objects[j].StackHeight -= offset
						}
					}

					// The slider keeps a stack of 0 and is resolved by the outer loop.
					break
				}

				if distance(objects[n].Pos, objects[objI].Pos) < stackDistance {
					// Keep processing as if there are no sliders; a slider cancels this out.
					objects[n].StackHeight = objects[objI].StackHeight + 1
					objI = n
				}
			}
		} else if objects[objI].IsSlider() {
			// First slider of a possible stack: from here on, always stack positive.
			for n > 0 {
				n--

				if objects[n].IsSpinner() {
					continue
				}

				if objects[objI].Time-objects[n].Time > threshold {
					break
				}

				if distance(objects[n].EndPos, objects[objI].Pos) < stackDistance {
					objects[n].StackHeight = objects[objI].StackHeight + 1
					objI = n
				}
			}
		}
	}
}

// stackLegacy is the forward-scanning algorithm of format versions before 6.
func stackLegacy(objects []Object, threshold float32) {
	for i := range objects {
		if objects[i].IsSpinner() {
			continue
		}

		if objects[i].StackHeight != 0 && !objects[i].IsSlider() {
			continue
		}

		startTime := objects[i].EndTime
		endPos := objects[i].EndPos

		var sliderStack float32

		for j := i + 1; j < len(objects); j++ {
			if objects[j].IsSpinner() {
				continue
			}

			if objects[j].Time-threshold > startTime {
				break
			}

			if distance(objects[j].Pos, objects[i].Pos) < stackDistance {
				objects[i].StackHeight++
				startTime = objects[j].EndTime
			} else if distance(objects[j].Pos, endPos) < stackDistance {
				// Sliders stacking underneath get progressively more negative offsets.
				sliderStack++
				objects[j].StackHeight -= sliderStack
				startTime = objects[j].EndTime
			}
		}
	}
}
