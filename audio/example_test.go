// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"fmt"
	"log"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/audiotest"
)

// ExampleConform converts a stereo 8kHz source to the mono 16kHz layout of
// a mixer.
func ExampleConform() {
	src := audiotest.NewConstantSource(8000, 2, 800, 0.5)

	out, err := audio.Conform(src, 16000, 1)
	if err != nil {
		log.Fatal(err)
	}

	frames, err := audio.ReadFrames(out, 4096)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%d Hz, %d ch, %d frames, first %.2f\n", out.SampleRate(), out.Channels(), len(frames), frames[0][0])
	// Output: 16000 Hz, 1 ch, 1600 frames, first 0.50
}
