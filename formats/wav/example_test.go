// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"fmt"
	"log"
	"os"

	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/sample"
)

func ExampleNewWriter() {
	f, err := os.CreateTemp("", "example-*.wav")
	if err != nil {
		log.Fatal(err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	w, err := wav.NewWriter(f, sample.Descriptor{Channels: 1, FrameRate: 8000, BitDepth: 16})
	if err != nil {
		log.Fatal(err)
	}

	frames := make([][]float64, 100)
	for i := range frames {
		frames[i] = []float64{0.25}
	}
	if _, err := w.Write(sample.EncodeFrames(frames, w.Format())); err != nil {
		log.Fatal(err)
	}
	if err := w.Close(); err != nil {
		log.Fatal(err)
	}

	info, err := f.Stat()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(w.Format(), info.Size())
	// Output: S16LE 244
}
