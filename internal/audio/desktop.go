//go:build !test

package audio

import "github.com/ebitengine/oto/v3"

func platformInitContext(sampleRate int) *oto.Context {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		// leave ctx nil; Play will no-op
		return nil
	}
	<-ready
	return ctx
}
