// Package preview renders audio through a software model of SigmaStudio
// blocks, so block settings can be auditioned before they are written to a
// DSP.
//
// # Overview
//
// A Model is built from the same parameter structs the sigmadsp block
// writers take. Coefficients are computed by the algo package and quantized
// to the 5.23 cells the DSP would receive:
//
//	m := preview.New(48000)
//	eq := algo.NewSecondOrderEQ(algo.Peaking, 1000)
//	eq.Boost = -6
//	if err := m.EQSecondOrder(eq); err != nil {
//	    log.Fatal(err)
//	}
//	if err := m.Volume(-3); err != nil {
//	    log.Fatal(err)
//	}
//
// # Files
//
// WAV and MP3 input are decoded with go-audio and go-mp3; output is PCM WAV:
//
//	buf, err := preview.ReadFile("in.mp3")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := m.Process(buf); err != nil {
//	    log.Fatal(err)
//	}
//	err = preview.WriteFile("out.wav", buf, 16)
//
// The input must already be at the model's sample rate; no resampling is
// done.
package preview
