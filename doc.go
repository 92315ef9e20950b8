// Package lcevc implements the core enhancement decoder for LCEVC (Low
// Complexity Enhancement Video Coding, MPEG-5 Part 2).
//
// Given a stream of already-decoded base pictures and a parallel stream of
// pre-parsed LCEVC enhancement bitstream data, the core produces enhanced
// (typically higher-resolution) output pictures by applying residual
// corrections. It does not parse the bitstream, decode the base layer, or
// expose a C-style handle API — those are external collaborators.
//
// The pipeline for one frame is:
//
//	entropy decode -> dequantize + inverse Hadamard -> temporal state machine
//	-> command buffer -> apply to base picture -> vertical upscale
//	-> horizontal upscale -> output picture
//
// Basic usage:
//
//	dec, err := lcevc.NewDecoder(globalConfig, lcevc.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = dec.DecodeFrame(frameConfig, basePlanes, outputPlanes)
package lcevc
