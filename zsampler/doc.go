// Package zsampler runs the ZSampler Turbo schedule for Z-Image Turbo.
//
// The schedule is three sampler passes over the same latent:
//
//  1. a short high-noise pass that fixes the composition
//  2. a refinement pass without added noise
//  3. a detail pass with fresh noise from a fixed seed
//
// Sampling itself is done by the host through the Sampler interface; this
// package owns the plan and the chaining.
package zsampler
