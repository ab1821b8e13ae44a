// Package nrmoifits turns calibrated non-redundant aperture masking (NRM)
// measurements into OIFITS files.
//
// 🚀 What does it do?
//
//	Given the hole positions of a mask and per-channel calibrated data it
//		• enumerates every baseline and closure triangle with (u,v) coordinates
//		• rebuilds triple amplitudes (and errors) from squared visibilities
//		• flags closure phases above a configurable ceiling
//		• writes OI_WAVELENGTH, OI_ARRAY, OI_TARGET, OI_VIS, OI_VIS2, OI_T3
//		  (plus an optional COVARIANCE image) and reads the file back
//
// Input arrives either as in-memory [channel × baseline|triangle] arrays or
// as text tables named <path><kw>[err][_<ch>].txt.
//
// Subpackages, leaf first:
//
//	geometry/   — canonical pair/triple order, baseline & triangle tables
//	matrix/     — dense float matrix with validators, Transpose and Add
//	closure/    — symmetric amplitude matrix and triple-product propagation
//	spectral/   — wavelength table with symmetric/asymmetric clipping
//	txtdata/    — text-table reader
//	config/     — typed configuration, .env and key/value loaders
//	observable/ — OIFITS record builder
//	oifits/     — FITS binary-table writer and reader
//	archive/    — local, in-memory, S3 and MinIO blob stores
//	prommetrics/ — Prometheus MetricsCollector
//
// A typical run:
//
//	cfg, _ := config.FromEnvFile("run.env")
//	conv, _ := nrmoifits.New(mask, cfg)
//	ch, _ := spectral.Uniform(wavelengths, spectral.Symmetric(2))
//	coll, _ := conv.BuildFromText(ch)
//	key, _ := conv.Write(ctx, archive.NewLocalStore(""), coll, "target.oifits")
package nrmoifits
