// Package pcdio reads and writes PCD (Point Cloud Data) files.
//
// A PCD file is a text header followed by a point body in one of three encodings:
// ascii, binary (little-endian records) or binary_compressed (a compressed
// structure-of-arrays block). Points are decoded into a storage.PointBlock, a columnar
// store with one typed slice per field.
//
// # Reading
//
//	r, err := pcdio.NewReader(f)
//	if err != nil { ... }
//	block, err := r.ReadAll()
//	xyz, ok := block.XYZ()
//
// A file can also be memory-mapped; binary bodies are then decoded by several goroutines:
//
//	r, err := pcdio.OpenMmap("scan.pcd", pcdio.WithWorkers(8))
//	if err != nil { ... }
//	defer r.Close()
//	block, err := r.ReadAll()
//
// # Writing
//
//	w, err := pcdio.NewWriter(f, pcdio.WithCompression(format.CompressionLZF))
//	if err != nil { ... }
//	err = w.WriteBlock(block, format.BinaryCompressed)
//
// # Package Structure
//
// This package wires the header, layout, decoder and encoder packages together. Use them
// directly for finer control, for example to decode a body into a caller-owned block.
package pcdio
