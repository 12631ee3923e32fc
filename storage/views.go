package storage

// XYZ is the coordinate columns of a block.
type XYZ struct {
	X, Y, Z []float32
}

// XYZI adds an F32 intensity column.
type XYZI struct {
	XYZ
	Intensity []float32
}

// XYZRGB adds the packed U32 rgb column.
type XYZRGB struct {
	XYZ
	RGB []uint32
}

// XYZIR is the common LiDAR layout: intensity and U16 ring.
type XYZIR struct {
	XYZI
	Ring []uint16
}

// XYZIRT adds an F64 per-point timestamp to XYZIR.
type XYZIRT struct {
	XYZIR
	Timestamp []float64
}

// XYZ returns the F32 x, y and z columns. It reports false if any is absent or not F32.
func (b *PointBlock) XYZ() (XYZ, bool) {
	x, okx := Lookup[float32](b, "x")
	y, oky := Lookup[float32](b, "y")
	z, okz := Lookup[float32](b, "z")
	if !okx || !oky || !okz {
		return XYZ{}, false
	}

	return XYZ{X: x, Y: y, Z: z}, true
}

func (b *PointBlock) XYZI() (XYZI, bool) {
	xyz, ok := b.XYZ()
	if !ok {
		return XYZI{}, false
	}
	intensity, ok := Lookup[float32](b, "intensity")
	if !ok {
		return XYZI{}, false
	}

	return XYZI{XYZ: xyz, Intensity: intensity}, true
}

func (b *PointBlock) XYZRGB() (XYZRGB, bool) {
	xyz, ok := b.XYZ()
	if !ok {
		return XYZRGB{}, false
	}
	rgb, ok := Lookup[uint32](b, "rgb")
	if !ok {
		return XYZRGB{}, false
	}

	return XYZRGB{XYZ: xyz, RGB: rgb}, true
}

func (b *PointBlock) XYZIR() (XYZIR, bool) {
	xyzi, ok := b.XYZI()
	if !ok {
		return XYZIR{}, false
	}
	ring, ok := Lookup[uint16](b, "ring")
	if !ok {
		return XYZIR{}, false
	}

	return XYZIR{XYZI: xyzi, Ring: ring}, true
}

func (b *PointBlock) XYZIRT() (XYZIRT, bool) {
	xyzir, ok := b.XYZIR()
	if !ok {
		return XYZIRT{}, false
	}
	ts, ok := Lookup[float64](b, "timestamp")
	if !ok {
		return XYZIRT{}, false
	}

	return XYZIRT{XYZIR: xyzir, Timestamp: ts}, true
}
