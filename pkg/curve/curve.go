// Package curve maps 2-D points with non-negative integer coordinates to
// their positions on space-filling curves. Morton order interleaves the
// coordinate bits directly. Hilbert order is computed from the Morton index
// with a lookup table that consumes 3 curve levels (6 bits) per step; the
// tables encode the orientation state machine of the curve, with the next
// state in the top 2 bits of each entry.
package curve

import "math/bits"

var hilbertLUT = [256]uint8{
	0x40, 0xc3, 0x01, 0x02, 0x04, 0x45, 0x87, 0x46,
	0x8e, 0x8d, 0x4f, 0xcc, 0x08, 0x49, 0x8b, 0x4a,
	0xfa, 0x3b, 0xf9, 0xb8, 0x7c, 0xff, 0x3d, 0x3e,
	0xf6, 0x37, 0xf5, 0xb4, 0xb2, 0xb1, 0x73, 0xf0,
	0x10, 0x51, 0x93, 0x52, 0xde, 0x1f, 0xdd, 0x9c,
	0x54, 0xd7, 0x15, 0x16, 0x58, 0xdb, 0x19, 0x1a,
	0x20, 0x61, 0xa3, 0x62, 0xee, 0x2f, 0xed, 0xac,
	0x64, 0xe7, 0x25, 0x26, 0x68, 0xeb, 0x29, 0x2a,
	0x00, 0x41, 0x83, 0x42, 0xce, 0x0f, 0xcd, 0x8c,
	0x44, 0xc7, 0x05, 0x06, 0x48, 0xcb, 0x09, 0x0a,
	0x50, 0xd3, 0x11, 0x12, 0x14, 0x55, 0x97, 0x56,
	0x9e, 0x9d, 0x5f, 0xdc, 0x18, 0x59, 0x9b, 0x5a,
	0xba, 0xb9, 0x7b, 0xf8, 0xb6, 0xb5, 0x77, 0xf4,
	0x3c, 0x7d, 0xbf, 0x7e, 0xf2, 0x33, 0xf1, 0xb0,
	0x60, 0xe3, 0x21, 0x22, 0x24, 0x65, 0xa7, 0x66,
	0xae, 0xad, 0x6f, 0xec, 0x28, 0x69, 0xab, 0x6a,
	0xaa, 0xa9, 0x6b, 0xe8, 0xa6, 0xa5, 0x67, 0xe4,
	0x2c, 0x6d, 0xaf, 0x6e, 0xe2, 0x23, 0xe1, 0xa0,
	0x9a, 0x99, 0x5b, 0xd8, 0x96, 0x95, 0x57, 0xd4,
	0x1c, 0x5d, 0x9f, 0x5e, 0xd2, 0x13, 0xd1, 0x90,
	0x70, 0xf3, 0x31, 0x32, 0x34, 0x75, 0xb7, 0x76,
	0xbe, 0xbd, 0x7f, 0xfc, 0x38, 0x79, 0xbb, 0x7a,
	0xca, 0x0b, 0xc9, 0x88, 0x4c, 0xcf, 0x0d, 0x0e,
	0xc6, 0x07, 0xc5, 0x84, 0x82, 0x81, 0x43, 0xc0,
	0xea, 0x2b, 0xe9, 0xa8, 0x6c, 0xef, 0x2d, 0x2e,
	0xe6, 0x27, 0xe5, 0xa4, 0xa2, 0xa1, 0x63, 0xe0,
	0x30, 0x71, 0xb3, 0x72, 0xfe, 0x3f, 0xfd, 0xbc,
	0x74, 0xf7, 0x35, 0x36, 0x78, 0xfb, 0x39, 0x3a,
	0xda, 0x1b, 0xd9, 0x98, 0x5c, 0xdf, 0x1d, 0x1e,
	0xd6, 0x17, 0xd5, 0x94, 0x92, 0x91, 0x53, 0xd0,
	0x8a, 0x89, 0x4b, 0xc8, 0x86, 0x85, 0x47, 0xc4,
	0x0c, 0x4d, 0x8f, 0x4e, 0xc2, 0x03, 0xc1, 0x80,
}

var hilbertInverseLUT = [256]uint8{
	0x40, 0x02, 0x03, 0xc1, 0x04, 0x45, 0x47, 0x86,
	0x0c, 0x4d, 0x4f, 0x8e, 0xcb, 0x89, 0x88, 0x4a,
	0x20, 0x61, 0x63, 0xa2, 0x68, 0x2a, 0x2b, 0xe9,
	0x6c, 0x2e, 0x2f, 0xed, 0xa7, 0xe6, 0xe4, 0x25,
	0x30, 0x71, 0x73, 0xb2, 0x78, 0x3a, 0x3b, 0xf9,
	0x7c, 0x3e, 0x3f, 0xfd, 0xb7, 0xf6, 0xf4, 0x35,
	0xdf, 0x9d, 0x9c, 0x5e, 0x9b, 0xda, 0xd8, 0x19,
	0x93, 0xd2, 0xd0, 0x11, 0x54, 0x16, 0x17, 0xd5,
	0x00, 0x41, 0x43, 0x82, 0x48, 0x0a, 0x0b, 0xc9,
	0x4c, 0x0e, 0x0f, 0xcd, 0x87, 0xc6, 0xc4, 0x05,
	0x50, 0x12, 0x13, 0xd1, 0x14, 0x55, 0x57, 0x96,
	0x1c, 0x5d, 0x5f, 0x9e, 0xdb, 0x99, 0x98, 0x5a,
	0x70, 0x32, 0x33, 0xf1, 0x34, 0x75, 0x77, 0xb6,
	0x3c, 0x7d, 0x7f, 0xbe, 0xfb, 0xb9, 0xb8, 0x7a,
	0xaf, 0xee, 0xec, 0x2d, 0xe7, 0xa5, 0xa4, 0x66,
	0xe3, 0xa1, 0xa0, 0x62, 0x28, 0x69, 0x6b, 0xaa,
	0xff, 0xbd, 0xbc, 0x7e, 0xbb, 0xfa, 0xf8, 0x39,
	0xb3, 0xf2, 0xf0, 0x31, 0x74, 0x36, 0x37, 0xf5,
	0x9f, 0xde, 0xdc, 0x1d, 0xd7, 0x95, 0x94, 0x56,
	0xd3, 0x91, 0x90, 0x52, 0x18, 0x59, 0x5b, 0x9a,
	0x8f, 0xce, 0xcc, 0x0d, 0xc7, 0x85, 0x84, 0x46,
	0xc3, 0x81, 0x80, 0x42, 0x08, 0x49, 0x4b, 0x8a,
	0x60, 0x22, 0x23, 0xe1, 0x24, 0x65, 0x67, 0xa6,
	0x2c, 0x6d, 0x6f, 0xae, 0xeb, 0xa9, 0xa8, 0x6a,
	0xbf, 0xfe, 0xfc, 0x3d, 0xf7, 0xb5, 0xb4, 0x76,
	0xf3, 0xb1, 0xb0, 0x72, 0x38, 0x79, 0x7b, 0xba,
	0xef, 0xad, 0xac, 0x6e, 0xab, 0xea, 0xe8, 0x29,
	0xa3, 0xe2, 0xe0, 0x21, 0x64, 0x26, 0x27, 0xe5,
	0xcf, 0x8d, 0x8c, 0x4e, 0x8b, 0xca, 0xc8, 0x09,
	0x83, 0xc2, 0xc0, 0x01, 0x44, 0x06, 0x07, 0xc5,
	0x10, 0x51, 0x53, 0x92, 0x58, 0x1a, 0x1b, 0xd9,
	0x5c, 0x1e, 0x1f, 0xdd, 0x97, 0xd6, 0xd4, 0x15,
}

// MortonIndex interleaves the bits of x and y. The even bits of the result
// are the bits of x and the odd bits those of y.
func MortonIndex(x, y uint32) uint64 {
	a := spread(x)
	b := spread(y)
	return a | (b << 1)
}

// MortonIndexInverse separates the even and odd bits of z, undoing
// MortonIndex.
func MortonIndexInverse(z uint64) (x, y uint32) {
	return squash(z), squash(z >> 1)
}

// spread doubles the spacing of the low 32 bits of v.
func spread(v uint32) uint64 {
	a := uint64(v)
	a = (a | (a << 16)) & 0x0000ffff0000ffff
	a = (a | (a << 8)) & 0x00ff00ff00ff00ff
	a = (a | (a << 4)) & 0x0f0f0f0f0f0f0f0f
	a = (a | (a << 2)) & 0x3333333333333333
	a = (a | (a << 1)) & 0x5555555555555555
	return a
}

// squash collects the even bits of z into the low 32 bits.
func squash(z uint64) uint32 {
	x := z & 0x5555555555555555
	x = (x | (x >> 1)) & 0x3333333333333333
	x = (x | (x >> 2)) & 0x0f0f0f0f0f0f0f0f
	x = (x | (x >> 4)) & 0x00ff00ff00ff00ff
	x = (x | (x >> 8)) & 0x0000ffff0000ffff
	return uint32(x | (x >> 16))
}

// MortonToHilbert converts the 2m-bit Morton index z to the corresponding
// Hilbert index.
func MortonToHilbert(z uint64, m int) uint64 {
	var h, i uint64
	n := 2 * m
	for n >= 6 {
		n -= 6
		j := hilbertLUT[i|((z>>uint(n))&0x3f)]
		h = (h << 6) | uint64(j&0x3f)
		i = uint64(j & 0xc0)
	}
	if n != 0 {
		// n is 2 or 4; shift the remaining bits up to a full table index
		r := uint(6 - n)
		j := hilbertLUT[i|((z<<r)&0x3f)]
		h = (h << uint(n)) | uint64((j&0x3f)>>r)
	}
	return h
}

// HilbertToMorton converts the 2m-bit Hilbert index h to the corresponding
// Morton index.
func HilbertToMorton(h uint64, m int) uint64 {
	var z, i uint64
	n := 2 * m
	for n >= 6 {
		n -= 6
		j := hilbertInverseLUT[i|((h>>uint(n))&0x3f)]
		z = (z << 6) | uint64(j&0x3f)
		i = uint64(j & 0xc0)
	}
	if n != 0 {
		r := uint(6 - n)
		j := hilbertInverseLUT[i|((h<<r)&0x3f)]
		z = (z << uint(n)) | uint64((j&0x3f)>>r)
	}
	return z
}

// HilbertIndex returns the index of (x, y) on a 2-D Hilbert curve of order m.
// Only the m least significant bits of x and y are used.
func HilbertIndex(x, y uint32, m int) uint64 {
	return MortonToHilbert(MortonIndex(x, y), m)
}

// HilbertIndexInverse returns the point (x, y) with Hilbert index h, where
// x and y are m bit integers.
func HilbertIndexInverse(h uint64, m int) (x, y uint32) {
	return MortonIndexInverse(HilbertToMorton(h, m))
}

// Log2 returns the index of the most significant one bit of x, or 0 when
// x is 0.
func Log2(x uint64) uint8 {
	if x == 0 {
		return 0
	}
	return uint8(bits.Len64(x) - 1)
}
